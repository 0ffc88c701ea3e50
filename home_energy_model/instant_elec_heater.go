package home_energy_model

import "math"

type InstantElecHeaterJson struct {
	RatedPower     float64 `json:"rated_power"` // kW
	FracConvective float64 `json:"frac_convective"`
	EnergySupply   string  `json:"EnergySupply"`
	Control        string  `json:"Control"`
}

// InstantElecHeater is a direct-acting electric room heater.
type InstantElecHeater struct {
	service_control
	rated_power           float64 // kW
	frac_convective_value float64
	energy_supply_conn    *EnergySupplyConnection
	simulation_time       *SimulationTime
}

func NewInstantElecHeater(
	rated_power float64,
	frac_convective float64,
	energy_supply_conn *EnergySupplyConnection,
	simulation_time *SimulationTime,
	control Control,
) *InstantElecHeater {
	return &InstantElecHeater{
		service_control:       service_control{control: control},
		rated_power:           rated_power,
		frac_convective_value: frac_convective,
		energy_supply_conn:    energy_supply_conn,
		simulation_time:       simulation_time,
	}
}

func (h *InstantElecHeater) frac_convective() float64 {
	return h.frac_convective_value
}

// demand_energy returns the heat delivered, kWh, limited by the rated power over the timestep.
func (h *InstantElecHeater) demand_energy(energy_demand float64, t_idx int) float64 {
	if !h.is_on(t_idx) || energy_demand <= 0 {
		return 0.0
	}
	energy_supplied := math.Min(energy_demand, h.rated_power*h.simulation_time.timestep_at(t_idx))
	h.energy_supply_conn.demand_energy(energy_supplied, t_idx)
	return energy_supplied
}
