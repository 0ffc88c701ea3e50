package home_energy_model

import "math"

type InternalGainsJson struct {
	StartDay       int          `json:"start_day"`
	TimeSeriesStep float64      `json:"time_series_step"`
	Schedule       ScheduleJson `json:"schedule"`
	// ApplianceGains only
	GainsFraction float64 `json:"gains_fraction"`
	EnergySupply  string  `json:"EnergySupply"`
}

// InternalGains is a schedule of heat gains per unit floor area.
type InternalGains struct {
	total_internal_gains []float64 // W/m2
	simulation_time      *SimulationTime
	start_day            int
	time_series_step     float64
}

func NewInternalGains(total_internal_gains []float64, simulation_time *SimulationTime, start_day int, time_series_step float64) *InternalGains {
	return &InternalGains{
		total_internal_gains: total_internal_gains,
		simulation_time:      simulation_time,
		start_day:            start_day,
		time_series_step:     time_series_step,
	}
}

func (g *InternalGains) _value(t_idx int) float64 {
	return g.total_internal_gains[g.simulation_time.time_series_idx(t_idx, g.start_day, g.time_series_step)]
}

// total_internal_gain returns the gains over a zone of area m2, W.
func (g *InternalGains) total_internal_gain(zone_area float64, t_idx int) float64 {
	return g._value(t_idx) * zone_area
}

/*
ApplianceGains is a schedule of electricity use per unit floor area.

	All of the electricity is posted to the energy supply; gains_fraction of
	it is released as heat in the zone.
*/
type ApplianceGains struct {
	InternalGains
	energy_supply_conn *EnergySupplyConnection
	gains_fraction     float64
}

func NewApplianceGains(
	total_energy_supply []float64,
	energy_supply_conn *EnergySupplyConnection,
	gains_fraction float64,
	simulation_time *SimulationTime,
	start_day int,
	time_series_step float64,
) *ApplianceGains {
	return &ApplianceGains{
		InternalGains:      *NewInternalGains(total_energy_supply, simulation_time, start_day, time_series_step),
		energy_supply_conn: energy_supply_conn,
		gains_fraction:     gains_fraction,
	}
}

// total_internal_gain posts the electricity of timestep t_idx and returns the heat gain, W.
func (g *ApplianceGains) total_internal_gain(zone_area float64, t_idx int) float64 {
	power := g._value(t_idx) * zone_area
	g.energy_supply_conn.demand_energy(power/WATTS_PER_KILOWATT*g.simulation_time.timestep_at(t_idx), t_idx)
	return power * g.gains_fraction
}

//---------------------------------------------------------------------------------------------------//

// latent heat of vaporisation of water, J/kg
const l_wtr = 2418000.0

// total metabolic heat of a seated adult, W
const q_hum_psn_total = 119.0

/*
OccupantGains is the metabolic heat of the occupants.

	Sensible heat per person falls linearly with room temperature and the
	rest of the 119 W is released as moisture.
*/
type OccupantGains struct {
	occupants        []float64 // number of people in the dwelling
	simulation_time  *SimulationTime
	start_day        int
	time_series_step float64
}

func NewOccupantGains(occupants []float64, simulation_time *SimulationTime, start_day int, time_series_step float64) *OccupantGains {
	return &OccupantGains{
		occupants:        occupants,
		simulation_time:  simulation_time,
		start_day:        start_day,
		time_series_step: time_series_step,
	}
}

/*
Sensible heat from one person.

	Args:
		temp_int_air: zone air temperature, degree C

	Returns:
		sensible heat per person, W
*/
func get_q_hum_psn(temp_int_air float64) float64 {
	return math.Min(63.0-4.0*(temp_int_air-24.0), q_hum_psn_total)
}

// moisture released by one person, kg/s
func get_x_hum_psn(q_hum_psn float64) float64 {
	return (q_hum_psn_total - q_hum_psn) / l_wtr
}

func (o *OccupantGains) n_occupants(t_idx int) float64 {
	return o.occupants[o.simulation_time.time_series_idx(t_idx, o.start_day, o.time_series_step)]
}

// sensible_gain returns the sensible heat of all occupants in a zone holding
// share of the dwelling's floor area, W.
func (o *OccupantGains) sensible_gain(t_idx int, temp_int_air float64, share float64) float64 {
	return o.n_occupants(t_idx) * share * get_q_hum_psn(temp_int_air)
}

// moisture_gain returns the moisture released in a zone, kg/s.
func (o *OccupantGains) moisture_gain(t_idx int, temp_int_air float64, share float64) float64 {
	return o.n_occupants(t_idx) * share * get_x_hum_psn(get_q_hum_psn(temp_int_air))
}
