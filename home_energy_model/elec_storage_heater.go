package home_energy_model

import "math"

type AirFlowType int

const (
	AirFlowTypeFanAssisted AirFlowType = iota
	AirFlowTypeDamperOnly
)

func (a AirFlowType) String() string {
	return [...]string{"fan-assisted", "damper-only"}[a]
}

func AirFlowTypeFromString(s string) (AirFlowType, error) {
	switch s {
	case "fan-assisted":
		return AirFlowTypeFanAssisted, nil
	case "damper-only":
		return AirFlowTypeDamperOnly, nil
	}
	return 0, newConfigurationError("ElecStorageHeater.air_flow_type", "unknown air flow type %q", s)
}

// substep of the core and case heat balance, h
const elec_storage_heater_substep = 1.0 / 60.0

// bisection steps when matching the fan speed to the demand
const elec_storage_heater_fan_iterations = 30

// Lab characteristic of one unit with the fan at full speed: heat drawn from
// the core per kelvin of core-to-room difference, W/K, by core temperature.
var (
	elec_storage_heater_temp_core_characteristic = []float64{20.0, 30.0, 40.0, 50.0, 60.0, 80.0, 100.0, 125.0, 150.0, 200.0}
	elec_storage_heater_fan_conductance          = []float64{0.887, 3.767, 4.056, 4.182, 3.807, 4.209, 4.556, 4.908, 4.953, 5.679}
)

// Core and case temperatures at the start of a run, left over from the
// previous day's charge.
const (
	elec_storage_heater_temp_core_start = 176.6
	elec_storage_heater_temp_case_start = 29.5
)

type ElecStorageHeaterCharacteristicJson struct {
	TempCore    []float64 `json:"temp_core"`   // degree C
	Conductance []float64 `json:"conductance"` // W/K per unit
}

type ElecStorageHeaterJson struct {
	Type              string                               `json:"type"` // "ElecStorageHeater"
	RatedPower        float64                              `json:"rated_power"`         // kW, charging, per unit
	RatedPowerInstant float64                              `json:"rated_power_instant"` // kW, direct-acting element, per unit
	AirFlowType       string                               `json:"air_flow_type"`
	TempDisSafe       float64                              `json:"temp_dis_safe"` // degree C
	FracConvective    float64                              `json:"frac_convective"`
	UIns              float64                              `json:"U_ins"`            // W/m2K
	TempChargeCut     float64                              `json:"temp_charge_cut"`  // degree C
	MassCore          float64                              `json:"mass_core"`        // kg
	CpCore            float64                              `json:"c_pcore"`          // J/kgK
	TempCoreTarget    float64                              `json:"temp_core_target"` // degree C
	ACore             float64                              `json:"A_core"`           // m2
	CWall             float64                              `json:"c_wall"`           // W/K^n
	NWall             float64                              `json:"n_wall"`
	ThermalMass       float64                              `json:"thermal_mass"`      // kWh/K, cases of all units
	ThermalMassWall   float64                              `json:"thermal_mass_wall"` // kJ/K, per unit
	FanPwr            float64                              `json:"fan_pwr"`           // W
	NUnits            int                                  `json:"n_units"`
	TempCoreStart     *float64                             `json:"temp_core_start,omitempty"` // degree C
	TempCaseStart     *float64                             `json:"temp_case_start,omitempty"` // degree C
	FanCharacteristic *ElecStorageHeaterCharacteristicJson `json:"fan_characteristic,omitempty"`
	EnergySupply      string                               `json:"EnergySupply"`
	Control           string                               `json:"Control"`
	ControlCharger    string                               `json:"ControlCharger"`
	Zone              string                               `json:"Zone"`
}

/*
ElecStorageHeater is a set of identical off-peak storage heaters in one zone.

	Each unit has a ceramic core charged electrically when the charge control
	allows and the room is below temp_charge_cut, up to a core temperature set
	by the day's target charge level. The core loses heat through its
	insulation to the case, and the case gives it to the room; this static
	output cannot be controlled. On demand the fan (or damper) opens far
	enough to draw the rest from the core, following the unit's lab
	characteristic of conductance against core temperature. The fan motor's
	own power ends up in the room as well. A direct-acting element tops up
	what a fully open core cannot supply.
*/
type ElecStorageHeater struct {
	service_control
	rated_power         float64 // kW per unit
	rated_power_instant float64 // kW per unit
	air_flow_type       AirFlowType
	frac_convective_val float64
	H_ins               float64 // kW/K, core to case
	temp_charge_cut     float64 // degree C
	heat_capacity_core  float64 // kWh/K
	temp_core_target    float64 // degree C
	c_wall              float64 // kW/K^n
	n_wall              float64
	heat_capacity_wall  float64 // kWh/K
	fan_power           float64 // kW per unit
	n_units             float64
	temp_core_char      []float64
	conductance_char    []float64 // W/K
	zone                emitter_zone
	energy_supply_conn  *EnergySupplyConnection
	simulation_time     *SimulationTime
	charge_control      *ToUChargeControl

	temp_core float64 // degree C
	temp_wall float64 // degree C
}

func NewElecStorageHeater(
	d *ElecStorageHeaterJson,
	zone emitter_zone,
	energy_supply_conn *EnergySupplyConnection,
	simulation_time *SimulationTime,
	control Control,
	charge_control *ToUChargeControl,
) (*ElecStorageHeater, error) {
	air_flow_type, err := AirFlowTypeFromString(d.AirFlowType)
	if err != nil {
		return nil, err
	}
	if d.NUnits < 1 {
		return nil, newConfigurationError("ElecStorageHeater.n_units", "must be at least 1, got %d", d.NUnits)
	}
	if d.MassCore <= 0 || d.CpCore <= 0 {
		return nil, newConfigurationError("ElecStorageHeater.mass_core", "core heat capacity must be positive")
	}
	if d.TempCoreTarget <= d.TempDisSafe {
		return nil, newConfigurationError("ElecStorageHeater.temp_core_target",
			"%g must be above temp_dis_safe %g", d.TempCoreTarget, d.TempDisSafe)
	}

	// thermal_mass covers every case, thermal_mass_wall one of them
	var heat_capacity_wall float64
	switch {
	case d.ThermalMass > 0:
		heat_capacity_wall = d.ThermalMass / float64(d.NUnits)
	case d.ThermalMassWall > 0:
		heat_capacity_wall = d.ThermalMassWall / SECONDS_PER_HOUR
	default:
		return nil, newConfigurationError("ElecStorageHeater.thermal_mass", "thermal_mass or thermal_mass_wall must be positive")
	}

	temp_core_char := elec_storage_heater_temp_core_characteristic
	conductance_char := elec_storage_heater_fan_conductance
	if c := d.FanCharacteristic; c != nil {
		if len(c.TempCore) == 0 || len(c.TempCore) != len(c.Conductance) {
			return nil, newConfigurationError("ElecStorageHeater.fan_characteristic",
				"needs matching temp_core and conductance lists, got %d and %d", len(c.TempCore), len(c.Conductance))
		}
		for i := 1; i < len(c.TempCore); i++ {
			if c.TempCore[i] <= c.TempCore[i-1] {
				return nil, newConfigurationError("ElecStorageHeater.fan_characteristic", "temp_core must be ascending")
			}
		}
		temp_core_char, conductance_char = c.TempCore, c.Conductance
	}

	temp_core := elec_storage_heater_temp_core_start
	if d.TempCoreStart != nil {
		temp_core = *d.TempCoreStart
	}
	temp_wall := elec_storage_heater_temp_case_start
	if d.TempCaseStart != nil {
		temp_wall = *d.TempCaseStart
	}

	return &ElecStorageHeater{
		service_control:     service_control{control: control},
		rated_power:         d.RatedPower,
		rated_power_instant: d.RatedPowerInstant,
		air_flow_type:       air_flow_type,
		frac_convective_val: d.FracConvective,
		H_ins:               convert_W_to_kW(d.UIns * d.ACore),
		temp_charge_cut:     d.TempChargeCut,
		heat_capacity_core:  d.MassCore * d.CpCore / (SECONDS_PER_HOUR * WATTS_PER_KILOWATT),
		temp_core_target:    d.TempCoreTarget,
		c_wall:              convert_W_to_kW(d.CWall),
		n_wall:              d.NWall,
		heat_capacity_wall:  heat_capacity_wall,
		fan_power:           convert_W_to_kW(d.FanPwr),
		n_units:             float64(d.NUnits),
		temp_core_char:      temp_core_char,
		conductance_char:    conductance_char,
		zone:                zone,
		energy_supply_conn:  energy_supply_conn,
		simulation_time:     simulation_time,
		charge_control:      charge_control,
		temp_core:           temp_core,
		temp_wall:           temp_wall,
	}, nil
}

func (h *ElecStorageHeater) frac_convective() float64 {
	return h.frac_convective_val
}

// heat_stored is the heat held by the cores and cases above room temperature, kWh.
func (h *ElecStorageHeater) heat_stored(temp_rm float64) float64 {
	return h.n_units * (h.heat_capacity_core*(h.temp_core-temp_rm) + h.heat_capacity_wall*(h.temp_wall-temp_rm))
}

// temp_core_charge_target is the core temperature the charger aims for in timestep t_idx.
func (h *ElecStorageHeater) temp_core_charge_target(temp_rm float64, t_idx int) float64 {
	level := 1.0
	if h.charge_control != nil {
		level = h.charge_control.target_charge(t_idx)
	}
	return temp_rm + level*(h.temp_core_target-temp_rm)
}

// charge returns the electricity taken by all units, kWh.
func (h *ElecStorageHeater) charge(temp_rm float64, t_idx int) float64 {
	if h.charge_control != nil && !h.charge_control.is_on(t_idx) {
		return 0.0
	}
	if temp_rm >= h.temp_charge_cut {
		return 0.0
	}
	energy_unit := math.Min(
		h.rated_power*h.simulation_time.timestep_at(t_idx),
		h.heat_capacity_core*(h.temp_core_charge_target(temp_rm, t_idx)-h.temp_core),
	)
	if energy_unit <= 0 {
		return 0.0
	}
	h.temp_core += energy_unit / h.heat_capacity_core
	return energy_unit * h.n_units
}

// fan_heat is the heat the fan motor adds to the room, kWh per unit.
func (h *ElecStorageHeater) fan_heat(frac_fan, timestep float64) float64 {
	if h.air_flow_type != AirFlowTypeFanAssisted {
		return 0.0
	}
	return h.fan_power * frac_fan * timestep
}

/*
discharge steps the core and case heat balance of one unit through the
timestep with the fan at frac_fan of full speed.

	Returns the core and case temperatures at the end of the timestep and the
	heat given to the room by one unit, kWh. The state of the heater is left
	unchanged so the caller can try several fan speeds.
*/
func (h *ElecStorageHeater) discharge(temp_rm, frac_fan, timestep float64) (float64, float64, float64) {
	n_substeps := int(math.Ceil(timestep / elec_storage_heater_substep))
	dt := timestep / float64(n_substeps)

	temp_core, temp_wall := h.temp_core, h.temp_wall
	energy_static, energy_fan := 0.0, 0.0
	for i := 0; i < n_substeps; i++ {
		power_core_wall := h.H_ins * (temp_core - temp_wall)
		power_wall_rm := h.c_wall * math.Pow(math.Max(0.0, temp_wall-temp_rm), h.n_wall)
		power_fan := frac_fan * interp(temp_core, h.temp_core_char, h.conductance_char) / WATTS_PER_KILOWATT *
			math.Max(0.0, temp_core-temp_rm)

		temp_core -= (power_core_wall + power_fan) * dt / h.heat_capacity_core
		temp_wall += (power_core_wall - power_wall_rm) * dt / h.heat_capacity_wall
		energy_static += power_wall_rm * dt
		energy_fan += power_fan * dt
	}
	return temp_core, temp_wall, energy_static + energy_fan + h.fan_heat(frac_fan, timestep)
}

/*
fan_speed finds the fraction of full fan speed that meets energy_target
(kWh per unit), bisecting between closed and fully open.

	Returns the fan fraction along with the end state and output of
	discharge at that speed.
*/
func (h *ElecStorageHeater) fan_speed(temp_rm, energy_target, timestep float64) (float64, float64, float64, float64) {
	temp_core, temp_wall, energy := h.discharge(temp_rm, 0.0, timestep)
	if energy >= energy_target {
		return 0.0, temp_core, temp_wall, energy
	}
	temp_core, temp_wall, energy = h.discharge(temp_rm, 1.0, timestep)
	if energy <= energy_target {
		return 1.0, temp_core, temp_wall, energy
	}

	lo, hi := 0.0, 1.0
	for i := 0; i < elec_storage_heater_fan_iterations; i++ {
		mid := (lo + hi) / 2.0
		if _, _, e := h.discharge(temp_rm, mid, timestep); e < energy_target {
			lo = mid
		} else {
			hi = mid
		}
	}
	temp_core, temp_wall, energy = h.discharge(temp_rm, hi, timestep)
	return hi, temp_core, temp_wall, energy
}

// demand_energy returns the heat released to the zone by all units, kWh.
func (h *ElecStorageHeater) demand_energy(energy_demand float64, t_idx int) float64 {
	timestep := h.simulation_time.timestep_at(t_idx)
	temp_rm := h.zone.temp_internal_air()

	energy_charged := h.charge(temp_rm, t_idx)

	if !h.is_on(t_idx) {
		energy_demand = 0.0
	}
	energy_demand = math.Max(0.0, energy_demand)

	energy_target := energy_demand / h.n_units
	frac_fan, temp_core, temp_wall, energy_unit := h.fan_speed(temp_rm, energy_target, timestep)
	h.temp_core, h.temp_wall = temp_core, temp_wall

	energy_instant := math.Min(
		math.Max(0.0, energy_target-energy_unit),
		h.rated_power_instant*timestep,
	)

	// fan electricity is also the fan heat
	energy_fan_elec := h.fan_heat(frac_fan, timestep) * h.n_units

	h.energy_supply_conn.demand_energy(energy_charged+energy_instant*h.n_units+energy_fan_elec, t_idx)
	return (energy_unit + energy_instant) * h.n_units
}
