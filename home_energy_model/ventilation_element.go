package home_energy_model

import (
	"math"
)

const (
	// volumetric heat capacity of air, J/(m3.K)
	p_a_c_a = 1.204 * 1006.0
	// reference wind speed of the infiltration model, m/s
	wind_speed_reference = 4.0
)

// heat capacity of one air change per hour of a 1 m3 volume, W/K
var heat_capacity_air_ach = p_a_c_a / SECONDS_PER_HOUR

// Exposure of the dwelling to wind
type Shelter int

const (
	ShelterSheltered Shelter = iota
	ShelterNormal
	ShelterExposed
)

func (s Shelter) String() string {
	return [...]string{"sheltered", "normal", "exposed"}[s]
}

func ShelterFromString(s string) (Shelter, error) {
	v, ok := map[string]Shelter{
		"sheltered": ShelterSheltered,
		"normal":    ShelterNormal,
		"exposed":   ShelterExposed,
	}[s]
	if !ok {
		return 0, newConfigurationError("Infiltration.shelter", "unknown shelter %q", s)
	}
	return v, nil
}

//---------------------------------------------------------------------------------------------------//

type BuildType int

const (
	BuildTypeHouse BuildType = iota
	BuildTypeFlat
)

func (b BuildType) String() string {
	return [...]string{"house", "flat"}[b]
}

func BuildTypeFromString(s string) (BuildType, error) {
	v, ok := map[string]BuildType{
		"house": BuildTypeHouse,
		"flat":  BuildTypeFlat,
	}[s]
	if !ok {
		return 0, newConfigurationError("Infiltration.build_type", "unknown build type %q", s)
	}
	return v, nil
}

//---------------------------------------------------------------------------------------------------//

// Pressure at which the air tightness test result was measured
type AirTightnessTestType int

const (
	AirTightnessTest50Pa AirTightnessTestType = iota
	AirTightnessTest4Pa
)

func (a AirTightnessTestType) String() string {
	return [...]string{"50Pa", "4Pa"}[a]
}

func AirTightnessTestTypeFromString(s string) (AirTightnessTestType, error) {
	v, ok := map[string]AirTightnessTestType{
		"50Pa": AirTightnessTest50Pa,
		"4Pa":  AirTightnessTest4Pa,
	}[s]
	if !ok {
		return 0, newConfigurationError("Infiltration.test_type", "unknown test type %q", s)
	}
	return v, nil
}

//---------------------------------------------------------------------------------------------------//

// ventilation rates of openings, m3/h per opening
const (
	ventilation_rate_open_chimney           = 80.0
	ventilation_rate_open_flue              = 20.0
	ventilation_rate_closed_fire            = 10.0
	ventilation_rate_flue_solid_fuel_boiler = 20.0
	ventilation_rate_flue_other_heater      = 35.0
	ventilation_rate_blocked_chimney        = 20.0
	ventilation_rate_extract_fan            = 10.0
	ventilation_rate_passive_vent           = 10.0
	ventilation_rate_flueless_gas_fire      = 40.0
)

// divisor converting a 50 Pa test result to an average infiltration rate,
// by number of storeys (1, 2, 3 or more) and shelter
var infiltration_divisor = [3][3]float64{
	{30.7, 24.5, 20.2},
	{28.2, 22.6, 18.6},
	{26.6, 21.3, 17.5},
}

type InfiltrationJson struct {
	Storey             int     `json:"storey"`
	Shelter            string  `json:"shelter"`
	BuildType          string  `json:"build_type"`
	TestResult         float64 `json:"test_result"`
	TestType           string  `json:"test_type"`
	EnvSurfaceArea     float64 `json:"env_area"`
	Volume             float64 `json:"volume"`
	ShelteredSides     int     `json:"sheltered_sides"`
	OpenChimneys       int     `json:"open_chimneys"`
	OpenFlues          int     `json:"open_flues"`
	ClosedFire         int     `json:"closed_fire"`
	FluesFromSolidFuel int     `json:"flues_d"`
	FluesFromOther     int     `json:"flues_e"`
	BlockedChimneys    int     `json:"blocked_chimneys"`
	ExtractFans        int     `json:"extract_fans"`
	PassiveVents       int     `json:"passive_vents"`
	GasFires           int     `json:"gas_fires"`
}

type VentilationJson struct {
	Type            string        `json:"type"` // "NatVent", "MVHR" or "WHEV"
	ReqACH          float64       `json:"req_ach"`
	SFP             float64       `json:"SFP"`
	Efficiency      float64       `json:"efficiency"`
	EnergySupply    string        `json:"EnergySupply"`
	InfiltrationACH float64       `json:"infiltration_ach"` // WHEV only, default 0.25
	Ductwork        *DuctworkJson `json:"ductwork"`
}

/*
VentilationElement is an air flow into a zone.

	h_ve is the heat transfer coefficient of the flow, W/K, for air supplied
	at temp_supply. Fans post their electricity to an energy supply and
	return the share that ends up as heat in the zone, kWh.
*/
type VentilationElement interface {
	h_ve(zone_volume float64, t_idx int, throughput_factor float64) float64
	h_ve_average(zone_volume float64) float64
	temp_supply(t_idx int) float64
	fans(zone_volume float64, t_idx int, throughput_factor float64) float64
}

//---------------------------------------------------------------------------------------------------//

// VentilationElementInfiltration is uncontrolled air leakage through the envelope and openings.
type VentilationElementInfiltration struct {
	infiltration_rate float64 // air changes per hour at the reference wind speed
	ec                *ExternalConditions
}

/*
Args:

	storey          -- number of storeys of a house, or floor level of a flat
	test_result     -- air tightness test result: air changes per hour at 50 Pa,
	                   or air permeability at 4 Pa, m3/(h.m2)
	env_area        -- area of the thermal envelope, m2
	volume          -- volume of the dwelling, m3
	sheltered_sides -- number of sides of the dwelling that are sheltered
	the rest are numbers of openings of each kind
*/
func NewVentilationElementInfiltration(
	storey int,
	shelter Shelter,
	build_type BuildType,
	test_result float64,
	test_type AirTightnessTestType,
	env_area float64,
	volume float64,
	sheltered_sides int,
	open_chimneys int,
	open_flues int,
	closed_fire int,
	flues_d int,
	flues_e int,
	blocked_chimneys int,
	extract_fans int,
	passive_vents int,
	gas_fires int,
	ec *ExternalConditions,
) (*VentilationElementInfiltration, error) {
	if volume <= 0 {
		return nil, newConfigurationError("Infiltration.volume", "must be positive, got %g", volume)
	}
	if storey < 1 {
		return nil, newConfigurationError("Infiltration.storey", "must be at least 1, got %d", storey)
	}

	// air changes per hour at 50 Pa
	var ach_50Pa float64
	switch test_type {
	case AirTightnessTest50Pa:
		ach_50Pa = test_result
	case AirTightnessTest4Pa:
		// SAP 10 conversion of air permeability at 4 Pa to 50 Pa
		q_50Pa := 5.254 * math.Pow(test_result, 0.9241)
		ach_50Pa = q_50Pa * env_area / volume
	default:
		panic(test_type)
	}

	// houses are banded by number of storeys, flats by floor level in pairs
	var storey_band int
	switch build_type {
	case BuildTypeHouse:
		storey_band = storey
	case BuildTypeFlat:
		storey_band = 1 + (storey-1)/2
	default:
		panic(build_type)
	}
	if storey_band > 3 {
		storey_band = 3
	}
	divisor := infiltration_divisor[storey_band-1][shelter]

	openings := float64(open_chimneys)*ventilation_rate_open_chimney +
		float64(open_flues)*ventilation_rate_open_flue +
		float64(closed_fire)*ventilation_rate_closed_fire +
		float64(flues_d)*ventilation_rate_flue_solid_fuel_boiler +
		float64(flues_e)*ventilation_rate_flue_other_heater +
		float64(blocked_chimneys)*ventilation_rate_blocked_chimney +
		float64(extract_fans)*ventilation_rate_extract_fan +
		float64(passive_vents)*ventilation_rate_passive_vent +
		float64(gas_fires)*ventilation_rate_flueless_gas_fire

	shelter_factor := 1.0 - 0.075*float64(sheltered_sides)

	return &VentilationElementInfiltration{
		infiltration_rate: ach_50Pa/divisor + openings/volume*shelter_factor,
		ec:                ec,
	}, nil
}

func NewVentilationElementInfiltrationFromJson(d *InfiltrationJson, ec *ExternalConditions) (*VentilationElementInfiltration, error) {
	shelter, err := ShelterFromString(d.Shelter)
	if err != nil {
		return nil, err
	}
	build_type, err := BuildTypeFromString(d.BuildType)
	if err != nil {
		return nil, err
	}
	test_type, err := AirTightnessTestTypeFromString(d.TestType)
	if err != nil {
		return nil, err
	}
	return NewVentilationElementInfiltration(
		d.Storey, shelter, build_type, d.TestResult, test_type, d.EnvSurfaceArea, d.Volume,
		d.ShelteredSides, d.OpenChimneys, d.OpenFlues, d.ClosedFire, d.FluesFromSolidFuel,
		d.FluesFromOther, d.BlockedChimneys, d.ExtractFans, d.PassiveVents, d.GasFires, ec,
	)
}

func (v *VentilationElementInfiltration) infiltration() float64 {
	return v.infiltration_rate
}

func (v *VentilationElementInfiltration) h_ve(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	ach := v.infiltration_rate * v.ec.wind_speed(t_idx) / wind_speed_reference
	return heat_capacity_air_ach * ach * zone_volume
}

func (v *VentilationElementInfiltration) h_ve_average(zone_volume float64) float64 {
	ach := v.infiltration_rate * v.ec.wind_speed_annual() / wind_speed_reference
	return heat_capacity_air_ach * ach * zone_volume
}

func (v *VentilationElementInfiltration) temp_supply(t_idx int) float64 {
	return v.ec.air_temp(t_idx)
}

func (v *VentilationElementInfiltration) fans(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	return 0.0
}

//---------------------------------------------------------------------------------------------------//

// mechanical_ventilation is shared by the fan driven systems.
type mechanical_ventilation struct {
	air_changes_per_hour float64 // required air changes per hour
	specific_fan_power   float64 // W/(l/s)
	energy_supply_conn   *EnergySupplyConnection
	ec                   *ExternalConditions
	simulation_time      *SimulationTime
}

// fan_energy posts the fan electricity of timestep t_idx and returns it, kWh.
func (m *mechanical_ventilation) fan_energy(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	// flow rate, l/s
	flow_rate := m.air_changes_per_hour * zone_volume * throughput_factor * LITRES_PER_CUBIC_METRE / SECONDS_PER_HOUR
	energy := m.specific_fan_power * flow_rate * m.simulation_time.timestep_at(t_idx) / WATTS_PER_KILOWATT
	m.energy_supply_conn.demand_energy(energy, t_idx)
	return energy
}

func (m *mechanical_ventilation) temp_supply(t_idx int) float64 {
	return m.ec.air_temp(t_idx)
}

//---------------------------------------------------------------------------------------------------//

// MechnicalVentilationHeatRecovery is balanced ventilation with a heat exchanger.
type MechnicalVentilationHeatRecovery struct {
	mechanical_ventilation
	efficiency float64 // heat recovery efficiency, -
	ductwork   *Ductwork
}

func NewMechnicalVentilationHeatRecovery(
	required_air_change_rate float64,
	specific_fan_power float64,
	efficiency float64,
	energy_supply_conn *EnergySupplyConnection,
	ec *ExternalConditions,
	simulation_time *SimulationTime,
	ductwork *Ductwork,
) (*MechnicalVentilationHeatRecovery, error) {
	if efficiency < 0 || efficiency > 1 {
		return nil, newConfigurationError("Ventilation.efficiency", "must be within 0..1, got %g", efficiency)
	}
	return &MechnicalVentilationHeatRecovery{
		mechanical_ventilation: mechanical_ventilation{
			air_changes_per_hour: required_air_change_rate,
			specific_fan_power:   specific_fan_power,
			energy_supply_conn:   energy_supply_conn,
			ec:                   ec,
			simulation_time:      simulation_time,
		},
		efficiency: efficiency,
		ductwork:   ductwork,
	}, nil
}

func (v *MechnicalVentilationHeatRecovery) h_ve(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	return heat_capacity_air_ach * v.air_changes_per_hour * zone_volume * (1.0 - v.efficiency) * throughput_factor
}

func (v *MechnicalVentilationHeatRecovery) h_ve_average(zone_volume float64) float64 {
	return v.h_ve(zone_volume, 0, 1.0)
}

// fans returns the gains from the supply fan, taken as half of the fan energy, kWh
func (v *MechnicalVentilationHeatRecovery) fans(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	return v.fan_energy(zone_volume, t_idx, throughput_factor) / 2.0
}

/*
ductwork_gains returns the heat exchanged between the ducts and the zone, W.

	With the unit inside the envelope the cold intake and exhaust ducts draw
	heat from the zone; with the unit outside the warm supply and extract
	ducts lose heat outdoors, which is lost to the zone.
*/
func (v *MechnicalVentilationHeatRecovery) ductwork_gains(t_idx int, temp_int_air float64) float64 {
	if v.ductwork == nil {
		return 0.0
	}
	temp_outdoor := v.ec.air_temp(t_idx)
	temp_supply := temp_outdoor + v.efficiency*(temp_int_air-temp_outdoor)
	temp_exhaust := temp_int_air - v.efficiency*(temp_int_air-temp_outdoor)

	switch v.ductwork.location {
	case DuctworkLocationInside:
		return v.ductwork.total_duct_heat_loss(temp_int_air, temp_supply, temp_int_air, temp_outdoor, temp_exhaust, v.efficiency)
	case DuctworkLocationOutside:
		return -v.ductwork.total_duct_heat_loss(temp_outdoor, temp_supply, temp_int_air, temp_outdoor, temp_exhaust, v.efficiency)
	default:
		panic(v.ductwork.location)
	}
}

//---------------------------------------------------------------------------------------------------//

// WholeHouseExtractVentilation extracts air mechanically; replacement air leaks in.
type WholeHouseExtractVentilation struct {
	mechanical_ventilation
	infiltration_rate float64 // infiltration air changes per hour at the reference wind speed
}

func NewWholeHouseExtractVentilation(
	required_air_change_rate float64,
	specific_fan_power float64,
	infiltration_rate float64,
	energy_supply_conn *EnergySupplyConnection,
	ec *ExternalConditions,
	simulation_time *SimulationTime,
) *WholeHouseExtractVentilation {
	return &WholeHouseExtractVentilation{
		mechanical_ventilation: mechanical_ventilation{
			air_changes_per_hour: required_air_change_rate,
			specific_fan_power:   specific_fan_power,
			energy_supply_conn:   energy_supply_conn,
			ec:                   ec,
			simulation_time:      simulation_time,
		},
		infiltration_rate: infiltration_rate,
	}
}

/*
effective air changes added on top of infiltration, from the extract rate and
the wind driven infiltration n_inf:

	n_mech + n_inf^2 / (2 n_mech) - n_inf
*/
func (v *WholeHouseExtractVentilation) _effective_air_changes(wind_speed float64) float64 {
	n_mech := v.air_changes_per_hour
	if n_mech <= 0 {
		return 0.0
	}
	n_inf := v.infiltration_rate * wind_speed / wind_speed_reference
	if n_inf >= 2.0*n_mech {
		// extract flow is below natural infiltration and adds nothing
		return 0.0
	}
	return n_mech + n_inf*n_inf/(2.0*n_mech) - n_inf
}

func (v *WholeHouseExtractVentilation) h_ve(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	ach := v._effective_air_changes(v.ec.wind_speed(t_idx))
	return heat_capacity_air_ach * ach * zone_volume * throughput_factor
}

func (v *WholeHouseExtractVentilation) h_ve_average(zone_volume float64) float64 {
	return heat_capacity_air_ach * v._effective_air_changes(v.ec.wind_speed_annual()) * zone_volume
}

// extract fans release no heat into the zone
func (v *WholeHouseExtractVentilation) fans(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	v.fan_energy(zone_volume, t_idx, throughput_factor)
	return 0.0
}

//---------------------------------------------------------------------------------------------------//

// NaturalVentilation is purpose provided ventilation without fans.
type NaturalVentilation struct {
	air_changes_per_hour float64
	ec                   *ExternalConditions
}

func NewNaturalVentilation(required_air_change_rate float64, ec *ExternalConditions) *NaturalVentilation {
	return &NaturalVentilation{air_changes_per_hour: required_air_change_rate, ec: ec}
}

func (v *NaturalVentilation) h_ve(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	return heat_capacity_air_ach * v.air_changes_per_hour * zone_volume
}

func (v *NaturalVentilation) h_ve_average(zone_volume float64) float64 {
	return heat_capacity_air_ach * v.air_changes_per_hour * zone_volume
}

func (v *NaturalVentilation) temp_supply(t_idx int) float64 {
	return v.ec.air_temp(t_idx)
}

func (v *NaturalVentilation) fans(zone_volume float64, t_idx int, throughput_factor float64) float64 {
	return 0.0
}

//---------------------------------------------------------------------------------------------------//

// NewVentilationFromJson builds the mechanical or natural ventilation of a dwelling.
func NewVentilationFromJson(
	d *VentilationJson,
	energy_supplies map[string]*EnergySupply,
	ec *ExternalConditions,
	simulation_time *SimulationTime,
) (VentilationElement, error) {
	connect := func(end_user string) (*EnergySupplyConnection, error) {
		es, ok := energy_supplies[d.EnergySupply]
		if !ok {
			return nil, newConfigurationError("Ventilation.EnergySupply", "energy supply %q not defined", d.EnergySupply)
		}
		return es.connection(end_user)
	}

	switch d.Type {
	case "NatVent":
		return NewNaturalVentilation(d.ReqACH, ec), nil
	case "MVHR":
		conn, err := connect("MVHR")
		if err != nil {
			return nil, err
		}
		var ductwork *Ductwork
		if d.Ductwork != nil {
			ductwork, err = NewDuctworkFromJson(d.Ductwork)
			if err != nil {
				return nil, err
			}
		}
		return NewMechnicalVentilationHeatRecovery(d.ReqACH, d.SFP, d.Efficiency, conn, ec, simulation_time, ductwork)
	case "WHEV":
		conn, err := connect("WHEV")
		if err != nil {
			return nil, err
		}
		infiltration_ach := d.InfiltrationACH
		if infiltration_ach == 0 {
			infiltration_ach = 0.25
		}
		return NewWholeHouseExtractVentilation(d.ReqACH, d.SFP, infiltration_ach, conn, ec, simulation_time), nil
	default:
		return nil, newConfigurationError("Ventilation.type", "unknown ventilation type %q", d.Type)
	}
}
