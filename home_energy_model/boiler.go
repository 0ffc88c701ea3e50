package home_energy_model

import (
	"math"
)

// BoilerLocation is where the boiler is installed relative to the heated envelope.
type BoilerLocation int

const (
	BoilerLocationInternal BoilerLocation = iota
	BoilerLocationExternal
	BoilerLocationUnknown
)

func (l BoilerLocation) String() string {
	return [...]string{"internal", "external", "unknown"}[l]
}

func BoilerLocationFromString(s string) (BoilerLocation, error) {
	switch s {
	case "internal":
		return BoilerLocationInternal, nil
	case "external":
		return BoilerLocationExternal, nil
	case "unknown":
		return BoilerLocationUnknown, nil
	}
	return 0, newConfigurationError("Boiler.boiler_location", "unknown boiler location %q", s)
}

const (
	// return temperatures of the full and part load efficiency tests, degree C
	boiler_temp_return_full_load_test = 60.0
	boiler_temp_return_part_load_test = 30.0
	// load ratio of the part load test
	boiler_part_load_test_ratio = 0.3
	// external boilers lose heat from the case to outside air
	boiler_external_location_loss = 0.02
)

type BoilerJson struct {
	Type                string  `json:"type"` // "Boiler"
	EnergySupply        string  `json:"EnergySupply"`
	EnergySupplyAux     string  `json:"EnergySupply_aux"`
	RatedPower          float64 `json:"rated_power"` // kW
	EfficiencyFullLoad  float64 `json:"efficiency_full_load"`
	EfficiencyPartLoad  float64 `json:"efficiency_part_load"`
	BoilerLocation      string  `json:"boiler_location"`
	ModulationLoad      float64 `json:"modulation_load"`
	ElectricityCircPump float64 `json:"electricity_circ_pump"` // kW
	ElectricityPartLoad float64 `json:"electricity_part_load"` // kW
	ElectricityFullLoad float64 `json:"electricity_full_load"` // kW
	ElectricityStandby  float64 `json:"electricity_standby"`   // kW
}

/*
Boiler is a gas, LPG or oil fired boiler.

	Tested net efficiencies are converted to gross, corrected for high values
	and turned into offsets from a theoretical efficiency vs return temperature
	curve. The offset used at a given load ratio is interpolated between the
	part load and full load offsets.
*/
type Boiler struct {
	rated_power            float64 // kW
	fuel_type              FuelType
	location               BoilerLocation
	min_modulation_load    float64
	power_circ_pump        float64 // kW
	power_part_load        float64 // kW
	power_full_load        float64 // kW
	power_standby          float64 // kW
	offset_full_load       float64
	offset_part_load       float64
	energy_supply          *EnergySupply
	energy_supply_conn_aux *EnergySupplyConnection
	simulation_time        *SimulationTime

	total_time_running_current_timestep float64 // h
	energy_output_current_timestep      float64 // kWh
}

func NewBoiler(
	d *BoilerJson,
	energy_supply *EnergySupply,
	energy_supply_conn_aux *EnergySupplyConnection,
	simulation_time *SimulationTime,
) (*Boiler, error) {
	if d.RatedPower <= 0 {
		return nil, newConfigurationError("Boiler.rated_power", "must be positive, got %g", d.RatedPower)
	}
	location, err := BoilerLocationFromString(d.BoilerLocation)
	if err != nil {
		return nil, err
	}
	fuel_type := energy_supply.FuelType()
	if fuel_type == FuelTypeElectricity {
		return nil, newConfigurationError("Boiler.EnergySupply", "boiler cannot burn %s", fuel_type)
	}

	b := &Boiler{
		rated_power:            d.RatedPower,
		fuel_type:              fuel_type,
		location:               location,
		min_modulation_load:    d.ModulationLoad,
		power_circ_pump:        d.ElectricityCircPump,
		power_part_load:        d.ElectricityPartLoad,
		power_full_load:        d.ElectricityFullLoad,
		power_standby:          d.ElectricityStandby,
		energy_supply:          energy_supply,
		energy_supply_conn_aux: energy_supply_conn_aux,
		simulation_time:        simulation_time,
	}

	full_load_gross := b.high_value_correction_full_load(d.EfficiencyFullLoad * b.net_to_gross())
	part_load_gross := b.high_value_correction_part_load(d.EfficiencyPartLoad * b.net_to_gross())
	if location == BoilerLocationExternal {
		full_load_gross -= boiler_external_location_loss
		part_load_gross -= boiler_external_location_loss
	}
	b.offset_full_load = b.effvsreturntemp(boiler_temp_return_full_load_test, 0.0) - full_load_gross
	b.offset_part_load = b.effvsreturntemp(boiler_temp_return_part_load_test, 0.0) - part_load_gross
	return b, nil
}

// net_to_gross is the ratio of net to gross calorific value of the fuel.
func (b *Boiler) net_to_gross() float64 {
	switch b.fuel_type {
	case FuelTypeMainsGas:
		return 0.901
	case FuelTypeLPG:
		return 0.921
	case FuelTypeOil:
		return 0.937
	default:
		return 1.0
	}
}

func (b *Boiler) high_value_correction_full_load(gross_efficiency_full_load float64) float64 {
	if gross_efficiency_full_load <= 0.955 {
		return gross_efficiency_full_load
	}
	return math.Min(gross_efficiency_full_load-0.673*(gross_efficiency_full_load-0.955), 0.98)
}

func (b *Boiler) high_value_correction_part_load(gross_efficiency_part_load float64) float64 {
	if gross_efficiency_part_load <= 0.966 {
		return gross_efficiency_part_load
	}
	return math.Min(gross_efficiency_part_load-0.213*(gross_efficiency_part_load-0.966), 1.08)
}

// effvsreturntemp is the theoretical gross efficiency at return temperature temp_return, less offset.
func (b *Boiler) effvsreturntemp(temp_return float64, offset float64) float64 {
	var theoretical_eff float64
	if temp_return < 52.2 {
		// condensing
		theoretical_eff = -0.00007*temp_return*temp_return + 0.0017*temp_return + 0.979
	} else {
		theoretical_eff = -0.0006*temp_return + 0.9129
	}
	return theoretical_eff - offset
}

// efficiency at load_ratio and return temperature
func (b *Boiler) efficiency(load_ratio float64, temp_return float64) float64 {
	offset := interp(
		load_ratio,
		[]float64{boiler_part_load_test_ratio, 1.0},
		[]float64{b.offset_part_load, b.offset_full_load},
	)
	return b.effvsreturntemp(temp_return, offset)
}

func (b *Boiler) create_service_connection(service_name string) (*EnergySupplyConnection, error) {
	return b.energy_supply.connection(service_name)
}

// heat the boiler can still give in timestep t_idx, kWh
func (b *Boiler) energy_output_max(t_idx int) float64 {
	time_available := b.simulation_time.timestep_at(t_idx) - b.total_time_running_current_timestep
	return math.Max(0.0, b.rated_power*time_available)
}

func (b *Boiler) _demand_energy(conn *EnergySupplyConnection, energy_output_required float64, temp_return float64, t_idx int) float64 {
	if energy_output_required <= 0 {
		return 0.0
	}
	energy_output_provided := math.Min(energy_output_required, b.energy_output_max(t_idx))
	if energy_output_provided <= 0 {
		return 0.0
	}
	timestep := b.simulation_time.timestep_at(t_idx)

	// below the minimum modulation load the boiler cycles at that load
	load_ratio := math.Max(energy_output_provided/(b.rated_power*timestep), b.min_modulation_load)
	fuel_demand := energy_output_provided / b.efficiency(load_ratio, temp_return)

	b.total_time_running_current_timestep += energy_output_provided / b.rated_power
	b.energy_output_current_timestep += energy_output_provided
	conn.demand_energy(fuel_demand, t_idx)
	return energy_output_provided
}

// auxiliary electricity used in timestep t_idx, kWh
func (b *Boiler) energy_aux(t_idx int) float64 {
	timestep := b.simulation_time.timestep_at(t_idx)
	time_running := math.Min(b.total_time_running_current_timestep, timestep)
	if time_running <= 0 {
		return b.power_standby * timestep
	}
	load_ratio := b.energy_output_current_timestep / (b.rated_power * timestep)
	power_running := b.power_circ_pump + interp(load_ratio, []float64{0.0, 1.0}, []float64{b.power_part_load, b.power_full_load})
	return power_running*time_running + b.power_standby*(timestep-time_running)
}

func (b *Boiler) timestep_end(t_idx int) {
	if b.energy_supply_conn_aux != nil {
		b.energy_supply_conn_aux.demand_energy(b.energy_aux(t_idx), t_idx)
	}
	b.total_time_running_current_timestep = 0.0
	b.energy_output_current_timestep = 0.0
}

//----------------------------------------------------------------------------------------------------------//

// daily hot water volumes of the EN 13203-2 tapping cycles, litres
var boiler_combi_test_volume = map[string]float64{
	"S": 36.0,
	"M": 100.2,
	"L": 199.8,
}

type BoilerServiceWaterCombiJson struct {
	SeparateDHWTests   string  `json:"separate_DHW_tests"` // "M&L", "M&S" or "M_only"
	FuelEnergy1        float64 `json:"fuel_energy_1"`      // kWh
	RejectedEnergy1    float64 `json:"rejected_energy_1"`  // kWh
	StorageLossFactor1 float64 `json:"storage_loss_factor_1"`
	FuelEnergy2        float64 `json:"fuel_energy_2"` // kWh
	RejectedEnergy2    float64 `json:"rejected_energy_2"`
	StorageLossFactor2 float64 `json:"storage_loss_factor_2"`
	RejectedFactor3    float64 `json:"rejected_factor_3"`
	DailyHWUsage       float64 `json:"daily_HW_usage"` // litres/day
}

/*
BoilerServiceWaterCombi heats mains water on demand in a combination boiler.

	The losses measured in the two hot water tests are interpolated at the
	dwelling's daily hot water use: a fraction of each draw-off is rejected
	and the keep-hot store loses a fixed amount per day.
*/
type BoilerServiceWaterCombi struct {
	boiler             *Boiler
	service_name       string
	energy_supply_conn *EnergySupplyConnection
	temp_hot_water     float64 // degree C
	cold_feed          *ColdWaterSource
	simulation_time    *SimulationTime

	rejected_factor    float64 // fraction of useful energy
	storage_loss_daily float64 // kWh/day
}

func (b *Boiler) create_service_hot_water_combi(
	d *BoilerServiceWaterCombiJson,
	service_name string,
	temp_hot_water float64,
	cold_feed *ColdWaterSource,
) (*BoilerServiceWaterCombi, error) {
	var test_volumes []float64
	switch d.SeparateDHWTests {
	case "M&L":
		test_volumes = []float64{boiler_combi_test_volume["M"], boiler_combi_test_volume["L"]}
	case "M&S":
		test_volumes = []float64{boiler_combi_test_volume["S"], boiler_combi_test_volume["M"]}
	case "M_only":
		test_volumes = []float64{boiler_combi_test_volume["M"]}
	default:
		return nil, newConfigurationError("HotWaterSource.separate_DHW_tests", "unknown test combination %q", d.SeparateDHWTests)
	}
	if d.DailyHWUsage < 0 {
		return nil, newConfigurationError("HotWaterSource.daily_HW_usage", "must not be negative, got %g", d.DailyHWUsage)
	}

	conn, err := b.create_service_connection(service_name)
	if err != nil {
		return nil, err
	}

	s := &BoilerServiceWaterCombi{
		boiler:             b,
		service_name:       service_name,
		energy_supply_conn: conn,
		temp_hot_water:     temp_hot_water,
		cold_feed:          cold_feed,
		simulation_time:    b.simulation_time,
	}

	rejected := []float64{d.RejectedEnergy1, d.RejectedEnergy2}
	if d.SeparateDHWTests == "M&S" {
		rejected[0], rejected[1] = rejected[1], rejected[0]
	}
	rejected = rejected[:len(test_volumes)]
	s.rejected_factor = interp(d.DailyHWUsage, test_volumes, rejected) + d.RejectedFactor3

	// factor 1 comes from the M test alone, factor 2 from the pair of tests
	if len(test_volumes) == 1 {
		s.storage_loss_daily = d.StorageLossFactor1
	} else {
		s.storage_loss_daily = d.StorageLossFactor2
	}
	return s, nil
}

// losses of the combi in timestep t_idx when delivering energy_useful, kWh
func (s *BoilerServiceWaterCombi) combi_loss(energy_useful float64, t_idx int) float64 {
	return energy_useful*s.rejected_factor + s.storage_loss_daily*s.simulation_time.timestep_at(t_idx)/HOURS_PER_DAY
}

// demand_hot_water returns the heat drawn from the boiler for volume_demanded litres, kWh.
func (s *BoilerServiceWaterCombi) demand_hot_water(volume_demanded float64, t_idx int) float64 {
	energy_content := WATER.volumetric_energy_content_kWh_per_litre(s.temp_hot_water, s.cold_feed.temperature(t_idx))
	energy_useful := volume_demanded * energy_content
	energy_required := energy_useful + s.combi_loss(energy_useful, t_idx)
	return s.boiler._demand_energy(s.energy_supply_conn, energy_required, boiler_temp_return_full_load_test, t_idx)
}

// BoilerServiceWaterRegular heats a hot water cylinder through a coil.
type BoilerServiceWaterRegular struct {
	service_control
	boiler             *Boiler
	service_name       string
	energy_supply_conn *EnergySupplyConnection
	temp_return        float64 // degree C
}

func (b *Boiler) create_service_hot_water_regular(service_name string, temp_return float64, control Control) (*BoilerServiceWaterRegular, error) {
	conn, err := b.create_service_connection(service_name)
	if err != nil {
		return nil, err
	}
	return &BoilerServiceWaterRegular{
		service_control:    service_control{control: control},
		boiler:             b,
		service_name:       service_name,
		energy_supply_conn: conn,
		temp_return:        temp_return,
	}, nil
}

func (s *BoilerServiceWaterRegular) demand_energy(energy_demand float64, t_idx int) float64 {
	if !s.is_on(t_idx) {
		return 0.0
	}
	return s.boiler._demand_energy(s.energy_supply_conn, energy_demand, s.temp_return, t_idx)
}

// BoilerServiceSpace feeds a wet space heating system.
type BoilerServiceSpace struct {
	service_control
	boiler             *Boiler
	service_name       string
	energy_supply_conn *EnergySupplyConnection
}

func (b *Boiler) create_service_space_heating(service_name string, control Control) (*BoilerServiceSpace, error) {
	conn, err := b.create_service_connection(service_name)
	if err != nil {
		return nil, err
	}
	return &BoilerServiceSpace{
		service_control:    service_control{control: control},
		boiler:             b,
		service_name:       service_name,
		energy_supply_conn: conn,
	}, nil
}

func (s *BoilerServiceSpace) energy_output_max(temp_flow, temp_return float64, t_idx int) float64 {
	if s.temp_setpnt(t_idx) == nil {
		return 0.0
	}
	return s.boiler.energy_output_max(t_idx)
}

func (s *BoilerServiceSpace) demand_energy(energy_demand, temp_flow, temp_return float64, t_idx int) float64 {
	if s.temp_setpnt(t_idx) == nil {
		return 0.0
	}
	return s.boiler._demand_energy(s.energy_supply_conn, energy_demand, temp_return, t_idx)
}
