package home_energy_model

import (
	"fmt"
	"math"
)

// BackupCtrlType is how a heat pump's backup heater is brought in.
type BackupCtrlType int

const (
	BackupCtrlTypeNone BackupCtrlType = iota
	BackupCtrlTypeTopUp
	BackupCtrlTypeSubstitute
)

func (b BackupCtrlType) String() string {
	return [...]string{"None", "TopUp", "Substitute"}[b]
}

func BackupCtrlTypeFromString(s string) (BackupCtrlType, error) {
	switch s {
	case "", "None":
		return BackupCtrlTypeNone, nil
	case "TopUp":
		return BackupCtrlTypeTopUp, nil
	case "Substitute":
		return BackupCtrlTypeSubstitute, nil
	}
	return 0, newConfigurationError("HeatPump.BackupCtrlType", "unknown backup control type %q", s)
}

type heat_pump_service_type int

const (
	heat_pump_service_water heat_pump_service_type = iota
	heat_pump_service_space
)

const (
	// minimum temperature lift assumed in the Carnot COP, K
	heat_pump_temp_diff_limit_low = 6.0
	// evaporator approach temperature, K
	heat_pump_temp_diff_evaporator_air   = -15.0
	heat_pump_temp_diff_evaporator_water = -10.0
	// condenser approach temperature, K
	heat_pump_temp_diff_condenser_air   = 15.0
	heat_pump_temp_diff_condenser_water = 5.0
	// crankcase heater runs below this outside temperature, degree C
	heat_pump_temp_crankcase_heater_on = 10.0
	// source temperature assumed for exhaust air when no zone temperature is wired, degree C
	heat_pump_temp_exhaust_air_default = 20.0
	// fixed temperature of water-ground (borehole) sources, degree C
	heat_pump_temp_water_ground = 10.0
)

type HeatPumpJson struct {
	Type                        string                  `json:"type"` // "HeatPump"
	EnergySupply                string                  `json:"EnergySupply"`
	SourceType                  string                  `json:"source_type"`
	SinkType                    string                  `json:"sink_type"`
	BackupCtrlType              string                  `json:"backup_ctrl_type"`
	ModulatingControl           bool                    `json:"modulating_control"`
	MinModulationRate           float64                 `json:"min_modulation_rate"`
	TempReturnFeedMax           float64                 `json:"temp_return_feed_max"`       // degree C
	TempLowerOperatingLimit     float64                 `json:"temp_lower_operating_limit"` // degree C
	PowerHeatingCircPump        float64                 `json:"power_heating_circ_pump"`    // kW
	PowerSourceCircPump         float64                 `json:"power_source_circ_pump"`     // kW
	PowerStandby                float64                 `json:"power_standby"`              // kW
	PowerCrankcaseHeater        float64                 `json:"power_crankcase_heater"`     // kW
	PowerMaxBackup              float64                 `json:"power_max_backup"`           // kW
	TempDistributionHeatNetwork *float64                `json:"temp_distribution_heat_network,omitempty"`
	EAHPAirFlowRate             *float64                `json:"eahp_air_flow_rate,omitempty"` // m3/h
	TestData                    []HeatPumpTestDatumJson `json:"test_data"`
}

/*
HeatPump is an electric heat pump serving space heating and hot water.

	Performance at operating conditions is derived from manufacturer test
	data. For outside air sources the COP comes from the exergetic
	efficiency of the test point bracketing the operating load ratio, and
	capacity follows the outside air temperature. Ground, water and exhaust
	air sources use the COP regression at the coldest test condition and a
	fixed minimum lift.

	The compressor's running time in a timestep is shared between services
	in the order they ask. Demand the heat pump cannot meet is passed to the
	backup heater according to BackupCtrlType.
*/
type HeatPump struct {
	source_type         SourceType
	sink_type           SinkType
	backup_ctrl         BackupCtrlType
	modulating_ctrl     bool
	min_modulation      float64
	temp_return_max     float64  // degree C
	temp_lower_limit    float64  // degree C
	power_heat_pump     float64  // kW, heating circulation pump
	power_source_pump   float64  // kW
	power_standby       float64  // kW
	power_crankcase     float64  // kW
	power_max_backup    float64  // kW
	temp_heat_network   *float64 // degree C, heat network sources only
	test_data           *HeatPumpTestData
	energy_supply       *EnergySupply
	energy_supply_conn  *EnergySupplyConnection // auxiliary
	external_conditions *ExternalConditions
	simulation_time     *SimulationTime

	// zone air temperature for exhaust air sources
	temp_internal_air func() float64

	total_time_running_current_timestep float64 // hours
	service_results                     []HeatPumpServiceResult
}

// HeatPumpServiceResult is what one service drew from the heat pump in a timestep.
type HeatPumpServiceResult struct {
	ServiceName           string
	EnergyDelivered       float64 // kWh, by the heat pump
	EnergyDeliveredBackup float64 // kWh
	EnergyInput           float64 // kWh electricity, heat pump and backup
	TimeRunning           float64 // hours
	Cop                   float64 // cycling-corrected
}

func NewHeatPump(
	name string,
	d *HeatPumpJson,
	energy_supply *EnergySupply,
	external_conditions *ExternalConditions,
	simulation_time *SimulationTime,
	temp_internal_air func() float64,
) (*HeatPump, error) {
	source_type, err := SourceTypeFromString(d.SourceType)
	if err != nil {
		return nil, err
	}
	sink_type, err := SinkTypeFromString(d.SinkType)
	if err != nil {
		return nil, err
	}
	backup_ctrl, err := BackupCtrlTypeFromString(d.BackupCtrlType)
	if err != nil {
		return nil, err
	}
	if source_type == SourceTypeHeatNetwork && d.TempDistributionHeatNetwork == nil {
		return nil, newConfigurationError("HeatSource."+name+".temp_distribution_heat_network",
			"required for source type %s", source_type)
	}

	test_data_json := d.TestData
	if source_type.is_exhaust_air() {
		if d.EAHPAirFlowRate == nil {
			return nil, newConfigurationError("HeatSource."+name+".eahp_air_flow_rate",
				"required for source type %s", source_type)
		}
		lowest, interpolated, err := interpolate_exhaust_air_heat_pump_test_data(*d.EAHPAirFlowRate, d.TestData)
		if err != nil {
			return nil, err
		}
		if *d.EAHPAirFlowRate < lowest {
			return nil, newConfigurationError("HeatSource."+name+".eahp_air_flow_rate",
				"%g m3/h is below the lowest tested air flow rate %g m3/h", *d.EAHPAirFlowRate, lowest)
		}
		test_data_json = interpolated
	}
	test_data, err := NewHeatPumpTestData(test_data_json)
	if err != nil {
		return nil, fmt.Errorf("heat pump %s: %w", name, err)
	}

	conn, err := energy_supply.connection("HeatPump_auxiliary: " + name)
	if err != nil {
		return nil, err
	}

	return &HeatPump{
		source_type:         source_type,
		sink_type:           sink_type,
		backup_ctrl:         backup_ctrl,
		modulating_ctrl:     d.ModulatingControl,
		min_modulation:      d.MinModulationRate,
		temp_return_max:     d.TempReturnFeedMax,
		temp_lower_limit:    d.TempLowerOperatingLimit,
		power_heat_pump:     d.PowerHeatingCircPump,
		power_source_pump:   d.PowerSourceCircPump,
		power_standby:       d.PowerStandby,
		power_crankcase:     d.PowerCrankcaseHeater,
		power_max_backup:    d.PowerMaxBackup,
		temp_heat_network:   d.TempDistributionHeatNetwork,
		test_data:           test_data,
		energy_supply:       energy_supply,
		energy_supply_conn:  conn,
		external_conditions: external_conditions,
		simulation_time:     simulation_time,
		temp_internal_air:   temp_internal_air,
	}, nil
}

func (hp *HeatPump) create_service_connection(service_name string) (*EnergySupplyConnection, error) {
	return hp.energy_supply.connection(service_name)
}

func (hp *HeatPump) create_service_hot_water(
	service_name string,
	temp_hot_water float64,
	cold_feed *ColdWaterSource,
	control Control,
) (*HeatPumpServiceWater, error) {
	conn, err := hp.create_service_connection(service_name)
	if err != nil {
		return nil, err
	}
	return &HeatPumpServiceWater{
		service_control:    service_control{control: control},
		heat_pump:          hp,
		service_name:       service_name,
		energy_supply_conn: conn,
		temp_hot_water:     temp_hot_water,
		cold_feed:          cold_feed,
	}, nil
}

func (hp *HeatPump) create_service_space_heating(service_name string, control Control) (*HeatPumpServiceSpace, error) {
	conn, err := hp.create_service_connection(service_name)
	if err != nil {
		return nil, err
	}
	return &HeatPumpServiceSpace{
		service_control:    service_control{control: control},
		heat_pump:          hp,
		service_name:       service_name,
		energy_supply_conn: conn,
	}, nil
}

// temp_source is the source temperature at timestep t_idx, K.
func (hp *HeatPump) temp_source(t_idx int) float64 {
	temp_ext := hp.external_conditions.air_temp(t_idx)
	var temp float64
	switch hp.source_type {
	case SourceTypeGround:
		// ground loop follows outside air, damped
		temp = clip(0.25806*temp_ext+2.8387, 0.0, 8.0)
	case SourceTypeOutsideAir:
		temp = temp_ext
	case SourceTypeExhaustAirMEV, SourceTypeExhaustAirMVHR, SourceTypeExhaustAirMixed:
		temp = heat_pump_temp_exhaust_air_default
		if hp.temp_internal_air != nil {
			temp = hp.temp_internal_air()
		}
	case SourceTypeWaterGround:
		temp = heat_pump_temp_water_ground
	case SourceTypeWaterSurface:
		temp = math.Max(0.0, hp.external_conditions.air_temp_monthly(t_idx))
	case SourceTypeHeatNetwork:
		temp = *hp.temp_heat_network
	}
	return Celcius2Kelvin(temp)
}

func (hp *HeatPump) temp_diff_evaporator() float64 {
	if hp.source_type.source_fluid_is_air() {
		return heat_pump_temp_diff_evaporator_air
	}
	return heat_pump_temp_diff_evaporator_water
}

func (hp *HeatPump) temp_diff_condenser() float64 {
	if hp.sink_type == SinkTypeAir {
		return heat_pump_temp_diff_condenser_air
	}
	return heat_pump_temp_diff_condenser_water
}

// outside_operating_limits is true when the compressor may not run.
func (hp *HeatPump) outside_operating_limits(temp_return_feed float64, t_idx int) bool {
	if hp.temp_return_max > 0 && temp_return_feed > hp.temp_return_max {
		return true
	}
	return hp.source_type == SourceTypeOutsideAir &&
		hp.external_conditions.air_temp(t_idx) < hp.temp_lower_limit
}

/*
cop_and_capacity returns the steady-state COP and thermal capacity (kW) at
operating conditions, and the degradation coefficient to apply for cycling.

	Args:
		temp_output         -- flow temperature, degree C
		temp_spread_emitter -- flow minus return temperature, K, or 0 for the test spread
*/
func (hp *HeatPump) cop_and_capacity(temp_output, temp_spread_emitter float64, t_idx int) (float64, float64, float64) {
	td := hp.test_data
	temp_output_K := Celcius2Kelvin(temp_output)
	temp_source := hp.temp_source(t_idx)
	temp_ext := hp.external_conditions.air_temp(t_idx)

	var cop, capacity, deg_coeff float64
	if hp.source_type == SourceTypeOutsideAir {
		carnot_cop_op_cond := carnot_cop(temp_source, temp_output_K, heat_pump_temp_diff_limit_low)
		lr_op := td.lr_op_cond(temp_output_K, temp_source, carnot_cop_op_cond)
		lr_below, lr_above, eff_below, eff_above, deg_below, deg_above :=
			td.lr_eff_degcoeff_either_side_of_op_cond(temp_output_K, lr_op)

		eff, deg := eff_below, deg_below
		if lr_above != lr_below {
			frac := (lr_op - lr_below) / (lr_above - lr_below)
			eff = eff_below + (eff_above-eff_below)*frac
			deg = deg_below + (deg_above-deg_below)*frac
		}
		cop = eff * carnot_cop_op_cond
		capacity = td.capacity_op_cond_air_source(temp_output_K, temp_ext)
		deg_coeff = deg
	} else {
		cop = td.cop_op_cond_if_not_air_source(
			heat_pump_temp_diff_limit_low,
			Celcius2Kelvin(temp_ext),
			temp_source,
			temp_output_K,
		)
		capacity = td.capacity_op_cond_if_not_air_source(temp_output_K, temp_source, hp.modulating_ctrl)
		deg_coeff = td.average_degradation_coeff(temp_output_K)
	}

	if temp_spread_emitter > 0 {
		cop *= td.temp_spread_correction(
			temp_source,
			temp_output_K,
			hp.temp_diff_evaporator(),
			hp.temp_diff_condenser(),
			temp_spread_emitter,
		)
	}
	return cop, capacity, deg_coeff
}

// cop_cycling applies the EN 14825 part load penalty for load ratio below the minimum the compressor can run at.
func (hp *HeatPump) cop_cycling(cop, deg_coeff, load_ratio float64) float64 {
	cr := load_ratio
	if hp.modulating_ctrl {
		if hp.min_modulation <= 0 || load_ratio >= hp.min_modulation {
			return cop
		}
		cr = load_ratio / hp.min_modulation
	}
	if cr <= 0 || cr >= 1 {
		return cop
	}
	return cop * cr / (deg_coeff*cr + 1.0 - deg_coeff)
}

func (hp *HeatPump) time_available(t_idx int) float64 {
	return math.Max(0.0, hp.simulation_time.timestep_at(t_idx)-hp.total_time_running_current_timestep)
}

func (hp *HeatPump) backup_energy_max(t_idx int) float64 {
	return hp.power_max_backup * hp.simulation_time.timestep_at(t_idx)
}

func (hp *HeatPump) energy_output_max(temp_output, temp_return_feed float64, t_idx int) float64 {
	backup := 0.0
	if hp.backup_ctrl != BackupCtrlTypeNone {
		backup = hp.backup_energy_max(t_idx)
	}
	if hp.outside_operating_limits(temp_return_feed, t_idx) {
		if hp.backup_ctrl == BackupCtrlTypeSubstitute {
			return backup
		}
		return 0.0
	}
	_, capacity, _ := hp.cop_and_capacity(temp_output, 0.0, t_idx)
	hp_max := capacity * hp.time_available(t_idx)
	if hp.backup_ctrl == BackupCtrlTypeTopUp {
		return hp_max + backup
	}
	return hp_max
}

func (hp *HeatPump) demand_energy(
	conn *EnergySupplyConnection,
	service_name string,
	service_type heat_pump_service_type,
	energy_output_required float64,
	temp_output float64,
	temp_return_feed float64,
	t_idx int,
) float64 {
	result := HeatPumpServiceResult{ServiceName: service_name}
	if energy_output_required <= 0 {
		hp.service_results = append(hp.service_results, result)
		return 0.0
	}

	timestep := hp.simulation_time.timestep_at(t_idx)
	energy_unmet := energy_output_required

	if !hp.outside_operating_limits(temp_return_feed, t_idx) {
		temp_spread := 0.0
		if service_type == heat_pump_service_space {
			temp_spread = temp_output - temp_return_feed
		}
		cop, capacity, deg_coeff := hp.cop_and_capacity(temp_output, temp_spread, t_idx)

		if capacity > 0 {
			energy_delivered := math.Min(energy_output_required, capacity*hp.time_available(t_idx))
			time_running := energy_delivered / capacity
			load_ratio := energy_delivered / (capacity * timestep)
			cop_op := hp.cop_cycling(cop, deg_coeff, load_ratio)

			result.EnergyDelivered = energy_delivered
			result.TimeRunning = time_running
			result.Cop = cop_op
			result.EnergyInput = energy_delivered / cop_op
			hp.total_time_running_current_timestep += time_running
			energy_unmet -= energy_delivered
		}
		if hp.backup_ctrl == BackupCtrlTypeTopUp && energy_unmet > 0 {
			result.EnergyDeliveredBackup = math.Min(energy_unmet, hp.backup_energy_max(t_idx))
		}
	} else if hp.backup_ctrl == BackupCtrlTypeSubstitute {
		result.EnergyDeliveredBackup = math.Min(energy_unmet, hp.backup_energy_max(t_idx))
	}

	result.EnergyInput += result.EnergyDeliveredBackup
	conn.demand_energy(result.EnergyInput, t_idx)
	hp.service_results = append(hp.service_results, result)
	return result.EnergyDelivered + result.EnergyDeliveredBackup
}

// energy_aux is the electricity used by pumps, standby and crankcase heater over the timestep, kWh.
func (hp *HeatPump) energy_aux(t_idx int) float64 {
	time_running := math.Min(hp.total_time_running_current_timestep, hp.simulation_time.timestep_at(t_idx))
	time_off := hp.simulation_time.timestep_at(t_idx) - time_running

	energy := hp.power_heat_pump * time_running
	if !hp.source_type.source_fluid_is_air() {
		energy += hp.power_source_pump * time_running
	}
	energy += hp.power_standby * time_off
	if hp.source_type.source_fluid_is_air() &&
		hp.external_conditions.air_temp(t_idx) < heat_pump_temp_crankcase_heater_on {
		energy += hp.power_crankcase * time_off
	}
	return energy
}

// timestep_end posts the auxiliary electricity and clears the shared running time.
func (hp *HeatPump) timestep_end(t_idx int) {
	hp.energy_supply_conn.demand_energy(hp.energy_aux(t_idx), t_idx)
	hp.total_time_running_current_timestep = 0.0
	hp.service_results = hp.service_results[:0]
}

//----------------------------------------------------------------------------------------------------------//

// HeatPumpServiceWater heats a hot water cylinder.
type HeatPumpServiceWater struct {
	service_control
	heat_pump          *HeatPump
	service_name       string
	energy_supply_conn *EnergySupplyConnection
	temp_hot_water     float64 // degree C
	cold_feed          *ColdWaterSource
}

func (s *HeatPumpServiceWater) demand_energy(energy_demand float64, t_idx int) float64 {
	if !s.is_on(t_idx) {
		return 0.0
	}
	return s.heat_pump.demand_energy(
		s.energy_supply_conn,
		s.service_name,
		heat_pump_service_water,
		energy_demand,
		s.temp_hot_water,
		s.cold_feed.temperature(t_idx),
		t_idx,
	)
}

// HeatPumpServiceSpace feeds a wet space heating system.
type HeatPumpServiceSpace struct {
	service_control
	heat_pump          *HeatPump
	service_name       string
	energy_supply_conn *EnergySupplyConnection
}

func (s *HeatPumpServiceSpace) energy_output_max(temp_flow, temp_return float64, t_idx int) float64 {
	if s.temp_setpnt(t_idx) == nil {
		return 0.0
	}
	return s.heat_pump.energy_output_max(temp_flow, temp_return, t_idx)
}

func (s *HeatPumpServiceSpace) demand_energy(energy_demand, temp_flow, temp_return float64, t_idx int) float64 {
	if s.temp_setpnt(t_idx) == nil {
		return 0.0
	}
	return s.heat_pump.demand_energy(
		s.energy_supply_conn,
		s.service_name,
		heat_pump_service_space,
		energy_demand,
		temp_flow,
		temp_return,
		t_idx,
	)
}
