package home_energy_model

import (
	"math"
)

const (
	storage_tank_nb_vol    = 4    // number of layers
	storage_tank_temp_amb  = 16.0 // temperature of the space around the tank, degree C
	storage_tank_temp_test = 45.0 // temperature difference of the standing loss test, K

	// collector return temperature assumed when a solar loop is asked for heat without a tank layer
	solar_thermal_temp_return_default = 55.0 // degree C
	solar_thermal_temp_heated_space   = 20.0 // degree C
	solar_thermal_iterations          = 3    // passes over the mean collector temperature
)

type StorageTankJson struct {
	Type            string                         `json:"type"`         // "StorageTank"
	Volume          float64                        `json:"volume"`       // litres
	DailyLosses     float64                        `json:"daily_losses"` // kWh/day
	MinTemp         float64                        `json:"min_temp"`     // degree C
	SetpointTemp    float64                        `json:"setpoint_temp"`
	ColdWaterSource string                         `json:"ColdWaterSource"`
	HeatSource      OrderedMap[TankHeatSourceJson] `json:"HeatSource"`
}

type TankHeatSourceJson struct {
	Type               string   `json:"type"`  // "ImmersionHeater", "SolarThermalSystem" or "HeatSourceWet"
	Name               string   `json:"name"`  // HeatSourceWet only
	Power              float64  `json:"power"` // kW, ImmersionHeater only
	EnergySupply       string   `json:"EnergySupply"`
	Control            string   `json:"Control"`
	HeaterPosition     float64  `json:"heater_position"`     // 0 = bottom, 1 = top
	ThermostatPosition *float64 `json:"thermostat_position"` // not used by SolarThermalSystem

	SolarThermalSystemJson
}

// tank_heat_source is a heat source together with where it sits in the tank.
type tank_heat_source struct {
	name             string
	source           TankHeatSource
	heater_layer     int
	thermostat_layer int // -1 if the source has no thermostat
}

func new_tank_heat_source(name string, source TankHeatSource, heater_position float64, thermostat_position *float64) tank_heat_source {
	layer := func(pos float64) int {
		return int(math.Min(pos*storage_tank_nb_vol, storage_tank_nb_vol-1))
	}
	hs := tank_heat_source{
		name:             name,
		source:           source,
		heater_layer:     layer(heater_position),
		thermostat_layer: -1,
	}
	if thermostat_position != nil {
		hs.thermostat_layer = layer(*thermostat_position)
	}
	return hs
}

/*
StorageTank is a hot water cylinder modelled as a stack of equal layers.

	Each timestep the draw-off is taken from the top down, the column shifts
	up and cold water enters at the bottom. Heat sources are then applied in
	the order they were given, each heating the layers from its own position
	to the top up to the setpoint. Layers that were not brought to setpoint
	lose heat to the surroundings.
*/
type StorageTank struct {
	volume          float64 // litres
	daily_losses    float64 // kWh/day
	temp_out_W_min  float64 // degree C
	temp_set_on     float64 // degree C
	cold_feed       *ColdWaterSource
	simulation_time *SimulationTime
	heat_sources    []tank_heat_source

	vol_n  []float64 // litres per layer
	temp_n []float64 // degree C per layer
	H      float64   // standing heat loss coefficient, W/K

	heat_loss_current_timestep float64 // kWh
	unmet_current_timestep     float64 // litres at hot_water_temperature
}

/*
Args:

	volume          -- total volume of the tank, litres
	losses          -- measured standing heat loss, kWh/day
	min_temp        -- minimum temperature of water drawn off, degree C
	setpoint_temp   -- temperature heat sources heat the water to, degree C
	cold_feed       -- cold water source
	simulation_time -- simulation time
	heat_sources    -- heat sources in priority order
*/
func NewStorageTank(
	volume float64,
	losses float64,
	min_temp float64,
	setpoint_temp float64,
	cold_feed *ColdWaterSource,
	simulation_time *SimulationTime,
	heat_sources []tank_heat_source,
) (*StorageTank, error) {
	if volume <= 0 {
		return nil, newConfigurationError("StorageTank.volume", "must be positive, got %g", volume)
	}
	if setpoint_temp < min_temp {
		return nil, newConfigurationError("StorageTank.setpoint_temp", "%g is below min_temp %g", setpoint_temp, min_temp)
	}

	vol_n := make([]float64, storage_tank_nb_vol)
	temp_n := make([]float64, storage_tank_nb_vol)
	for i := range vol_n {
		vol_n[i] = volume / storage_tank_nb_vol
		temp_n[i] = setpoint_temp
	}

	return &StorageTank{
		volume:          volume,
		daily_losses:    losses,
		temp_out_W_min:  min_temp,
		temp_set_on:     setpoint_temp,
		cold_feed:       cold_feed,
		simulation_time: simulation_time,
		heat_sources:    heat_sources,
		vol_n:           vol_n,
		temp_n:          temp_n,
		H:               WATTS_PER_KILOWATT * losses / (HOURS_PER_DAY * storage_tank_temp_test),
	}, nil
}

// layer temperatures from bottom to top, degree C
func (s *StorageTank) temps() []float64 {
	out := make([]float64, len(s.temp_n))
	copy(out, s.temp_n)
	return out
}

// standing heat loss of the last timestep as a mean power, W
func (s *StorageTank) internal_gains(t_idx int) float64 {
	return s.heat_loss_current_timestep * WATTS_PER_KILOWATT / s.simulation_time.timestep_at(t_idx)
}

// hot water demand that the tank could not meet in the last timestep, litres
func (s *StorageTank) unmet_demand() float64 {
	return s.unmet_current_timestep
}

// temperature drop of a layer at temperature temp over one timestep from standing losses, K
func (s *StorageTank) _temp_drop(temp float64, t_idx int) float64 {
	return math.Max(0.0, temp-storage_tank_temp_amb) * s.H * s.simulation_time.timestep_at(t_idx) / s.volume
}

// heat needed to bring layers from layer upwards to setpoint and cover their losses, kWh
func (s *StorageTank) _heat_required(temps []float64, at_setpoint []bool, layer int, t_idx int) float64 {
	energy := 0.0
	drop := s._temp_drop(s.temp_set_on, t_idx)
	for i := layer; i < len(temps); i++ {
		if at_setpoint[i] {
			continue
		}
		energy += (s.temp_set_on - temps[i] + drop) * s.vol_n[i] * WATER.volumetric_energy_content_kWh_per_litre(1.0, 0.0)
	}
	return energy
}

// _draw_off takes the volume needed to deliver volume_demanded at hot_water_temperature from the top down.
// Returns the volume taken from the tank and any volume that could not be delivered.
func (s *StorageTank) _draw_off(volume_demanded float64, temp_cold float64) (float64, float64) {
	energy_needed := volume_demanded * (hot_water_temperature - temp_cold) // litre.K
	volume_withdrawn := 0.0
	for i := len(s.temp_n) - 1; i >= 0 && energy_needed > 0; i-- {
		dT := s.temp_n[i] - temp_cold
		if dT <= 0 {
			break
		}
		v := math.Min(energy_needed/dT, s.vol_n[i])
		volume_withdrawn += v
		energy_needed -= v * dT
	}
	unmet := 0.0
	if energy_needed > 1e-9 {
		unmet = energy_needed / (hot_water_temperature - temp_cold)
	}
	return volume_withdrawn, unmet
}

// _shift_column moves the water up by volume_withdrawn and fills the bottom with cold water.
func (s *StorageTank) _shift_column(volume_withdrawn float64, temp_cold float64) []float64 {
	type segment struct{ vol, temp float64 }
	segments := make([]segment, 0, len(s.temp_n)+1)
	segments = append(segments, segment{volume_withdrawn, temp_cold})
	for i := range s.temp_n {
		segments = append(segments, segment{s.vol_n[i], s.temp_n[i]})
	}

	temps := make([]float64, len(s.temp_n))
	seg := 0
	remaining := segments[0].vol
	for i := range temps {
		need := s.vol_n[i]
		energy := 0.0
		for need > 1e-12 && seg < len(segments) {
			take := math.Min(need, remaining)
			energy += take * segments[seg].temp
			need -= take
			remaining -= take
			if remaining <= 1e-12 {
				seg++
				if seg < len(segments) {
					remaining = segments[seg].vol
				}
			}
		}
		temps[i] = energy / s.vol_n[i]
	}
	return temps
}

// _rearrange mixes layers that are warmer than the layer above them.
func (s *StorageTank) _rearrange(temps []float64) {
	type block struct {
		first, last int
		vol, temp   float64
	}
	blocks := make([]block, 0, len(temps))
	for i, temp := range temps {
		blocks = append(blocks, block{i, i, s.vol_n[i], temp})
		for len(blocks) > 1 {
			lo, hi := blocks[len(blocks)-2], blocks[len(blocks)-1]
			if lo.temp <= hi.temp {
				break
			}
			vol := lo.vol + hi.vol
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, block{lo.first, hi.last, vol, (lo.temp*lo.vol + hi.temp*hi.vol) / vol})
		}
	}
	for _, b := range blocks {
		for i := b.first; i <= b.last; i++ {
			temps[i] = b.temp
		}
	}
}

// _heat_layers gives energy to the layers from layer upwards, topmost first.
func (s *StorageTank) _heat_layers(temps []float64, at_setpoint []bool, layer int, energy float64, t_idx int) {
	cp := WATER.volumetric_energy_content_kWh_per_litre(1.0, 0.0)
	drop := s._temp_drop(s.temp_set_on, t_idx)
	for i := len(temps) - 1; i >= layer && energy > 0; i-- {
		if at_setpoint[i] {
			continue
		}
		required := (s.temp_set_on - temps[i] + drop) * s.vol_n[i] * cp
		if energy >= required {
			temps[i] = s.temp_set_on
			at_setpoint[i] = true
			energy -= required
		} else {
			temps[i] += energy / (s.vol_n[i] * cp)
			energy = 0
		}
	}
}

/*
demand_hot_water draws volume_demanded litres at hot_water_temperature from the tank,
runs the heat sources and applies standing losses.

	Returns the heat delivered into the tank by its heat sources, kWh
*/
func (s *StorageTank) demand_hot_water(volume_demanded float64, t_idx int) float64 {
	temp_cold := s.cold_feed.temperature(t_idx)

	volume_withdrawn, unmet := s._draw_off(volume_demanded, temp_cold)
	s.unmet_current_timestep = unmet
	temps := s._shift_column(volume_withdrawn, temp_cold)

	at_setpoint := make([]bool, len(temps))
	energy_input := 0.0
	for _, hs := range s.heat_sources {
		required := s._heat_required(temps, at_setpoint, hs.heater_layer, t_idx)

		var provided float64
		if solar, ok := hs.source.(*SolarThermalSystem); ok {
			// the collector loop runs on the sun, not on a thermostat
			provided = solar.demand_energy_at(required, temps[hs.heater_layer], t_idx)
		} else {
			if hs.thermostat_layer >= 0 && temps[hs.thermostat_layer] >= s.temp_out_W_min {
				continue
			}
			if required > 0 {
				provided = hs.source.demand_energy(required, t_idx)
			}
		}
		if provided <= 0 {
			continue
		}
		energy_input += provided
		if provided >= required {
			for i := hs.heater_layer; i < len(temps); i++ {
				temps[i] = s.temp_set_on
				at_setpoint[i] = true
			}
		} else {
			s._heat_layers(temps, at_setpoint, hs.heater_layer, provided, t_idx)
		}
	}

	heat_loss := 0.0
	for i := range temps {
		if at_setpoint[i] {
			heat_loss += s._temp_drop(temps[i], t_idx) * s.vol_n[i]
			continue
		}
		drop := s._temp_drop(temps[i], t_idx)
		heat_loss += drop * s.vol_n[i]
		temps[i] -= drop
	}
	// litre.K of loss is one Wh through the definition of H
	s.heat_loss_current_timestep = heat_loss / WATTS_PER_KILOWATT

	s._rearrange(temps)
	s.temp_n = temps
	return energy_input
}

//----------------------------------------------------------------------------------------------------------//

// ImmersionHeater is an electric element in a storage tank.
type ImmersionHeater struct {
	service_control
	power              float64 // kW
	energy_supply_conn *EnergySupplyConnection
	simulation_time    *SimulationTime
}

func NewImmersionHeater(
	rated_power float64,
	energy_supply_conn *EnergySupplyConnection,
	simulation_time *SimulationTime,
	control Control,
) *ImmersionHeater {
	return &ImmersionHeater{
		service_control:    service_control{control: control},
		power:              rated_power,
		energy_supply_conn: energy_supply_conn,
		simulation_time:    simulation_time,
	}
}

// demand_energy returns the heat delivered, kWh, limited by the rated power over the timestep.
func (h *ImmersionHeater) demand_energy(energy_demand float64, t_idx int) float64 {
	if !h.is_on(t_idx) || energy_demand <= 0 {
		return 0.0
	}
	energy_supplied := math.Min(energy_demand, h.power*h.simulation_time.timestep_at(t_idx))
	h.energy_supply_conn.demand_energy(energy_supplied, t_idx)
	return energy_supplied
}

//----------------------------------------------------------------------------------------------------------//

type SolarCollectorLoc int

const (
	SolarCollectorLocOut SolarCollectorLoc = iota
	SolarCollectorLocHeatedSpace
	SolarCollectorLocUnheatedSpace
)

func (l SolarCollectorLoc) String() string {
	return [...]string{"OUT", "HS", "NHS"}[l]
}

func SolarCollectorLocFromString(s string) (SolarCollectorLoc, error) {
	switch s {
	case "OUT", "":
		return SolarCollectorLocOut, nil
	case "HS":
		return SolarCollectorLocHeatedSpace, nil
	case "NHS":
		return SolarCollectorLocUnheatedSpace, nil
	}
	return 0, newConfigurationError("SolarThermalSystem.sol_loc", "unknown collector loop location %q", s)
}

type SolarThermalSystemJson struct {
	SolLoc                  string  `json:"sol_loc"`     // where the loop piping runs: "OUT", "HS" or "NHS"
	AreaModule              float64 `json:"area_module"` // m2
	Modules                 int     `json:"modules"`
	PeakCollectorEfficiency float64 `json:"peak_collector_efficiency"`
	IncidenceAngleModifier  float64 `json:"incidence_angle_modifier"`
	FirstOrderHLC           float64 `json:"first_order_hlc"`          // W/(m2.K)
	SecondOrderHLC          float64 `json:"second_order_hlc"`         // W/(m2.K2)
	CollectorMassFlowRate   float64 `json:"collector_mass_flow_rate"` // kg/s
	CollectorHeatCapacity   float64 `json:"collector_heat_capacity"`  // kJ/(m2.K)
	PowerPump               float64 `json:"power_pump"`               // W
	PowerPumpControl        float64 `json:"power_pump_control"`       // W
	SolarLoopPipingHLC      float64 `json:"solar_loop_piping_hlc"`    // W/K
	Tilt                    float64 `json:"tilt"`                     // degrees from horizontal
	Orientation             float64 `json:"orientation"`              // degrees, south = 0, east positive
}

/*
SolarThermalSystem is a solar collector loop feeding a storage tank.

	Collector efficiency follows the usual quadratic curve in the difference
	between the mean collector water temperature and the outside air,
	normalised by the irradiance on the collector plane. The water enters the
	collector at the temperature of the tank layer the loop returns to and
	warms by the collected power over the loop mass flow. The loop piping
	loses heat to wherever it runs, and heat that goes into warming the
	collector itself after an idle spell is not delivered.
*/
type SolarThermalSystem struct {
	sol_loc             SolarCollectorLoc
	area                float64 // m2, all modules
	peak_efficiency     float64
	incidence_modifier  float64
	a1                  float64 // W/(m2.K)
	a2                  float64 // W/(m2.K2)
	mass_flow_rate      float64 // kg/s
	heat_capacity       float64 // kJ/(m2.K)
	power_pump          float64 // W
	power_pump_control  float64 // W
	piping_hlc          float64 // W/K
	tilt                float64
	orientation         float64
	energy_supply_conn  *EnergySupplyConnection
	external_conditions *ExternalConditions
	simulation_time     *SimulationTime

	loop_running     bool
	temp_collector   float64 // degree C, mean water temperature the last time the loop ran
	energy_potential float64 // kWh, current timestep
	energy_supplied  float64 // kWh, current timestep
}

func NewSolarThermalSystem(
	d *SolarThermalSystemJson,
	energy_supply_conn *EnergySupplyConnection,
	external_conditions *ExternalConditions,
	simulation_time *SimulationTime,
) (*SolarThermalSystem, error) {
	sol_loc, err := SolarCollectorLocFromString(d.SolLoc)
	if err != nil {
		return nil, err
	}
	if d.AreaModule <= 0 || d.Modules <= 0 {
		return nil, newConfigurationError("SolarThermalSystem", "collector area and number of modules must be positive")
	}
	if d.CollectorMassFlowRate < 0 || d.CollectorHeatCapacity < 0 {
		return nil, newConfigurationError("SolarThermalSystem",
			"collector mass flow rate and heat capacity must not be negative")
	}
	return &SolarThermalSystem{
		sol_loc:             sol_loc,
		area:                d.AreaModule * float64(d.Modules),
		peak_efficiency:     d.PeakCollectorEfficiency,
		incidence_modifier:  d.IncidenceAngleModifier,
		a1:                  d.FirstOrderHLC,
		a2:                  d.SecondOrderHLC,
		mass_flow_rate:      d.CollectorMassFlowRate,
		heat_capacity:       d.CollectorHeatCapacity,
		power_pump:          d.PowerPump,
		power_pump_control:  d.PowerPumpControl,
		piping_hlc:          d.SolarLoopPipingHLC,
		tilt:                d.Tilt,
		orientation:         d.Orientation,
		energy_supply_conn:  energy_supply_conn,
		external_conditions: external_conditions,
		simulation_time:     simulation_time,
	}, nil
}

// irradiance on the collector plane, W/m2
func (s *SolarThermalSystem) irradiance(t_idx int) float64 {
	direct, diffuse := s.external_conditions.surface_irradiance(t_idx, s.tilt, s.orientation, 0.0, 0.0)
	return direct + diffuse
}

// temp_surrounding is the temperature around the loop piping, degree C.
func (s *SolarThermalSystem) temp_surrounding(t_idx int) float64 {
	switch s.sol_loc {
	case SolarCollectorLocHeatedSpace:
		return solar_thermal_temp_heated_space
	case SolarCollectorLocUnheatedSpace:
		return (s.external_conditions.air_temp(t_idx) + solar_thermal_temp_heated_space) / 2.0
	}
	return s.external_conditions.air_temp(t_idx)
}

// collector_power is the output of all modules, W, at mean water temperature temp_mean and irradiance G.
func (s *SolarThermalSystem) collector_power(G, temp_mean float64, t_idx int) float64 {
	dT := temp_mean - s.external_conditions.air_temp(t_idx)
	eff := s.peak_efficiency*s.incidence_modifier - s.a1*dT/G - s.a2*dT*dT/G
	return math.Max(0.0, eff) * G * s.area
}

// temp_collector_mean is the mean water temperature along the collector, degree C.
func (s *SolarThermalSystem) temp_collector_mean(temp_inlet, power float64) float64 {
	if s.mass_flow_rate <= 0 {
		return temp_inlet
	}
	return temp_inlet + power/(2.0*s.mass_flow_rate*WATER.SpecificHeatCapacity())
}

/*
energy_output_max is the heat the loop can deliver to a tank layer at
temp_inlet in timestep t_idx.

	Returns the heat, kWh, and the mean collector water temperature.
*/
func (s *SolarThermalSystem) energy_output_max(temp_inlet float64, t_idx int) (float64, float64) {
	G := s.irradiance(t_idx)
	if G <= 0 {
		return 0.0, temp_inlet
	}
	temp_mean := temp_inlet
	power := s.collector_power(G, temp_mean, t_idx)
	for i := 0; i < solar_thermal_iterations; i++ {
		temp_mean = s.temp_collector_mean(temp_inlet, power)
		power = s.collector_power(G, temp_mean, t_idx)
	}

	timestep := s.simulation_time.timestep_at(t_idx)
	collected := power * timestep / WATTS_PER_KILOWATT
	piping_loss := s.piping_hlc * math.Max(0.0, temp_mean-s.temp_surrounding(t_idx)) * timestep / WATTS_PER_KILOWATT

	// an idle collector has cooled to the outside air
	temp_start := s.external_conditions.air_temp(t_idx)
	if s.loop_running {
		temp_start = s.temp_collector
	}
	warm_up := s.heat_capacity * s.area * math.Max(0.0, temp_mean-temp_start) / SECONDS_PER_HOUR

	return math.Max(0.0, collected-piping_loss-warm_up), temp_mean
}

// demand_energy_at returns the heat given to the tank, kWh, and charges the pump.
func (s *SolarThermalSystem) demand_energy_at(energy_demand, temp_inlet float64, t_idx int) float64 {
	timestep := s.simulation_time.timestep_at(t_idx)
	potential, temp_mean := s.energy_output_max(temp_inlet, t_idx)

	// the pump circulates whenever the collector has heat to give
	pump_power := s.power_pump_control
	s.loop_running = potential > 0
	if s.loop_running {
		pump_power += s.power_pump
		s.temp_collector = temp_mean
	}
	s.energy_supply_conn.demand_energy(pump_power*timestep/WATTS_PER_KILOWATT, t_idx)

	s.energy_potential = potential
	s.energy_supplied = math.Min(math.Max(0.0, energy_demand), potential)
	return s.energy_supplied
}

func (s *SolarThermalSystem) demand_energy(energy_demand float64, t_idx int) float64 {
	return s.demand_energy_at(energy_demand, solar_thermal_temp_return_default, t_idx)
}
