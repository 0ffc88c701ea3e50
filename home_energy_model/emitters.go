package home_energy_model

import "math"

// EcoDesignControllerClass is the ErP class of the heating controls (I to VIII).
type EcoDesignControllerClass int

const (
	EcoDesignControllerClass1 EcoDesignControllerClass = iota + 1
	EcoDesignControllerClass2
	EcoDesignControllerClass3
	EcoDesignControllerClass4
	EcoDesignControllerClass5
	EcoDesignControllerClass6
	EcoDesignControllerClass7
	EcoDesignControllerClass8
)

// weather_compensated is true for the classes whose flow temperature follows outside air.
func (c EcoDesignControllerClass) weather_compensated() bool {
	switch c {
	case EcoDesignControllerClass2, EcoDesignControllerClass3, EcoDesignControllerClass6, EcoDesignControllerClass7:
		return true
	}
	return false
}

type EcoDesignControllerJson struct {
	EcoDesignControlClass int      `json:"ecodesign_control_class"`
	MinOutdoorTemp        *float64 `json:"min_outdoor_temp,omitempty"` // degree C
	MaxOutdoorTemp        *float64 `json:"max_outdoor_temp,omitempty"` // degree C
	MinFlowTemp           *float64 `json:"min_flow_temp,omitempty"`    // degree C
}

type WetDistributionJson struct {
	Type                string                  `json:"type"` // "WetDistribution"
	HeatSource          WetHeatSourceRefJson    `json:"HeatSource"`
	ThermalMass         float64                 `json:"thermal_mass"` // kWh/K
	C                   float64                 `json:"c"`            // kW/K^n
	N                   float64                 `json:"n"`
	FracConvective      float64                 `json:"frac_convective"`
	EcoDesignController EcoDesignControllerJson `json:"ecodesign_controller"`
	DesignFlowTemp      float64                 `json:"design_flow_temp"` // degree C
	Control             string                  `json:"Control"`
}

type WetHeatSourceRefJson struct {
	Name string `json:"name"`
}

// emitter_zone is the room an emitter heats.
type emitter_zone interface {
	temp_internal_air() float64
}

const (
	// flow temperature above which the return temperature is fixed
	emitters_temp_flow_fixed_return = 70.0 // degree C
	emitters_temp_return_fixed      = 60.0 // degree C
)

/*
Emitters is a set of radiators or underfloor heating fed from a wet heat source.

	The emitters are one lumped thermal mass at a single temperature. Their
	output to the room is c (T_E - T_rm)^n. Heat requested from the source in a
	timestep is whatever brings the emitters towards the temperature that
	would meet the room's demand, limited by the mean of flow and return
	temperature, and the emitter temperature over the timestep is found by
	integrating the heat balance of the mass.
*/
type Emitters struct {
	thermal_mass        float64 // kWh/K
	c                   float64 // kW/K^n
	n                   float64
	frac_convective_val float64
	heat_source         SpaceHeatServiceWet
	zone                emitter_zone
	external_conditions *ExternalConditions
	ecodesign_class     EcoDesignControllerClass
	min_outdoor_temp    float64 // degree C
	max_outdoor_temp    float64 // degree C
	min_flow_temp       float64 // degree C
	design_flow_temp    float64 // degree C
	simulation_time     *SimulationTime

	temp_emitter_prev float64 // degree C, at the end of the previous timestep
}

func NewEmitters(
	thermal_mass float64,
	c float64,
	n float64,
	frac_convective float64,
	heat_source SpaceHeatServiceWet,
	zone emitter_zone,
	external_conditions *ExternalConditions,
	ecodesign_controller EcoDesignControllerJson,
	design_flow_temp float64,
	simulation_time *SimulationTime,
) (*Emitters, error) {
	if thermal_mass <= 0 {
		return nil, newConfigurationError("SpaceHeatSystem.thermal_mass", "must be positive, got %g", thermal_mass)
	}
	if c <= 0 || n <= 0 {
		return nil, newConfigurationError("SpaceHeatSystem.c", "emitter characteristic must be positive, got c=%g n=%g", c, n)
	}
	class := EcoDesignControllerClass(ecodesign_controller.EcoDesignControlClass)
	if class < EcoDesignControllerClass1 || class > EcoDesignControllerClass8 {
		return nil, newConfigurationError("SpaceHeatSystem.ecodesign_controller.ecodesign_control_class",
			"must be 1 to 8, got %d", ecodesign_controller.EcoDesignControlClass)
	}

	e := &Emitters{
		thermal_mass:        thermal_mass,
		c:                   c,
		n:                   n,
		frac_convective_val: frac_convective,
		heat_source:         heat_source,
		zone:                zone,
		external_conditions: external_conditions,
		ecodesign_class:     class,
		design_flow_temp:    design_flow_temp,
		simulation_time:     simulation_time,
		temp_emitter_prev:   20.0,
	}

	if class.weather_compensated() {
		if ecodesign_controller.MinOutdoorTemp == nil ||
			ecodesign_controller.MaxOutdoorTemp == nil ||
			ecodesign_controller.MinFlowTemp == nil {
			return nil, newConfigurationError("SpaceHeatSystem.ecodesign_controller",
				"min_outdoor_temp, max_outdoor_temp and min_flow_temp are required for class %d", class)
		}
		e.min_outdoor_temp = *ecodesign_controller.MinOutdoorTemp
		e.max_outdoor_temp = *ecodesign_controller.MaxOutdoorTemp
		e.min_flow_temp = *ecodesign_controller.MinFlowTemp
		if e.max_outdoor_temp <= e.min_outdoor_temp {
			return nil, newConfigurationError("SpaceHeatSystem.ecodesign_controller.max_outdoor_temp",
				"must be above min_outdoor_temp")
		}
	}
	return e, nil
}

func (e *Emitters) frac_convective() float64 {
	return e.frac_convective_val
}

func (e *Emitters) temp_setpnt(t_idx int) *float64 {
	return e.heat_source.temp_setpnt(t_idx)
}

// temp_emitter_req is the emitter temperature at which output to the room is power_req, kW.
func (e *Emitters) temp_emitter_req(power_req, temp_rm float64) float64 {
	return temp_rm + math.Pow(power_req/e.c, 1.0/e.n)
}

// power_output_emitter is the heat given to the room at emitter temperature temp_emitter, kW.
func (e *Emitters) power_output_emitter(temp_emitter, temp_rm float64) float64 {
	return e.c * math.Pow(math.Max(0.0, temp_emitter-temp_rm), e.n)
}

// temp_flow_return returns flow and return temperatures, degree C.
func (e *Emitters) temp_flow_return(t_idx int) (float64, float64) {
	flow_temp := e.design_flow_temp
	if e.ecodesign_class.weather_compensated() {
		outside_temp := e.external_conditions.air_temp(t_idx)
		flow_temp = interp(
			outside_temp,
			[]float64{e.min_outdoor_temp, e.max_outdoor_temp},
			[]float64{e.design_flow_temp, e.min_flow_temp},
		)
	}

	var return_temp float64
	if flow_temp >= emitters_temp_flow_fixed_return {
		return_temp = emitters_temp_return_fixed
	} else {
		return_temp = flow_temp * 6.0 / 7.0
	}
	return flow_temp, return_temp
}

/*
temp_emitter integrates the heat balance of the emitter mass over time_end
hours with constant heat input power_input (kW), stopping early if the
emitters reach temp_emitter_max.

	Returns the final emitter temperature and the time it reached
	temp_emitter_max, or ok false if it did not.
*/
func (e *Emitters) temp_emitter(
	time_end float64,
	temp_emitter_start float64,
	temp_emitter_max float64,
	temp_rm float64,
	power_input float64,
) (float64, float64, bool) {
	// work in temperature difference to the room
	f := func(t, temp_diff float64) float64 {
		return (power_input - e.c*math.Pow(math.Max(0.0, temp_diff), e.n)) / e.thermal_mass
	}
	temp_diff_max := temp_emitter_max - temp_rm
	event := func(t, temp_diff float64) float64 {
		return temp_diff - temp_diff_max
	}

	temp_diff, time_max, reached := solve_ode_rk45(f, 0.0, time_end, temp_emitter_start-temp_rm, event)
	if reached {
		return temp_emitter_max, time_max, true
	}
	return temp_rm + temp_diff, 0.0, false
}

// demand_energy returns the heat released to the zone, kWh.
func (e *Emitters) demand_energy(energy_demand float64, t_idx int) float64 {
	timestep := e.simulation_time.timestep_at(t_idx)
	temp_rm := e.zone.temp_internal_air()

	flow_temp, return_temp := e.temp_flow_return(t_idx)
	temp_emitter_max := (flow_temp + return_temp) / 2.0

	energy_req := 0.0
	time_cooldown := timestep
	temp_cooled := 0.0
	cooling_to_max := energy_demand > 0 && e.temp_emitter_prev > temp_emitter_max
	if cooling_to_max {
		// no heat from the source until the emitters have cooled to the maximum,
		// then enough to hold them there
		var time_max float64
		var reached bool
		temp_cooled, time_max, reached = e.temp_emitter(timestep, e.temp_emitter_prev, temp_emitter_max, temp_rm, 0.0)
		if reached {
			time_cooldown = time_max
			energy_req = e.power_output_emitter(temp_emitter_max, temp_rm) * (timestep - time_cooldown)
		}
	} else if energy_demand > 0 {
		temp_emitter_target := math.Min(e.temp_emitter_req(energy_demand/timestep, temp_rm), temp_emitter_max)
		energy_req = math.Max(0.0,
			e.thermal_mass*(temp_emitter_target-e.temp_emitter_prev)+
				e.power_output_emitter(temp_emitter_target, temp_rm)*timestep)
	}
	energy_req = math.Min(energy_req, e.heat_source.energy_output_max(flow_temp, return_temp, t_idx))

	var temp_emitter float64
	if cooling_to_max {
		temp_emitter = temp_cooled
		if time_cooldown < timestep {
			power_input := energy_req / (timestep - time_cooldown)
			if power_input < e.power_output_emitter(temp_emitter_max, temp_rm) {
				// source limited, so the emitters keep cooling
				temp_emitter, _, _ = e.temp_emitter(timestep-time_cooldown, temp_emitter_max, temp_emitter_max, temp_rm, power_input)
			} else {
				temp_emitter = temp_emitter_max
			}
		}
	} else {
		power_input := energy_req / timestep
		var time_max float64
		var reached bool
		temp_emitter, time_max, reached = e.temp_emitter(timestep, e.temp_emitter_prev, temp_emitter_max, temp_rm, power_input)
		if reached {
			// held at the maximum for the rest of the timestep, taking only what it gives out
			energy_req = power_input*time_max + e.power_output_emitter(temp_emitter_max, temp_rm)*(timestep-time_max)
		}
	}

	energy_provided := 0.0
	if energy_req > 0 {
		energy_provided = e.heat_source.demand_energy(energy_req, flow_temp, return_temp, t_idx)
	}

	energy_released := energy_provided + e.thermal_mass*(e.temp_emitter_prev-temp_emitter)
	e.temp_emitter_prev = temp_emitter
	return energy_released
}
