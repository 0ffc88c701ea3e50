package home_energy_model

import (
	"fmt"
	"math"
)

/*
ScheduleJson is a compressed schedule as read from the input file.

	Each key names a sub-schedule. Entries are plain values, names of other
	sub-schedules, or {"value": X, "repeat": N} where X is itself a plain
	value or a sub-schedule name. Expansion starts from "main".
*/
type ScheduleJson map[string][]interface{}

// WaterEventJson is a single hot water draw-off.
type WaterEventJson struct {
	Start       float64 `json:"start"`       // hours since the start of the year, h
	Duration    float64 `json:"duration"`    // minutes
	Temperature float64 `json:"temperature"` // temperature at the outlet, degree C
}

func expand_schedule(schedule ScheduleJson, name string) ([]interface{}, error) {
	return _expand_schedule(schedule, name, map[string]bool{})
}

func _expand_schedule(schedule ScheduleJson, name string, visiting map[string]bool) ([]interface{}, error) {
	entries, ok := schedule[name]
	if !ok {
		return nil, newConfigurationError("schedule", "sub-schedule %q not defined", name)
	}
	if visiting[name] {
		return nil, newConfigurationError("schedule", "sub-schedule %q refers to itself", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	expanded := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		switch v := entry.(type) {
		case string:
			sub, err := _expand_schedule(schedule, v, visiting)
			if err != nil {
				return nil, err
			}
			expanded = append(expanded, sub...)
		case map[string]interface{}:
			value, has_value := v["value"]
			repeat, has_repeat := v["repeat"].(float64)
			if !has_value || !has_repeat {
				return nil, newConfigurationError("schedule", "entry in %q needs both value and repeat", name)
			}
			items := []interface{}{value}
			if ref, is_ref := value.(string); is_ref {
				sub, err := _expand_schedule(schedule, ref, visiting)
				if err != nil {
					return nil, err
				}
				items = sub
			}
			for i := 0; i < int(repeat); i++ {
				expanded = append(expanded, items...)
			}
		default:
			expanded = append(expanded, v)
		}
	}
	return expanded, nil
}

func expand_schedule_bool(schedule ScheduleJson, name string) ([]bool, error) {
	values, err := expand_schedule(schedule, name)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(values))
	for i, v := range values {
		b, ok := v.(bool)
		if !ok {
			return nil, newConfigurationError("schedule", "entry %d is %v, expected a boolean", i, v)
		}
		out[i] = b
	}
	return out, nil
}

func expand_schedule_float(schedule ScheduleJson, name string) ([]float64, error) {
	values, err := expand_schedule(schedule, name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		f, ok := v.(float64)
		if !ok {
			return nil, newConfigurationError("schedule", "entry %d is %v, expected a number", i, v)
		}
		out[i] = f
	}
	return out, nil
}

// Like expand_schedule_float, but null entries are kept as nil.
func expand_schedule_nullable_float(schedule ScheduleJson, name string) ([]*float64, error) {
	values, err := expand_schedule(schedule, name)
	if err != nil {
		return nil, err
	}
	out := make([]*float64, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return nil, newConfigurationError("schedule", "entry %d is %v, expected a number or null", i, v)
		}
		out[i] = &f
	}
	return out, nil
}

/*
Place each event in the timestep that contains its start time.

	Args:
		events: events, start times in hours
		start_hour: start of the first timestep, h
		simulation_timestep: timestep, h
		total_timesteps: number of timesteps

	Returns:
		one entry per timestep; nil where no event starts
*/
func expand_events(events []WaterEventJson, start_hour float64, simulation_timestep float64, total_timesteps int) [][]WaterEventJson {
	schedule := make([][]WaterEventJson, total_timesteps)
	for _, event := range events {
		t_idx := int(math.Floor((event.Start - start_hour) / simulation_timestep))
		if t_idx < 0 || t_idx >= total_timesteps {
			continue
		}
		schedule[t_idx] = append(schedule[t_idx], event)
	}
	return schedule
}

func (e WaterEventJson) String() string {
	return fmt.Sprintf("{start: %g, duration: %g, temperature: %g}", e.Start, e.Duration, e.Temperature)
}
