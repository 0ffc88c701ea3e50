package home_energy_model

import "fmt"

type ControlJson struct {
	Type           string       `json:"type"` // "OnOffTimeControl", "SetpointTimeControl" or "ToUChargeControl"
	StartDay       int          `json:"start_day"`
	TimeSeriesStep float64      `json:"time_series_step"`
	Schedule       ScheduleJson `json:"schedule"`
	ChargeLevel    []float64    `json:"charge_level"` // ToUChargeControl only, one value per day
}

// Control is anything that answers whether a device may run at a timestep.
type Control interface {
	is_on(t_idx int) bool
}

type time_series_control struct {
	simulation_time  *SimulationTime
	start_day        int
	time_series_step float64
}

func (c *time_series_control) _idx(t_idx int) int {
	return c.simulation_time.time_series_idx(t_idx, c.start_day, c.time_series_step)
}

// OnOffTimeControl switches a device by a boolean schedule.
type OnOffTimeControl struct {
	time_series_control
	schedule []bool
}

func NewOnOffTimeControl(schedule []bool, simulation_time *SimulationTime, start_day int, time_series_step float64) *OnOffTimeControl {
	return &OnOffTimeControl{
		time_series_control: time_series_control{simulation_time, start_day, time_series_step},
		schedule:            schedule,
	}
}

func (c *OnOffTimeControl) is_on(t_idx int) bool {
	return c.schedule[c._idx(t_idx)]
}

/*
SetpointTimeControl gives a temperature setpoint per time series entry.

	A nil entry means no setpoint: the device is off and the space free-runs.
*/
type SetpointTimeControl struct {
	time_series_control
	schedule []*float64
}

func NewSetpointTimeControl(schedule []*float64, simulation_time *SimulationTime, start_day int, time_series_step float64) *SetpointTimeControl {
	return &SetpointTimeControl{
		time_series_control: time_series_control{simulation_time, start_day, time_series_step},
		schedule:            schedule,
	}
}

func (c *SetpointTimeControl) is_on(t_idx int) bool {
	return c.schedule[c._idx(t_idx)] != nil
}

// setpnt returns the setpoint at t_idx, degree C, or nil when there is none.
func (c *SetpointTimeControl) setpnt(t_idx int) *float64 {
	return c.schedule[c._idx(t_idx)]
}

// in_required_period reports whether any setpoint is scheduled on the day of t_idx.
func (c *SetpointTimeControl) in_required_period(t_idx int) bool {
	steps_per_day := int(float64(HOURS_PER_DAY) / c.time_series_step)
	if steps_per_day < 1 {
		steps_per_day = 1
	}
	first := (c._idx(t_idx) / steps_per_day) * steps_per_day
	for i := first; i < first+steps_per_day && i < len(c.schedule); i++ {
		if c.schedule[i] != nil {
			return true
		}
	}
	return false
}

/*
ToUChargeControl is a time-of-use control for storage heaters.

	The boolean schedule marks the low-tariff periods in which charging is
	allowed; charge_level gives the target state of charge per day, 0..1.
*/
type ToUChargeControl struct {
	OnOffTimeControl
	charge_level []float64
}

func NewToUChargeControl(
	schedule []bool,
	simulation_time *SimulationTime,
	start_day int,
	time_series_step float64,
	charge_level []float64,
) (*ToUChargeControl, error) {
	for day, level := range charge_level {
		if level < 0 || level > 1 {
			return nil, newConfigurationError("ToUChargeControl.charge_level", "day %d: %g is outside 0..1", day, level)
		}
	}
	return &ToUChargeControl{
		OnOffTimeControl: *NewOnOffTimeControl(schedule, simulation_time, start_day, time_series_step),
		charge_level:     charge_level,
	}, nil
}

// target_charge returns the target state of charge for the day of t_idx.
func (c *ToUChargeControl) target_charge(t_idx int) float64 {
	if len(c.charge_level) == 0 {
		return 1.0
	}
	day := c.simulation_time.current_day(t_idx) - c.start_day
	return c.charge_level[day%len(c.charge_level)]
}

// NewControlFromJson builds a control; the schedule is expanded from its "main" entry.
func NewControlFromJson(name string, d *ControlJson, simulation_time *SimulationTime) (Control, error) {
	step := d.TimeSeriesStep
	if step == 0 {
		step = 1.0
	}
	switch d.Type {
	case "OnOffTimeControl":
		schedule, err := expand_schedule_bool(d.Schedule, "main")
		if err != nil {
			return nil, fmt.Errorf("control %s: %w", name, err)
		}
		return NewOnOffTimeControl(schedule, simulation_time, d.StartDay, step), nil
	case "SetpointTimeControl":
		schedule, err := expand_schedule_nullable_float(d.Schedule, "main")
		if err != nil {
			return nil, fmt.Errorf("control %s: %w", name, err)
		}
		return NewSetpointTimeControl(schedule, simulation_time, d.StartDay, step), nil
	case "ToUChargeControl":
		schedule, err := expand_schedule_bool(d.Schedule, "main")
		if err != nil {
			return nil, fmt.Errorf("control %s: %w", name, err)
		}
		return NewToUChargeControl(schedule, simulation_time, d.StartDay, step, d.ChargeLevel)
	default:
		return nil, newConfigurationError("Control."+name+".type", "unknown control type %q", d.Type)
	}
}
