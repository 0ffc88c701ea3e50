package home_energy_model

import "math"

/*
Interfaces between heat generators and the things that draw on them.

	A generator (boiler, heat pump, heat network) is wrapped by one service
	object per use. The service is what a zone, emitter or tank talks to; the
	generator behind it is shared, and its capacity within a timestep is split
	between its services in the order they ask.
*/

// SpaceHeatSystem delivers heat directly to a zone.
type SpaceHeatSystem interface {
	demand_energy(energy_demand float64, t_idx int) float64
	temp_setpnt(t_idx int) *float64
	frac_convective() float64
}

// SpaceHeatServiceWet is a generator service feeding a wet distribution system.
type SpaceHeatServiceWet interface {
	demand_energy(energy_demand, temp_flow, temp_return float64, t_idx int) float64
	energy_output_max(temp_flow, temp_return float64, t_idx int) float64
	temp_setpnt(t_idx int) *float64
}

// TankHeatSource heats the layers of a storage tank it is attached to.
type TankHeatSource interface {
	demand_energy(energy_demand float64, t_idx int) float64
}

// HotWaterSource delivers hot water at hot_water_temperature and returns the energy it took, kWh.
type HotWaterSource interface {
	demand_hot_water(volume_demanded float64, t_idx int) float64
}

// TimestepEnder is implemented by devices that carry per-timestep state.
type TimestepEnder interface {
	timestep_end(t_idx int)
}

// service_control is the setpoint schedule a service runs to.
type service_control struct {
	control Control
}

func (s *service_control) is_on(t_idx int) bool {
	if s.control == nil {
		return true
	}
	return s.control.is_on(t_idx)
}

func (s *service_control) temp_setpnt(t_idx int) *float64 {
	if c, ok := s.control.(*SetpointTimeControl); ok {
		return c.setpnt(t_idx)
	}
	return nil
}

// clip limits x to [lo, hi].
func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

// interp is a piecewise linear interpolation over ascending xp, clamped at both ends.
func interp(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if n == 1 || x <= xp[0] {
		return fp[0]
	}
	if x >= xp[n-1] {
		return fp[n-1]
	}
	j := 0
	for j < n-2 && x >= xp[j+1] {
		j++
	}
	slope := (fp[j+1] - fp[j]) / (xp[j+1] - xp[j])
	return slope*(x-xp[j]) + fp[j]
}
