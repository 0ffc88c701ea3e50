package home_energy_model

import (
	"fmt"
	"math"
)

type SimulationTimeJson struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Step  float64 `json:"step"`
}

/*
SimulationTime is the calculation period of a run.

	All per-timestep queries in this package take the timestep index t_idx
	explicitly; SimulationTime itself holds no cursor.
*/
type SimulationTime struct {
	start float64 // start hour of the run, h
	end   float64 // end hour of the run, h
	step  float64 // timestep, h
	total int     // number of timesteps
}

// TimeStep is one item produced by a SimulationTimeIterator.
type TimeStep struct {
	Idx     int     // timestep index
	Current float64 // hour at the start of the timestep, h
	Step    float64 // length of the timestep, h
}

type SimulationTimeIterator struct {
	simtime *SimulationTime
	idx     int
}

func NewSimulationTime(start, end, step float64) (*SimulationTime, error) {
	if step <= 0 {
		return nil, newConfigurationError("SimulationTime.step", "step must be positive, got %g", step)
	}
	if end <= start {
		return nil, newConfigurationError("SimulationTime.end", "end (%g) must be after start (%g)", end, start)
	}
	return &SimulationTime{
		start: start,
		end:   end,
		step:  step,
		total: int(math.Ceil((end - start) / step)),
	}, nil
}

func NewSimulationTimeFromJson(d SimulationTimeJson) (*SimulationTime, error) {
	return NewSimulationTime(d.Start, d.End, d.Step)
}

func (s *SimulationTime) String() string {
	return fmt.Sprintf("SimulationTime(%g, %g, %g)", s.start, s.end, s.step)
}

func (s *SimulationTime) total_steps() int {
	return s.total
}

// nominal timestep, h
func (s *SimulationTime) timestep() float64 {
	return s.step
}

// length of timestep t_idx, h; the final timestep may be shorter than step
func (s *SimulationTime) timestep_at(t_idx int) float64 {
	return math.Min(s.step, s.end-s.current(t_idx))
}

func (s *SimulationTime) start_hour() float64 {
	return s.start
}

// time at the start of timestep t_idx, h
func (s *SimulationTime) current(t_idx int) float64 {
	return s.start + float64(t_idx)*s.step
}

// whole hour containing the start of timestep t_idx
func (s *SimulationTime) current_hour(t_idx int) int {
	return int(math.Floor(s.current(t_idx)))
}

func (s *SimulationTime) hour_of_day(t_idx int) int {
	return s.current_hour(t_idx) % HOURS_PER_DAY
}

// day of year, counting from zero
func (s *SimulationTime) current_day(t_idx int) int {
	return s.current_hour(t_idx) / HOURS_PER_DAY
}

// month of year, counting from zero
func (s *SimulationTime) current_month(t_idx int) int {
	day := s.current_day(t_idx) % 365
	for month, n_days := range DAYS_PER_MONTH {
		if day < n_days {
			return month
		}
		day -= n_days
	}
	panic(day)
}

/*
Hours bounding the month that contains timestep t_idx.

	Returns:
		hours at the start and at the end of the current month, h
*/
func (s *SimulationTime) current_month_start_end_hour(t_idx int) (float64, float64) {
	month := s.current_month(t_idx)
	year_offset := float64(s.current_day(t_idx)/365) * 365 * HOURS_PER_DAY
	start := 0.0
	for m := 0; m < month; m++ {
		start += float64(DAYS_PER_MONTH[m] * HOURS_PER_DAY)
	}
	end := start + float64(DAYS_PER_MONTH[month]*HOURS_PER_DAY)
	return year_offset + start, year_offset + end
}

/*
Map timestep t_idx onto the index of a separate time series.

	Args:
		start_day: day of year (from zero) of the first series entry
		step: interval of the series, h
*/
func (s *SimulationTime) time_series_idx(t_idx int, start_day int, step float64) int {
	return int(math.Floor((s.current(t_idx) - float64(start_day*HOURS_PER_DAY)) / step))
}

// Same as time_series_idx but with day-level resolution.
func (s *SimulationTime) time_series_idx_days(t_idx int, start_day int, step_days float64) int {
	return int(math.Floor(float64(s.current_day(t_idx)-start_day) / step_days))
}

func (s *SimulationTime) iter() *SimulationTimeIterator {
	return &SimulationTimeIterator{simtime: s}
}

func (it *SimulationTimeIterator) next() (TimeStep, error) {
	if it.idx >= it.simtime.total {
		return TimeStep{}, ErrSimulationTimeExhausted
	}
	ts := TimeStep{
		Idx:     it.idx,
		Current: it.simtime.current(it.idx),
		Step:    it.simtime.timestep_at(it.idx),
	}
	it.idx++
	return ts, nil
}
