package home_energy_model

import "gonum.org/v1/gonum/stat"

type ColdWaterSourceJson struct {
	StartDay       int       `json:"start_day"`
	TimeSeriesStep float64   `json:"time_series_step"`
	Temperatures   []float64 `json:"temperatures"`
}

// ColdWaterSource is the mains or header tank feed of the dwelling.
type ColdWaterSource struct {
	cold_water_temps []float64 // degree C
	simulation_time  *SimulationTime
	start_day        int
	time_series_step float64
}

func NewColdWaterSource(cold_water_temps []float64, simulation_time *SimulationTime, start_day int, time_series_step float64) *ColdWaterSource {
	return &ColdWaterSource{
		cold_water_temps: cold_water_temps,
		simulation_time:  simulation_time,
		start_day:        start_day,
		time_series_step: time_series_step,
	}
}

func NewColdWaterSourceFromJson(name string, d *ColdWaterSourceJson, simulation_time *SimulationTime) (*ColdWaterSource, error) {
	if len(d.Temperatures) == 0 {
		return nil, newConfigurationError("ColdWaterSource."+name+".temperatures", "no temperatures given")
	}
	step := d.TimeSeriesStep
	if step == 0 {
		step = 1.0
	}
	return NewColdWaterSource(d.Temperatures, simulation_time, d.StartDay, step), nil
}

// temperature of the cold water at timestep t_idx, degree C
func (c *ColdWaterSource) temperature(t_idx int) float64 {
	return c.cold_water_temps[c.simulation_time.time_series_idx(t_idx, c.start_day, c.time_series_step)]
}

// mean of the whole series, degree C
func (c *ColdWaterSource) temperature_mean() float64 {
	return stat.Mean(c.cold_water_temps, nil)
}
