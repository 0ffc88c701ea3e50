package home_energy_model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcNOccupants(t *testing.T) {
	testCases := []struct {
		TFA      float64
		nbeds    int
		expected float64
	}{
		{50.0, 1, 1.4335354834056302},
		{70.0, 2, 2.2472},
		{90.0, 3, 2.9796},
		{110.0, 4, 3.3715},
		{150.0, 5, 3.8997},
		{250.0, 8, 3.8997},
	}
	for _, tc := range testCases {
		N, err := calc_N_occupants(tc.TFA, tc.nbeds)
		require.NoError(t, err)
		assert.InDelta(t, tc.expected, N, 1e-12)
	}

	var nerr *NumericDomainError
	_, err := calc_N_occupants(0.0, 3)
	assert.True(t, errors.As(err, &nerr))
	_, err = calc_N_occupants(80.0, 0)
	assert.True(t, errors.As(err, &nerr))
}

func TestVolHWDailyAverage(t *testing.T) {
	assert.InDelta(t, 111.27264035970948, vol_hw_daily_average(2.9796), 1e-9)
}

func TestLoadDecileBands(t *testing.T) {
	bands, err := load_decile_bands()
	require.NoError(t, err)
	require.Len(t, bands, 10)
	assert.Equal(t, 1, bands[0].Decile)
	assert.Equal(t, 24.4, bands[0].MedianDailyDHWVol)
	assert.Equal(t, 183.9, bands[9].MedianDailyDHWVol)
	for i := 1; i < len(bands); i++ {
		assert.Greater(t, bands[i].MedianDailyDHWVol, bands[i-1].MedianDailyDHWVol)
	}
}

func TestHotWaterEventGenerator(t *testing.T) {
	g1, err := NewHotWaterEventGenerator(111.27, hw_events_reference_seed)
	require.NoError(t, err)
	g2, err := NewHotWaterEventGenerator(111.27, hw_events_reference_seed)
	require.NoError(t, err)
	assert.Equal(t, 8, g1.band.Decile)

	events1 := g1.build_annual_events(0)
	events2 := g2.build_annual_events(0)
	assert.Equal(t, events1, events2)
	require.NotEmpty(t, events1)

	for i, e := range events1 {
		assert.GreaterOrEqual(t, e.Time, 0.0)
		assert.Less(t, e.Time, 8760.0)
		assert.Greater(t, e.Volume, 0.0)
		if i > 0 {
			assert.GreaterOrEqual(t, e.Time, events1[i-1].Time)
		}
		if e.Type == HotWaterEventShower {
			assert.InDelta(t, e.Duration*hw_shower_flowrate_hot, e.Volume, 1e-9)
		}
	}

	g3, err := NewHotWaterEventGenerator(111.27, hw_events_reference_seed+1)
	require.NoError(t, err)
	assert.NotEqual(t, events1, g3.build_annual_events(0))
}

func TestHWCalibrationFactor(t *testing.T) {
	events := []HotWaterEvent{
		{Type: HotWaterEventShower, Time: 1.0, Duration: 5.0, Volume: 29.505},
		{Type: HotWaterEventOther, Time: 2.0, Volume: 3.0},
	}
	FHW := hw_calibration_factor(100.0, events)
	assert.InDelta(t, 365.0*100.0/32.505, FHW, 1e-9)
	assert.Equal(t, 1.0, hw_calibration_factor(100.0, nil))
}

func TestCalibrationStatistics(t *testing.T) {
	mean, variance, err := calibration_statistics(60.0, []int64{0, 1, 2, 3})
	require.NoError(t, err)
	assert.Greater(t, mean, 0.0)
	assert.GreaterOrEqual(t, variance, 0.0)
}

func TestAllocateHWEvents(t *testing.T) {
	simtime, err := NewSimulationTime(0, 24, 1)
	require.NoError(t, err)
	cold := NewColdWaterSource([]float64{10.0}, simtime, 0, 24)

	outlets := &hw_event_outlets{
		shower_names: []string{"shower a", "shower b"},
		bath_names:   []string{"bath"},
		baths:        map[string]*Bath{"bath": NewBath(180.0, cold, 4.5)},
		other_names:  []string{"sink"},
		others:       map[string]*OtherHotWater{"sink": NewOtherHotWater(5.0, cold)},
	}
	events := []HotWaterEvent{
		{Type: HotWaterEventShower, Time: 1.0, Duration: 5.0, Volume: 29.505},
		{Type: HotWaterEventBath, Time: 2.0, Volume: 50.0},
		{Type: HotWaterEventShower, Time: 3.0, Duration: 6.0, Volume: 35.406},
		{Type: HotWaterEventOther, Time: 4.0, Volume: 3.0},
	}

	result, err := allocate_hw_events(events, 2.0, outlets, 10.0, true)
	require.NoError(t, err)

	assert.Equal(t, []WaterEventJson{{Start: 1.0, Duration: 10.0, Temperature: 41.0}}, result.Shower["shower a"])
	assert.Equal(t, []WaterEventJson{{Start: 3.0, Duration: 12.0, Temperature: 41.0}}, result.Shower["shower b"])
	require.Len(t, result.Bath["bath"], 1)
	assert.InDelta(t, 30.10752688172043, result.Bath["bath"][0].Duration, 1e-9)
	require.Len(t, result.Other["sink"], 1)
	assert.InDelta(t, 1.544516129032258, result.Other["sink"][0].Duration, 1e-9)

	// without baths the bath events become showers
	outlets.bath_names = nil
	result, err = allocate_hw_events(events, 1.0, outlets, 10.0, false)
	require.NoError(t, err)
	assert.Len(t, result.Shower["shower a"], 2)
	assert.Len(t, result.Shower["shower b"], 1)
	assert.Empty(t, result.Bath)

	_, err = allocate_hw_events(events, 1.0, &hw_event_outlets{}, 10.0, false)
	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}
