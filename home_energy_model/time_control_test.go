package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float_ptr(v float64) *float64 {
	return &v
}

func TestOnOffTimeControl(t *testing.T) {
	simtime, err := NewSimulationTime(0, 8, 1)
	require.NoError(t, err)
	schedule := []bool{true, false, true, true, false, true, false, false}
	ctrl := NewOnOffTimeControl(schedule, simtime, 0, 1)

	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		assert.Equal(t, schedule[t_idx], ctrl.is_on(t_idx), "t_idx %d", t_idx)
	}
}

func TestOnOffTimeControlHalfHourly(t *testing.T) {
	// hourly schedule read on a half hour simulation step
	simtime, err := NewSimulationTime(0, 4, 0.5)
	require.NoError(t, err)
	ctrl := NewOnOffTimeControl([]bool{true, false, true, false}, simtime, 0, 1)

	expected := []bool{true, true, false, false, true, true, false, false}
	for t_idx, want := range expected {
		assert.Equal(t, want, ctrl.is_on(t_idx), "t_idx %d", t_idx)
	}
}

func TestSetpointTimeControl(t *testing.T) {
	simtime, err := NewSimulationTime(0, 8, 1)
	require.NoError(t, err)
	schedule := []*float64{float_ptr(21.0), nil, nil, float_ptr(21.0), nil, float_ptr(21.0), float_ptr(25.0), float_ptr(15.0)}
	ctrl := NewSetpointTimeControl(schedule, simtime, 0, 1)

	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		assert.Equal(t, schedule[t_idx] != nil, ctrl.is_on(t_idx), "t_idx %d", t_idx)
		assert.Equal(t, schedule[t_idx], ctrl.setpnt(t_idx), "t_idx %d", t_idx)
		assert.True(t, ctrl.in_required_period(t_idx))
	}

	off := NewSetpointTimeControl(make([]*float64, 8), simtime, 0, 1)
	assert.False(t, off.in_required_period(3))
}

func TestToUChargeControl(t *testing.T) {
	simtime, err := NewSimulationTime(0, 48, 1)
	require.NoError(t, err)
	schedule := make([]bool, 48)
	for i := 0; i < 7; i++ {
		schedule[i] = true
		schedule[24+i] = true
	}
	ctrl, err := NewToUChargeControl(schedule, simtime, 0, 1, []float64{1.0, 0.8})
	require.NoError(t, err)

	assert.True(t, ctrl.is_on(0))
	assert.False(t, ctrl.is_on(7))
	assert.True(t, ctrl.is_on(30))
	assert.Equal(t, 1.0, ctrl.target_charge(5))
	assert.Equal(t, 0.8, ctrl.target_charge(30))

	_, err = NewToUChargeControl(schedule, simtime, 0, 1, []float64{1.5})
	assert.Error(t, err)
}

func TestNewControlFromJson(t *testing.T) {
	simtime, err := NewSimulationTime(0, 4, 1)
	require.NoError(t, err)

	ctrl, err := NewControlFromJson("hw timer", &ControlJson{
		Type: "OnOffTimeControl",
		Schedule: ScheduleJson{
			"main": {map[string]interface{}{"value": true, "repeat": 2.0}, false, false},
		},
	}, simtime)
	require.NoError(t, err)
	assert.True(t, ctrl.is_on(1))
	assert.False(t, ctrl.is_on(2))

	_, err = NewControlFromJson("x", &ControlJson{Type: "Thermostat"}, simtime)
	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}
