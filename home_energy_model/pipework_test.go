package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipework(t *testing.T) {
	pipework, err := NewPipework(0.025, 0.027, 1.0, 0.035, 0.038, false, "water")
	require.NoError(t, err)

	assert.InDelta(t, 0.00849, pipework.interior_surface_resistance, 1e-5)
	assert.InDelta(t, 6.43829, pipework.insulation_resistance, 1e-5)
	assert.InDelta(t, 0.30904, pipework.external_surface_resistance, 1e-5)

	T_i := []float64{50.0, 51.0, 52.0, 52.0, 51.0, 50.0, 51.0, 52.0}
	T_o := []float64{15.0, 16.0, 17.0, 18.0, 19.0, 20.0, 21.0, 21.0}
	heat_loss := []float64{5.18072, 5.18072, 5.18072, 5.03270, 4.73666, 4.44062, 4.44062, 4.58864}
	temp_drop := []float64{35.0, 35.0, 35.0, 34.0, 32.0, 30.0, 30.0, 31.0}
	cool_down := []float64{0.01997, 0.01997, 0.01997, 0.01940, 0.01826, 0.01712, 0.01712, 0.01769}

	for i := range T_i {
		assert.InDelta(t, heat_loss[i], pipework.heat_loss(T_i[i], T_o[i]), 1e-5, "heat_loss %d", i)
		assert.InDelta(t, temp_drop[i], pipework.temperature_drop(T_i[i], T_o[i]), 1e-5, "temperature_drop %d", i)
		assert.InDelta(t, cool_down[i], pipework.cool_down_loss(T_i[i], T_o[i]), 1e-5, "cool_down_loss %d", i)
	}
}

func TestPipeworkInvalid(t *testing.T) {
	_, err := NewPipework(0.025, 0.027, 1.0, 0.035, 0.038, false, "oil")
	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)

	_, err = NewPipework(0.025, 0.027, 1.0, 0.0, 0.038, false, "water")
	assert.Error(t, err)
}
