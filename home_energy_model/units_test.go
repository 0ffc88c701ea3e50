package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCelciusKelvinRoundTrip(t *testing.T) {
	for _, temp := range []float64{-40.0, -0.5, 0.0, 20.0, 52.0, 100.0} {
		assert.InDelta(t, temp, Kelvin2Celcius(Celcius2Kelvin(temp)), 1e-12)
	}
	assert.Equal(t, 273.15, Celcius2Kelvin(0.0))
	assert.Equal(t, -273.15, Kelvin2Celcius(0.0))
}
