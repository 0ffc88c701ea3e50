package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaterialProperties(t *testing.T) {
	matprop := NewMaterialProperties(1.5, 4184)

	assert.Equal(t, 1.5, matprop.Density())
	assert.Equal(t, 4184.0, matprop.SpecificHeatCapacity())
	assert.Equal(t, 6276.0, matprop.volumetric_heat_capacity())
	assert.Equal(t, 62760.0, matprop.volumetric_energy_content_J_per_litre(30.0, 20.0))
	assert.InDelta(t, 0.01743333333, matprop.volumetric_energy_content_kWh_per_litre(30.0, 20.0), 1e-10)
}
