package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuctwork(t *testing.T) {
	ductwork, err := NewDuctwork(0.025, 0.027, 0.4, 0.4, 0.02, 0.022, false, DuctworkLocationInside)
	require.NoError(t, err)

	assert.InDelta(t, 0.071, ductwork.D_ins, 1e-3)
	assert.InDelta(t, 0.82144, ductwork.internal_surface_resistance, 1e-5)
	assert.InDelta(t, 8.30633, ductwork.insulation_resistance, 1e-5)
	assert.InDelta(t, 0.44832, ductwork.external_surface_resistance, 1e-5)

	outside_temp := []float64{20.0, 19.5, 19.0, 18.5, 19.0, 19.5, 20.0, 20.5}
	inside_temp := []float64{5.0, 6.0, 7.0, 8.0, 9.0, 10.0, 11.0, 12.0}

	t.Run("duct_heat_loss", func(t *testing.T) {
		expected := []float64{-0.62656, -0.56390, -0.50125, -0.43859, -0.41771, -0.39682, -0.37594, -0.35505}
		for i := range expected {
			assert.InDelta(t, expected[i], ductwork.duct_heat_loss(inside_temp[i], outside_temp[i], 0.4), 1e-5)
		}
	})

	t.Run("total_duct_heat_loss", func(t *testing.T) {
		expected := []float64{-0.43859, -0.39473, -0.35087, -0.30701, -0.29239, -0.27777, -0.26316, -0.24854}
		for i := range expected {
			// intake and supply at the cold temperature, exhaust and extract at outside_temp
			got := ductwork.total_duct_heat_loss(outside_temp[i], inside_temp[i], outside_temp[i], inside_temp[i], outside_temp[i], 0.7)
			assert.InDelta(t, expected[i], got, 1e-5)
		}
	})
}

func TestDuctworkLocationFromString(t *testing.T) {
	l, err := DuctworkLocationFromString("outside")
	require.NoError(t, err)
	assert.Equal(t, DuctworkLocationOutside, l)
	assert.Equal(t, "outside", l.String())

	_, err = DuctworkLocationFromString("loft")
	assert.Error(t, err)
}
