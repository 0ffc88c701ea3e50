package home_energy_model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveOdeRK45(t *testing.T) {
	decay := func(t, y float64) float64 { return -y }

	y, _, reached := solve_ode_rk45(decay, 0.0, 1.0, 1.0, nil)
	assert.False(t, reached)
	assert.InDelta(t, math.Exp(-1.0), y, 1e-3)

	half := func(t, y float64) float64 { return y - 0.5 }
	y, t_event, reached := solve_ode_rk45(decay, 0.0, 2.0, 1.0, half)
	assert.True(t, reached)
	assert.InDelta(t, math.Ln2, t_event, 1e-3)
	assert.InDelta(t, 0.5, y, 1e-9)

	// starting on the event surface is not a crossing
	_, _, reached = solve_ode_rk45(decay, 0.0, 1.0, 0.5, half)
	assert.False(t, reached)

	y, t_end, reached := solve_ode_rk45(decay, 1.0, 1.0, 3.0, nil)
	assert.False(t, reached)
	assert.Equal(t, 3.0, y)
	assert.Equal(t, 1.0, t_end)
}

func TestBrentRoot(t *testing.T) {
	testCases := []struct {
		f        func(float64) float64
		a, b     float64
		expected float64
	}{
		{func(x float64) float64 { return x*x - 2 }, 0.0, 2.0, math.Sqrt2},
		{func(x float64) float64 { return math.Cos(x) - x }, 0.0, 1.0, 0.7390851332151607},
		{func(x float64) float64 { return x - 0.25 }, 0.25, 1.0, 0.25},
	}
	for _, tc := range testCases {
		assert.InDelta(t, tc.expected, brent_root(tc.f, tc.a, tc.b), 1e-12)
	}
}
