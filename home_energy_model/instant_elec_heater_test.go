package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantElecHeaterDemandEnergy(t *testing.T) {
	simtime, err := NewSimulationTime(0, 4, 1)
	require.NoError(t, err)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("main")
	require.NoError(t, err)
	control := NewOnOffTimeControl([]bool{true, true, false, true}, simtime, 0, 1)

	heater := NewInstantElecHeater(50, 0.4, conn, simtime, control)
	assert.Equal(t, 0.4, heater.frac_convective())

	demands := []float64{40.0, 100.0, 30.0, 20.0}
	expected := []float64{40.0, 50.0, 0.0, 20.0}
	for t_idx := range demands {
		assert.Equal(t, expected[t_idx], heater.demand_energy(demands[t_idx], t_idx))
	}
	_, by_end_user := es.results_by_end_user()
	assert.Equal(t, expected, by_end_user["main"])
}
