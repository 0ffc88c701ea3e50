package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func new_test_ventilation_conditions(t *testing.T) (*SimulationTime, *ExternalConditions) {
	simtime, err := NewSimulationTime(0, 8, 1)
	require.NoError(t, err)
	ec, err := NewExternalConditions(
		simtime,
		[]float64{0.0, 2.5, 5.0, 7.5, 10.0, 12.5, 15.0, 17.5},
		[]float64{3.7, 3.8, 3.9, 4.0, 4.1, 4.2, 4.3, 4.4},
		repeat_value(0.0, 8), repeat_value(0.0, 8), nil,
		55.0, 0.0, 0, 0, 0, 1.0, 1, "not applicable", false, false, nil,
	)
	require.NoError(t, err)
	return simtime, ec
}

func TestVentilationElementInfiltration(t *testing.T) {
	simtime, ec := new_test_ventilation_conditions(t)

	ve_inf, err := NewVentilationElementInfiltration(
		1, ShelterSheltered, BuildTypeHouse, 4.5, AirTightnessTest50Pa, 40.0, 75.0,
		2, 2, 2, 1, 0, 0, 0, 3, 6, 0, ec,
	)
	require.NoError(t, err)

	assert.InDelta(t, 3.5465798045602606, ve_inf.infiltration(), 1e-9)

	h_ve := []float64{
		82.78176841476655, 85.01911350705754, 87.25645859934853, 89.49380369163951,
		91.7311487839305, 93.9684938762215, 96.20583896851247, 98.4431840608035,
	}
	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		assert.InDelta(t, h_ve[t_idx], ve_inf.h_ve(75.0, t_idx, 1.0), 1e-7)
		assert.Equal(t, float64(t_idx)*2.5, ve_inf.temp_supply(t_idx))
		assert.Equal(t, 0.0, ve_inf.fans(75.0, t_idx, 1.0))
	}
}

func TestVentilationElementInfiltrationInvalid(t *testing.T) {
	_, ec := new_test_ventilation_conditions(t)

	tests := []struct {
		name string
		json InfiltrationJson
	}{
		{"shelter", InfiltrationJson{Storey: 1, Shelter: "windy", BuildType: "house", TestType: "50Pa", Volume: 75}},
		{"build type", InfiltrationJson{Storey: 1, Shelter: "normal", BuildType: "bungalow", TestType: "50Pa", Volume: 75}},
		{"test type", InfiltrationJson{Storey: 1, Shelter: "normal", BuildType: "house", TestType: "10Pa", Volume: 75}},
		{"volume", InfiltrationJson{Storey: 1, Shelter: "normal", BuildType: "house", TestType: "50Pa"}},
		{"storey", InfiltrationJson{Storey: 0, Shelter: "normal", BuildType: "flat", TestType: "4Pa", Volume: 75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVentilationElementInfiltrationFromJson(&tt.json, ec)
			var cerr *ConfigurationError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestMechnicalVentilationHeatRecovery(t *testing.T) {
	simtime, ec := new_test_ventilation_conditions(t)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("MVHR")
	require.NoError(t, err)

	mvhr, err := NewMechnicalVentilationHeatRecovery(0.5, 2.0, 0.66, conn, ec, simtime, nil)
	require.NoError(t, err)

	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		assert.InDelta(t, 4.28975166666666, mvhr.h_ve(75.0, t_idx, 1.0), 1e-9)
		assert.InDelta(t, 5.147701999999999, mvhr.h_ve(75.0, t_idx, 1.2), 1e-9)
		assert.InDelta(t, 0.010416666666666666, mvhr.fans(75.0, t_idx, 1.0), 1e-12)
		assert.Equal(t, float64(t_idx)*2.5, mvhr.temp_supply(t_idx))
		assert.Equal(t, 0.0, mvhr.ductwork_gains(t_idx, 20.0))
	}

	_, by_end_user := es.results_by_end_user()
	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		assert.InDelta(t, 0.020833333333333333, by_end_user["MVHR"][t_idx], 1e-12)
	}
}

func TestMechnicalVentilationHeatRecoveryDuctwork(t *testing.T) {
	simtime, ec := new_test_ventilation_conditions(t)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("MVHR")
	require.NoError(t, err)

	ductwork, err := NewDuctwork(0.025, 0.027, 0.4, 0.4, 0.02, 0.022, false, DuctworkLocationInside)
	require.NoError(t, err)
	mvhr, err := NewMechnicalVentilationHeatRecovery(0.5, 2.0, 0.7, conn, ec, simtime, ductwork)
	require.NoError(t, err)

	// cold intake air inside the envelope takes heat from the zone
	assert.Less(t, mvhr.ductwork_gains(0, 20.0), 0.0)
	// no temperature difference, no exchange
	assert.InDelta(t, 0.0, mvhr.ductwork_gains(0, 0.0), 1e-12)

	_, err = NewMechnicalVentilationHeatRecovery(0.5, 2.0, 1.5, conn, ec, simtime, nil)
	assert.Error(t, err)
}

func TestWholeHouseExtractVentilation(t *testing.T) {
	simtime, ec := new_test_ventilation_conditions(t)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("WHEV")
	require.NoError(t, err)

	whev := NewWholeHouseExtractVentilation(0.5, 2.0, 0.25, conn, ec, simtime)

	h_ve := []float64{
		8.131011373697916, 8.047227161458334, 7.965414342447915, 7.885572916666667,
		7.807702884114583, 7.731804244791666, 7.657876998697917, 7.585921145833332,
	}
	h_ve_throughput := []float64{
		9.757213648437498, 9.656672593749999, 9.5584972109375, 9.4626875,
		9.3692434609375, 9.27816509375, 9.1894523984375, 9.103105374999997,
	}
	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		assert.InDelta(t, h_ve[t_idx], whev.h_ve(75.0, t_idx, 1.0), 1e-9)
		assert.InDelta(t, h_ve_throughput[t_idx], whev.h_ve(75.0, t_idx, 1.2), 1e-9)
		assert.Equal(t, 0.0, whev.fans(75.0, t_idx, 1.0))
		assert.Equal(t, float64(t_idx)*2.5, whev.temp_supply(t_idx))
	}

	_, by_end_user := es.results_by_end_user()
	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		assert.InDelta(t, 0.020833333333333333, by_end_user["WHEV"][t_idx], 1e-12)
	}
}

func TestNaturalVentilation(t *testing.T) {
	_, ec := new_test_ventilation_conditions(t)
	natvent := NewNaturalVentilation(0.5, ec)

	assert.InDelta(t, 1.204*1006.0/3600.0*0.5*75.0, natvent.h_ve(75.0, 3, 1.0), 1e-9)
	assert.Equal(t, natvent.h_ve(75.0, 3, 1.0), natvent.h_ve_average(75.0))
	assert.Equal(t, 7.5, natvent.temp_supply(3))
}

func TestNewVentilationFromJson(t *testing.T) {
	simtime, ec := new_test_ventilation_conditions(t)
	supplies := map[string]*EnergySupply{"mains elec": NewEnergySupply(FuelTypeElectricity, simtime)}

	v, err := NewVentilationFromJson(&VentilationJson{Type: "WHEV", ReqACH: 0.5, SFP: 2.0, EnergySupply: "mains elec"}, supplies, ec, simtime)
	require.NoError(t, err)
	assert.IsType(t, &WholeHouseExtractVentilation{}, v)
	assert.InDelta(t, 8.131011373697916, v.h_ve(75.0, 0, 1.0), 1e-9)

	_, err = NewVentilationFromJson(&VentilationJson{Type: "MVHR", EnergySupply: "gas"}, supplies, ec, simtime)
	assert.Error(t, err)
	_, err = NewVentilationFromJson(&VentilationJson{Type: "PIV"}, supplies, ec, simtime)
	assert.Error(t, err)
}
