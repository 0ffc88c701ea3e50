package home_energy_model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func new_test_opaque_elements(ec *ExternalConditions) []BuildingElement {
	return []BuildingElement{
		NewBuildingElementOpaque(20, 180, 0.60, 0.25, 19000.0, MassDistributionClassI, 0, 0, 2, 10, ec),
		NewBuildingElementOpaque(22.5, 135, 0.61, 0.50, 18000.0, MassDistributionClassE, 180, 0, 2.25, 10, ec),
		NewBuildingElementOpaque(25, 90, 0.62, 0.75, 17000.0, MassDistributionClassIE, 90, 0, 2.5, 10, ec),
		NewBuildingElementOpaque(27.5, 45, 0.63, 0.80, 16000.0, MassDistributionClassD, -90, 0, 2.75, 10, ec),
		NewBuildingElementOpaque(30, 0, 0.64, 0.40, 15000.0, MassDistributionClassM, 0, 0, 3, 10, ec),
	}
}

func new_test_ztc_elements(ec *ExternalConditions) []BuildingElement {
	return []BuildingElement{
		NewBuildingElementAdjacentZTC(20.0, 180, 0.25, 19000.0, MassDistributionClassI, ec),
		NewBuildingElementAdjacentZTC(22.5, 135, 0.50, 18000.0, MassDistributionClassE, ec),
		NewBuildingElementAdjacentZTC(25.0, 90, 0.75, 17000.0, MassDistributionClassIE, ec),
		NewBuildingElementAdjacentZTC(27.5, 45, 0.80, 16000.0, MassDistributionClassD, ec),
		NewBuildingElementAdjacentZTC(30.0, 0, 0.40, 15000.0, MassDistributionClassM, ec),
	}
}

var (
	test_temp_int_air         = 20.0
	test_temp_int_surface     = []float64{19.0, 21.0, 22.0, 21.0, 19.0}
	test_heat_flow_directions = []HeatFlowDirection{
		HeatFlowDirectionDownwards,
		HeatFlowDirectionUpwards,
		HeatFlowDirectionHorizontal,
		HeatFlowDirectionDownwards,
		HeatFlowDirectionUpwards,
	}
	test_opaque_h_pli = [][]float64{
		{24.0, 12.0, 12.0, 24.0},
		{12.0, 6.0, 6.0, 12.0},
		{8.0, 4.0, 4.0, 8.0},
		{7.5, 3.75, 3.75, 7.5},
		{15.0, 7.5, 7.5, 15.0},
	}
	test_opaque_k_pli = [][]float64{
		{0.0, 0.0, 0.0, 0.0, 19000.0},
		{18000.0, 0.0, 0.0, 0.0, 0.0},
		{8500.0, 0.0, 0.0, 0.0, 8500.0},
		{2000.0, 4000.0, 4000.0, 4000.0, 2000.0},
		{0.0, 0.0, 15000.0, 0.0, 0.0},
	}
	test_heat_capacities = []float64{380, 405, 425, 440, 450}
)

// checks common to every element with a five node construction
func assert_five_node_element(t *testing.T, be BuildingElement, i int) {
	assert.Equal(t, 5, be.no_of_nodes())
	assert.Equal(t, 3, be.no_of_inside_nodes())
	assert.InDelta(t, 20.0+float64(i)*2.5, be.area(), 1e-9)
	assert.Equal(t, test_heat_flow_directions[i], be.heat_flow_direction(test_temp_int_air, test_temp_int_surface[i]))
	assert.InDelta(t, []float64{0.17, 0.17, 0.13, 0.10, 0.10}[i], be.r_si(), 0.005)
	assert.InDelta(t, []float64{0.7, 5.0, 2.5, 0.7, 5.0}[i], be.h_ci(test_temp_int_air, test_temp_int_surface[i]), 1e-9)
	assert.InDelta(t, 5.13, be.h_ri(), 1e-9)
	assert.InDelta(t, test_heat_capacities[i], be.heat_capacity(), 1e-9)
}

func TestBuildingElementOpaque(t *testing.T) {
	simtime, err := NewSimulationTime(0, 4, 1)
	require.NoError(t, err)
	ec := new_test_external_conditions(t, simtime, []float64{0.0, 5.0, 10.0, 15.0})

	therm_rad_to_sky := []float64{0.0, 6.6691785923823135, 22.77, 38.87082140761768, 45.54}
	// r_si follows the pitch: 1/(0.7+5.13) for floors, 1/(2.5+5.13) for walls, 1/(5.0+5.13) for roofs
	fabric_heat_loss := []float64{43.20, 31.56, 27.10, 29.25, 55.54}

	for i, be := range new_test_opaque_elements(ec) {
		t.Run(fmt.Sprintf("class %d", i), func(t *testing.T) {
			assert_five_node_element(t, be, i)
			assert.InDelta(t, 20.0, be.h_ce(), 1e-9)
			assert.InDelta(t, 4.14, be.h_re(), 1e-9)
			assert.InDelta(t, 0.6+float64(i)*0.01, be.a_sol(), 1e-9)
			assert.InDelta(t, therm_rad_to_sky[i], be.therm_rad_to_sky(), 1e-9)
			assert.Equal(t, test_opaque_h_pli[i], be.h_pli())
			assert.Equal(t, test_opaque_k_pli[i], be.k_pli())
			assert.InDelta(t, fabric_heat_loss[i], be.fabric_heat_loss(), 0.005)
			for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
				assert.Equal(t, float64(t_idx)*5.0, be.temp_ext(t_idx))
				assert.Equal(t, 0.0, be.i_sol(t_idx))
			}
		})
	}
}

func TestBuildingElementAdjacentZTC(t *testing.T) {
	simtime, err := NewSimulationTime(0, 4, 1)
	require.NoError(t, err)
	ec := new_test_external_conditions(t, simtime, []float64{0.0, 5.0, 10.0, 15.0})

	for i, be := range new_test_ztc_elements(ec) {
		assert_five_node_element(t, be, i)
		assert.Equal(t, 0.0, be.h_ce())
		assert.Equal(t, 0.0, be.h_re())
		assert.Equal(t, 0.0, be.a_sol())
		assert.Equal(t, 0.0, be.therm_rad_to_sky())
		assert.Equal(t, test_opaque_h_pli[i], be.h_pli())
		assert.Equal(t, test_opaque_k_pli[i], be.k_pli())
		assert.Equal(t, 0.0, be.fabric_heat_loss())
	}
}

func TestBuildingElementAdjacentZTU_Simple(t *testing.T) {
	simtime, err := NewSimulationTime(0, 4, 1)
	require.NoError(t, err)
	ec := new_test_external_conditions(t, simtime, []float64{0.0, 5.0, 10.0, 15.0})

	be := NewBuildingElementAdjacentZTU_Simple(20.0, 90, 0.5, 0.4, 19000.0, MassDistributionClassD, ec)
	h_e_total := 1.0 / (1.0/24.14 + 0.4)
	assert.InDelta(t, h_e_total, be.h_ce()+be.h_re(), 1e-9)
	assert.InDelta(t, be.h_ce()/be.h_re(), 20.0/4.14, 1e-9)
	assert.Equal(t, 0.0, be.a_sol())
	assert.Equal(t, 0.0, be.therm_rad_to_sky())
	assert.InDelta(t, 20.0/(0.5+1.0/24.14+1.0/(2.5+5.13)), be.fabric_heat_loss(), 1e-9)
	assert.InDelta(t, 380.0, be.heat_capacity(), 1e-9)
	assert.Equal(t, 10.0, be.temp_ext(2))

	// a floor over an unheated space loses heat downwards
	floor := NewBuildingElementAdjacentZTU_Simple(30, 130, 0.50, 0.6, 18000.0, MassDistributionClassE, ec)
	assert.InDelta(t, 42.08, floor.fabric_heat_loss(), 0.005)
}

func TestBuildingElementGround(t *testing.T) {
	simtime, err := NewSimulationTime(742, 746, 1)
	require.NoError(t, err)
	ec := new_test_external_conditions(t, simtime, test_air_temps())

	new_ground := func(area, pitch, u_value, r_f, k_m float64, class MassDistributionClass, h_pi, h_pe, perimeter, psi float64) BuildingElement {
		be, err := NewBuildingElementGround(area, pitch, u_value, r_f, k_m, class, h_pi, h_pe, perimeter, psi, ec, simtime)
		require.NoError(t, err)
		return be
	}
	elements := []BuildingElement{
		new_ground(20.0, 180, 1.5, 0.1, 19000.0, MassDistributionClassI, 2.0, 2.5, 18.0, 0.5),
		new_ground(22.5, 135, 1.4, 0.2, 18000.0, MassDistributionClassE, 2.1, 2.6, 19.0, 0.6),
		new_ground(25.0, 90, 1.33, 0.2, 17000.0, MassDistributionClassIE, 2.2, 2.7, 20.0, 0.7),
		new_ground(27.5, 45, 1.25, 0.2, 16000.0, MassDistributionClassD, 2.3, 2.8, 21.0, 0.8),
		new_ground(30.0, 0, 1.0, 0.3, 15000.0, MassDistributionClassM, 2.4, 2.9, 22.0, 0.9),
	}

	h_ce := []float64{15.78947368, 91.30434783, 20.59886422, 10.34482759, 5.084745763}
	h_pli := [][]float64{
		{6.0, 3.0, 3.0, 6.0},
		{6.0, 2.896551724137931, 2.8, 5.6},
		{6.0, 2.8197879858657244, 2.66, 5.32},
		{6.0, 2.727272727272727, 2.5, 5.0},
		{6.0, 2.4000000000000004, 2.0, 4.0},
	}
	k_pli := [][]float64{
		{0.0, 1500000.0, 0.0, 0.0, 19000.0},
		{0.0, 1500000.0, 18000.0, 0.0, 0.0},
		{0.0, 1500000.0, 8500.0, 0.0, 8500.0},
		{0.0, 1500000.0, 4000.0, 8000.0, 4000.0},
		{0.0, 1500000.0, 0.0, 15000.0, 0.0},
	}
	fabric_heat_loss := []float64{30.0, 31.5, 33.25, 34.375, 30.0}

	for i, be := range elements {
		assert_five_node_element(t, be, i)
		assert.InDelta(t, h_ce[i], be.h_ce(), 1e-7)
		assert.Equal(t, 0.0, be.h_re())
		assert.Equal(t, 0.0, be.a_sol())
		assert.Equal(t, 0.0, be.therm_rad_to_sky())
		assert.InDeltaSlice(t, h_pli[i], be.h_pli(), 1e-12)
		assert.Equal(t, k_pli[i], be.k_pli())
		assert.InDelta(t, fabric_heat_loss[i], be.fabric_heat_loss(), 1e-9)
	}

	// t_idx 0, 1 fall in January (6.75 degC), 2, 3 in February (7.75 degC); annual mean 10.18 degC
	temp_ext := [][]float64{
		{8.865251141552513, 8.865251141552513, 9.248584474885847, 9.248584474885847},
		{8.655631659056317, 8.655631659056317, 9.100076103500763, 9.100076103500763},
		{8.457331342053767, 8.457331342053767, 8.95958698115151, 8.95958698115151},
		{8.224335242839352, 8.224335242839352, 8.794517061021171, 8.794517061021171},
		{7.584666666666665, 7.584666666666665, 8.341333333333333, 8.341333333333333},
	}
	for i, be := range elements {
		for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
			assert.InDelta(t, temp_ext[i][t_idx], be.temp_ext(t_idx), 1e-9)
		}
		// the ground follows the month, between the monthly and the annual mean
		assert.Greater(t, be.temp_ext(2), be.temp_ext(1))
		assert.Less(t, be.temp_ext(0), ec.air_temp_annual())
		assert.Greater(t, be.temp_ext(0), ec.air_temp_for_month(0))
	}
}

func TestBuildingElementTransparent(t *testing.T) {
	simtime, err := NewSimulationTime(0, 4, 1)
	require.NoError(t, err)
	ec := new_test_external_conditions(t, simtime, []float64{0.0, 5.0, 10.0, 15.0})

	be := NewBuildingElementTransparent(90, 0.4, 180, 0.75, 0.25, 1, 1.25, 4, ec)

	assert.Equal(t, 2, be.no_of_nodes())
	assert.Equal(t, 0, be.no_of_inside_nodes())
	assert.Equal(t, 5.0, be.area())
	assert.Equal(t, HeatFlowDirectionHorizontal, be.heat_flow_direction(20.0, 25.0))
	assert.InDelta(t, 0.13, be.r_si(), 0.005)
	assert.Equal(t, 2.5, be.h_ci(20.0, 25.0))
	assert.Equal(t, 5.13, be.h_ri())
	assert.Equal(t, 20.0, be.h_ce())
	assert.Equal(t, 4.14, be.h_re())
	assert.Equal(t, 0.0, be.a_sol())
	assert.InDelta(t, 22.77, be.therm_rad_to_sky(), 1e-9)
	assert.Equal(t, []float64{2.5}, be.h_pli())
	assert.Equal(t, []float64{0.0, 0.0}, be.k_pli())
	assert.InDelta(t, 8.16, be.fabric_heat_loss(), 0.005)
	assert.Equal(t, 0.0, be.heat_capacity())
	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		assert.Equal(t, float64(t_idx)*5.0, be.temp_ext(t_idx))
		assert.Equal(t, 0.0, be.solar_gains(t_idx))
	}
}

func TestBuildingElementTransparentSolarGains(t *testing.T) {
	simtime, err := NewSimulationTime(0, 1, 1)
	require.NoError(t, err)
	// diffuse only: a vertical surface sees half the sky and half the ground
	ec, err := NewExternalConditions(
		simtime, []float64{10.0}, []float64{4.0}, []float64{100.0}, []float64{0.0}, []float64{0.2},
		55.0, 0.0, 0, 0, 0, 1.0, 1, "not applicable", false, false, nil,
	)
	require.NoError(t, err)

	be := NewBuildingElementTransparent(90, 0.4, 0, 0.75, 0.25, 1, 1.25, 4, ec)
	irradiance := 100.0*0.5 + 0.2*100.0*0.5
	assert.InDelta(t, 0.75*0.75*5.0*irradiance, be.solar_gains(0), 1e-6)
}

func TestNewBuildingElementFromJson(t *testing.T) {
	simtime, err := NewSimulationTime(0, 4, 1)
	require.NoError(t, err)
	ec := new_test_external_conditions(t, simtime, []float64{0.0, 5.0, 10.0, 15.0})

	tests := []struct {
		name    string
		json    BuildingElementJson
		want    interface{}
		wantErr bool
	}{
		{"opaque", BuildingElementJson{Type: "BuildingElementOpaque", Area: 20, Pitch: 90, RC: 0.5, KM: 19000, MassDistributionClass: "I"}, &BuildingElementOpaque{}, false},
		{"ztc", BuildingElementJson{Type: "BuildingElementAdjacentZTC", Area: 20, Pitch: 90, RC: 0.5, KM: 19000, MassDistributionClass: "D"}, &BuildingElementAdjacentZTC{}, false},
		{"window", BuildingElementJson{Type: "BuildingElementTransparent", Pitch: 90, RC: 0.4, Height: 1, Width: 1}, &BuildingElementTransparent{}, false},
		{"bad class", BuildingElementJson{Type: "BuildingElementOpaque", RC: 0.5, MassDistributionClass: "X"}, nil, true},
		{"bad type", BuildingElementJson{Type: "BuildingElementCurtainWall", MassDistributionClass: "I"}, nil, true},
		{"zero r_c", BuildingElementJson{Type: "BuildingElementOpaque", MassDistributionClass: "I"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be, err := NewBuildingElementFromJson(tt.name, &tt.json, ec, simtime)
			if tt.wantErr {
				var cerr *ConfigurationError
				assert.ErrorAs(t, err, &cerr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, be)
		})
	}
}
