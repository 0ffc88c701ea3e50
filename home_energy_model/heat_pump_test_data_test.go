package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Records for design flow temperature 55 include a second duplicate of the
// coldest condition (F2) to exercise the separation of equal test temperatures.
func test_heat_pump_data_unsorted() []HeatPumpTestDatumJson {
	return []HeatPumpTestDatumJson{
		{TestLetter: "A", Capacity: 8.4, Cop: 4.6, DegradationCoeff: 0.90, DesignFlowTemp: 35, TempOutlet: 34, TempSource: 0, TempTest: -7},
		{TestLetter: "B", Capacity: 8.3, Cop: 4.9, DegradationCoeff: 0.90, DesignFlowTemp: 35, TempOutlet: 30, TempSource: 0, TempTest: 2},
		{TestLetter: "C", Capacity: 8.3, Cop: 5.1, DegradationCoeff: 0.90, DesignFlowTemp: 35, TempOutlet: 27, TempSource: 0, TempTest: 7},
		{TestLetter: "D", Capacity: 8.2, Cop: 5.4, DegradationCoeff: 0.95, DesignFlowTemp: 35, TempOutlet: 24, TempSource: 0, TempTest: 12},
		{TestLetter: "F", Capacity: 8.4, Cop: 4.6, DegradationCoeff: 0.90, DesignFlowTemp: 35, TempOutlet: 34, TempSource: 0, TempTest: -7},
		{TestLetter: "A", Capacity: 8.8, Cop: 3.2, DegradationCoeff: 0.90, DesignFlowTemp: 55, TempOutlet: 52, TempSource: 0, TempTest: -7},
		{TestLetter: "B", Capacity: 8.6, Cop: 3.6, DegradationCoeff: 0.90, DesignFlowTemp: 55, TempOutlet: 42, TempSource: 0, TempTest: 2},
		{TestLetter: "C", Capacity: 8.5, Cop: 3.9, DegradationCoeff: 0.98, DesignFlowTemp: 55, TempOutlet: 36, TempSource: 0, TempTest: 7},
		{TestLetter: "D", Capacity: 8.5, Cop: 4.3, DegradationCoeff: 0.98, DesignFlowTemp: 55, TempOutlet: 30, TempSource: 0, TempTest: 12},
		{TestLetter: "F", Capacity: 8.8, Cop: 3.2, DegradationCoeff: 0.90, DesignFlowTemp: 55, TempOutlet: 52, TempSource: 0, TempTest: -7},
		{TestLetter: "F2", Capacity: 8.8, Cop: 3.2, DegradationCoeff: 0.90, DesignFlowTemp: 55, TempOutlet: 52, TempSource: 0, TempTest: -7},
	}
}

func new_test_heat_pump_test_data(t *testing.T) *HeatPumpTestData {
	d, err := NewHeatPumpTestData(test_heat_pump_data_unsorted())
	require.NoError(t, err)
	return d
}

func TestHeatPumpTestDataInit(t *testing.T) {
	d := new_test_heat_pump_test_data(t)

	assert.Equal(t, []float64{35, 55}, d.dsgn_flow_temps)

	tests := []struct {
		dsgn_flow_temp float64
		letters        []string
		temp_test      []float64
		load_ratio     []float64
	}{
		{
			35,
			[]string{"A", "F", "B", "C", "D"},
			[]float64{-7, -6.9999999999, 2, 7, 12},
			[]float64{1.0, 1.0000000000040385, 1.1634388356892613, 1.3186802349509577, 1.513621351820552},
		},
		{
			55,
			[]string{"A", "F", "F2", "B", "C", "D"},
			[]float64{-7, -6.9999999999, -6.9999999998, 2, 7, 12},
			[]float64{1.0, 1.0000000000030207, 1.0000000000060418, 1.3179136223360988, 1.5978273764295179, 1.9940427298329144},
		},
	}
	for _, tt := range tests {
		records := d.testdata[tt.dsgn_flow_temp]
		require.Len(t, records, len(tt.letters))
		for i, r := range records {
			assert.Equal(t, tt.letters[i], r.test_letter)
			assert.InDelta(t, tt.temp_test[i], r.temp_test, 1e-12)
			assert.InDelta(t, tt.load_ratio[i], r.theoretical_load_ratio, 1e-9)
		}
	}

	assert.InDelta(t, 9.033823529411764, d.testdata[35][0].carnot_cop, 1e-12)
	assert.InDelta(t, 4.6/9.033823529411764, d.testdata[35][0].exergetic_eff, 1e-12)
}

func TestHeatPumpTestDataDeterministic(t *testing.T) {
	d1 := new_test_heat_pump_test_data(t)
	d2 := new_test_heat_pump_test_data(t)
	assert.Equal(t, d1.testdata, d2.testdata)
	assert.Equal(t, d1.regression_coeffs, d2.regression_coeffs)
}

func TestHeatPumpTestDataRegressionCoeffs(t *testing.T) {
	d := new_test_heat_pump_test_data(t)
	expected := map[float64][]float64{
		35: {4.810017281274474, 0.03677543129969712, 0.0009914765238219557},
		55: {3.4857982546529747, 0.050636568790103545, 0.0014104955583514216},
	}
	for flow_temp, coeffs := range expected {
		assert.InDeltaSlice(t, coeffs, d.regression_coeffs[flow_temp], 1e-9)
	}
}

func TestHeatPumpTestDataAverages(t *testing.T) {
	d := new_test_heat_pump_test_data(t)
	flow_temps := []float64{35, 40, 45, 50, 55}
	deg := []float64{0.9125, 0.919375, 0.92625, 0.933125, 0.94}
	capacity := []float64{8.3, 8.375, 8.45, 8.525, 8.6}
	spread := []float64{5.0, 5.75, 6.5, 7.25, 8.0}

	for i, flow_temp := range flow_temps {
		flow_temp_K := Celcius2Kelvin(flow_temp)
		assert.InDelta(t, deg[i], d.average_degradation_coeff(flow_temp_K), 1e-12)
		assert.InDelta(t, capacity[i], d.average_capacity(flow_temp_K), 1e-12)
		assert.InDelta(t, spread[i], d.temp_spread_test_conditions(flow_temp_K), 1e-12)
	}
}

func TestHeatPumpTestDataAtTestCondition(t *testing.T) {
	d := new_test_heat_pump_test_data(t)

	tests := []struct {
		flow_temp      float64
		test_condition string
		carnot_cop     float64
		outlet_temp    float64
		source_temp    float64
	}{
		{35, "cld", 9.033823529411764, 307.15, 273.15},
		{40, "cld", 8.338588800904978, 311.65, 273.15},
		{45, "cld", 7.643354072398189, 316.15, 273.15},
		{50, "cld", 6.948119343891403, 320.65, 273.15},
		{55, "cld", 6.252884615384615, 325.15, 273.15},
		{45, "A", 7.643354072398189, 316.15, 273.15},
		{45, "B", 8.804285714285713, 309.15, 273.15},
		{45, "C", 9.852083333333333, 304.65, 273.15},
		{45, "D", 11.243125, 300.15, 273.15},
		{45, "F", 7.643354072417485, 316.15, 273.15000000009996},
	}
	for _, tt := range tests {
		t.Run(tt.test_condition, func(t *testing.T) {
			flow_temp := Celcius2Kelvin(tt.flow_temp)
			assert.InDelta(t, tt.carnot_cop, d.carnot_cop_at_test_condition(tt.test_condition, flow_temp), 1e-9)
			assert.InDelta(t, tt.outlet_temp, d.outlet_temp_at_test_condition(tt.test_condition, flow_temp), 1e-9)
			assert.InDelta(t, tt.source_temp, d.source_temp_at_test_condition(tt.test_condition, flow_temp), 1e-12)
		})
	}

	capacities := []struct {
		flow_temp      float64
		test_condition string
		capacity       float64
	}{
		{35, "cld", 8.4},
		{40, "cld", 8.5},
		{45, "cld", 8.6},
		{50, "cld", 8.7},
		{55, "cld", 8.8},
		{45, "A", 8.6},
		{45, "B", 8.45},
		{45, "C", 8.4},
		{45, "D", 8.35},
	}
	for _, tt := range capacities {
		assert.InDelta(t, tt.capacity, d.capacity_at_test_condition(tt.test_condition, Celcius2Kelvin(tt.flow_temp)), 1e-9)
	}
}

func TestHeatPumpTestDataLoadRatioOperatingConditions(t *testing.T) {
	d := new_test_heat_pump_test_data(t)
	tests := []struct {
		flow_temp   float64
		temp_source float64
		carnot_cop  float64
		expected    float64
	}{
		{35.0, 283.15, 12.326, 1.50508728516368},
		{40.0, 293.15, 15.6575, 2.38250354792371},
		{45.0, 278.15, 7.95375, 1.21688682087694},
		{50.0, 288.15, 9.23285714285714, 1.58193632324929},
		{55.0, 273.15, 5.96636363636364, 1.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, d.lr_op_cond(Celcius2Kelvin(tt.flow_temp), tt.temp_source, tt.carnot_cop), 1e-9)
	}
}

func TestHeatPumpTestDataEitherSideOfOperatingConditions(t *testing.T) {
	d := new_test_heat_pump_test_data(t)

	lr_below := []float64{
		1.1634388356892613, 1.1225791267684564, 1.0817194178476517, 1.0408597089268468, 1.0000000000060418,
		1.3186802349509577, 1.318488581797243, 1.3182969286435282, 1.3181052754898135, 1.3179136223360988,
	}
	lr_above := []float64{
		1.3186802349509577, 1.318488581797243, 1.3182969286435282, 1.3181052754898135, 1.3179136223360988,
		1.513621351820552, 1.5346728579727933, 1.555724364125035, 1.5767758702772765, 1.5978273764295179,
	}
	eff_below := []float64{
		0.48490846115784275, 0.49162229619850667, 0.49833613123917064, 0.5050499662798346, 0.5117638013204985,
		0.4587706146926537, 0.4640208453602804, 0.4692710760279071, 0.4745213066955337, 0.4797715373631604,
	}
	eff_above := []float64{
		0.4587706146926537, 0.4640208453602804, 0.4692710760279071, 0.4745213066955337, 0.4797715373631604,
		0.43614336193841496, 0.44064463935774134, 0.4451459167770678, 0.4496471941963942, 0.4541484716157206,
	}
	deg_above := []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.95, 0.9575, 0.965, 0.9725, 0.98}

	i := 0
	for _, exergy_lr_op_cond := range []float64{1.2, 1.4} {
		for _, flow_temp := range []float64{35, 40, 45, 50, 55} {
			lrb, lra, effb, effa, degb, dega := d.lr_eff_degcoeff_either_side_of_op_cond(
				Celcius2Kelvin(flow_temp),
				exergy_lr_op_cond,
			)
			assert.InDelta(t, lr_below[i], lrb, 1e-9)
			assert.InDelta(t, lr_above[i], lra, 1e-9)
			assert.InDelta(t, eff_below[i], effb, 1e-9)
			assert.InDelta(t, eff_above[i], effa, 1e-9)
			assert.InDelta(t, 0.9, degb, 1e-12)
			assert.InDelta(t, deg_above[i], dega, 1e-12)
			i++
		}
	}
}

func TestHeatPumpTestDataCopNotAirSource(t *testing.T) {
	d := new_test_heat_pump_test_data(t)
	tests := []struct {
		temp_diff_limit_low float64
		temp_ext            float64
		temp_source         float64
		temp_output         float64
		expected            float64
	}{
		{8.0, 0.00, 283.15, 308.15, 6.5629213163133},
		{7.0, -5.0, 293.15, 313.15, 8.09149749487405},
		{6.0, 5.00, 278.15, 318.15, 4.60977003063163},
		{5.0, 10.0, 288.15, 323.15, 5.92554693808559},
		{4.0, 7.50, 273.15, 328.15, 3.76414827675397},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, d.cop_op_cond_if_not_air_source(
			tt.temp_diff_limit_low,
			Celcius2Kelvin(tt.temp_ext),
			tt.temp_source,
			tt.temp_output,
		), 1e-9)
	}
}

func TestHeatPumpTestDataCapacityNotAirSource(t *testing.T) {
	d := new_test_heat_pump_test_data(t)

	modulating := []struct {
		temp_source float64
		temp_output float64
		expected    float64
	}{
		{283.15, 308.15, 9.26595980986965},
		{278.15, 318.15, 8.95014809894768},
		{288.15, 323.15, 10.0098208201822},
	}
	for _, tt := range modulating {
		assert.InDelta(t, tt.expected, d.capacity_op_cond_if_not_air_source(tt.temp_output, tt.temp_source, true), 1e-9)
	}

	// fixed speed: coldest test condition capacity, interpolated by output temperature
	assert.InDelta(t, 8.5, d.capacity_op_cond_if_not_air_source(313.15, 293.15, false), 1e-9)
	assert.InDelta(t, 8.8, d.capacity_op_cond_if_not_air_source(328.15, 273.15, false), 1e-9)
}

func TestHeatPumpTestDataTempSpreadCorrection(t *testing.T) {
	d := new_test_heat_pump_test_data(t)
	// the spread at test conditions runs linearly from 5 K at 35 degC to 8 K at 55 degC
	spread := []float64{5.0, 5.75, 6.5, 7.25, 8.0}
	expected := []float64{1.1219512195122, 1.0845771144278606, 1.0588235294117647, 1.04, 1.02564102564103}
	for i, temp_output := range []float64{308.15, 313.15, 318.15, 323.15, 328.15} {
		correction := d.temp_spread_correction(275.15, temp_output, -15.0, 5.0, 10.0)
		assert.InDelta(t, expected[i], correction, 1e-9)

		lift := temp_output - spread[i]/2.0 + 5.0 - 275.15 - 15.0
		assert.InDelta(t, 1.0-((spread[i]-10.0)/2.0)/lift, correction, 1e-12)
	}
}

func TestHeatPumpTestDataInvalid(t *testing.T) {
	_, err := NewHeatPumpTestData(nil)
	assert.Error(t, err)

	missing := test_heat_pump_data_unsorted()[1:]
	_, err = NewHeatPumpTestData(missing)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "test letter A missing")

	dup := append(test_heat_pump_data_unsorted(), test_heat_pump_data_unsorted()[0])
	_, err = NewHeatPumpTestData(dup)
	assert.ErrorAs(t, err, &cerr)
}

func TestInterpolateExhaustAirHeatPumpTestData(t *testing.T) {
	rate := func(v float64) *float64 { return &v }
	data := []HeatPumpTestDatumJson{
		{AirFlowRate: rate(100.0), TestLetter: "A", Capacity: 5.0, Cop: 2.0, DegradationCoeff: 0.9, DesignFlowTemp: 55, TempOutlet: 55, TempSource: 20, TempTest: -7},
		{AirFlowRate: rate(200.0), TestLetter: "A", Capacity: 6.0, Cop: 2.5, DegradationCoeff: 0.95, DesignFlowTemp: 55, TempOutlet: 55, TempSource: 20, TempTest: -7},
		{AirFlowRate: rate(100.0), TestLetter: "B", Capacity: 5.5, Cop: 2.4, DegradationCoeff: 0.92, DesignFlowTemp: 35, TempOutlet: 34, TempSource: 20, TempTest: 2},
		{AirFlowRate: rate(200.0), TestLetter: "B", Capacity: 6.0, Cop: 3.0, DegradationCoeff: 0.98, DesignFlowTemp: 35, TempOutlet: 34, TempSource: 20, TempTest: 2},
	}

	lowest, result, err := interpolate_exhaust_air_heat_pump_test_data(140.0, data)
	require.NoError(t, err)
	assert.Equal(t, 100.0, lowest)
	require.Len(t, result, 2)

	assert.Equal(t, "A", result[0].TestLetter)
	assert.Nil(t, result[0].AirFlowRate)
	assert.InDelta(t, 5.4, result[0].Capacity, 1e-12)
	assert.InDelta(t, 2.2, result[0].Cop, 1e-12)
	assert.InDelta(t, 0.92, result[0].DegradationCoeff, 1e-12)
	assert.Equal(t, 55.0, result[0].DesignFlowTemp)

	assert.Equal(t, "B", result[1].TestLetter)
	assert.InDelta(t, 5.7, result[1].Capacity, 1e-12)
	assert.InDelta(t, 2.64, result[1].Cop, 1e-12)
	assert.InDelta(t, 0.944, result[1].DegradationCoeff, 1e-12)
	assert.Equal(t, 34.0, result[1].TempOutlet)

	_, _, err = interpolate_exhaust_air_heat_pump_test_data(140.0, data[:3])
	assert.Error(t, err)
}

func TestSourceType(t *testing.T) {
	tests := []struct {
		name          string
		source_type   SourceType
		exhaust_air   bool
		fluid_is_air  bool
		fluid_is_water bool
	}{
		{"Ground", SourceTypeGround, false, false, true},
		{"OutsideAir", SourceTypeOutsideAir, false, true, false},
		{"ExhaustAirMEV", SourceTypeExhaustAirMEV, true, true, false},
		{"ExhaustAirMVHR", SourceTypeExhaustAirMVHR, true, true, false},
		{"ExhaustAirMixed", SourceTypeExhaustAirMixed, true, true, false},
		{"WaterGround", SourceTypeWaterGround, false, false, true},
		{"WaterSurface", SourceTypeWaterSurface, false, false, true},
		{"HeatNetwork", SourceTypeHeatNetwork, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := SourceTypeFromString(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.source_type, st)
			assert.Equal(t, tt.exhaust_air, st.is_exhaust_air())
			assert.Equal(t, tt.fluid_is_air, st.source_fluid_is_air())
			assert.Equal(t, tt.fluid_is_water, st.source_fluid_is_water())
		})
	}

	_, err := SourceTypeFromString("Geothermal")
	assert.Error(t, err)
}

func TestSinkType(t *testing.T) {
	s, err := SinkTypeFromString("Air")
	require.NoError(t, err)
	assert.Equal(t, SinkTypeAir, s)
	s, err = SinkTypeFromString("Water")
	require.NoError(t, err)
	assert.Equal(t, SinkTypeWater, s)
	_, err = SinkTypeFromString("Glycol")
	assert.Error(t, err)
}

func TestHeatPumpTestDataCapacityAirSource(t *testing.T) {
	d := new_test_heat_pump_test_data(t)
	// 35: 8.4 at -7, 8.3 at 2; 55: 8.8 at -7, 8.6 at 2
	assert.InDelta(t, 8.6, d.capacity_op_cond_air_source(Celcius2Kelvin(45), -10.0), 1e-9)
	assert.InDelta(t, 8.45, d.capacity_op_cond_air_source(Celcius2Kelvin(45), 2.0), 1e-9)
	assert.InDelta(t, (8.35+8.7)/2, d.capacity_op_cond_air_source(Celcius2Kelvin(45), -2.5), 1e-9)
}
