package home_energy_model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//--------------------------------------------------------------------------------------------//
// Source and sink types
//--------------------------------------------------------------------------------------------//

type SourceType int

const (
	SourceTypeGround SourceType = iota
	SourceTypeOutsideAir
	SourceTypeExhaustAirMEV
	SourceTypeExhaustAirMVHR
	SourceTypeExhaustAirMixed
	SourceTypeWaterGround
	SourceTypeWaterSurface
	SourceTypeHeatNetwork
)

func (s SourceType) String() string {
	return [...]string{
		"Ground",
		"OutsideAir",
		"ExhaustAirMEV",
		"ExhaustAirMVHR",
		"ExhaustAirMixed",
		"WaterGround",
		"WaterSurface",
		"HeatNetwork",
	}[s]
}

func SourceTypeFromString(s string) (SourceType, error) {
	for st := SourceTypeGround; st <= SourceTypeHeatNetwork; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, newConfigurationError("HeatPump.source_type", "unknown source type %q", s)
}

func (s SourceType) is_exhaust_air() bool {
	switch s {
	case SourceTypeExhaustAirMEV, SourceTypeExhaustAirMVHR, SourceTypeExhaustAirMixed:
		return true
	}
	return false
}

func (s SourceType) source_fluid_is_air() bool {
	return s == SourceTypeOutsideAir || s.is_exhaust_air()
}

func (s SourceType) source_fluid_is_water() bool {
	switch s {
	case SourceTypeGround, SourceTypeWaterGround, SourceTypeWaterSurface, SourceTypeHeatNetwork:
		return true
	}
	return false
}

type SinkType int

const (
	SinkTypeAir SinkType = iota
	SinkTypeWater
)

func (s SinkType) String() string {
	return [...]string{"Air", "Water"}[s]
}

func SinkTypeFromString(s string) (SinkType, error) {
	switch s {
	case "Air":
		return SinkTypeAir, nil
	case "Water":
		return SinkTypeWater, nil
	}
	return 0, newConfigurationError("HeatPump.sink_type", "unknown sink type %q", s)
}

//--------------------------------------------------------------------------------------------//
// Test data
//--------------------------------------------------------------------------------------------//

const (
	// exponent of the temperature ratio in the theoretical load ratio
	heat_pump_N_exer = 3.0
	// separation applied to records that share a test temperature, degree C
	heat_pump_duplicate_offset = 1e-10
	// name used to select the coldest test condition
	heat_pump_test_condition_coldest = "cld"
)

// test letters that must be present for every design flow temperature
var heat_pump_mandatory_test_letters = []string{"A", "B", "C", "D"}

// temperature spread across the emitter at test conditions, by design flow temperature (degree C)
var heat_pump_temp_spread_test_cond = struct{ design_flow_temp, temp_spread []float64 }{
	design_flow_temp: []float64{35, 45, 55, 65},
	temp_spread:      []float64{5, 6, 8, 10},
}

type HeatPumpTestDatumJson struct {
	AirFlowRate      *float64 `json:"air_flow_rate,omitempty"` // m3/h, exhaust air heat pumps only
	TestLetter       string   `json:"test_letter"`
	Capacity         float64  `json:"capacity"` // kW
	Cop              float64  `json:"cop"`
	DegradationCoeff float64  `json:"degradation_coeff"`
	DesignFlowTemp   float64  `json:"design_flow_temp"` // degree C
	TempOutlet       float64  `json:"temp_outlet"`      // degree C
	TempSource       float64  `json:"temp_source"`      // degree C
	TempTest         float64  `json:"temp_test"`        // degree C
}

type heat_pump_test_record struct {
	test_letter            string
	capacity               float64 // kW
	cop                    float64
	degradation_coeff      float64
	design_flow_temp       float64 // degree C
	temp_outlet            float64 // degree C
	temp_source            float64 // degree C
	temp_test              float64 // degree C
	carnot_cop             float64
	exergetic_eff          float64
	theoretical_load_ratio float64
}

/*
HeatPumpTestData holds manufacturer test results, grouped by design flow
temperature and sorted by test temperature.

	Every lookup takes the operating flow temperature in Kelvin and
	interpolates linearly between the design flow temperatures tested,
	holding the end values outside that range.
*/
type HeatPumpTestData struct {
	dsgn_flow_temps   []float64                           // degree C, ascending
	dsgn_flow_temps_K []float64                           // same, in Kelvin
	testdata          map[float64][]heat_pump_test_record // by design flow temp
	regression_coeffs map[float64][]float64               // cop against test temp, constant term first

	average_deg_coeff   []float64 // per design flow temp
	average_cap         []float64 // kW, per design flow temp
	temp_spread_test_cd []float64 // K, per design flow temp
}

func NewHeatPumpTestData(data []HeatPumpTestDatumJson) (*HeatPumpTestData, error) {
	if len(data) == 0 {
		return nil, newConfigurationError("HeatPump.test_data", "no test data")
	}

	d := &HeatPumpTestData{
		testdata:          map[float64][]heat_pump_test_record{},
		regression_coeffs: map[float64][]float64{},
	}

	for _, rec := range data {
		if _, ok := d.testdata[rec.DesignFlowTemp]; !ok {
			d.dsgn_flow_temps = append(d.dsgn_flow_temps, rec.DesignFlowTemp)
		}
		d.testdata[rec.DesignFlowTemp] = append(d.testdata[rec.DesignFlowTemp], heat_pump_test_record{
			test_letter:       rec.TestLetter,
			capacity:          rec.Capacity,
			cop:               rec.Cop,
			degradation_coeff: rec.DegradationCoeff,
			design_flow_temp:  rec.DesignFlowTemp,
			temp_outlet:       rec.TempOutlet,
			temp_source:       rec.TempSource,
			temp_test:         rec.TempTest,
		})
	}
	sort.Float64s(d.dsgn_flow_temps)

	for _, dsgn_flow_temp := range d.dsgn_flow_temps {
		records := d.testdata[dsgn_flow_temp]

		letters := map[string]bool{}
		for _, r := range records {
			if letters[r.test_letter] {
				return nil, newConfigurationError("HeatPump.test_data",
					"duplicate test letter %s for design flow temperature %g", r.test_letter, dsgn_flow_temp)
			}
			letters[r.test_letter] = true
		}
		for _, l := range heat_pump_mandatory_test_letters {
			if !letters[l] {
				return nil, newConfigurationError("HeatPump.test_data",
					"test letter %s missing for design flow temperature %g", l, dsgn_flow_temp)
			}
		}

		sort.SliceStable(records, func(i, j int) bool {
			return records[i].temp_test < records[j].temp_test
		})

		// Records sharing a test temperature are moved apart by a small amount
		// so that lookups by temperature stay single valued.
		duplicates := 0
		prev_temp_test := records[0].temp_test
		for i := 1; i < len(records); i++ {
			if records[i].temp_test == prev_temp_test {
				duplicates++
				records[i].temp_source += float64(duplicates) * heat_pump_duplicate_offset
				records[i].temp_test += float64(duplicates) * heat_pump_duplicate_offset
			} else {
				duplicates = 0
				prev_temp_test = records[i].temp_test
			}
		}

		for i := range records {
			records[i].carnot_cop = carnot_cop(
				Celcius2Kelvin(records[i].temp_source),
				Celcius2Kelvin(records[i].temp_outlet),
				0.0,
			)
			records[i].exergetic_eff = records[i].cop / records[i].carnot_cop
		}

		cld := records[0]
		temp_outlet_cld := Celcius2Kelvin(cld.temp_outlet)
		temp_source_cld := Celcius2Kelvin(cld.temp_source)
		for i := range records {
			temp_outlet := Celcius2Kelvin(records[i].temp_outlet)
			temp_source := Celcius2Kelvin(records[i].temp_source)
			records[i].theoretical_load_ratio = (records[i].carnot_cop / cld.carnot_cop) *
				math.Pow((temp_outlet_cld*temp_source)/(temp_source_cld*temp_outlet), heat_pump_N_exer)
		}

		coeffs, err := cop_regression(records)
		if err != nil {
			return nil, fmt.Errorf("design flow temperature %g: %w", dsgn_flow_temp, err)
		}
		d.regression_coeffs[dsgn_flow_temp] = coeffs

		var deg_coeffs, capacities []float64
		for _, r := range records {
			if is_mandatory_test_letter(r.test_letter) {
				deg_coeffs = append(deg_coeffs, r.degradation_coeff)
				capacities = append(capacities, r.capacity)
			}
		}

		d.testdata[dsgn_flow_temp] = records
		d.dsgn_flow_temps_K = append(d.dsgn_flow_temps_K, Celcius2Kelvin(dsgn_flow_temp))
		d.average_deg_coeff = append(d.average_deg_coeff, stat.Mean(deg_coeffs, nil))
		d.average_cap = append(d.average_cap, stat.Mean(capacities, nil))
		d.temp_spread_test_cd = append(d.temp_spread_test_cd, interp(
			dsgn_flow_temp,
			heat_pump_temp_spread_test_cond.design_flow_temp,
			heat_pump_temp_spread_test_cond.temp_spread,
		))
	}

	return d, nil
}

func is_mandatory_test_letter(l string) bool {
	for _, m := range heat_pump_mandatory_test_letters {
		if l == m {
			return true
		}
	}
	return false
}

// carnot_cop is the ideal heating COP; temp_diff_limit_low floors the temperature lift, K.
func carnot_cop(temp_source, temp_outlet, temp_diff_limit_low float64) float64 {
	return temp_outlet / math.Max(temp_outlet-temp_source, temp_diff_limit_low)
}

// cop_regression fits cop = a0 + a1 T + a2 T^2 over the test temperatures by least squares.
func cop_regression(records []heat_pump_test_record) ([]float64, error) {
	n := len(records)
	x := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i, r := range records {
		x.Set(i, 0, 1.0)
		x.Set(i, 1, r.temp_test)
		x.Set(i, 2, r.temp_test*r.temp_test)
		y.SetVec(i, r.cop)
	}

	var coeffs mat.VecDense
	if err := coeffs.SolveVec(x, y); err != nil {
		return nil, err
	}
	return []float64{coeffs.AtVec(0), coeffs.AtVec(1), coeffs.AtVec(2)}, nil
}

// interp_by_flow_temp interpolates one value per design flow temperature at flow_temp, K.
func (d *HeatPumpTestData) interp_by_flow_temp(flow_temp float64, values []float64) float64 {
	return interp(flow_temp, d.dsgn_flow_temps_K, values)
}

func (d *HeatPumpTestData) average_degradation_coeff(flow_temp float64) float64 {
	return d.interp_by_flow_temp(flow_temp, d.average_deg_coeff)
}

func (d *HeatPumpTestData) average_capacity(flow_temp float64) float64 {
	return d.interp_by_flow_temp(flow_temp, d.average_cap)
}

func (d *HeatPumpTestData) temp_spread_test_conditions(flow_temp float64) float64 {
	return d.interp_by_flow_temp(flow_temp, d.temp_spread_test_cd)
}

// test_condition returns the record for a test letter, or the coldest record for "cld".
func (d *HeatPumpTestData) test_condition(dsgn_flow_temp float64, test_condition string) heat_pump_test_record {
	records := d.testdata[dsgn_flow_temp]
	if test_condition == heat_pump_test_condition_coldest {
		return records[0]
	}
	for _, r := range records {
		if r.test_letter == test_condition {
			return r
		}
	}
	panic(fmt.Sprintf("no test condition %s for design flow temperature %g", test_condition, dsgn_flow_temp))
}

func (d *HeatPumpTestData) at_test_condition(
	test_condition string,
	flow_temp float64,
	field func(r heat_pump_test_record) float64,
) float64 {
	values := make([]float64, len(d.dsgn_flow_temps))
	for i, dsgn_flow_temp := range d.dsgn_flow_temps {
		values[i] = field(d.test_condition(dsgn_flow_temp, test_condition))
	}
	return d.interp_by_flow_temp(flow_temp, values)
}

func (d *HeatPumpTestData) carnot_cop_at_test_condition(test_condition string, flow_temp float64) float64 {
	return d.at_test_condition(test_condition, flow_temp, func(r heat_pump_test_record) float64 {
		return r.carnot_cop
	})
}

// outlet_temp_at_test_condition is in Kelvin.
func (d *HeatPumpTestData) outlet_temp_at_test_condition(test_condition string, flow_temp float64) float64 {
	return d.at_test_condition(test_condition, flow_temp, func(r heat_pump_test_record) float64 {
		return Celcius2Kelvin(r.temp_outlet)
	})
}

// source_temp_at_test_condition is in Kelvin.
func (d *HeatPumpTestData) source_temp_at_test_condition(test_condition string, flow_temp float64) float64 {
	return d.at_test_condition(test_condition, flow_temp, func(r heat_pump_test_record) float64 {
		return Celcius2Kelvin(r.temp_source)
	})
}

func (d *HeatPumpTestData) capacity_at_test_condition(test_condition string, flow_temp float64) float64 {
	return d.at_test_condition(test_condition, flow_temp, func(r heat_pump_test_record) float64 {
		return r.capacity
	})
}

/*
lr_op_cond is the load ratio at operating conditions, at least 1.

	Args:
		flow_temp          -- flow temperature, K
		temp_source        -- source temperature, K
		carnot_cop_op_cond -- Carnot COP at operating conditions
*/
func (d *HeatPumpTestData) lr_op_cond(flow_temp, temp_source, carnot_cop_op_cond float64) float64 {
	values := make([]float64, len(d.dsgn_flow_temps))
	for i, dsgn_flow_temp := range d.dsgn_flow_temps {
		cld := d.test_condition(dsgn_flow_temp, heat_pump_test_condition_coldest)
		temp_outlet_cld := Celcius2Kelvin(cld.temp_outlet)
		temp_source_cld := Celcius2Kelvin(cld.temp_source)
		lr := (carnot_cop_op_cond / cld.carnot_cop) *
			math.Pow((temp_outlet_cld*temp_source)/(temp_source_cld*flow_temp), heat_pump_N_exer)
		values[i] = math.Max(1.0, lr)
	}
	return d.interp_by_flow_temp(flow_temp, values)
}

/*
lr_eff_degcoeff_either_side_of_op_cond finds the test records bracketing
exergy_lr_op_cond by load ratio and returns, interpolated by flow temperature:
load ratio below and above, exergetic efficiency below and above, degradation
coefficient below and above.
*/
func (d *HeatPumpTestData) lr_eff_degcoeff_either_side_of_op_cond(
	flow_temp float64,
	exergy_lr_op_cond float64,
) (float64, float64, float64, float64, float64, float64) {
	n := len(d.dsgn_flow_temps)
	lr_below := make([]float64, n)
	lr_above := make([]float64, n)
	eff_below := make([]float64, n)
	eff_above := make([]float64, n)
	deg_below := make([]float64, n)
	deg_above := make([]float64, n)

	for i, dsgn_flow_temp := range d.dsgn_flow_temps {
		records := d.testdata[dsgn_flow_temp]

		idx := len(records) - 1
		for j, r := range records {
			if r.theoretical_load_ratio >= exergy_lr_op_cond {
				idx = j
				break
			}
		}
		if idx == 0 {
			idx = 1
		}

		below, above := records[idx-1], records[idx]
		lr_below[i], lr_above[i] = below.theoretical_load_ratio, above.theoretical_load_ratio
		eff_below[i], eff_above[i] = below.exergetic_eff, above.exergetic_eff
		deg_below[i], deg_above[i] = below.degradation_coeff, above.degradation_coeff
	}

	return d.interp_by_flow_temp(flow_temp, lr_below),
		d.interp_by_flow_temp(flow_temp, lr_above),
		d.interp_by_flow_temp(flow_temp, eff_below),
		d.interp_by_flow_temp(flow_temp, eff_above),
		d.interp_by_flow_temp(flow_temp, deg_below),
		d.interp_by_flow_temp(flow_temp, deg_above)
}

/*
cop_op_cond_if_not_air_source is the COP at operating conditions for heat
pumps whose source temperature does not follow the outside air.

	The regression at the outside temperature gives the COP at the coldest
	test condition, which is then scaled by the ratio of temperature lifts.

	Args:
		temp_diff_limit_low -- minimum temperature lift, K
		temp_ext            -- outside air temperature, K
		temp_source         -- source temperature, K
		temp_output         -- output temperature, K
*/
func (d *HeatPumpTestData) cop_op_cond_if_not_air_source(
	temp_diff_limit_low float64,
	temp_ext float64,
	temp_source float64,
	temp_output float64,
) float64 {
	temp_ext_C := Kelvin2Celcius(temp_ext)
	values := make([]float64, len(d.dsgn_flow_temps))
	for i, dsgn_flow_temp := range d.dsgn_flow_temps {
		cld := d.test_condition(dsgn_flow_temp, heat_pump_test_condition_coldest)
		temp_outlet_cld := Celcius2Kelvin(cld.temp_outlet)
		temp_source_cld := Celcius2Kelvin(cld.temp_source)
		a := d.regression_coeffs[dsgn_flow_temp]

		cop_operation_cld := a[0] + a[1]*temp_ext_C + a[2]*temp_ext_C*temp_ext_C
		values[i] = cop_operation_cld *
			(temp_output * (temp_outlet_cld - temp_source_cld)) /
			(temp_outlet_cld * math.Max(temp_output-temp_source, temp_diff_limit_low))
	}
	return d.interp_by_flow_temp(temp_output, values)
}

/*
capacity_op_cond_if_not_air_source is the capacity at operating conditions,
kW, for heat pumps whose source temperature does not follow the outside air.

	A modulating compressor is assumed to scale its capacity with the cube of
	the temperature ratio; a fixed speed one delivers its capacity at the
	coldest test condition.
*/
func (d *HeatPumpTestData) capacity_op_cond_if_not_air_source(
	temp_output float64,
	temp_source float64,
	mod_ctrl bool,
) float64 {
	values := make([]float64, len(d.dsgn_flow_temps))
	for i, dsgn_flow_temp := range d.dsgn_flow_temps {
		cld := d.test_condition(dsgn_flow_temp, heat_pump_test_condition_coldest)
		values[i] = cld.capacity
		if mod_ctrl {
			temp_outlet_cld := Celcius2Kelvin(cld.temp_outlet)
			temp_source_cld := Celcius2Kelvin(cld.temp_source)
			values[i] *= math.Pow(
				(temp_outlet_cld*temp_source)/(temp_output*temp_source_cld),
				heat_pump_N_exer,
			)
		}
	}
	return d.interp_by_flow_temp(temp_output, values)
}

// capacity_op_cond_air_source follows the tested capacities against outside air temperature, degree C.
func (d *HeatPumpTestData) capacity_op_cond_air_source(flow_temp, temp_ext float64) float64 {
	values := make([]float64, len(d.dsgn_flow_temps))
	for i, dsgn_flow_temp := range d.dsgn_flow_temps {
		records := d.testdata[dsgn_flow_temp]
		temp_test := make([]float64, len(records))
		capacity := make([]float64, len(records))
		for j, r := range records {
			temp_test[j] = r.temp_test
			capacity[j] = r.capacity
		}
		values[i] = interp(temp_ext, temp_test, capacity)
	}
	return d.interp_by_flow_temp(flow_temp, values)
}

/*
temp_spread_correction is the COP correction for an emitter temperature
spread different from the one at test conditions.

	Args:
		temp_source          -- source temperature, K
		temp_output          -- output temperature, K
		temp_diff_evaporator -- evaporator temperature difference, K
		temp_diff_condenser  -- condenser temperature difference, K
		temp_spread_emitter  -- emitter temperature spread, K
*/
func (d *HeatPumpTestData) temp_spread_correction(
	temp_source float64,
	temp_output float64,
	temp_diff_evaporator float64,
	temp_diff_condenser float64,
	temp_spread_emitter float64,
) float64 {
	temp_spread_test_cond := d.temp_spread_test_conditions(temp_output)
	return 1.0 - ((temp_spread_test_cond-temp_spread_emitter)/2.0)/
		(temp_output-temp_spread_test_cond/2.0+temp_diff_condenser-temp_source+temp_diff_evaporator)
}

/*
interpolate_exhaust_air_heat_pump_test_data reduces test data recorded at
several air flow rates to one record per test condition at air_flow_rate_req.

	Returns the lowest air flow rate tested and the interpolated records, in
	the order they appear for that lowest flow rate.
*/
func interpolate_exhaust_air_heat_pump_test_data(
	air_flow_rate_req float64,
	data []HeatPumpTestDatumJson,
) (float64, []HeatPumpTestDatumJson, error) {
	type condition struct {
		test_letter      string
		design_flow_temp float64
	}
	by_flow_rate := map[float64]map[condition]HeatPumpTestDatumJson{}
	var flow_rates []float64
	for _, rec := range data {
		if rec.AirFlowRate == nil {
			return 0, nil, newConfigurationError("HeatPump.test_data",
				"air_flow_rate missing from exhaust air heat pump test record %s", rec.TestLetter)
		}
		rate := *rec.AirFlowRate
		if _, ok := by_flow_rate[rate]; !ok {
			by_flow_rate[rate] = map[condition]HeatPumpTestDatumJson{}
			flow_rates = append(flow_rates, rate)
		}
		by_flow_rate[rate][condition{rec.TestLetter, rec.DesignFlowTemp}] = rec
	}
	sort.Float64s(flow_rates)
	lowest := flow_rates[0]

	var conditions []condition
	for _, rec := range data {
		if *rec.AirFlowRate == lowest {
			conditions = append(conditions, condition{rec.TestLetter, rec.DesignFlowTemp})
		}
	}

	result := make([]HeatPumpTestDatumJson, 0, len(conditions))
	for _, c := range conditions {
		capacity := make([]float64, len(flow_rates))
		cop := make([]float64, len(flow_rates))
		deg := make([]float64, len(flow_rates))
		for i, rate := range flow_rates {
			rec, ok := by_flow_rate[rate][c]
			if !ok {
				return 0, nil, newConfigurationError("HeatPump.test_data",
					"test letter %s at design flow temperature %g missing for air flow rate %g",
					c.test_letter, c.design_flow_temp, rate)
			}
			capacity[i] = rec.Capacity
			cop[i] = rec.Cop
			deg[i] = rec.DegradationCoeff
		}

		rec := by_flow_rate[lowest][c]
		result = append(result, HeatPumpTestDatumJson{
			TestLetter:       rec.TestLetter,
			Capacity:         interp(air_flow_rate_req, flow_rates, capacity),
			Cop:              interp(air_flow_rate_req, flow_rates, cop),
			DegradationCoeff: interp(air_flow_rate_req, flow_rates, deg),
			DesignFlowTemp:   rec.DesignFlowTemp,
			TempOutlet:       rec.TempOutlet,
			TempSource:       rec.TempSource,
			TempTest:         rec.TempTest,
		})
	}
	return lowest, result, nil
}
