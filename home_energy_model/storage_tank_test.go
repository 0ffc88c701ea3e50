package home_energy_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	storage_tank_test_cold_temps = []float64{10.0, 10.1, 10.2, 10.5, 10.6, 11.0, 11.5, 12.1}
	storage_tank_test_control    = []bool{true, false, false, false, true, true, true, true}
	storage_tank_test_draws      = []float64{10.0, 10.0, 15.0, 20.0, 20.0, 20.0, 20.0, 20.0}
)

func TestStorageTankDemandHotWater(t *testing.T) {
	testCases := []struct {
		name                string
		volume              float64
		losses              float64
		setpoint            float64
		power               float64
		heater_position     float64
		thermostat_position float64
		expected_temps      [][]float64
		expected_energy     []float64
	}{
		{
			name:                "immersion at bottom",
			volume:              150.0,
			losses:              1.68,
			setpoint:            55.0,
			power:               50.0,
			heater_position:     0.1,
			thermostat_position: 0.33,
			expected_temps: [][]float64{
				{43.5117037037037, 54.595555555555556, 54.595555555555556, 54.595555555555556},
				{34.923351362284535, 51.44088940589104, 54.19530534979424, 54.19530534979424},
				{25.428671888696492, 44.86111831060492, 52.763271736704276, 53.79920588690749},
				{17.778914378539547, 34.731511258769736, 48.38455458241966, 52.883165319588585},
				{55.0, 55.0, 55.0, 55.0},
				{32.955654320987655, 54.595555555555556, 54.595555555555556, 54.595555555555556},
				{55.0, 55.0, 55.0, 55.0},
				{33.53623703703703, 54.595555555555556, 54.595555555555556, 54.595555555555556},
			},
			expected_energy: []float64{0.0, 0.0, 0.0, 0.0, 3.9189973050595626, 0.0, 2.0255553251028573, 0.0},
		},
		{
			name:                "immersion at middle",
			volume:              210.0,
			losses:              1.61,
			setpoint:            60.0,
			power:               5.0,
			heater_position:     0.6,
			thermostat_position: 0.6,
			expected_temps: [][]float64{
				{51.74444444444445, 59.687654320987654, 59.687654320987654, 59.687654320987654},
				{44.83576096913369, 58.10817048730805, 59.37752591068435, 59.37752591068435},
				{36.279411505184825, 54.60890513377094, 58.76352191705448, 59.06959902921961},
				{27.803758539213316, 48.41088769491589, 57.11721566595131, 58.66493643832885},
				{22.115012458237494, 41.46704433740872, 53.98882801141131, 57.857823384416925},
				{18.392953648519935, 34.88146733500239, 60.0, 60.0},
				{16.198781370486113, 29.539425498912564, 51.75379869179794, 59.687654320987654},
				{14.889587258686573, 25.21241834280409, 60.0, 60.0},
			},
			expected_energy: []float64{0.0, 0.0, 0.0, 0.0, 0.0, 0.8689721305845337, 0.0, 1.1479005355748102},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			simtime, err := NewSimulationTime(0, 8, 1)
			require.NoError(t, err)
			cold := NewColdWaterSource(storage_tank_test_cold_temps, simtime, 0, 1)
			es := NewEnergySupply(FuelTypeElectricity, simtime)
			conn, err := es.connection("immersion")
			require.NoError(t, err)
			control := NewOnOffTimeControl(storage_tank_test_control, simtime, 0, 1)
			immersion := NewImmersionHeater(tc.power, conn, simtime, control)

			thermostat_position := tc.thermostat_position
			tank, err := NewStorageTank(
				tc.volume, tc.losses, 52.0, tc.setpoint, cold, simtime,
				[]tank_heat_source{new_tank_heat_source("imm", immersion, tc.heater_position, &thermostat_position)},
			)
			require.NoError(t, err)

			for t_idx, draw := range storage_tank_test_draws {
				energy := tank.demand_hot_water(draw, t_idx)
				assert.InDeltaSlice(t, tc.expected_temps[t_idx], tank.temps(), 1e-9, "temperatures at t_idx %d", t_idx)
				assert.InDelta(t, tc.expected_energy[t_idx], energy, 1e-9, "energy at t_idx %d", t_idx)
			}
			_, by_end_user := es.results_by_end_user()
			assert.InDeltaSlice(t, tc.expected_energy, by_end_user["immersion"], 1e-9)
		})
	}
}

func TestStorageTankRearrange(t *testing.T) {
	simtime, err := NewSimulationTime(0, 1, 1)
	require.NoError(t, err)
	cold := NewColdWaterSource([]float64{10.0}, simtime, 0, 1)
	tank, err := NewStorageTank(200.0, 1.0, 52.0, 55.0, cold, simtime, nil)
	require.NoError(t, err)

	temps := []float64{20.0, 50.0, 40.0, 60.0}
	tank._rearrange(temps)
	assert.InDeltaSlice(t, []float64{20.0, 45.0, 45.0, 60.0}, temps, 1e-12)

	temps = []float64{60.0, 50.0, 40.0, 30.0}
	tank._rearrange(temps)
	assert.InDeltaSlice(t, []float64{45.0, 45.0, 45.0, 45.0}, temps, 1e-12)
}

func TestStorageTankPartialHeating(t *testing.T) {
	simtime, err := NewSimulationTime(0, 1, 1)
	require.NoError(t, err)
	cold := NewColdWaterSource([]float64{10.0}, simtime, 0, 1)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("immersion")
	require.NoError(t, err)
	immersion := NewImmersionHeater(1.0, conn, simtime, nil)
	thermostat := 0.0
	tank, err := NewStorageTank(200.0, 0.0, 52.0, 55.0, cold, simtime,
		[]tank_heat_source{new_tank_heat_source("imm", immersion, 0.0, &thermostat)})
	require.NoError(t, err)

	// a full 200 litre draw leaves the whole tank at the cold feed temperature
	energy := tank.demand_hot_water(300.0, 0)
	assert.Equal(t, 1.0, energy)
	assert.Greater(t, tank.unmet_demand(), 0.0)

	cp := WATER.volumetric_energy_content_kWh_per_litre(1.0, 0.0)
	temps := tank.temps()
	// the heater's output warms the top layer first
	assert.InDelta(t, 10.0+1.0/(50.0*cp), temps[3], 1e-9)
	assert.InDeltaSlice(t, []float64{10.0, 10.0, 10.0}, temps[:3], 1e-9)
}

func TestStorageTankPriorityOrder(t *testing.T) {
	simtime, err := NewSimulationTime(0, 1, 1)
	require.NoError(t, err)
	cold := NewColdWaterSource([]float64{10.0}, simtime, 0, 1)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn1, err := es.connection("first")
	require.NoError(t, err)
	conn2, err := es.connection("second")
	require.NoError(t, err)
	thermostat := 0.0
	tank, err := NewStorageTank(200.0, 1.0, 52.0, 55.0, cold, simtime, []tank_heat_source{
		new_tank_heat_source("first", NewImmersionHeater(50.0, conn1, simtime, nil), 0.0, &thermostat),
		new_tank_heat_source("second", NewImmersionHeater(50.0, conn2, simtime, nil), 0.0, &thermostat),
	})
	require.NoError(t, err)

	tank.demand_hot_water(50.0, 0)
	_, by_end_user := es.results_by_end_user()
	assert.Greater(t, by_end_user["first"][0], 0.0)
	assert.Equal(t, 0.0, by_end_user["second"][0])
	assert.InDeltaSlice(t, []float64{55.0, 55.0, 55.0, 55.0}, tank.temps(), 1e-9)
}

func TestNewStorageTankInvalid(t *testing.T) {
	simtime, err := NewSimulationTime(0, 1, 1)
	require.NoError(t, err)
	cold := NewColdWaterSource([]float64{10.0}, simtime, 0, 1)

	var cerr *ConfigurationError
	_, err = NewStorageTank(0.0, 1.0, 52.0, 55.0, cold, simtime, nil)
	assert.ErrorAs(t, err, &cerr)
	_, err = NewStorageTank(100.0, 1.0, 52.0, 50.0, cold, simtime, nil)
	assert.ErrorAs(t, err, &cerr)
}

func TestImmersionHeater(t *testing.T) {
	simtime, err := NewSimulationTime(0, 4, 1)
	require.NoError(t, err)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("immersion")
	require.NoError(t, err)
	control := NewOnOffTimeControl([]bool{true, true, false, true}, simtime, 0, 1)
	heater := NewImmersionHeater(50.0, conn, simtime, control)

	demands := []float64{40.0, 100.0, 30.0, 20.0}
	expected := []float64{40.0, 50.0, 0.0, 20.0}
	for t_idx := range demands {
		assert.Equal(t, expected[t_idx], heater.demand_energy(demands[t_idx], t_idx))
	}
}

func TestSolarThermalSystem(t *testing.T) {
	simtime, err := NewSimulationTime(0, 2, 1)
	require.NoError(t, err)
	ec, err := NewExternalConditions(
		simtime, []float64{10.0, 10.0}, []float64{4.0, 4.0},
		[]float64{500.0, 0.0}, []float64{0.0, 0.0}, []float64{0.2, 0.2},
		51.42, -0.75, 0, 0, 0, 1.0, 1, "not applicable", false, false, nil,
	)
	require.NoError(t, err)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("solar pump")
	require.NoError(t, err)

	solar, err := NewSolarThermalSystem(&SolarThermalSystemJson{
		AreaModule:              2.0,
		Modules:                 2,
		PeakCollectorEfficiency: 0.8,
		IncidenceAngleModifier:  0.95,
		FirstOrderHLC:           3.5,
		SecondOrderHLC:          0.01,
		PowerPump:               50.0,
		PowerPumpControl:        5.0,
		SolarLoopPipingHLC:      1.0,
		Tilt:                    0.0,
	}, conn, ec, simtime)
	require.NoError(t, err)

	// eff = 0.76 - 3.5 * 45 / 500 - 0.01 * 45^2 / 500, less 45 Wh of piping loss
	energy, temp_mean := solar.energy_output_max(55.0, 0)
	assert.InDelta(t, 0.764, energy, 1e-9)
	assert.Equal(t, 55.0, temp_mean)
	assert.InDelta(t, 0.07, solar.demand_energy_at(0.07, 55.0, 0), 1e-12)
	assert.InDelta(t, 0.764, solar.demand_energy_at(10.0, 55.0, 0), 1e-9)

	// no sun
	assert.Equal(t, 0.0, solar.demand_energy_at(1.0, 55.0, 1))

	_, by_end_user := es.results_by_end_user()
	assert.InDeltaSlice(t, []float64{0.11, 0.005}, by_end_user["solar pump"], 1e-12)

	var cerr *ConfigurationError
	_, err = NewSolarThermalSystem(&SolarThermalSystemJson{}, conn, ec, simtime)
	assert.ErrorAs(t, err, &cerr)
	_, err = NewSolarThermalSystem(&SolarThermalSystemJson{SolLoc: "ROOF", AreaModule: 1, Modules: 1}, conn, ec, simtime)
	assert.ErrorAs(t, err, &cerr)
	_, err = NewSolarThermalSystem(&SolarThermalSystemJson{AreaModule: 1, Modules: 1, CollectorMassFlowRate: -1}, conn, ec, simtime)
	assert.ErrorAs(t, err, &cerr)
}

func TestSolarThermalCollectorLoop(t *testing.T) {
	simtime, err := NewSimulationTime(0, 2, 1)
	require.NoError(t, err)
	ec, err := NewExternalConditions(
		simtime, []float64{10.0, 10.0}, []float64{4.0, 4.0},
		[]float64{500.0, 0.0}, []float64{0.0, 0.0}, []float64{0.2, 0.2},
		51.42, -0.75, 0, 0, 0, 1.0, 1, "not applicable", false, false, nil,
	)
	require.NoError(t, err)
	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("solar pump")
	require.NoError(t, err)

	d := &SolarThermalSystemJson{
		SolLoc:                  "NHS",
		AreaModule:              2.0,
		Modules:                 2,
		PeakCollectorEfficiency: 0.8,
		IncidenceAngleModifier:  0.95,
		FirstOrderHLC:           3.5,
		CollectorMassFlowRate:   0.02,
		CollectorHeatCapacity:   5.0,
		PowerPump:               50.0,
		PowerPumpControl:        5.0,
		SolarLoopPipingHLC:      1.0,
	}
	solar, err := NewSolarThermalSystem(d, conn, ec, simtime)
	require.NoError(t, err)
	assert.Equal(t, SolarCollectorLocUnheatedSpace, solar.sol_loc)
	assert.Equal(t, 15.0, solar.temp_surrounding(0))

	// water warms through the collector, so the mean is above the inlet
	energy, temp_mean := solar.energy_output_max(50.0, 0)
	assert.InDelta(t, 55.296437767124594, temp_mean, 1e-9)
	// an idle collector has to be warmed from the outside air first
	assert.InDelta(t, 0.5939065570091057, energy, 1e-9)

	assert.InDelta(t, 0.5939065570091057, solar.demand_energy_at(10.0, 50.0, 0), 1e-9)
	assert.True(t, solar.loop_running)
	assert.Equal(t, solar.energy_supplied, solar.energy_potential)

	// already warm
	energy, _ = solar.energy_output_max(50.0, 0)
	assert.InDelta(t, 0.8455534334931312, energy, 1e-9)

	// no sun, control power only
	assert.Equal(t, 0.0, solar.demand_energy_at(1.0, 50.0, 1))
	assert.False(t, solar.loop_running)
	_, by_end_user := es.results_by_end_user()
	assert.InDeltaSlice(t, []float64{0.055, 0.005}, by_end_user["solar pump"], 1e-12)

	for loc, expected := range map[string]float64{"OUT": 10.0, "HS": 20.0} {
		d.SolLoc = loc
		solar, err := NewSolarThermalSystem(d, conn, ec, simtime)
		require.NoError(t, err)
		assert.Equal(t, expected, solar.temp_surrounding(0), loc)
	}
}

func TestStorageTankWithSolarThermal(t *testing.T) {
	simtime, err := NewSimulationTime(5088, 5112, 1)
	require.NoError(t, err)
	cold := NewColdWaterSource([]float64{
		17.0, 17.1, 17.2, 17.3, 17.4, 17.5, 17.6, 17.7, 17.0, 17.1, 17.2, 17.3,
		17.4, 17.5, 17.6, 17.7, 17.0, 17.1, 17.2, 17.3, 17.4, 17.5, 17.6, 17.7,
	}, simtime, 212, 1)

	air_temps := make([]float64, 24)
	reflectivity := make([]float64, 24)
	for i := range air_temps {
		air_temps[i] = 19.0
		reflectivity[i] = 0.2
	}
	segments := make([]ShadingSegmentJson, 8)
	for i := range segments {
		segments[i] = ShadingSegmentJson{Number: i + 1, Start: 180.0 - 45.0*float64(i), End: 135.0 - 45.0*float64(i)}
	}
	segments[3].Shading = []ShadingObjectJson{{Type: "obstacle", Height: 10.5, Distance: 120.0}}
	ec, err := NewExternalConditions(
		simtime,
		air_temps,
		[]float64{
			3.9, 3.8, 3.9, 4.1, 3.8, 4.2, 4.3, 4.1, 3.9, 3.8, 3.9, 4.1,
			3.8, 4.2, 4.3, 4.1, 3.9, 3.8, 3.9, 4.1, 3.8, 4.2, 4.3, 4.1,
		},
		[]float64{0, 0, 0, 0, 35, 73, 139, 244, 320, 361, 369, 348, 318, 249, 225, 198, 121, 68, 19, 0, 0, 0, 0, 0},
		[]float64{0, 0, 0, 0, 0, 0, 7, 53, 63, 164, 339, 242, 315, 577, 385, 285, 332, 126, 7, 0, 0, 0, 0, 0},
		reflectivity,
		51.383, -0.783, 0, 212, 212, 1.0, 1, "not applicable", false, false, segments,
	)
	require.NoError(t, err)

	es := NewEnergySupply(FuelTypeElectricity, simtime)
	conn, err := es.connection("solarthermal")
	require.NoError(t, err)
	solar, err := NewSolarThermalSystem(&SolarThermalSystemJson{
		SolLoc:                  "OUT",
		AreaModule:              3.0,
		Modules:                 1,
		PeakCollectorEfficiency: 0.8,
		IncidenceAngleModifier:  0.9,
		FirstOrderHLC:           3.5,
		SecondOrderHLC:          0.0,
		CollectorMassFlowRate:   1.0,
		PowerPump:               100.0,
		PowerPumpControl:        10.0,
		SolarLoopPipingHLC:      0.5,
		Tilt:                    30.0,
		Orientation:             0.0,
	}, conn, ec, simtime)
	require.NoError(t, err)
	// the thermostat position is ignored for a solar loop
	thermostat := 0.33
	tank, err := NewStorageTank(150.0, 1.68, 52.0, 55.0, cold, simtime,
		[]tank_heat_source{new_tank_heat_source("solarthermal", solar, 0.1, &thermostat)})
	require.NoError(t, err)

	total := 0.0
	for t_idx := 0; t_idx < simtime.total_steps(); t_idx++ {
		draw := 0.0
		if t_idx == 0 {
			draw = 100.0
		}
		energy := tank.demand_hot_water(draw, t_idx)
		total += energy

		assert.Equal(t, solar.energy_supplied, energy, "at %d", t_idx)
		assert.LessOrEqual(t, solar.energy_supplied, solar.energy_potential, "at %d", t_idx)

		// the pump runs with the collector, its controller all day
		_, by_end_user := es.results_by_end_user()
		pump := 0.01
		if solar.energy_potential > 0 {
			pump = 0.11
		}
		assert.InDelta(t, pump, by_end_user["solarthermal"][t_idx], 1e-12, "at %d", t_idx)

		if t_idx < 4 || t_idx >= 19 {
			assert.Equal(t, 0.0, solar.energy_potential, "dark at %d", t_idx)
		}
		if t_idx >= 10 && t_idx <= 12 {
			assert.Greater(t, solar.energy_potential, 0.0, "midday at %d", t_idx)
		}
	}
	assert.Greater(t, total, 0.0)
}
