package home_energy_model

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Recorder struct {
	run_id          string
	simulation_time *SimulationTime
	zone_names      []string
	n_step          int

	temp_internal_air   *mat.Dense  // air temperature of zone i at step n, degree C, [i, n]
	temp_operative      *mat.Dense  // operative temperature of zone i at step n, degree C, [i, n]
	space_heat_demand   [][]float64 // kWh, [i, n]
	space_cool_demand   [][]float64 // kWh, negative, [i, n]
	space_heat_provided [][]float64 // kWh, [i, n]
	gains_internal      [][]float64 // W, [i, n]
	gains_solar         [][]float64 // W, [i, n]

	hw_demand        []float64 // litres drawn at the outlets, [n]
	hw_energy_demand []float64 // kWh, [n]
	hw_energy_output []float64 // kWh delivered by the hot water source, [n]
	hw_pipework_loss []float64 // kWh, [n]
	hw_unmet         []float64 // kWh, [n]
}

func make2dim(i int, j int) [][]float64 {
	ar := make([][]float64, i)
	mem := make([]float64, i*j)
	for _i := range ar {
		ar[_i], mem = mem[:j], mem[j:]
	}
	return ar
}

func NewRecorder(run_id string, simulation_time *SimulationTime, zone_names []string) *Recorder {
	n_zone := len(zone_names)
	n_step := simulation_time.total_steps()
	return &Recorder{
		run_id:              run_id,
		simulation_time:     simulation_time,
		zone_names:          zone_names,
		n_step:              n_step,
		temp_internal_air:   mat.NewDense(n_zone, n_step, nil),
		temp_operative:      mat.NewDense(n_zone, n_step, nil),
		space_heat_demand:   make2dim(n_zone, n_step),
		space_cool_demand:   make2dim(n_zone, n_step),
		space_heat_provided: make2dim(n_zone, n_step),
		gains_internal:      make2dim(n_zone, n_step),
		gains_solar:         make2dim(n_zone, n_step),
		hw_demand:           make([]float64, n_step),
		hw_energy_demand:    make([]float64, n_step),
		hw_energy_output:    make([]float64, n_step),
		hw_pipework_loss:    make([]float64, n_step),
		hw_unmet:            make([]float64, n_step),
	}
}

func (r *Recorder) recording_zone(
	t_idx int,
	i int,
	temp_internal_air float64,
	temp_operative float64,
	space_heat_demand float64,
	space_cool_demand float64,
	space_heat_provided float64,
	gains_internal float64,
	gains_solar float64,
) {
	r.temp_internal_air.Set(i, t_idx, temp_internal_air)
	r.temp_operative.Set(i, t_idx, temp_operative)
	r.space_heat_demand[i][t_idx] = space_heat_demand
	r.space_cool_demand[i][t_idx] = space_cool_demand
	r.space_heat_provided[i][t_idx] = space_heat_provided
	r.gains_internal[i][t_idx] = gains_internal
	r.gains_solar[i][t_idx] = gains_solar
}

func (r *Recorder) recording_hot_water(t_idx int, demand, energy_demand, energy_output, pipework_loss, unmet float64) {
	r.hw_demand[t_idx] = demand
	r.hw_energy_demand[t_idx] = energy_demand
	r.hw_energy_output[t_idx] = energy_output
	r.hw_pipework_loss[t_idx] = pipework_loss
	r.hw_unmet[t_idx] = unmet
}

var zone_output_list = []string{
	"internal air temp [deg C]",
	"operative temp [deg C]",
	"space heat demand [kWh]",
	"space cool demand [kWh]",
	"space heat provided [kWh]",
	"internal gains [W]",
	"solar gains [W]",
}

func (r *Recorder) _get_zone_header_name(zone string, name string) string {
	return fmt.Sprintf("%s: %s", zone, name)
}

func (r *Recorder) _get_end_user_header_name(supply string, end_user string) string {
	return fmt.Sprintf("%s: %s [kWh]", supply, end_user)
}

func (r *Recorder) get_header(supplies *OrderedMap[*EnergySupply]) []string {
	headers := []string{"timestep", "hour"}

	for _, zone := range r.zone_names {
		for _, item := range zone_output_list {
			headers = append(headers, r._get_zone_header_name(zone, item))
		}
	}

	headers = append(headers,
		"hot water demand [litres]",
		"hot water energy demand [kWh]",
		"hot water energy output [kWh]",
		"hot water pipework loss [kWh]",
		"hot water unmet demand [kWh]",
	)

	for _, supply := range supplies.Keys {
		end_users, _ := supplies.Values[supply].results_by_end_user()
		for _, end_user := range end_users {
			headers = append(headers, r._get_end_user_header_name(supply, end_user))
		}
		headers = append(headers, r._get_end_user_header_name(supply, "total"))
	}
	return headers
}

// export_results renders the per-timestep results as CSV text.
func (r *Recorder) export_results(supplies *OrderedMap[*EnergySupply]) string {
	var sb strings.Builder

	sb.WriteString(strings.Join(r.get_header(supplies), ","))
	sb.WriteString("\n")

	totals := make([][]float64, 0, supplies.Len())
	for _, supply := range supplies.Keys {
		totals = append(totals, supplies.Values[supply].results_total())
	}

	for n := 0; n < r.n_step; n++ {
		sb.WriteString(fmt.Sprintf("%d,%g", n, r.simulation_time.current(n)))

		for i := range r.zone_names {
			sb.WriteString(fmt.Sprintf(",%g,%g,%g,%g,%g,%g,%g",
				r.temp_internal_air.At(i, n),
				r.temp_operative.At(i, n),
				r.space_heat_demand[i][n],
				r.space_cool_demand[i][n],
				r.space_heat_provided[i][n],
				r.gains_internal[i][n],
				r.gains_solar[i][n],
			))
		}

		sb.WriteString(fmt.Sprintf(",%g,%g,%g,%g,%g",
			r.hw_demand[n],
			r.hw_energy_demand[n],
			r.hw_energy_output[n],
			r.hw_pipework_loss[n],
			r.hw_unmet[n],
		))

		for k, supply := range supplies.Keys {
			end_users, by_end_user := supplies.Values[supply].results_by_end_user()
			for _, end_user := range end_users {
				sb.WriteString(fmt.Sprintf(",%g", by_end_user[end_user][n]))
			}
			sb.WriteString(fmt.Sprintf(",%g", totals[k][n]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

type static_result struct {
	RunId                   string  `csv:"run_id"`
	HeatTransferCoefficient float64 `csv:"Heat transfer coefficient [W/K]"`
	HeatLossParameter       float64 `csv:"Heat loss parameter [W/m2.K]"`
	HeatCapacityParameter   float64 `csv:"Heat capacity parameter [kJ/m2.K]"`
	TotalFloorArea          float64 `csv:"Total floor area [m2]"`
}

// export_static renders the one-row table of quantities fixed by the dwelling.
func (r *Recorder) export_static(htc, hlp, hcp, total_floor_area float64) (string, error) {
	rows := []*static_result{{
		RunId:                   r.run_id,
		HeatTransferCoefficient: htc,
		HeatLossParameter:       hlp,
		HeatCapacityParameter:   hcp,
		TotalFloorArea:          total_floor_area,
	}}
	return gocsv.MarshalString(&rows)
}

type summary_row struct {
	Section      string  `csv:"section"`
	EnergySupply string  `csv:"energy_supply"`
	Fuel         string  `csv:"fuel"`
	Item         string  `csv:"item"`
	Value        float64 `csv:"value"`
	Unit         string  `csv:"unit"`
}

/*
export_summary renders the annual totals.

	Sections, in order: "energy demand" (per zone and hot water),
	"delivered energy" (per energy supply and end user, with the supply total
	and its peak timestep), "electricity" (import and export of every
	electricity supply).
*/
func (r *Recorder) export_summary(supplies *OrderedMap[*EnergySupply]) (string, error) {
	var rows []*summary_row

	for i, zone := range r.zone_names {
		heat := floats.Sum(r.space_heat_demand[i])
		rows = append(rows,
			&summary_row{Section: "energy demand", Item: r._get_zone_header_name(zone, "space heat demand"), Value: heat, Unit: "kWh"},
			&summary_row{Section: "energy demand", Item: r._get_zone_header_name(zone, "space cool demand"), Value: floats.Sum(r.space_cool_demand[i]), Unit: "kWh"},
			&summary_row{Section: "energy demand", Item: r._get_zone_header_name(zone, "space heat unmet"),
				Value: frac_unmet(heat, floats.Sum(r.space_heat_provided[i])), Unit: "fraction"},
		)
	}
	rows = append(rows,
		&summary_row{Section: "energy demand", Item: "hot water demand", Value: floats.Sum(r.hw_demand), Unit: "litres"},
		&summary_row{Section: "energy demand", Item: "hot water energy demand", Value: floats.Sum(r.hw_energy_demand), Unit: "kWh"},
		&summary_row{Section: "energy demand", Item: "hot water pipework loss", Value: floats.Sum(r.hw_pipework_loss), Unit: "kWh"},
		&summary_row{Section: "energy demand", Item: "hot water unmet demand", Value: floats.Sum(r.hw_unmet), Unit: "kWh"},
	)

	for _, supply := range supplies.Keys {
		es := supplies.Values[supply]
		fuel := es.FuelType().String()
		end_users, by_end_user := es.results_by_end_user()
		for _, end_user := range end_users {
			rows = append(rows, &summary_row{
				Section: "delivered energy", EnergySupply: supply, Fuel: fuel,
				Item: end_user, Value: floats.Sum(by_end_user[end_user]), Unit: "kWh",
			})
		}
		total := es.results_total()
		peak := 0.0
		if len(total) > 0 {
			peak = floats.Max(total)
		}
		rows = append(rows,
			&summary_row{Section: "delivered energy", EnergySupply: supply, Fuel: fuel, Item: "total", Value: floats.Sum(total), Unit: "kWh"},
			&summary_row{Section: "delivered energy", EnergySupply: supply, Fuel: fuel, Item: "peak", Value: peak, Unit: "kWh/timestep"},
		)
	}

	for _, supply := range supplies.Keys {
		es := supplies.Values[supply]
		if es.FuelType() != FuelTypeElectricity {
			continue
		}
		fuel := es.FuelType().String()
		rows = append(rows,
			&summary_row{Section: "electricity", EnergySupply: supply, Fuel: fuel, Item: "import", Value: floats.Sum(es.get_energy_import()), Unit: "kWh"},
			&summary_row{Section: "electricity", EnergySupply: supply, Fuel: fuel, Item: "export", Value: floats.Sum(es.get_energy_export()), Unit: "kWh"},
		)
	}
	return gocsv.MarshalString(&rows)
}
