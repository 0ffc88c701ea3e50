package home_energy_model

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Results is what a run leaves in its energy supplies, keyed by energy supply name.
type Results struct {
	RunId          string
	ResultsTotals  map[string][]float64            // kWh per timestep
	ResultsEndUser map[string]map[string][]float64 // kWh per timestep by end user
	EnergyImport   map[string][]float64            // kWh per timestep
	EnergyExport   map[string][]float64            // kWh per timestep, non-positive
}

func (p *Project) results(run_id string) *Results {
	res := &Results{
		RunId:          run_id,
		ResultsTotals:  map[string][]float64{},
		ResultsEndUser: map[string]map[string][]float64{},
		EnergyImport:   map[string][]float64{},
		EnergyExport:   map[string][]float64{},
	}
	for _, name := range p.energy_supplies.Keys {
		es := p.energy_supplies.Values[name]
		res.ResultsTotals[name] = es.results_total()
		_, res.ResultsEndUser[name] = es.results_by_end_user()
		res.EnergyImport[name] = es.get_energy_import()
		res.EnergyExport[name] = es.get_energy_export()
	}
	return res
}

func load_project(path string) (*ProjectJson, error) {
	var body []byte
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := http.Get(path)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("GET %s: %s", path, resp.Status)
		}
		if body, err = io.ReadAll(resp.Body); err != nil {
			return nil, err
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if body, err = io.ReadAll(file); err != nil {
			return nil, err
		}
	}

	var d ProjectJson
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &d, nil
}

/*
RunProject builds the project and runs it to the end of the calculation period.

	Args:
		d: input document
		run_id: identifier written to the static results
		seed: seed of the hot water event generator, 0 for the reference seed
		heating_control_type: overrides d.HeatingControlType when not empty
*/
func RunProject(d *ProjectJson, run_id string, seed int64, heating_control_type string) (*Project, *Recorder, error) {
	p, err := NewProject(d, seed, heating_control_type)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("project built: %d zones, %d timesteps, %s", p.zones.Len(), p.simulation_time.total_steps(), p.heating_control_type)

	r := NewRecorder(run_id, p.simulation_time, p.zones.Keys)
	if err := p.run(r); err != nil {
		return nil, nil, err
	}
	return p, r, nil
}

func write_results(output_dir string, p *Project, r *Recorder) error {
	if err := os.MkdirAll(output_dir, 0755); err != nil {
		return err
	}

	static, err := r.export_static(p.total_heat_transfer_coeff(), p.heat_loss_parameter(), p.heat_capacity_parameter(), p.total_floor_area)
	if err != nil {
		return err
	}
	summary, err := r.export_summary(&p.energy_supplies)
	if err != nil {
		return err
	}

	for _, f := range []struct {
		name    string
		content string
	}{
		{"results.csv", r.export_results(&p.energy_supplies)},
		{"results_static.csv", static},
		{"results_summary.csv", summary},
	} {
		path := filepath.Join(output_dir, f.name)
		log.Printf("Save results to `%s`", path)
		if err := os.WriteFile(path, []byte(f.content), fs.FileMode(0644)); err != nil {
			return err
		}
	}
	return nil
}

/*
Run the calculation for the project at input_path, a file or an http(s) URL,
and write results.csv, results_static.csv and results_summary.csv to output_dir.
*/
func Run(input_path string, output_dir string, seed int64, heating_control_type string) (*Results, error) {
	run_id := uuid.New().String()
	log.Printf("run %s: loading `%s`", run_id, input_path)

	d, err := load_project(input_path)
	if err != nil {
		return nil, err
	}

	p, r, err := RunProject(d, run_id, seed, heating_control_type)
	if err != nil {
		return nil, err
	}

	if err := write_results(output_dir, p, r); err != nil {
		return nil, err
	}
	return p.results(run_id), nil
}
