package home_energy_model

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFromFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "project.json")
	require.NoError(t, os.WriteFile(input, []byte(test_project_json), 0644))
	output := filepath.Join(dir, "out")

	res, err := Run(input, output, 0, "")
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunId)
	assert.NoError(t, err)
	assert.Len(t, res.ResultsTotals["mains elec"], 24)

	for _, name := range []string{"results.csv", "results_static.csv", "results_summary.csv"} {
		_, err := os.Stat(filepath.Join(output, name))
		assert.NoError(t, err, name)
	}

	static, err := os.ReadFile(filepath.Join(output, "results_static.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(static), res.RunId)

	results, err := os.ReadFile(filepath.Join(output, "results.csv"))
	require.NoError(t, err)
	// header and one row per hour
	assert.Len(t, strings.Split(strings.TrimSuffix(string(results), "\n"), "\n"), 25)
}

func TestRunFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/project.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(test_project_json))
	}))
	defer server.Close()

	d, err := load_project(server.URL + "/project.json")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Zone.Len())

	_, err = load_project(server.URL + "/missing.json")
	assert.Error(t, err)
}

func TestRunInvalidInput(t *testing.T) {
	dir := t.TempDir()

	_, err := Run(filepath.Join(dir, "missing.json"), dir, 0, "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	input := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"Zone": [`), 0644))
	_, err = Run(input, dir, 0, "")
	assert.Error(t, err)

	// configuration errors stop the run before anything is written
	input = filepath.Join(dir, "no_control_type.json")
	require.NoError(t, os.WriteFile(input, []byte(strings.Replace(test_project_json,
		`"HeatingControlType": "SeparateTimeAndTempControl",`, "", 1)), 0644))
	output := filepath.Join(dir, "out")
	_, err = Run(input, output, 0, "")
	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)
	_, err = os.Stat(output)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
