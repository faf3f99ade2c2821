package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factory-sim/factory-sim/sim/report"
)

// resetRunFlags reverts the run command's flags to their defaults. Cobra
// keeps flag state on the package-level command, so a --duration from one
// Execute call would otherwise leak Changed=true into the next.
func resetRunFlags(t *testing.T) {
	t.Helper()
	for _, name := range []string{"config", "duration", "seed", "log", "report"} {
		f := runCmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
}

func TestRunCommand_FlagsOverrideConfigFile(t *testing.T) {
	resetRunFlags(t)

	// GIVEN a config file with its own duration and seed
	cfgPath := writeConfig(t, `
machines:
  - name: press
    min_time: 0.5
    max_time: 1.0
    efficiency: 0.9
    maintenance_interval: 1000.0
    failure_rate: 0.0
simulation:
  duration: 25.0
  seed: 7
`)
	repPath := filepath.Join(t.TempDir(), "report.json")

	// WHEN run is invoked with explicit --duration and --seed
	rootCmd.SetArgs([]string{"run", "--config", cfgPath, "--duration", "2", "--seed", "99", "--report", repPath})

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := rootCmd.Execute()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "=== Simulation Metrics ===")

	// THEN the run used the flag values, not the file's
	data, err := os.ReadFile(repPath)
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal(data, &rep))

	assert.Equal(t, 2.0, rep.Duration, "flag duration must beat the file's 25.0")
	assert.Equal(t, int64(99), rep.Seed, "flag seed must beat the file's 7")
	require.Len(t, rep.Machines, 1)
	assert.Equal(t, "press", rep.Machines[0].Statistics.Name)
}

func TestRunCommand_FileValuesKeptWithoutFlags(t *testing.T) {
	resetRunFlags(t)

	// GIVEN a config file and no duration or seed on the command line
	cfgPath := writeConfig(t, `
machines:
  - name: press
    min_time: 0.5
    max_time: 1.0
    efficiency: 0.9
    maintenance_interval: 1000.0
    failure_rate: 0.0
simulation:
  duration: 3.5
  seed: 7
`)
	repPath := filepath.Join(t.TempDir(), "report.json")

	rootCmd.SetArgs([]string{"run", "--config", cfgPath, "--report", repPath})

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := rootCmd.Execute()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "=== Simulation Metrics ===")

	// THEN the file's values govern the run
	data, err := os.ReadFile(repPath)
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal(data, &rep))

	assert.Equal(t, 3.5, rep.Duration)
	assert.Equal(t, int64(7), rep.Seed)
}
