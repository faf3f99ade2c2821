package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/factory-sim/factory-sim/sim"
)

// LineConfig is the YAML file structure describing a production line run.
// All top-level sections must be listed to satisfy KnownFields(true) strict
// parsing: a typo in a section name is a parse error, not a silent default.
type LineConfig struct {
	Machines   []sim.MachineConfig  `yaml:"machines"`
	Simulation sim.SimulationConfig `yaml:"simulation"`
}

// LoadLineConfig reads the YAML line definition at path. Any failure to
// read or parse falls back to the default machine set with a logged
// warning, so a bad config degrades the run instead of killing it. Keys
// absent from the file keep their default values.
func LoadLineConfig(path string) ([]sim.MachineConfig, sim.SimulationConfig) {
	cfg := LineConfig{Simulation: sim.DefaultSimulationConfig()}
	if path == "" {
		return sim.DefaultMachineConfigs(), cfg.Simulation
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Warnf("Failed to read config %s: %v; using the default machine set", path, err)
		return sim.DefaultMachineConfigs(), cfg.Simulation
	}

	// Parse YAML with strict field checking so typos surface as errors.
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		logrus.Warnf("Failed to parse config %s: %v; using the default machine set", path, err)
		return sim.DefaultMachineConfigs(), sim.DefaultSimulationConfig()
	}

	return cfg.Machines, cfg.Simulation
}

// WriteDefaultLineConfig renders the default machines and run parameters as
// an editable YAML file at path.
func WriteDefaultLineConfig(path string) error {
	cfg := LineConfig{
		Machines:   sim.DefaultMachineConfigs(),
		Simulation: sim.DefaultSimulationConfig(),
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// configCmd writes the default line configuration for editing.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the default line configuration YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := WriteDefaultLineConfig(configOutPath); err != nil {
			logrus.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default line configuration written to %s\n", configOutPath)
	},
}
