package sim

import (
	"fmt"
	"math"
)

// Default run parameters. Times are simulated hours throughout the package.
const (
	DefaultDuration        = 10.0
	DefaultSeed            = 42
	DefaultMinCycleAdvance = 0.1

	DefaultMaintenanceInterval = 100.0
	DefaultFailureRate         = 0.01
)

// MachineConfig holds the static operating parameters of one machine.
type MachineConfig struct {
	// Name identifies the machine. Names must be unique within a line; the
	// per-machine RNG stream is derived from the name.
	Name string `yaml:"name" json:"name"`

	// MinTime and MaxTime bound the base cycle time drawn each cycle, in hours.
	MinTime float64 `yaml:"min_time" json:"min_time"`
	MaxTime float64 `yaml:"max_time" json:"max_time"`

	// Efficiency divides the base cycle time. The configured value must lie
	// in (0, 1]; it then drifts between 0.5 and 1.0 as failures and
	// maintenance accumulate.
	Efficiency float64 `yaml:"efficiency" json:"efficiency"`

	// MaintenanceInterval is how long the machine runs before the next
	// scheduled maintenance becomes due, in hours.
	MaintenanceInterval float64 `yaml:"maintenance_interval" json:"maintenance_interval"`

	// FailureRate is the breakdown probability per production cycle.
	FailureRate float64 `yaml:"failure_rate" json:"failure_rate"`
}

// finite reports whether v is a usable real number (not NaN, not ±Inf).
// Range checks alone miss NaN: every comparison against it is false.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports the first violated constraint, nil if the config is usable.
func (mc MachineConfig) Validate() error {
	if mc.Name == "" {
		return fmt.Errorf("machine name must not be empty")
	}
	if mc.MinTime <= 0 || !finite(mc.MinTime) {
		return fmt.Errorf("machine %s: min_time must be positive and finite, got %v", mc.Name, mc.MinTime)
	}
	if mc.MaxTime < mc.MinTime || !finite(mc.MaxTime) {
		return fmt.Errorf("machine %s: max_time %v must be finite and at least min_time %v", mc.Name, mc.MaxTime, mc.MinTime)
	}
	if mc.Efficiency <= 0 || mc.Efficiency > 1 || math.IsNaN(mc.Efficiency) {
		return fmt.Errorf("machine %s: efficiency must be in (0, 1], got %v", mc.Name, mc.Efficiency)
	}
	if mc.MaintenanceInterval <= 0 || !finite(mc.MaintenanceInterval) {
		return fmt.Errorf("machine %s: maintenance_interval must be positive and finite, got %v", mc.Name, mc.MaintenanceInterval)
	}
	if mc.FailureRate < 0 || mc.FailureRate > 1 || math.IsNaN(mc.FailureRate) {
		return fmt.Errorf("machine %s: failure_rate must be in [0, 1], got %v", mc.Name, mc.FailureRate)
	}
	return nil
}

// ValidateMachineConfigs checks a whole line: at least one machine, every
// machine valid on its own, names unique.
func ValidateMachineConfigs(cfgs []MachineConfig) error {
	if len(cfgs) == 0 {
		return fmt.Errorf("production line needs at least one machine")
	}
	seen := make(map[string]struct{}, len(cfgs))
	for _, mc := range cfgs {
		if err := mc.Validate(); err != nil {
			return err
		}
		if _, dup := seen[mc.Name]; dup {
			return fmt.Errorf("duplicate machine name %q", mc.Name)
		}
		seen[mc.Name] = struct{}{}
	}
	return nil
}

// DefaultMachineConfigs returns the stock three-machine line used whenever a
// supplied configuration is missing or invalid.
func DefaultMachineConfigs() []MachineConfig {
	return []MachineConfig{
		{Name: "MachineA", MinTime: 1.0, MaxTime: 2.0, Efficiency: 0.95,
			MaintenanceInterval: DefaultMaintenanceInterval, FailureRate: DefaultFailureRate},
		{Name: "MachineB", MinTime: 0.5, MaxTime: 1.5, Efficiency: 0.90,
			MaintenanceInterval: DefaultMaintenanceInterval, FailureRate: DefaultFailureRate},
		{Name: "MachineC", MinTime: 0.8, MaxTime: 1.8, Efficiency: 0.88,
			MaintenanceInterval: DefaultMaintenanceInterval, FailureRate: DefaultFailureRate},
	}
}

// SimulationConfig holds the run-level parameters of one simulation.
type SimulationConfig struct {
	// Duration is the simulated production window in hours. The line runs
	// cycles until the clock reaches it.
	Duration float64 `yaml:"duration" json:"duration"`

	// Seed drives every RNG stream. Same seed and same machine configs give
	// identical cycle records.
	Seed int64 `yaml:"seed" json:"seed"`

	// MinCycleAdvance is how far the clock moves on a cycle in which every
	// machine produced nothing, so such a run still terminates.
	MinCycleAdvance float64 `yaml:"min_cycle_advance" json:"min_cycle_advance"`
}

// DefaultSimulationConfig returns the stock run parameters.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Duration:        DefaultDuration,
		Seed:            DefaultSeed,
		MinCycleAdvance: DefaultMinCycleAdvance,
	}
}

// withDefaults fills non-positive and non-finite fields so a partially
// specified config is usable as-is. The seed is taken literally; zero is a
// valid seed.
func (sc SimulationConfig) withDefaults() SimulationConfig {
	if sc.Duration <= 0 || !finite(sc.Duration) {
		sc.Duration = DefaultDuration
	}
	if sc.MinCycleAdvance <= 0 || !finite(sc.MinCycleAdvance) {
		sc.MinCycleAdvance = DefaultMinCycleAdvance
	}
	return sc
}
