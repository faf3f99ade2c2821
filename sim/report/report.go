// Package report assembles the machine-readable summary of a completed
// simulation run. It is a thin consumer of the data surface the sim package
// exposes; nothing here feeds back into the engine.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/factory-sim/factory-sim/sim"
)

// Report is the JSON document describing one simulation run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Duration    float64   `json:"simulation_duration"`
	Seed        int64     `json:"seed"`

	Machines []sim.MachinePerformanceSummary `json:"machines"`
	Metrics  sim.ProductionMetrics           `json:"production_metrics"`

	Issues           []sim.ProductionIssue  `json:"issues,omitempty"`
	HourlyEfficiency []sim.EfficiencySample `json:"hourly_efficiency,omitempty"`
}

// Build assembles a report from a line. The line is read, never mutated, so
// a report can be taken mid-run as well as after completion.
func Build(line *sim.ProductionLine) *Report {
	cfg := line.Config()
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Duration:    cfg.Duration,
		Seed:        cfg.Seed,

		Machines: line.MachinePerformanceSummaries(),
		Metrics:  line.ProductionMetrics(),

		Issues:           line.Issues(),
		HourlyEfficiency: line.EfficiencySamples(),
	}
}

// WriteJSON writes the report to path, indented for human diffing.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
