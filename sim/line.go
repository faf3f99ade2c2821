package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/stats"
)

// Slowdown detection: the mean of the most recent cycles against the mean
// of the whole run.
const (
	slowdownWindow    = 5
	slowdownMinCycles = 3
	slowdownFactor    = 1.5
)

// ProductionLine coordinates a set of machines through synchronized
// production cycles and owns the simulated clock. Each cycle every
// operational machine produces one part; the line then advances to the
// slowest machine's completion time.
//
// A single driver goroutine advances the line. The only accessors safe to
// call from other goroutines while it runs are the hourly monitor views
// (EfficiencySamples, LatestEfficiency).
type ProductionLine struct {
	machines []*Machine
	cfg      SimulationConfig

	clock       float64
	history     []CycleRecord
	issues      []ProductionIssue
	bottlenecks map[string]int

	durationSum float64
	maxDuration float64

	usedDefaults bool

	monitor *efficiencyMonitor
	prng    *PartitionedRNG
	log     *logrus.Entry
}

// NewProductionLine builds a line from machine configs. An invalid machine
// configuration falls back to DefaultMachineConfigs with a logged warning
// instead of failing the run. Non-positive simulation parameters fall back
// to their defaults; the seed is taken literally.
func NewProductionLine(machineCfgs []MachineConfig, cfg SimulationConfig) *ProductionLine {
	log := logrus.WithField("component", "production_line")
	cfg = cfg.withDefaults()

	usedDefaults := false
	if err := ValidateMachineConfigs(machineCfgs); err != nil {
		log.Warnf("invalid machine configuration (%v), falling back to the default machine set", err)
		machineCfgs = DefaultMachineConfigs()
		usedDefaults = true
	}

	prng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	machines := make([]*Machine, 0, len(machineCfgs))
	for _, mc := range machineCfgs {
		machines = append(machines, NewMachine(mc, prng.ForMachine(mc.Name)))
	}

	return &ProductionLine{
		machines:    machines,
		cfg:         cfg,
		bottlenecks: make(map[string]int),

		usedDefaults: usedDefaults,
		monitor:      newEfficiencyMonitor(),
		prng:         prng,
		log:          log,
	}
}

// UsedDefaultMachines reports whether construction rejected the supplied
// machine configs and substituted the default set.
func (pl *ProductionLine) UsedDefaultMachines() bool { return pl.usedDefaults }

// Clock returns the current simulated time in hours.
func (pl *ProductionLine) Clock() float64 { return pl.clock }

// Config returns the run parameters the line was built with, after
// defaulting.
func (pl *ProductionLine) Config() SimulationConfig { return pl.cfg }

// Machines returns the line's machines in line order.
func (pl *ProductionLine) Machines() []*Machine {
	return append([]*Machine(nil), pl.machines...)
}

// Advance runs one synchronized production cycle and returns its record.
//
// Machines are evaluated concurrently; each one touches only its own RNG
// stream, its own state, and its own result slot, so the outcome is
// identical to evaluating them sequentially in line order. All line-level
// bookkeeping happens after every machine has reported.
func (pl *ProductionLine) Advance() CycleRecord {
	start := pl.clock
	times := make([]float64, len(pl.machines))

	var wg sync.WaitGroup
	for i, m := range pl.machines {
		if m.State() != StateOperational {
			// Contributes 0 without consuming randomness.
			continue
		}
		wg.Add(1)
		go func(i int, m *Machine) {
			defer wg.Done()
			times[i] = m.RunCycle(start)
		}(i, m)
	}
	wg.Wait()

	duration := 0.0
	bottleneck := 0
	for i, t := range times {
		if t > duration {
			duration = t
			bottleneck = i
		}
	}

	record := CycleRecord{
		Index:        len(pl.history),
		StartTime:    start,
		MachineTimes: times,
		Duration:     duration,
		Bottleneck:   pl.machines[bottleneck].Name(),
	}

	if duration > 0 {
		pl.clock += duration
	} else {
		// Every machine broke down. The clock still has to move, or a run
		// of zero-duration cycles would never reach the horizon.
		pl.clock += pl.cfg.MinCycleAdvance
	}

	pl.history = append(pl.history, record)
	pl.bottlenecks[record.Bottleneck]++
	pl.durationSum += duration
	if duration > pl.maxDuration {
		pl.maxDuration = duration
	}

	pl.checkIssues(record)
	pl.monitor.poll(pl.clock, pl.LineEfficiency)
	return record
}

// Run advances the line until the clock reaches the configured duration.
// Cancelling ctx abandons the run between cycles; recorded history stays
// as-is. Returns the number of cycles completed by this call.
func (pl *ProductionLine) Run(ctx context.Context) int {
	cycles := 0
	for pl.clock < pl.cfg.Duration {
		select {
		case <-ctx.Done():
			pl.log.Warnf("run abandoned after %d cycles at t=%.2fh", cycles, pl.clock)
			return cycles
		default:
		}
		rec := pl.Advance()
		cycles++
		pl.log.Debugf("cycle %d done at t=%.2fh, duration %.2fh, bottleneck %s",
			rec.Index, pl.clock, rec.Duration, rec.Bottleneck)
	}
	return cycles
}

// checkIssues scans the just-recorded cycle for diagnostic observations.
// Observations are logged and collected; they never change how the line
// advances.
func (pl *ProductionLine) checkIssues(rec CycleRecord) {
	var stopped []string
	for i, t := range rec.MachineTimes {
		if t == 0 {
			stopped = append(stopped, pl.machines[i].Name())
		}
	}
	if len(stopped) > 0 {
		pl.issues = append(pl.issues, ProductionIssue{
			Cycle:    rec.Index,
			Time:     pl.clock,
			Kind:     IssueZeroOutput,
			Machines: stopped,
			Detail:   fmt.Sprintf("%d machine(s) produced nothing this cycle", len(stopped)),
		})
		pl.log.WithField("machines", stopped).Warnf("cycle %d: zero output", rec.Index)
	}

	if len(pl.history) >= slowdownMinCycles {
		recent := pl.recentMeanDuration(slowdownWindow)
		overall := pl.durationSum / float64(len(pl.history))
		if overall > 0 && recent > slowdownFactor*overall {
			pl.issues = append(pl.issues, ProductionIssue{
				Cycle:  rec.Index,
				Time:   pl.clock,
				Kind:   IssueSlowdown,
				Detail: fmt.Sprintf("recent cycles average %.2fh against %.2fh overall", recent, overall),
			})
			pl.log.Warnf("cycle %d: line slowdown, recent mean %.2fh vs overall %.2fh", rec.Index, recent, overall)
		}
	}
}

// recentMeanDuration averages the durations of the last window cycles, or
// of all cycles when fewer exist.
func (pl *ProductionLine) recentMeanDuration(window int) float64 {
	n := len(pl.history)
	if n == 0 {
		return 0
	}
	if window > n {
		window = n
	}
	sum := 0.0
	for _, rec := range pl.history[n-window:] {
		sum += rec.Duration
	}
	return sum / float64(window)
}

// LineEfficiency is the product of every machine's availability. It is 1.0
// exactly until the first downtime anywhere on the line and below 1.0 from
// then on.
func (pl *ProductionLine) LineEfficiency() float64 {
	eff := 1.0
	for _, m := range pl.machines {
		eff *= m.availability()
	}
	return stats.Sanitize(eff)
}

// History returns a copy of all cycle records in production order.
func (pl *ProductionLine) History() []CycleRecord {
	return append([]CycleRecord(nil), pl.history...)
}

// Issues returns a copy of the diagnostic observations raised so far.
func (pl *ProductionLine) Issues() []ProductionIssue {
	return append([]ProductionIssue(nil), pl.issues...)
}

// EfficiencySamples returns the hourly monitor's readings so far.
func (pl *ProductionLine) EfficiencySamples() []EfficiencySample {
	return pl.monitor.Samples()
}

// LatestEfficiency returns the most recent hourly reading, ok=false before
// the first whole hour. Safe to call from other goroutines mid-run.
func (pl *ProductionLine) LatestEfficiency() (EfficiencySample, bool) {
	return pl.monitor.Latest()
}

// Reset clears the clock, history, issues, and bookkeeping, resets every
// machine, and re-derives the RNG streams from the original seed. Machine
// efficiency keeps its drifted value, as after Machine.Reset.
func (pl *ProductionLine) Reset() {
	pl.clock = 0
	pl.history = nil
	pl.issues = nil
	pl.bottlenecks = make(map[string]int)
	pl.durationSum = 0
	pl.maxDuration = 0
	pl.monitor = newEfficiencyMonitor()

	pl.prng = NewPartitionedRNG(pl.prng.Key())
	for _, m := range pl.machines {
		m.Reset()
		m.rng = pl.prng.ForMachine(m.Name())
	}
	pl.log.Info("production line reset")
}
