package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/stats"
)

// MachineState identifies the operational state of a machine.
type MachineState string

const (
	// StateOperational means the machine can run production cycles.
	StateOperational MachineState = "operational"

	// StateFailed marks the breakdown window inside a cycle. Repair
	// completes before the cycle returns, so a machine is never observed
	// Failed between cycles.
	StateFailed MachineState = "failed"
)

// Stochastic ranges applied during a cycle. Durations are hours.
const (
	maintenanceDowntimeMin = 0.5
	maintenanceDowntimeMax = 2.0
	repairDowntimeMin      = 1.0
	repairDowntimeMax      = 4.0

	efficiencyStep  = 0.1
	efficiencyFloor = 0.5
	efficiencyCeil  = 1.0

	cycleTimeNoiseFrac = 0.05
	cycleTimeFloor     = 0.1

	qualityMin = 0.8
	qualityMax = 1.0
)

// Machine models one station on the production line. Each cycle it draws a
// base time from its configured range, stretched by its current efficiency
// and roughened with gaussian noise. Scheduled maintenance and random
// breakdowns charge downtime and shift the efficiency inside [0.5, 1.0].
//
// A Machine is not safe for concurrent use: exactly one goroutine may call
// RunCycle at a time, and derived views (Statistics, TrendAnalysis) must not
// race a running cycle.
type Machine struct {
	cfg MachineConfig

	state           MachineState
	efficiency      float64
	lastMaintenance float64

	operationTimes     []float64
	performanceHistory []float64
	qualityScores      []float64
	totalOperations    int
	totalDowntime      float64

	rng *rand.Rand
	log *logrus.Entry
}

// NewMachine builds a machine from its config with a dedicated RNG stream.
// The stream must not be shared with any other consumer, or reproducibility
// across runs is lost.
func NewMachine(cfg MachineConfig, rng *rand.Rand) *Machine {
	return &Machine{
		cfg:        cfg,
		state:      StateOperational,
		efficiency: cfg.Efficiency,
		rng:        rng,
		log:        logrus.WithField("machine", cfg.Name),
	}
}

// Name returns the machine's identity within the line.
func (m *Machine) Name() string { return m.cfg.Name }

// State returns the current operational state.
func (m *Machine) State() MachineState { return m.state }

// Efficiency returns the current efficiency, drifted from the configured
// value by failures and maintenance.
func (m *Machine) Efficiency() float64 { return m.efficiency }

// TotalOperations returns how many operations completed successfully.
func (m *Machine) TotalOperations() int { return m.totalOperations }

// TotalDowntime returns the accumulated maintenance and repair hours.
func (m *Machine) TotalDowntime() float64 { return m.totalDowntime }

// Bounds returns the configured cycle-time range in hours. Parameter
// searches over the line treat this as the per-machine search space.
func (m *Machine) Bounds() (minTime, maxTime float64) {
	return m.cfg.MinTime, m.cfg.MaxTime
}

// RunCycle performs one production cycle at simulated time now and returns
// the hours the operation took. A cycle that hits a breakdown returns 0 and
// records downtime only: repair happens inside the cycle, so the machine is
// Operational again on return.
//
// The draw order on the machine's stream is part of the reproducibility
// contract: maintenance downtime (only when due), failure check, base cycle
// time, gaussian noise, quality score.
func (m *Machine) RunCycle(now float64) float64 {
	if m.state != StateOperational {
		m.log.Warnf("machine not operational at t=%.2fh", now)
		return 0
	}

	if now-m.lastMaintenance > m.cfg.MaintenanceInterval {
		m.performMaintenance(now)
	}

	if m.rng.Float64() < m.cfg.FailureRate {
		m.breakDown()
		return 0
	}

	base := m.uniform(m.cfg.MinTime, m.cfg.MaxTime)
	actual := base / m.efficiency
	actual += m.rng.NormFloat64() * cycleTimeNoiseFrac * actual
	if actual < cycleTimeFloor {
		actual = cycleTimeFloor
	}

	m.operationTimes = append(m.operationTimes, actual)
	m.totalOperations++
	m.performanceHistory = append(m.performanceHistory, 1/actual)
	m.qualityScores = append(m.qualityScores, m.uniform(qualityMin, qualityMax)*m.efficiency)

	m.log.Debugf("operated for %.2fh at t=%.2fh", actual, now)
	return actual
}

// performMaintenance charges the scheduled-maintenance downtime and recovers
// one efficiency step of accumulated wear.
func (m *Machine) performMaintenance(now float64) {
	downtime := m.uniform(maintenanceDowntimeMin, maintenanceDowntimeMax)
	m.totalDowntime += downtime
	m.lastMaintenance = now
	m.efficiency = math.Min(efficiencyCeil, m.efficiency+efficiencyStep)
	m.log.Infof("maintenance at t=%.2fh took %.2fh, efficiency now %.2f", now, downtime, m.efficiency)
}

// breakDown models an unplanned failure with on-the-spot repair. The cycle
// produces nothing; the repair cost lands in totalDowntime and the machine
// degrades one efficiency step.
func (m *Machine) breakDown() {
	m.state = StateFailed
	downtime := m.uniform(repairDowntimeMin, repairDowntimeMax)
	m.totalDowntime += downtime
	m.efficiency = math.Max(efficiencyFloor, m.efficiency-efficiencyStep)
	m.state = StateOperational
	m.log.Warnf("breakdown, repair took %.2fh, efficiency now %.2f", downtime, m.efficiency)
}

// uniform draws from [lo, hi) on the machine's stream.
func (m *Machine) uniform(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}

// AverageTime returns the mean recorded operation time, 0 with no history.
func (m *Machine) AverageTime() float64 {
	return stats.Mean(m.operationTimes)
}

// OperationTimes returns a copy of the recorded operation times in
// production order. Forecasting models consume this series.
func (m *Machine) OperationTimes() []float64 {
	return append([]float64(nil), m.operationTimes...)
}

// Reset clears recorded history, counters, downtime, and the maintenance
// clock, and restores the Operational state. Efficiency keeps its drifted
// value: wear is physical state that only maintenance recovers. Idempotent.
func (m *Machine) Reset() {
	m.state = StateOperational
	m.lastMaintenance = 0
	m.operationTimes = nil
	m.performanceHistory = nil
	m.qualityScores = nil
	m.totalOperations = 0
	m.totalDowntime = 0
	m.log.Debug("reset to initial state")
}
