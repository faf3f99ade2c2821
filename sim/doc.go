// Package sim provides the discrete-event engine for factory production
// line simulation.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - machine.go: the per-machine state machine (cycle times, maintenance, breakdowns)
//   - line.go: the cycle loop, clock advancement, and bottleneck bookkeeping
//   - metrics.go: line-level aggregation (efficiency, throughput, bottleneck frequency)
//
// # Architecture
//
// A ProductionLine owns a set of Machines and the simulated clock, measured
// in hours. Each cycle every operational machine produces one part; the
// line advances by the slowest machine's time. Randomness is partitioned
// into one stream per machine (rng.go), so cycle outcomes never depend on
// evaluation order and a seed fully determines a run.
//
// Derived views (Machine.Statistics, Machine.TrendAnalysis,
// ProductionLine.ProductionMetrics) are computed on demand from append-only
// history and can be recomputed at any point in a run.
//
// Sub-packages:
//   - sim/stats/: descriptive statistics and the least-squares trend slope
//   - sim/report/: JSON run report assembly
package sim
