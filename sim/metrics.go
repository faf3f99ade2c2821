package sim

import (
	"github.com/factory-sim/factory-sim/sim/stats"
)

// ProductionMetrics is the line-level aggregate view of a run. Derived on
// demand from recorded history; never a source of truth. JSON field names
// match the run report schema.
type ProductionMetrics struct {
	TotalCycles         int            `json:"total_cycles"`
	AverageCycleTime    float64        `json:"average_cycle_time"`
	LineEfficiency      float64        `json:"line_efficiency"`
	BottleneckMachine   string         `json:"bottleneck_machine"`
	Throughput          float64        `json:"throughput"`
	BottleneckFrequency map[string]int `json:"bottleneck_frequency"`
}

// MachinePerformanceSummary pairs one machine's statistics with its trend
// classification and its standing in the line.
type MachinePerformanceSummary struct {
	Statistics   MachineStatistics `json:"statistics"`
	Trend        TrendAnalysis     `json:"trend"`
	IsBottleneck bool              `json:"is_bottleneck"`
}

// ProductionMetrics aggregates the run so far. Every cycle charges exactly
// one machine in BottleneckFrequency (an all-breakdown cycle charges the
// first machine), so the counts always sum to TotalCycles.
func (pl *ProductionLine) ProductionMetrics() ProductionMetrics {
	m := ProductionMetrics{
		TotalCycles:         len(pl.history),
		LineEfficiency:      pl.LineEfficiency(),
		BottleneckMachine:   pl.mostFrequentBottleneck(),
		BottleneckFrequency: make(map[string]int, len(pl.bottlenecks)),
	}
	for name, n := range pl.bottlenecks {
		m.BottleneckFrequency[name] = n
	}
	if m.TotalCycles > 0 {
		m.AverageCycleTime = stats.Sanitize(pl.durationSum / float64(m.TotalCycles))
	}
	// Throughput is cycles per hour of the slowest recorded cycle. A run of
	// nothing but zero-duration cycles has no defined rate and reports 0.
	if pl.maxDuration > 0 {
		m.Throughput = stats.Sanitize(float64(m.TotalCycles) / pl.maxDuration)
	}
	return m
}

// mostFrequentBottleneck returns the machine charged with the most cycles
// so far, ties resolved by line order. Empty before the first cycle.
func (pl *ProductionLine) mostFrequentBottleneck() string {
	best := ""
	bestCount := 0
	for _, m := range pl.machines {
		if n := pl.bottlenecks[m.Name()]; n > bestCount {
			best = m.Name()
			bestCount = n
		}
	}
	return best
}

// MachinePerformanceSummaries reports every machine in line order, flagging
// the current overall bottleneck.
func (pl *ProductionLine) MachinePerformanceSummaries() []MachinePerformanceSummary {
	bottleneck := pl.mostFrequentBottleneck()
	out := make([]MachinePerformanceSummary, 0, len(pl.machines))
	for _, m := range pl.machines {
		out = append(out, MachinePerformanceSummary{
			Statistics:   m.Statistics(),
			Trend:        m.TrendAnalysis(),
			IsBottleneck: m.Name() == bottleneck && bottleneck != "",
		})
	}
	return out
}
