package sim

import (
	"github.com/factory-sim/factory-sim/sim/stats"
)

// Trend classification thresholds on the least-squares slope of recorded
// operation times against operation index.
const (
	trendMinPoints = 3
	trendSlopeEps  = 0.01
)

// TrendClass labels the direction of a machine's cycle-time drift.
type TrendClass string

const (
	TrendIncreasing       TrendClass = "increasing"
	TrendDecreasing       TrendClass = "decreasing"
	TrendStable           TrendClass = "stable"
	TrendInsufficientData TrendClass = "insufficient_data"
)

// MachineStatistics is a point-in-time statistical summary of one machine.
// Derived on demand from recorded history; never a source of truth.
type MachineStatistics struct {
	Name               string  `json:"name"`
	TotalOperations    int     `json:"total_operations"`
	AverageTime        float64 `json:"average_time"`
	MinTime            float64 `json:"min_time"`
	MaxTime            float64 `json:"max_time"`
	StdDevTime         float64 `json:"std_time"`
	P95Time            float64 `json:"p95_time"`
	Efficiency         float64 `json:"efficiency"`
	TotalDowntime      float64 `json:"total_downtime"`
	Availability       float64 `json:"availability"`
	AverageQuality     float64 `json:"average_quality"`
	AveragePerformance float64 `json:"average_performance"`
}

// TrendAnalysis classifies the drift of a machine's operation times.
type TrendAnalysis struct {
	Trend TrendClass `json:"trend"`
	Slope float64    `json:"slope"`
}

// Statistics summarizes the machine's recorded history. With no recorded
// operations the time statistics are zero while efficiency, downtime, and
// availability still reflect the machine's current state.
func (m *Machine) Statistics() MachineStatistics {
	sum := stats.Summarize(m.operationTimes)
	return MachineStatistics{
		Name:               m.cfg.Name,
		TotalOperations:    m.totalOperations,
		AverageTime:        sum.Mean,
		MinTime:            sum.Min,
		MaxTime:            sum.Max,
		StdDevTime:         sum.StdDev,
		P95Time:            sum.P95,
		Efficiency:         m.efficiency,
		TotalDowntime:      m.totalDowntime,
		Availability:       m.availability(),
		AverageQuality:     stats.Mean(m.qualityScores),
		AveragePerformance: stats.Mean(m.performanceHistory),
	}
}

// availability is operations / (operations + downtime hours). A machine
// that has neither produced nor lost time yet counts as fully available; a
// machine with downtime but no completed operations counts as 0.
func (m *Machine) availability() float64 {
	if m.totalOperations == 0 && m.totalDowntime == 0 {
		return 1.0
	}
	return stats.Sanitize(float64(m.totalOperations) / (float64(m.totalOperations) + m.totalDowntime))
}

// TrendAnalysis fits a first-degree trend over the recorded operation times.
// Fewer than 3 operations cannot distinguish drift from noise and report
// insufficient_data.
func (m *Machine) TrendAnalysis() TrendAnalysis {
	if len(m.operationTimes) < trendMinPoints {
		return TrendAnalysis{Trend: TrendInsufficientData}
	}
	slope := stats.TrendSlope(m.operationTimes)
	switch {
	case slope > trendSlopeEps:
		return TrendAnalysis{Trend: TrendIncreasing, Slope: slope}
	case slope < -trendSlopeEps:
		return TrendAnalysis{Trend: TrendDecreasing, Slope: slope}
	default:
		return TrendAnalysis{Trend: TrendStable, Slope: slope}
	}
}
