package sim

// Objective scores a vector of candidate machine cycle times for an
// external parameter-search collaborator; Machine.Bounds supplies the
// search space. Implementations are pure: no state, no randomness, safe
// for concurrent evaluation.
type Objective interface {
	Name() string
	Evaluate(times []float64) float64
}

// TotalTime scores candidates by the sum of cycle times.
type TotalTime struct{}

func (TotalTime) Name() string { return "total_time" }

func (TotalTime) Evaluate(times []float64) float64 {
	sum := 0.0
	for _, t := range times {
		sum += t
	}
	return sum
}

// BottleneckPenalty scores by total time plus a weighted penalty on the
// slowest machine, steering searches toward balanced lines.
type BottleneckPenalty struct {
	// Weight scales the bottleneck term. Zero behaves like TotalTime.
	Weight float64
}

func (BottleneckPenalty) Name() string { return "bottleneck_penalty" }

func (o BottleneckPenalty) Evaluate(times []float64) float64 {
	sum, max := 0.0, 0.0
	for _, t := range times {
		sum += t
		if t > max {
			max = t
		}
	}
	return sum + o.Weight*max
}

// ObjectiveByName resolves a configured objective name to its variant,
// ok=false for unknown names. The set is closed on purpose: callers select
// a variant, they do not register new ones.
func ObjectiveByName(name string) (Objective, bool) {
	switch name {
	case "total_time":
		return TotalTime{}, true
	case "bottleneck_penalty":
		return BottleneckPenalty{Weight: 1.0}, true
	default:
		return nil, false
	}
}
