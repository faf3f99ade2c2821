package sim

import (
	"sync"
)

// EfficiencySample is one hourly reading of line efficiency.
type EfficiencySample struct {
	// Hour is the whole simulated hour the reading belongs to, starting at 1.
	Hour int `json:"hour"`

	// Time is the clock when the reading was actually taken. Readings are
	// taken between cycles, so Time trails Hour by up to one cycle.
	Time float64 `json:"time"`

	LineEfficiency float64 `json:"line_efficiency"`
}

// efficiencyMonitor samples line efficiency once per simulated hour. The
// line polls it between cycles; it never blocks cycle advancement. Sample
// access is guarded so dashboards on other goroutines can poll Latest while
// the line runs, at the cost of readings up to one cycle stale.
type efficiencyMonitor struct {
	mu       sync.Mutex
	nextHour int
	samples  []EfficiencySample
}

func newEfficiencyMonitor() *efficiencyMonitor {
	return &efficiencyMonitor{nextHour: 1}
}

// poll records one sample per whole hour the clock has crossed since the
// previous call. lineEfficiency is evaluated once per poll; every hour
// crossed by the same cycle shares that reading.
func (em *efficiencyMonitor) poll(now float64, lineEfficiency func() float64) {
	if now < float64(em.nextHour) {
		return
	}
	eff := lineEfficiency()

	em.mu.Lock()
	defer em.mu.Unlock()
	for float64(em.nextHour) <= now {
		em.samples = append(em.samples, EfficiencySample{
			Hour:           em.nextHour,
			Time:           now,
			LineEfficiency: eff,
		})
		em.nextHour++
	}
}

// Samples returns a copy of all readings so far.
func (em *efficiencyMonitor) Samples() []EfficiencySample {
	em.mu.Lock()
	defer em.mu.Unlock()
	return append([]EfficiencySample(nil), em.samples...)
}

// Latest returns the most recent reading, ok=false before the first one.
func (em *efficiencyMonitor) Latest() (EfficiencySample, bool) {
	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.samples) == 0 {
		return EfficiencySample{}, false
	}
	return em.samples[len(em.samples)-1], true
}
