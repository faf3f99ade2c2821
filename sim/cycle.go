package sim

// CycleRecord captures one synchronized production cycle. Records are
// append-only: once emitted they are never mutated.
type CycleRecord struct {
	// Index is the 0-based cycle number.
	Index int `json:"index"`

	// StartTime is the simulated clock when the cycle began, in hours.
	StartTime float64 `json:"start_time"`

	// MachineTimes holds each machine's operation time, index-aligned with
	// the line's machine order. 0 marks a breakdown or an idle machine.
	MachineTimes []float64 `json:"machine_times"`

	// Duration is the slowest machine's time this cycle; the whole line
	// waits for it. 0 when every machine produced nothing.
	Duration float64 `json:"duration"`

	// Bottleneck names the machine charged with this cycle's duration.
	// Ties go to the earliest machine in line order.
	Bottleneck string `json:"bottleneck"`
}

// IssueKind labels a diagnostic observation raised during a run.
type IssueKind string

const (
	// IssueZeroOutput flags machines that produced nothing in a cycle.
	IssueZeroOutput IssueKind = "zero_output"

	// IssueSlowdown flags a stretch of cycles running well above the
	// whole-run average duration.
	IssueSlowdown IssueKind = "slowdown"
)

// ProductionIssue is a diagnostic observation. Issues are recorded and
// logged; they never alter how the simulation advances.
type ProductionIssue struct {
	Cycle    int       `json:"cycle"`
	Time     float64   `json:"time"`
	Kind     IssueKind `json:"kind"`
	Machines []string  `json:"machines,omitempty"`
	Detail   string    `json:"detail"`
}
