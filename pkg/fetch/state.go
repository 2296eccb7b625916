package fetch

import "github.com/matzehuels/castgraph/pkg/graph"

// Status is the tag of a [State].
type Status int

// Fetch statuses.
const (
	Idle Status = iota
	Loading
	Success
	Error
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is a published fetch state. It is a value; the snapshot it points
// to is immutable.
type State struct {
	Status Status

	// Token identifies the request that produced this state (0 when Idle).
	Token uint64

	// BookID is the requested book (empty when Idle).
	BookID string

	// Snapshot is set only when Status is Success.
	Snapshot *graph.Snapshot

	// Message is set only when Status is Error.
	Message string
}

// Terminal reports whether the state is Success or Error.
func (s State) Terminal() bool {
	return s.Status == Success || s.Status == Error
}
