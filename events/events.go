// Package events records the history of a graph's rewrites and maintains
// the equivalence classes they induce over variables — the raw material
// both the stability check (§4.D) and the bad-optimization checks (§4.F)
// are built from.
//
// Two independent optimizer runs over structurally identical starting
// graphs allocate entirely distinct *graph.Variable and *graph.Node
// values, so nothing here may compare by Go identity across runs. Events
// are reduced to operator name, event kind, input index and reason —
// exactly the information that is invariant between two runs that really
// did do "the same thing" — and it is that reduced form that gets
// compared for stochastic-order detection.
package events

import "dbgengine/graph"

// EventKind classifies a single step recorded against a graph.
type EventKind int

const (
	Import EventKind = iota
	Prune
	Rewire
)

func (k EventKind) String() string {
	switch k {
	case Import:
		return "import"
	case Prune:
		return "prune"
	case Rewire:
		return "rewire"
	default:
		return "unknown"
	}
}

// Event is one step in a graph's rewrite history. Node, Old and New carry
// the actual values from the run that produced this event, for rendering
// (package diag); Equal ignores all three, since they are meaningless
// across two independent runs.
type Event struct {
	Kind       EventKind
	OpName     string
	InputIndex int // -1 unless Kind == Rewire
	Reason     string

	Node *graph.Node
	Old  *graph.Variable
	New  *graph.Variable
}

// Equal reports whether two events represent "the same rewrite step" in
// the run-independent sense used for stability checking: same kind, same
// operator, same input index, same stated reason.
func (e Event) Equal(o Event) bool {
	return e.Kind == o.Kind &&
		e.OpName == o.OpName &&
		e.InputIndex == o.InputIndex &&
		e.Reason == o.Reason
}

// Log is an ordered sequence of events.
type Log []Event

// Equal reports whether two logs record the same sequence of run-
// independent events, and if not, the index of the first divergence (or
// len(min(l,o)) if one is a strict prefix of the other).
func (l Log) Equal(o Log) (bool, int) {
	n := len(l)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if !l[i].Equal(o[i]) {
			return false, i
		}
	}
	if len(l) != len(o) {
		return false, n
	}
	return true, -1
}
