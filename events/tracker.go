package events

import "dbgengine/graph"

// RenderFunc captures a variable's subgraph as text at rewrite time,
// before later rewrites can invalidate it. Tracker takes this as an
// injected function rather than importing a renderer directly, so that
// package diag (which renders event logs the tracker produces) never
// needs to import events back — the capability flows one way.
type RenderFunc func(v *graph.Variable) string

// ReasonEntry is one (reason, replaced-variable, rendered-before,
// rendered-after) tuple in a variable's reason chain (§3).
type ReasonEntry struct {
	Reason   string
	OldVar   *graph.Variable
	OldGraph string
	NewGraph string
}

// Tracker observes a single graph (via graph.Observer) and builds its
// rewrite history: the event log, the grow-only set of every variable
// that has ever existed in the graph (including pruned ones), the
// equivalence classes rewrites induce, and the reason chain and direct
// replacement behind each rewrite. It is grounded on Theano's
// _VariableEquivalenceTracker and _EnvEvent: a graph holds its tracker
// only as a graph.Observer and the tracker holds no reference to the
// graph, so a Graph can be created, observed, and discarded without
// either side needing to know the other's concrete type beyond the
// Observer interface.
type Tracker struct {
	render RenderFunc
	log    Log
	uf     *unionFind

	allVars     []*graph.Variable
	seen        map[*graph.Variable]bool
	reasonChain map[*graph.Variable][]ReasonEntry
	replacedBy  map[*graph.Variable]*graph.Variable
}

// NewTracker creates a Tracker ready to be registered as an observer on
// a graph. render is used to snapshot a variable's subgraph at the
// moment a rewire touches it; pass nil to skip snapshotting (reason
// chains then carry empty render strings — still useful for the
// stability and bad-optimization checks, which only need values, not
// the rendered text). Does not observe retroactively: attach before
// importing any node whose history matters.
func NewTracker(render RenderFunc) *Tracker {
	return &Tracker{
		render:      render,
		uf:          newUnionFind(),
		seen:        make(map[*graph.Variable]bool),
		reasonChain: make(map[*graph.Variable][]ReasonEntry),
		replacedBy:  make(map[*graph.Variable]*graph.Variable),
	}
}

func (t *Tracker) remember(v *graph.Variable) {
	if t.seen[v] {
		return
	}
	t.seen[v] = true
	t.allVars = append(t.allVars, v)
	t.uf.add(v)
}

func (t *Tracker) renderVar(v *graph.Variable) string {
	if t.render == nil {
		return ""
	}
	return t.render(v)
}

// OnImport implements graph.Observer.
func (t *Tracker) OnImport(node *graph.Node) {
	for _, v := range node.Inputs {
		t.remember(v)
	}
	for _, v := range node.Outputs {
		t.remember(v)
	}
	t.log = append(t.log, Event{Kind: Import, OpName: node.Op.Name(), InputIndex: -1, Node: node})
}

// OnPrune implements graph.Observer. The node's outputs stay in every
// bookkeeping structure untouched — only the active-node view of the
// graph forgets about it.
func (t *Tracker) OnPrune(node *graph.Node) {
	t.log = append(t.log, Event{Kind: Prune, OpName: node.Op.Name(), InputIndex: -1, Node: node})
}

// OnRewire implements graph.Observer: old and new are unioned into the
// same equivalence class, a (reason, old) entry is appended to new's own
// reason chain (unless an entry with the same reason and old variable is
// already present, per §9's "duplicated reason entries" idempotence
// rule), and old is recorded as directly replaced by new. The entry is
// appended to new's chain, never copied in from old's: new may be the
// target of more than one rewire (e.g. common-subexpression elimination
// collapsing two distinct old variables onto it), and each must remain
// individually comparable against new for checks.BadOptimization — if
// new inherited old's own chain too, an a→b→c rewrite chain would
// compare a against c directly, which §4.A's EqualsApprox contract never
// promises to hold even when each individual step does.
func (t *Tracker) OnRewire(node *graph.Node, inputIndex int, old, new *graph.Variable, reason string) {
	t.remember(old)
	t.remember(new)
	t.uf.union(old, new)

	entry := ReasonEntry{
		Reason:   reason,
		OldVar:   old,
		OldGraph: t.renderVar(old),
		NewGraph: t.renderVar(new),
	}
	if !hasEntry(t.reasonChain[new], entry) {
		t.reasonChain[new] = append(t.reasonChain[new], entry)
	}
	t.replacedBy[old] = new

	t.log = append(t.log, Event{
		Kind: Rewire, OpName: node.Op.Name(), InputIndex: inputIndex, Reason: reason,
		Node: node, Old: old, New: new,
	})
}

func hasEntry(chain []ReasonEntry, e ReasonEntry) bool {
	for _, c := range chain {
		if c.Reason == e.Reason && c.OldVar == e.OldVar {
			return true
		}
	}
	return false
}

// EventLog returns a copy of the recorded event sequence.
func (t *Tracker) EventLog() Log {
	return append(Log(nil), t.log...)
}

// AllVariablesEver returns every variable the tracker has ever seen,
// including ones whose producing node has since been pruned, in order of
// first appearance.
func (t *Tracker) AllVariablesEver() []*graph.Variable {
	return append([]*graph.Variable(nil), t.allVars...)
}

// Equivalent reports whether a and b have ever been unioned by a rewire,
// directly or transitively.
func (t *Tracker) Equivalent(a, b *graph.Variable) bool {
	return t.uf.equivalent(a, b)
}

// ReasonChain returns the ordered, de-duplicated list of reason entries
// that led from v's original form (if any) to v itself.
func (t *Tracker) ReasonChain(v *graph.Variable) []ReasonEntry {
	return append([]ReasonEntry(nil), t.reasonChain[v]...)
}

// ReplacedBy returns the variable that directly replaced v in a rewire,
// if any.
func (t *Tracker) ReplacedBy(v *graph.Variable) (*graph.Variable, bool) {
	r, ok := t.replacedBy[v]
	return r, ok
}
