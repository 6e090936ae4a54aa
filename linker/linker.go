// Package linker implements the dual-execution linker of §4.E: for every
// node in an extended evaluation order, it runs the reference thunk on a
// deep copy of the inputs, then the compiled thunk on another deep copy,
// and reconciles all result views under the value type's approximate
// equality. Grounded on Theano's _Linker.make_all / the inner f()
// closure in debugmode.py — the single largest and most load-bearing
// function in the original source — kept structurally intact (per-node
// thunk build, reference-then-compiled execution, r_vals/dr_vals
// bookkeeping, result transfer) but re-expressed over Cell (a one-slot
// box) instead of Python's one-element-list storage-map trick.
package linker

import (
	"errors"
	"fmt"

	"dbgengine/checks"
	"dbgengine/dbgerrors"
	"dbgengine/events"
	"dbgengine/graph"
	"dbgengine/values"
)

// Cell is a one-slot container holding either a value or nothing — the
// storage cell of §3, the I/O medium every Thunk reads from and writes
// to.
type Cell struct {
	value values.Value
}

func (c *Cell) Get() values.Value  { return c.value }
func (c *Cell) Set(v values.Value) { c.value = v }
func (c *Cell) Clear()             { c.value = nil }
func (c *Cell) Empty() bool        { return c.value == nil }

// Thunk is the operator-contract routine (§6): given a node, its input
// values (already bound into cells by the linker) and its output cells,
// it computes the node's outputs and writes them into those cells.
type Thunk func(node *graph.Node, inputs []values.Value, outputs []*Cell) error

// CompiledBuilder attempts to build a compiled Thunk for a single node.
// ErrNotImplemented signals "no compiled implementation exists for this
// operator" — the linker treats that exactly like the reference-only
// case, never as a hard failure.
type CompiledBuilder func(node *graph.Node) (Thunk, error)

// ErrNotImplemented is the sentinel a CompiledBuilder returns when it has
// no compiled kernel for the given node.
var ErrNotImplemented = errors.New("linker: compiled thunk not implemented for this operator")

// OperatorImpl bundles an operator's reference thunk and optional
// compiled-code builder, looked up by operator name.
type OperatorImpl struct {
	Reference Thunk
	Compiled  CompiledBuilder
}

// Registry maps an operator's Name() to its implementation.
type Registry map[string]OperatorImpl

// Config is the subset of §6's engine configuration the linker itself
// consumes.
type Config struct {
	CheckCompiledCode  bool
	CheckReferenceCode bool
}

// Result is the outcome of a successful Run: the authoritative value
// computed for every variable, and a human-readable trace of the stages
// the linker walked through (the ambient "logging" this package
// produces — rendered by the caller, not printed here).
type Result struct {
	RVals map[*graph.Variable]values.Value
	Trace []string
}

// Run drives §4.E's evaluation loop. inputValues supplies the initial
// value for every one of g's graph inputs; tracker is the events.Tracker
// that observed g's optimizer run, used both for AllVariablesEver (the
// extended evaluation order) and for the post-loop bad-optimization
// check.
func Run(g *graph.Graph, tracker *events.Tracker, registry Registry, inputValues map[*graph.Variable]values.Value, cfg Config) (*Result, error) {
	if !cfg.CheckCompiledCode && !cfg.CheckReferenceCode {
		return nil, dbgerrors.NewConfigError("at least one of check_compiled_code/check_reference_code must be enabled")
	}

	order, err := evaluationOrder(g, tracker)
	if err != nil {
		return nil, err
	}
	activeSet := make(map[*graph.Node]bool)
	for _, n := range g.Nodes() {
		activeSet[n] = true
	}

	cells := make(map[*graph.Variable]*Cell)
	cellOf := func(v *graph.Variable) *Cell {
		c, ok := cells[v]
		if !ok {
			c = &Cell{}
			cells[v] = c
		}
		return c
	}

	rVals := make(map[*graph.Variable]values.Value)
	drVals := make(map[*graph.Variable]checks.DestroyRecord)
	var trace []string

	for _, in := range g.Inputs {
		val, ok := inputValues[in]
		if !ok {
			return nil, fmt.Errorf("linker: no value supplied for graph input %q", in.Name)
		}
		if !in.Type.IsValid(val) {
			return nil, dbgerrors.NewInvalidValue(in.Name, val)
		}
		rVals[in] = val
	}

	for _, node := range order {
		impl, ok := registry[node.Op.Name()]
		if !ok {
			return nil, fmt.Errorf("linker: no operator implementation registered for %q", node.Op.Name())
		}
		active := activeSet[node]

		if cfg.CheckReferenceCode && impl.Reference != nil {
			if err := runPass(g, node, impl.Reference, cellOf, rVals, drVals, active, true); err != nil {
				return nil, err
			}
			trace = append(trace, fmt.Sprintf("node %q: reference thunk ran", node.Op.Name()))
		}

		if cfg.CheckCompiledCode && impl.Compiled != nil {
			thunk, err := impl.Compiled(graph.CloneNode(node))
			if err != nil {
				if errors.Is(err, ErrNotImplemented) {
					trace = append(trace, fmt.Sprintf("node %q: no compiled thunk available", node.Op.Name()))
				} else {
					return nil, dbgerrors.WithNodeContext(node.Op.Name(), err)
				}
			} else {
				if err := runCompiledPass(g, node, thunk, cellOf, rVals, drVals, active); err != nil {
					return nil, err
				}
				trace = append(trace, fmt.Sprintf("node %q: compiled thunk ran", node.Op.Name()))
			}
		}

		for _, in := range node.Inputs {
			cellOf(in).Clear()
		}
	}

	if err := checks.BadOptimization(order, tracker, rVals); err != nil {
		return nil, err
	}
	trace = append(trace, fmt.Sprintf("optimizer stable after evaluating %d node(s)", len(order)))

	transferResults(g, rVals, drVals, inputValues)

	return &Result{RVals: rVals, Trace: trace}, nil
}

// evaluationOrder computes topo(graph_inputs, all_variables_ever_reversed)
// per §4.E: this deliberately walks dead (pruned) branches too, since
// the bad-optimization check needs the value computed on both sides of
// every rewrite.
func evaluationOrder(g *graph.Graph, tracker *events.Tracker) ([]*graph.Node, error) {
	all := tracker.AllVariablesEver()
	reversed := make([]*graph.Variable, len(all))
	for i, v := range all {
		reversed[len(all)-1-i] = v
	}
	return graph.Topo(g.Inputs, reversed)
}

// runPass implements step 2 of §4.E's per-node loop: bind inputs from
// r_vals via deep copy, run thunk, check destroy/view maps, move outputs
// into r_vals, empty cells.
func runPass(g *graph.Graph, node *graph.Node, thunk Thunk, cellOf func(*graph.Variable) *Cell, rVals map[*graph.Variable]values.Value, drVals map[*graph.Variable]checks.DestroyRecord, active, clobberDrVals bool) error {
	before, err := bindInputs(node, cellOf, rVals)
	if err != nil {
		return err
	}

	inVals := make([]values.Value, len(node.Inputs))
	for i, in := range node.Inputs {
		inVals[i] = cellOf(in).Get()
	}
	outCells := make([]*Cell, len(node.Outputs))
	for i, out := range node.Outputs {
		outCells[i] = cellOf(out)
	}
	if err := thunk(node, inVals, outCells); err != nil {
		return dbgerrors.WithNodeContext(node.Op.Name(), err)
	}

	after := make(map[*graph.Variable]values.Value, len(node.Inputs))
	for _, in := range node.Inputs {
		after[in] = cellOf(in).Get()
	}
	if err := checks.DestroyMap(node, before, after, active, clobberDrVals, drVals); err != nil {
		return err
	}

	outVals := make(map[*graph.Variable]values.Value, len(node.Outputs))
	for _, out := range node.Outputs {
		outVals[out] = cellOf(out).Get()
	}
	if err := checks.ViewMap(g, node, after, outVals); err != nil {
		return err
	}

	for _, out := range node.Outputs {
		v := cellOf(out).Get()
		if !out.Type.IsValid(v) {
			return dbgerrors.NewInvalidValue(out.Name, v)
		}
		rVals[out] = v
		cellOf(out).Clear()
	}
	return nil
}

// runCompiledPass is runPass's compiled-backend counterpart: it differs
// only in how outputs reconcile with r_vals — if the reference backend
// already recorded a value, the two must agree (else BadCompiledOutput);
// otherwise the compiled value becomes authoritative.
func runCompiledPass(g *graph.Graph, node *graph.Node, thunk Thunk, cellOf func(*graph.Variable) *Cell, rVals map[*graph.Variable]values.Value, drVals map[*graph.Variable]checks.DestroyRecord, active bool) error {
	before, err := bindInputs(node, cellOf, rVals)
	if err != nil {
		return err
	}

	inVals := make([]values.Value, len(node.Inputs))
	for i, in := range node.Inputs {
		inVals[i] = cellOf(in).Get()
	}
	outCells := make([]*Cell, len(node.Outputs))
	for i, out := range node.Outputs {
		outCells[i] = cellOf(out)
	}
	if err := thunk(node, inVals, outCells); err != nil {
		return dbgerrors.WithNodeContext(node.Op.Name(), err)
	}

	after := make(map[*graph.Variable]values.Value, len(node.Inputs))
	for _, in := range node.Inputs {
		after[in] = cellOf(in).Get()
	}
	if err := checks.DestroyMap(node, before, after, active, false, drVals); err != nil {
		return err
	}

	outVals := make(map[*graph.Variable]values.Value, len(node.Outputs))
	for _, out := range node.Outputs {
		outVals[out] = cellOf(out).Get()
	}
	if err := checks.ViewMap(g, node, after, outVals); err != nil {
		return err
	}

	for i, out := range node.Outputs {
		v := cellOf(out).Get()
		if !out.Type.IsValid(v) {
			return dbgerrors.NewInvalidValue(out.Name, v)
		}
		if existing, ok := rVals[out]; ok {
			if !out.Type.EqualsApprox(existing, v) {
				return dbgerrors.NewBadCompiledOutput(node.Op.Name(), i, existing, v)
			}
		} else {
			rVals[out] = v
		}
		cellOf(out).Clear()
	}
	return nil
}

// bindInputs copies deep_copy(r_vals[r]) into every input cell (validating
// first) and returns the *untouched* r_vals snapshot to compare against
// after the thunk runs — not the copy handed to the thunk, which the
// thunk may mutate in place.
func bindInputs(node *graph.Node, cellOf func(*graph.Variable) *Cell, rVals map[*graph.Variable]values.Value) (map[*graph.Variable]values.Value, error) {
	before := make(map[*graph.Variable]values.Value, len(node.Inputs))
	for _, in := range node.Inputs {
		rv, ok := rVals[in]
		if !ok {
			return nil, fmt.Errorf("linker: no recorded value for %q feeding node %q", in.Name, node.Op.Name())
		}
		if !in.Type.IsValid(rv) {
			return nil, dbgerrors.NewInvalidValue(in.Name, rv)
		}
		cellOf(in).Set(in.Type.DeepCopy(rv))
		before[in] = rv
	}
	return before, nil
}

// transferResults implements §4.E's result-transfer step: every
// designated output is written into rVals already; every graph input
// that was destroyed is overwritten with its post-destruction value,
// preserving the caller's container identity when the value implements
// values.MutableInPlace.
func transferResults(g *graph.Graph, rVals map[*graph.Variable]values.Value, drVals map[*graph.Variable]checks.DestroyRecord, inputValues map[*graph.Variable]values.Value) {
	for _, in := range g.Inputs {
		final := rVals[in]
		if dr, destroyed := drVals[in]; destroyed {
			final = dr.Value
		}
		if mutable, ok := inputValues[in].(values.MutableInPlace); ok {
			mutable.OverwriteWith(final)
		}
	}
}
