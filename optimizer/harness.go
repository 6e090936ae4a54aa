// Package optimizer runs a caller-supplied rewrite pass repeatedly to
// detect non-deterministic rewriting order (§4.D), grounded on kanso's
// OptimizationPipeline.Run (sequential pass runner) and on Theano's
// _Maker.__init__ stability loop (debugmode.py).
package optimizer

import (
	"dbgengine/diag"
	"dbgengine/events"
	"dbgengine/graph"

	"dbgengine/dbgerrors"
)

// DefaultStabilityPatience is the re-run count used when a Harness is
// constructed with patience <= 0, matching §6's documented default.
const DefaultStabilityPatience = 10

// Rewriter mutates a graph in place — the optimizer contract of §6. It
// must emit its import/prune/rewire steps through the graph's own
// Import/Prune/Rewire methods so that an attached events.Tracker
// observes them.
type Rewriter func(g *graph.Graph) error

// Harness runs a Rewriter stability_patience times on fresh clones of a
// source graph and asserts every run's event log agrees with the first.
type Harness struct {
	Rewriter          Rewriter
	StabilityPatience int
	Render            events.RenderFunc
}

// NewHarness constructs a Harness with the given rewriter. patience <= 0
// falls back to DefaultStabilityPatience. render is forwarded to every
// run's events.Tracker for reason-chain subgraph snapshots; nil is
// acceptable when those snapshots aren't needed.
func NewHarness(r Rewriter, patience int, render events.RenderFunc) *Harness {
	if patience <= 0 {
		patience = DefaultStabilityPatience
	}
	return &Harness{Rewriter: r, StabilityPatience: patience, Render: render}
}

// Run clones source StabilityPatience times, runs the rewriter on each
// clone with a fresh tracker attached, and compares every run's event
// log against the first run's. It returns the first run's resulting
// graph and tracker once every subsequent run agrees; a mismatch raises
// dbgerrors.StochasticOrder carrying the rendered three-column diff of
// the first divergence.
func (h *Harness) Run(source *graph.Graph) (*graph.Graph, *events.Tracker, error) {
	patience := h.StabilityPatience
	if patience <= 0 {
		patience = DefaultStabilityPatience
	}

	var firstGraph *graph.Graph
	var firstTracker *events.Tracker
	var firstLog events.Log

	for i := 0; i < patience; i++ {
		cg, err := graph.Clone(source)
		if err != nil {
			return nil, nil, err
		}
		tr := events.NewTracker(h.Render)
		cg.AddObserver(tr)
		// graph.Clone already called Import for every committed node before
		// returning cg, so AddObserver above missed all of them — replay
		// OnImport now, mirroring Theano's _VariableEquivalenceTracker,
		// whose imports are replayed for pre-existing nodes when attached
		// as a feature. Without this, a rewriter that never itself
		// imports/rewires anything (the identity optimizer) leaves
		// AllVariablesEver empty and the linker evaluates nothing.
		for _, n := range cg.Nodes() {
			tr.OnImport(n)
		}

		if err := h.Rewriter(cg); err != nil {
			return nil, nil, err
		}

		log := tr.EventLog()
		if i == 0 {
			firstGraph, firstTracker, firstLog = cg, tr, log
			continue
		}
		if eq, idx := firstLog.Equal(log); !eq {
			diffText := diag.RenderEventDiff(firstLog, log)
			return nil, nil, dbgerrors.NewStochasticOrder(idx, diffText)
		}
	}
	return firstGraph, firstTracker, nil
}
