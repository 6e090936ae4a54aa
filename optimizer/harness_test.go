package optimizer

import (
	"testing"

	"dbgengine/dbgerrors"
	"dbgengine/graph"
	"dbgengine/values"
)

type testOp string

func (o testOp) Name() string { return string(o) }

func newTestGraph() *graph.Graph {
	x := &graph.Variable{Name: "x", Type: values.NewTensorType(1)}
	y := &graph.Variable{Name: "y", Type: values.NewTensorType(1)}
	g := graph.New([]*graph.Variable{x}, []*graph.Variable{y})
	n := graph.NewNode(testOp("neg"), []*graph.Variable{x}, []*graph.Variable{y}, nil, nil)
	g.Import(n)
	return g
}

func TestHarnessAcceptsAStableRewriter(t *testing.T) {
	noop := func(g *graph.Graph) error { return nil }
	h := NewHarness(noop, 5, nil)

	_, tr, err := h.Run(newTestGraph())
	if err != nil {
		t.Fatalf("unexpected error from a stable rewriter: %v", err)
	}
	if len(tr.EventLog()) != 1 {
		t.Fatalf("expected a single import event, got %v", tr.EventLog())
	}
}

func TestHarnessDetectsStochasticOrder(t *testing.T) {
	call := 0
	rewriter := func(g *graph.Graph) error {
		call++
		out := g.Outputs[0]
		n := out.Producer
		if call%2 == 1 {
			g.Rewire(n, 0, g.Inputs[0], "pass A")
		} else {
			g.Rewire(n, 0, g.Inputs[0], "pass B")
		}
		return nil
	}
	h := NewHarness(rewriter, 3, nil)

	_, _, err := h.Run(newTestGraph())
	so, ok := err.(*dbgerrors.StochasticOrder)
	if !ok {
		t.Fatalf("expected StochasticOrder, got %v", err)
	}
	if so.FirstDiffIndex != 1 {
		t.Fatalf("expected the divergence at the rewire event (index 1), got %d", so.FirstDiffIndex)
	}
}

func TestDefaultStabilityPatienceAppliesWhenUnset(t *testing.T) {
	calls := 0
	h := NewHarness(func(g *graph.Graph) error { calls++; return nil }, 0, nil)
	if _, _, err := h.Run(newTestGraph()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != DefaultStabilityPatience {
		t.Fatalf("expected %d runs, got %d", DefaultStabilityPatience, calls)
	}
}
