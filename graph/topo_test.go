package graph

import "testing"

func TestTopoOrdersProducersBeforeConsumers(t *testing.T) {
	x := newVar("x")
	y := newVar("y")
	z := newVar("z")
	n1 := NewNode(testOp("neg"), []*Variable{x}, []*Variable{y}, nil, nil)
	n2 := NewNode(testOp("neg"), []*Variable{y}, []*Variable{z}, nil, nil)

	order, err := Topo([]*Variable{x}, []*Variable{z})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != n1 || order[1] != n2 {
		t.Fatalf("expected [n1, n2], got %v", order)
	}
}

func TestTopoWalksPrunedNodesReachableFromOutputs(t *testing.T) {
	// a node's outputs keep their Producer edge even after pruning from a
	// graph's active set; Topo must still walk it when asked to, since
	// §4.E drives bad-optimization checking over "all variables ever".
	x := newVar("x")
	y := newVar("y")
	g := New([]*Variable{x}, []*Variable{y})
	n := NewNode(testOp("neg"), []*Variable{x}, []*Variable{y}, nil, nil)
	g.Import(n)
	g.Prune(n)

	order, err := Topo([]*Variable{x}, []*Variable{y})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 1 || order[0] != n {
		t.Fatalf("expected Topo to still reach the pruned producer, got %v", order)
	}
}

func TestTopoDetectsCycle(t *testing.T) {
	a := newVar("a")
	b := newVar("b")
	// n1 produces b from a; n2 produces a from b — a genuine cycle
	NewNode(testOp("f"), []*Variable{a}, []*Variable{b}, nil, nil)
	NewNode(testOp("g"), []*Variable{b}, []*Variable{a}, nil, nil)

	_, err := Topo(nil, []*Variable{b})
	if err == nil {
		t.Fatal("expected a cycle to be detected")
	}
}
