package graph

import (
	"testing"

	"dbgengine/values"
)

type testOp string

func (o testOp) Name() string { return string(o) }

func newVar(name string) *Variable {
	return &Variable{Name: name, Type: values.NewTensorType(1)}
}

func TestNewNodeStampsProducer(t *testing.T) {
	in := newVar("x")
	out := newVar("y")
	n := NewNode(testOp("neg"), []*Variable{in}, []*Variable{out}, nil, nil)

	if out.Producer != n {
		t.Fatal("NewNode must stamp Producer on each output")
	}
	if in.Producer != nil {
		t.Fatal("NewNode must not touch the Producer of its inputs")
	}
}

func TestDestroyedInputs(t *testing.T) {
	n := &Node{DestroyMap: map[int][]int{0: {1, 2}}}
	got := n.DestroyedInputs()

	if !got[1] || !got[2] || len(got) != 2 {
		t.Fatalf("expected destroyed inputs {1,2}, got %v", got)
	}
}

func TestGraphOutputsAreClients(t *testing.T) {
	x := newVar("x")
	g := New([]*Variable{x}, []*Variable{x})

	cs := g.Clients(x)
	if len(cs) != 1 || !cs[0].IsOutput() {
		t.Fatalf("expected a single output pseudo-client, got %v", cs)
	}
}

func TestImportRegistersClients(t *testing.T) {
	x := newVar("x")
	y := newVar("y")
	g := New([]*Variable{x}, []*Variable{y})
	n := NewNode(testOp("neg"), []*Variable{x}, []*Variable{y}, nil, nil)

	g.Import(n)

	cs := g.Clients(x)
	if len(cs) != 1 || cs[0].Node != n || cs[0].InputIndex != 0 {
		t.Fatalf("expected x to have n as its sole client, got %v", cs)
	}
	nodes := g.Nodes()
	if len(nodes) != 1 || nodes[0] != n {
		t.Fatalf("expected the imported node to be active, got %v", nodes)
	}
}

func TestPruneRemovesAllClientOccurrences(t *testing.T) {
	x := newVar("x")
	y := newVar("y")
	g := New([]*Variable{x}, []*Variable{y})
	// a node that consumes x on two separate input slots
	n := NewNode(testOp("add"), []*Variable{x, x}, []*Variable{y}, nil, nil)
	g.Import(n)

	if len(g.Clients(x)) != 2 {
		t.Fatalf("expected two client entries for x before prune, got %d", len(g.Clients(x)))
	}

	g.Prune(n)

	if len(g.Clients(x)) != 0 {
		t.Fatalf("expected prune to remove every client entry for x, got %v", g.Clients(x))
	}
	if len(g.Nodes()) != 0 {
		t.Fatalf("expected no active nodes after prune, got %v", g.Nodes())
	}
	// the producer edge on y must survive prune — only the active set forgets n
	if y.Producer != n {
		t.Fatal("Prune must not clear Producer on the pruned node's outputs")
	}
}

func TestRewireOnlyTouchesTargetedInput(t *testing.T) {
	a := newVar("a")
	b := newVar("b")
	out := newVar("out")
	g := New([]*Variable{a, b}, []*Variable{out})
	// a node that consumes a on both input slots
	n := NewNode(testOp("add"), []*Variable{a, a}, []*Variable{out}, nil, nil)
	g.Import(n)

	g.Rewire(n, 1, b, "constant folding")

	if n.Inputs[0] != a || n.Inputs[1] != b {
		t.Fatalf("expected only input 1 to be rewired, got %v", n.Inputs)
	}
	if len(g.Clients(a)) != 1 {
		t.Fatalf("expected a to retain exactly one client (input 0), got %v", g.Clients(a))
	}
	if len(g.Clients(b)) != 1 || g.Clients(b)[0].InputIndex != 1 {
		t.Fatalf("expected b to have n at input 1 as its client, got %v", g.Clients(b))
	}
}

type recordingObserver struct {
	imported []*Node
	pruned   []*Node
	rewired  int
}

func (r *recordingObserver) OnImport(n *Node) { r.imported = append(r.imported, n) }
func (r *recordingObserver) OnPrune(n *Node)  { r.pruned = append(r.pruned, n) }
func (r *recordingObserver) OnRewire(n *Node, idx int, old, new *Variable, reason string) {
	r.rewired++
}

func TestObserversAreNotifiedInOrder(t *testing.T) {
	x := newVar("x")
	y := newVar("y")
	g := New([]*Variable{x}, []*Variable{y})
	obs := &recordingObserver{}
	g.AddObserver(obs)

	n := NewNode(testOp("neg"), []*Variable{x}, []*Variable{y}, nil, nil)
	g.Import(n)
	g.Rewire(n, 0, x, "noop")
	g.Prune(n)

	if len(obs.imported) != 1 || obs.imported[0] != n {
		t.Errorf("expected one OnImport call for n, got %v", obs.imported)
	}
	if obs.rewired != 1 {
		t.Errorf("expected one OnRewire call, got %d", obs.rewired)
	}
	if len(obs.pruned) != 1 || obs.pruned[0] != n {
		t.Errorf("expected one OnPrune call for n, got %v", obs.pruned)
	}
}
