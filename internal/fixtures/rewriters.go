package fixtures

import (
	"dbgengine/graph"
	"dbgengine/values"
)

// rewriteDoubles replaces every active Double node with whatever build
// returns for its input: zero or more helper nodes to import first, then
// a final node whose single output takes over every client (real or
// designated-output) the Double node's output used to have.
func rewriteDoubles(g *graph.Graph, build func(x *graph.Variable) (extra []*graph.Node, final *graph.Node), reason string) error {
	for _, n := range g.Nodes() {
		if n.Op.Name() != Double.Name() {
			continue
		}
		x := n.Inputs[0]
		oldOut := n.Outputs[0]

		extra, final := build(x)
		for _, e := range extra {
			g.Import(e)
		}
		g.Import(final)
		newOut := final.Outputs[0]

		for _, c := range g.Clients(oldOut) {
			if c.IsOutput() {
				g.ReplaceOutput(oldOut, newOut)
				continue
			}
			g.Rewire(c.Node, c.InputIndex, newOut, reason)
		}
		g.Prune(n)
	}
	return nil
}

// FoldConstant rewires every double(x) node to add(x, x) — algebraically
// equivalent (2x == x+x), so the bad-optimization check accepts it.
func FoldConstant(g *graph.Graph) error {
	return rewriteDoubles(g, func(x *graph.Variable) ([]*graph.Node, *graph.Node) {
		sum := &graph.Variable{Name: x.Name + ".folded", Type: x.Type}
		return nil, NewAddNode(x, x, sum)
	}, "constant-fold double(x) to add(x, x)")
}

// MisfoldConstant is FoldConstant's deliberately broken twin: it rewires
// double(x) to add(x, 0) instead of add(x, x) — x+0 != 2x for any
// nonzero x, reproducing the bad-optimization scenario the check must
// catch.
func MisfoldConstant(g *graph.Graph) error {
	return rewriteDoubles(g, func(x *graph.Variable) ([]*graph.Node, *graph.Node) {
		zero := &graph.Variable{Name: "zero", Type: x.Type}
		constNode := NewConstNode(values.NewTensor(0), zero)
		sum := &graph.Variable{Name: x.Name + ".misfolded", Type: x.Type}
		return []*graph.Node{constNode}, NewAddNode(x, zero, sum)
	}, "constant-fold double(x) to add(x, 0)")
}

// HashsetRewrite touches every active node's inputs in whatever order
// ranging over a Go map yields, which the runtime deliberately
// randomizes call to call. It rewires each input to itself — a
// functional no-op — solely to emit one real Rewire event per
// (node, input) pair, so that two Harness runs of this same rewriter
// can legitimately disagree on event order without any manufactured
// randomness.
func HashsetRewrite(g *graph.Graph) error {
	candidates := make(map[*graph.Node]bool)
	for _, n := range g.Nodes() {
		candidates[n] = true
	}
	for n := range candidates {
		for i, in := range n.Inputs {
			g.Rewire(n, i, in, "hashset pass")
		}
	}
	return nil
}
