package graph

// Clone deep-clones a graph's structure — variables, nodes, destroy/view
// maps — without touching any runtime value. The optimizer harness (§4.D)
// runs a fresh clone through the rewriter on each stability-patience
// iteration so that a buggy rewrite on run 2 can never contaminate run 1.
//
// Clone only walks nodes reachable from g's current outputs; a pruned
// node that nothing in Inputs/Outputs reaches is, by construction, not
// part of the graph's committed structure and is not cloned (the
// equivalence tracker observing the clone's own optimizer run will build
// its own all-variables-ever log from scratch).
func Clone(g *Graph) (*Graph, error) {
	order, err := Topo(g.Inputs, g.Outputs)
	if err != nil {
		return nil, err
	}

	varCopy := make(map[*Variable]*Variable, len(g.Inputs))
	cloneVar := func(v *Variable) *Variable {
		if cv, ok := varCopy[v]; ok {
			return cv
		}
		cv := &Variable{Name: v.Name, Type: v.Type}
		varCopy[v] = cv
		return cv
	}

	for _, v := range g.Inputs {
		cloneVar(v)
	}

	newNodeOf := make(map[*Node]*Node, len(order))
	for _, n := range order {
		ins := make([]*Variable, len(n.Inputs))
		for i, in := range n.Inputs {
			ins[i] = cloneVar(in)
		}
		outs := make([]*Variable, len(n.Outputs))
		for i, out := range n.Outputs {
			outs[i] = cloneVar(out)
		}
		newNode := NewNode(n.Op, ins, outs, copyIntMap(n.DestroyMap), copyIntMap(n.ViewMap))
		newNodeOf[n] = newNode
	}

	newInputs := make([]*Variable, len(g.Inputs))
	for i, v := range g.Inputs {
		newInputs[i] = cloneVar(v)
	}
	newOutputs := make([]*Variable, len(g.Outputs))
	for i, v := range g.Outputs {
		newOutputs[i] = cloneVar(v)
	}

	ng := New(newInputs, newOutputs)
	for _, n := range order {
		ng.Import(newNodeOf[n])
	}
	return ng, nil
}

// CloneNode clones a single node in isolation, with fresh Variables that
// share no identity with the outer graph. §4.E builds compiled thunks
// over such a clone so that any stochastic behavior internal to the
// compiled-code builder (single-node, so harmless) cannot observe or
// mutate the real graph.
func CloneNode(n *Node) *Node {
	ins := make([]*Variable, len(n.Inputs))
	for i, v := range n.Inputs {
		ins[i] = &Variable{Name: v.Name, Type: v.Type}
	}
	outs := make([]*Variable, len(n.Outputs))
	for i, v := range n.Outputs {
		outs[i] = &Variable{Name: v.Name, Type: v.Type}
	}
	return NewNode(n.Op, ins, outs, copyIntMap(n.DestroyMap), copyIntMap(n.ViewMap))
}

func copyIntMap(m map[int][]int) map[int][]int {
	if m == nil {
		return nil
	}
	out := make(map[int][]int, len(m))
	for k, v := range m {
		out[k] = append([]int(nil), v...)
	}
	return out
}
