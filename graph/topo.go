package graph

import "fmt"

// Topo returns a topological order over the nodes that produce the given
// outputs, honoring producer-before-consumer. It walks from outputs back
// through Variable.Producer, so it naturally orders whatever graph the
// outputs reach — inputs are treated as leaves (a variable with no
// producer is a graph input and needs no node), not as a restriction on
// what is reachable.
//
// This intentionally means Topo(inputs, outputs) can return nodes that
// are not part of graph g's currently-active node set at all: §4.E
// drives this over "all variables ever seen", including pruned ones, to
// evaluate the dead side of every rewrite.
func Topo(inputs, outputs []*Variable) ([]*Node, error) {
	visited := make(map[*Node]bool)
	visiting := make(map[*Node]bool)
	var order []*Node

	var visit func(v *Variable) error
	visit = func(v *Variable) error {
		if v.Producer == nil {
			return nil
		}
		n := v.Producer
		if visited[n] {
			return nil
		}
		if visiting[n] {
			return fmt.Errorf("graph: cycle detected at operator %q", n.Op.Name())
		}
		visiting[n] = true
		for _, in := range n.Inputs {
			if err := visit(in); err != nil {
				return err
			}
		}
		visiting[n] = false
		visited[n] = true
		order = append(order, n)
		return nil
	}

	for _, v := range outputs {
		if err := visit(v); err != nil {
			return nil, err
		}
	}
	return order, nil
}
