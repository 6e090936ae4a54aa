package checks

import (
	"dbgengine/dbgerrors"
	"dbgengine/graph"
	"dbgengine/values"
)

// ViewMap implements §4.F.2 for a single node: for each output, any
// memory aliasing against an input must be declared in that output's
// view_map or destroy_map entry; if the output aliases no input but is
// consumed downstream, it must not alias any other downstream-consumed
// output of the same node.
//
// outputValues and inputValues hold the values observed in each
// variable's storage cell immediately after the thunk ran.
func ViewMap(g *graph.Graph, node *graph.Node, inputValues, outputValues map[*graph.Variable]values.Value) error {
	for oi, out := range node.Outputs {
		outVal := outputValues[out]

		var aliasedInputs []int
		for ii, in := range node.Inputs {
			if out.Type.MaySharesMemory(outVal, inputValues[in]) {
				aliasedInputs = append(aliasedInputs, ii)
			}
		}

		if len(aliasedInputs) > 0 {
			var undeclared []int
			for _, idx := range aliasedInputs {
				if containsInt(node.ViewMap[oi], idx) || containsInt(node.DestroyMap[oi], idx) {
					continue
				}
				undeclared = append(undeclared, idx)
			}
			if len(undeclared) > 0 {
				return dbgerrors.NewBadViewMap(node.Op.Name(), oi, undeclared, false)
			}
			continue
		}

		if !usedDownstream(g, out) {
			continue
		}
		for oj, other := range node.Outputs {
			if oj == oi || !usedDownstream(g, other) {
				continue
			}
			if out.Type.MaySharesMemory(outVal, outputValues[other]) {
				return dbgerrors.NewBadViewMap(node.Op.Name(), oi, []int{oj}, true)
			}
		}
	}
	return nil
}

// usedDownstream reports whether v has at least one client beyond
// purely backing a designated graph output.
func usedDownstream(g *graph.Graph, v *graph.Variable) bool {
	clients := g.Clients(v)
	if len(clients) == 0 {
		return false
	}
	if len(clients) == 1 && clients[0].IsOutput() {
		return false
	}
	return true
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
