package checks

import (
	"dbgengine/dbgerrors"
	"dbgengine/events"
	"dbgengine/graph"
	"dbgengine/values"
)

// BadOptimization implements the simple pairwise variant of §4.F.3,
// mandated by the spec (grounded on Theano's _find_bad_optimizations0):
// for every variable in order and every reason-chain entry behind it,
// assert the replaced and replacing variables have the same type Name and
// still agree under approximate equality. rVals supplies the runtime
// value recorded for each variable during evaluation.
func BadOptimization(order []*graph.Node, tracker *events.Tracker, rVals map[*graph.Variable]values.Value) error {
	for _, node := range order {
		for _, newR := range node.Outputs {
			for _, entry := range tracker.ReasonChain(newR) {
				oldVal, newVal := rVals[entry.OldVar], rVals[newR]
				if entry.OldVar.Type.Name() != newR.Type.Name() || !entry.OldVar.Type.EqualsApprox(oldVal, newVal) {
					return dbgerrors.NewBadOptimization(
						entry.Reason, entry.OldVar.Name, newR.Name,
						oldVal, newVal, entry.OldGraph, entry.NewGraph,
					)
				}
			}
		}
	}
	return nil
}

// BadOptimizationClustered is the optional clustered variant (§9,
// grounded on Theano's _find_bad_optimizations1): it builds equivalence
// classes from the reason chains and, for the first class found broken,
// reports the earliest-introduced member as the baseline rather than
// whichever pairwise comparison happened to fail first. It rejects
// exactly the same inputs as BadOptimization — only the diagnostic
// differs.
func BadOptimizationClustered(order []*graph.Node, tracker *events.Tracker, rVals map[*graph.Variable]values.Value) error {
	introduced := make(map[*graph.Variable]int)
	var allVars []*graph.Variable
	for i, node := range order {
		for _, v := range node.Outputs {
			if _, ok := introduced[v]; !ok {
				introduced[v] = i
				allVars = append(allVars, v)
			}
		}
	}

	classes := make(map[*graph.Variable][]*graph.Variable)
	classOf := make(map[*graph.Variable]*graph.Variable)
	find := func(v *graph.Variable) *graph.Variable {
		c, ok := classOf[v]
		if !ok {
			classes[v] = []*graph.Variable{v}
			classOf[v] = v
			return v
		}
		return c
	}
	union := func(a, b *graph.Variable) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		classes[ra] = append(classes[ra], classes[rb]...)
		for _, m := range classes[rb] {
			classOf[m] = ra
		}
		delete(classes, rb)
	}

	for _, v := range allVars {
		for _, entry := range tracker.ReasonChain(v) {
			union(v, entry.OldVar)
		}
	}

	checked := make(map[*graph.Variable]bool)
	for _, v := range allVars {
		rep := find(v)
		if checked[rep] {
			continue
		}
		checked[rep] = true

		members := append([]*graph.Variable(nil), classes[rep]...)
		earliest := members[0]
		for _, m := range members[1:] {
			if introduced[m] < introduced[earliest] {
				earliest = m
			}
		}
		baseVal := rVals[earliest]
		for _, m := range members {
			if m == earliest {
				continue
			}
			if !earliest.Type.EqualsApprox(baseVal, rVals[m]) {
				return dbgerrors.NewBadOptimization(
					"clustered", earliest.Name, m.Name, baseVal, rVals[m], "", "",
				)
			}
		}
	}
	return nil
}
