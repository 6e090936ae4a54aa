// Package checks implements the three invariant checkers of §4.F:
// destroy-map, view-map, and bad-optimization. Grounded directly on
// Theano's _check_inputs/_check_viewmap/_find_bad_optimizations0
// (debugmode.py), carried over node-for-node but re-expressed against
// this module's Cell/r_vals types instead of Python's one-element-list
// storage convention.
package checks

import (
	"fmt"

	"dbgengine/dbgerrors"
	"dbgengine/graph"
	"dbgengine/values"
)

// DestroyRecord is dr_vals[r] from §4.E: the post-destruction value of a
// variable the active topology deliberately destroyed, tagged with the
// node that did it.
type DestroyRecord struct {
	Value values.Value
	Node  *graph.Node
}

// DestroyMap raises dbgerrors.BadDestroyMap when node mutated an input
// not listed in its declared destroy map, and otherwise updates drVals
// per §4.F.1: before is the value each input held going in (r_vals at
// bind time), after is the value found in its cell once the thunk
// returned. active reports whether node is in the currently-reachable
// topology (§4.E's active_order); drVals is written only when both active
// and clobberDrVals are true, while the check that no other node already
// claimed the same destroyed variable runs whenever active is true.
func DestroyMap(node *graph.Node, before, after map[*graph.Variable]values.Value, active bool, clobberDrVals bool, drVals map[*graph.Variable]DestroyRecord) error {
	destroyed := node.DestroyedInputs()

	for idx, in := range node.Inputs {
		if in.Type.EqualsApprox(before[in], after[in]) {
			continue
		}
		if !destroyed[idx] {
			return dbgerrors.NewBadDestroyMap(node.Op.Name(), idx)
		}
		if !active {
			continue
		}
		if prior, ok := drVals[in]; ok && prior.Node != node {
			return fmt.Errorf("checks: failure in topological ordering: %q and a prior node both claim to destroy the same variable", node.Op.Name())
		}
		if clobberDrVals {
			drVals[in] = DestroyRecord{Value: after[in], Node: node}
		}
	}
	return nil
}
