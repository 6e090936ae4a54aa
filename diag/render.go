// Package diag renders graph state and rewrite history into human
// readable text: the depth-limited subgraph printer used by the
// bad-optimization check's snapshots, and the three-column event-log
// divergence trace used by the stability check. Grounded on kanso's
// recursive AST rendering idiom and its internal/errors reporter
// (reporter.go), whose fatih/color palette convention (red=error,
// yellow=warning, cyan=suggestion, blue=note) the colorized half of this
// package (color.go) reuses directly.
package diag

import (
	"fmt"
	"strings"

	"dbgengine/events"
	"dbgengine/graph"
)

// DefaultDepth is the subgraph render depth used when callers don't
// specify one, matching §4.C's "typically 6".
const DefaultDepth = 6

// RenderVariable pretty-prints v and, recursively, the subgraph that
// produced it, stopping after depth levels. A depth <= 0 falls back to
// DefaultDepth.
func RenderVariable(v *graph.Variable, depth int) string {
	if depth <= 0 {
		depth = DefaultDepth
	}
	var b strings.Builder
	renderVar(&b, v, depth, 0, make(map[*graph.Variable]bool))
	return b.String()
}

func renderVar(b *strings.Builder, v *graph.Variable, depth, indent int, visiting map[*graph.Variable]bool) {
	pad := strings.Repeat("  ", indent)
	if v == nil {
		fmt.Fprintf(b, "%s<nil>\n", pad)
		return
	}
	if v.Producer == nil {
		fmt.Fprintf(b, "%s%s (input)\n", pad, v.Name)
		return
	}
	if visiting[v] {
		fmt.Fprintf(b, "%s%s (cycle)\n", pad, v.Name)
		return
	}
	if depth <= 0 {
		fmt.Fprintf(b, "%s%s = %s(...) [depth limit]\n", pad, v.Name, v.Producer.Op.Name())
		return
	}
	visiting[v] = true
	fmt.Fprintf(b, "%s%s = %s(%s)\n", pad, v.Name, v.Producer.Op.Name(), joinNames(v.Producer.Inputs))
	for _, in := range v.Producer.Inputs {
		renderVar(b, in, depth-1, indent+1, visiting)
	}
	visiting[v] = false
}

func joinNames(vs []*graph.Variable) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return strings.Join(names, ", ")
}

// RenderEventDiff renders a three-column (index, run-A, run-B) trace of
// two event logs, marking every divergent row with a leading "*" — the
// diagnostic format consumed by the stochastic-order error.
func RenderEventDiff(a, b events.Log) string {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	lines := make([]string, 0, n+1)
	lines = append(lines, fmt.Sprintf("  %-4s %-32s %-32s", "idx", "run A", "run B"))
	for i := 0; i < n; i++ {
		sa, sb := "(none)", "(none)"
		mismatch := true
		if i < len(a) {
			sa = eventString(a[i])
		}
		if i < len(b) {
			sb = eventString(b[i])
		}
		if i < len(a) && i < len(b) {
			mismatch = !a[i].Equal(b[i])
		}
		marker := " "
		if mismatch {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %-4d %-32s %-32s", marker, i, sa, sb))
	}
	return strings.Join(lines, "\n")
}

func eventString(e events.Event) string {
	if e.Kind == events.Rewire {
		return fmt.Sprintf("%s(%s) in=%d reason=%q", e.Kind, e.OpName, e.InputIndex, e.Reason)
	}
	return fmt.Sprintf("%s(%s)", e.Kind, e.OpName)
}
