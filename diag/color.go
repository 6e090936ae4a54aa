package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"dbgengine/dbgerrors"
)

// Report renders err as a colorized, multi-line diagnostic, attaching
// whatever extra structured context (reason, rendered subgraphs, event
// diff) the concrete error kind carries — the same division kanso's
// ErrorReporter makes between a bold headline and dimmed/colored
// supporting detail, minus the source-position machinery this engine
// has no use for (it diagnoses an already-built graph, not source text).
func Report(err error) string {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", red("error:"), bold(err.Error()))

	switch e := err.(type) {
	case *dbgerrors.BadOptimization:
		fmt.Fprintf(&b, "%s rewrite reason: %s\n", blue("note:"), e.Reason)
		fmt.Fprintf(&b, "%s before the rewrite:\n%s\n", cyan("help:"), e.OldGraph)
		fmt.Fprintf(&b, "%s after the rewrite:\n%s\n", cyan("help:"), e.NewGraph)
	case *dbgerrors.StochasticOrder:
		fmt.Fprintf(&b, "%s\n%s\n", blue("note: event log divergence"), e.Diff)
	case *dbgerrors.BadDestroyMap:
		fmt.Fprintf(&b, "%s input %d was mutated without a destroy_map entry\n", blue("note:"), e.InputIndex)
	case *dbgerrors.BadViewMap:
		form := "input"
		if e.OutputPair {
			form = "output"
		}
		fmt.Fprintf(&b, "%s output %d aliases undeclared %s(s) %v\n", blue("note:"), e.Output, form, e.AliasedTo)
	case *dbgerrors.BadCompiledOutput:
		fmt.Fprintf(&b, "%s reference=%v compiled=%v\n", blue("note:"), e.Reference, e.Compiled)
	}
	return b.String()
}
