// Package engine is the public façade wiring the equivalence tracker,
// optimizer harness, linker and diagnostic renderer together, grounded
// on Theano's DebugMode/_Maker (debugmode.py) — the configuration-
// bearing entry point a caller actually constructs — and on kanso's
// ir.BuildProgram/PrintProgram top-level-function style.
package engine

import (
	"fmt"

	"dbgengine/dbgerrors"
	"dbgengine/diag"
	"dbgengine/graph"
	"dbgengine/linker"
	"dbgengine/optimizer"
	"dbgengine/values"
)

// Config is the closed configuration set of §6.
type Config struct {
	Optimizer          optimizer.Rewriter
	StabilityPatience  int
	CheckCompiledCode  bool
	CheckReferenceCode bool
}

// NewConfig validates the "at least one backend" rule at construction,
// mirroring DebugMode.__init__'s own check, and applies §6's documented
// default stability patience when none is given.
func NewConfig(rewriter optimizer.Rewriter, stabilityPatience int, checkCompiled, checkReference bool) (Config, error) {
	if !checkCompiled && !checkReference {
		return Config{}, dbgerrors.NewConfigError("at least one of check_compiled_code/check_reference_code must be enabled")
	}
	if stabilityPatience <= 0 {
		stabilityPatience = optimizer.DefaultStabilityPatience
	}
	return Config{
		Optimizer:          rewriter,
		StabilityPatience:  stabilityPatience,
		CheckCompiledCode:  checkCompiled,
		CheckReferenceCode: checkReference,
	}, nil
}

// Result is the outcome of a full engine run: the optimized graph, the
// authoritative value of every variable, and a human-readable trace of
// the stages the engine walked through.
type Result struct {
	Graph *graph.Graph
	RVals map[*graph.Variable]values.Value
	Trace []string
}

// Run executes the full pipeline of §2's data flow: clone the source
// graph into the optimizer harness (observed by a fresh equivalence
// tracker), then hand the stable result to the linker for dual-backend
// evaluation and invariant checking.
func Run(source *graph.Graph, registry linker.Registry, inputValues map[*graph.Variable]values.Value, cfg Config) (*Result, error) {
	if !cfg.CheckCompiledCode && !cfg.CheckReferenceCode {
		return nil, dbgerrors.NewConfigError("at least one of check_compiled_code/check_reference_code must be enabled")
	}
	if cfg.Optimizer == nil {
		cfg.Optimizer = func(*graph.Graph) error { return nil }
	}

	render := func(v *graph.Variable) string { return diag.RenderVariable(v, diag.DefaultDepth) }
	harness := optimizer.NewHarness(cfg.Optimizer, cfg.StabilityPatience, render)

	optimized, tracker, err := harness.Run(source)
	if err != nil {
		return nil, err
	}

	linkCfg := linker.Config{CheckCompiledCode: cfg.CheckCompiledCode, CheckReferenceCode: cfg.CheckReferenceCode}
	linkResult, err := linker.Run(optimized, tracker, registry, resolveInputs(source, optimized, inputValues), linkCfg)
	if err != nil {
		return nil, err
	}

	trace := append([]string{fmt.Sprintf("optimizer stable after %d run(s)", cfg.StabilityPatience)}, linkResult.Trace...)
	return &Result{Graph: optimized, RVals: linkResult.RVals, Trace: trace}, nil
}

// resolveInputs rebinds the caller's input values — keyed by the source
// graph's own Variable pointers — onto the optimized clone's Variables,
// which graph.Clone allocated fresh. Inputs are cloned in the same
// order they appear in source.Inputs/optimized.Inputs by construction
// (see graph.Clone), so positional correspondence is exact.
func resolveInputs(source, optimized *graph.Graph, inputValues map[*graph.Variable]values.Value) map[*graph.Variable]values.Value {
	out := make(map[*graph.Variable]values.Value, len(source.Inputs))
	for i, v := range source.Inputs {
		out[optimized.Inputs[i]] = inputValues[v]
	}
	return out
}
