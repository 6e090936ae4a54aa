package graphscript

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"dbgengine/graph"
	"dbgengine/internal/fixtures"
	"dbgengine/linker"
	"dbgengine/values"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
)

// Parse parses source into a Program. filename is used only to label
// position information in any returned participle.Error.
func Parse(filename, source string) (*Program, error) {
	return parser.ParseString(filename, source)
}

// Loaded is the result of resolving a Program against the fixtures
// operator library: a ready-to-run graph, its operator table, and the
// concrete input values any literal initializers supplied.
type Loaded struct {
	Graph    *graph.Graph
	Registry linker.Registry
	Inputs   map[*graph.Variable]values.Value
	Vars     map[string]*graph.Variable
}

// Build resolves a parsed Program into a Loaded graph. Every node's
// operator name is looked up against fixtures.Registry by name only at
// engine.Run time — Build itself never rejects an unknown operator name,
// since the graph it builds is backend-agnostic; an unresolvable name
// surfaces later as a "no operator implementation registered" error from
// package linker.
func Build(prog *Program) (*Loaded, error) {
	vars := make(map[string]*graph.Variable)
	inputVals := make(map[*graph.Variable]values.Value)
	var inputs []*graph.Variable
	var nodes []*graph.Node

	for _, d := range prog.Decls {
		switch {
		case d.Input != nil:
			if _, exists := vars[d.Input.Name]; exists {
				return nil, fmt.Errorf("graphscript: %q redeclared", d.Input.Name)
			}
			v := &graph.Variable{Name: d.Input.Name, Type: values.NewTensorType(1)}
			vars[d.Input.Name] = v
			inputs = append(inputs, v)
			if d.Input.Literal != nil {
				inputVals[v] = values.NewTensor(d.Input.Literal.Values...)
			} else {
				inputVals[v] = values.NewTensor(0)
			}

		case d.Node != nil:
			nd := d.Node
			if _, exists := vars[nd.Name]; exists {
				return nil, fmt.Errorf("graphscript: %q redeclared", nd.Name)
			}
			ins := make([]*graph.Variable, len(nd.Args))
			for i, a := range nd.Args {
				in, ok := vars[a]
				if !ok {
					return nil, fmt.Errorf("graphscript: node %q references undefined variable %q", nd.Name, a)
				}
				ins[i] = in
			}
			out := &graph.Variable{Name: nd.Name, Type: values.NewTensorType(1)}
			vars[nd.Name] = out
			node := graph.NewNode(fixtures.Op(nd.Op), ins, []*graph.Variable{out},
				mapOf("destroy", nd.Destroy, nd.View), mapOf("view", nd.Destroy, nd.View))
			nodes = append(nodes, node)
		}
	}

	var outputs []*graph.Variable
	for _, d := range prog.Decls {
		if d.Output == nil {
			continue
		}
		v, ok := vars[d.Output.Name]
		if !ok {
			return nil, fmt.Errorf("graphscript: output references undefined variable %q", d.Output.Name)
		}
		outputs = append(outputs, v)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("graphscript: program declares no output")
	}

	g := graph.New(inputs, outputs)
	for _, n := range nodes {
		g.Import(n)
	}

	return &Loaded{Graph: g, Registry: fixtures.Registry(false), Inputs: inputVals, Vars: vars}, nil
}

// mapOf returns the index map of whichever clause carries the given
// keyword, or nil if none does. The grammar fills NodeDecl.Destroy with
// the first clause whatever its keyword, so both fields are searched.
func mapOf(kind string, clauses ...*MapClause) map[int][]int {
	for _, m := range clauses {
		if m != nil && m.Kind == kind {
			return map[int][]int{0: append([]int(nil), m.Indices...)}
		}
	}
	return nil
}
