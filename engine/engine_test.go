package engine

import (
	"testing"

	"dbgengine/dbgerrors"
	"dbgengine/graph"
	"dbgengine/linker"
	"dbgengine/values"
)

type testOp string

func (o testOp) Name() string { return string(o) }

func addThunk(node *graph.Node, inputs []values.Value, outputs []*linker.Cell) error {
	a := inputs[0].(*values.Tensor)
	b := inputs[1].(*values.Tensor)
	out := make([]float64, len(a.Data))
	for i := range a.Data {
		out[i] = a.Data[i] + b.Data[i]
	}
	outputs[0].Set(values.NewTensor(out...))
	return nil
}

func newAddGraph() (*graph.Graph, *graph.Variable, *graph.Variable, *graph.Variable) {
	x := &graph.Variable{Name: "x", Type: values.NewTensorType(1)}
	y := &graph.Variable{Name: "y", Type: values.NewTensorType(1)}
	z := &graph.Variable{Name: "z", Type: values.NewTensorType(1)}
	g := graph.New([]*graph.Variable{x, y}, []*graph.Variable{z})
	n := graph.NewNode(testOp("add"), []*graph.Variable{x, y}, []*graph.Variable{z}, nil, nil)
	g.Import(n)
	return g, x, y, z
}

func TestRunSanityScenario(t *testing.T) {
	g, x, y, z := newAddGraph()
	registry := linker.Registry{"add": linker.OperatorImpl{Reference: addThunk}}
	inputs := map[*graph.Variable]values.Value{
		x: values.NewTensor(1.0),
		y: values.NewTensor(2.0),
	}
	cfg, err := NewConfig(nil, 3, false, true)
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	res, err := Run(g, registry, inputs, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	zVal := res.RVals[findVar(res.Graph.Outputs, z.Name)].(*values.Tensor)
	if zVal.Data[0] != 3.0 {
		t.Fatalf("expected z=3.0, got %v", zVal.Data)
	}
}

func findVar(vs []*graph.Variable, name string) *graph.Variable {
	for _, v := range vs {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func TestNewConfigRejectsBothBackendsDisabled(t *testing.T) {
	_, err := NewConfig(nil, 1, false, false)
	if _, ok := err.(*dbgerrors.ConfigError); !ok {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestNewConfigAppliesDefaultPatience(t *testing.T) {
	cfg, err := NewConfig(nil, 0, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StabilityPatience == 0 {
		t.Fatal("expected a non-zero default stability patience")
	}
}
