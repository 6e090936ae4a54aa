package diag

import (
	"strings"
	"testing"

	"dbgengine/events"
	"dbgengine/graph"
	"dbgengine/values"
)

type testOp string

func (o testOp) Name() string { return string(o) }

func TestRenderVariableInputLeaf(t *testing.T) {
	x := &graph.Variable{Name: "x", Type: values.NewTensorType(1)}
	out := RenderVariable(x, 0)
	if !strings.Contains(out, "x (input)") {
		t.Fatalf("expected input leaf rendering, got %q", out)
	}
}

func TestRenderVariableWalksProducers(t *testing.T) {
	x := &graph.Variable{Name: "x", Type: values.NewTensorType(1)}
	y := &graph.Variable{Name: "y", Type: values.NewTensorType(1)}
	graph.NewNode(testOp("neg"), []*graph.Variable{x}, []*graph.Variable{y}, nil, nil)

	out := RenderVariable(y, 6)
	if !strings.Contains(out, "y = neg(x)") {
		t.Fatalf("expected producer chain rendering, got %q", out)
	}
	if !strings.Contains(out, "x (input)") {
		t.Fatalf("expected the input to appear nested, got %q", out)
	}
}

func TestRenderVariableRespectsDepthLimit(t *testing.T) {
	x := &graph.Variable{Name: "x", Type: values.NewTensorType(1)}
	y := &graph.Variable{Name: "y", Type: values.NewTensorType(1)}
	z := &graph.Variable{Name: "z", Type: values.NewTensorType(1)}
	graph.NewNode(testOp("neg"), []*graph.Variable{x}, []*graph.Variable{y}, nil, nil)
	graph.NewNode(testOp("neg"), []*graph.Variable{y}, []*graph.Variable{z}, nil, nil)

	out := RenderVariable(z, 1)
	if !strings.Contains(out, "[depth limit]") {
		t.Fatalf("expected a depth limit marker when walking past the limit, got %q", out)
	}
}

func TestRenderEventDiffMarksMismatches(t *testing.T) {
	a := events.Log{
		{Kind: events.Import, OpName: "add", InputIndex: -1},
		{Kind: events.Rewire, OpName: "add", InputIndex: 0, Reason: "fold"},
	}
	b := events.Log{
		{Kind: events.Import, OpName: "add", InputIndex: -1},
		{Kind: events.Rewire, OpName: "add", InputIndex: 0, Reason: "cse"},
	}

	out := RenderEventDiff(a, b)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], " ") {
		t.Fatalf("expected the first (matching) row unmarked, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "*") {
		t.Fatalf("expected the second (mismatching) row marked with *, got %q", lines[2])
	}
}
