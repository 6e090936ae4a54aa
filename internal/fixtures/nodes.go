package fixtures

import (
	"dbgengine/graph"
	"dbgengine/values"
)

// NewAddNode and NewMulNode are pure, elementwise, no destroy or view
// declarations needed.
func NewAddNode(x, y, z *graph.Variable) *graph.Node {
	return graph.NewNode(Add, []*graph.Variable{x, y}, []*graph.Variable{z}, nil, nil)
}

func NewMulNode(x, y, z *graph.Variable) *graph.Node {
	return graph.NewNode(Mul, []*graph.Variable{x, y}, []*graph.Variable{z}, nil, nil)
}

func NewNegNode(x, y *graph.Variable) *graph.Node {
	return graph.NewNode(Neg, []*graph.Variable{x}, []*graph.Variable{y}, nil, nil)
}

// NewNegInplaceNode declares that output 0 destroys input 0, matching
// negInplaceThunk's actual in-place mutation.
func NewNegInplaceNode(x, y *graph.Variable) *graph.Node {
	return graph.NewNode(NegInplace, []*graph.Variable{x}, []*graph.Variable{y}, map[int][]int{0: {0}}, nil)
}

// NewBuggyNegInplaceNode runs the identical mutating thunk as
// NewNegInplaceNode but omits the destroy declaration, reproducing an
// undeclared-mutation bug for the destroy-map check to catch.
func NewBuggyNegInplaceNode(x, y *graph.Variable) *graph.Node {
	return graph.NewNode(NegInplace, []*graph.Variable{x}, []*graph.Variable{y}, nil, nil)
}

// NewTransposeNode declares that output 0 aliases input 0, matching
// transposeThunk's shared backing array.
func NewTransposeNode(x, y *graph.Variable) *graph.Node {
	return graph.NewNode(Transpose, []*graph.Variable{x}, []*graph.Variable{y}, nil, map[int][]int{0: {0}})
}

// NewBuggyTransposeNode runs the identical aliasing thunk as
// NewTransposeNode but omits the view declaration, reproducing an
// undeclared-alias bug for the view-map check to catch.
func NewBuggyTransposeNode(x, y *graph.Variable) *graph.Node {
	return graph.NewNode(Transpose, []*graph.Variable{x}, []*graph.Variable{y}, nil, nil)
}

func NewDoubleNode(x, y *graph.Variable) *graph.Node {
	return graph.NewNode(Double, []*graph.Variable{x}, []*graph.Variable{y}, nil, nil)
}

func NewConstNode(value *values.Tensor, out *graph.Variable) *graph.Node {
	return graph.NewNode(ConstOp{Value: value}, nil, []*graph.Variable{out}, nil, nil)
}
