// Package fixtures is a small catalog of concrete operators over
// *values.Tensor: the reference thunks, a deliberately perturbable
// compiled "add" thunk, and the node constructors that wire each
// operator's destroy/view declarations correctly (or, for a few named
// variants, incorrectly on purpose). It plays the same role for this
// module's demos and tests that kanso's stdlib.GetStandardModules plays
// for kanso's compiler: a lookup table of known, named, ready-to-use
// definitions that the rest of the program consumes by name.
package fixtures

import (
	"fmt"

	"dbgengine/graph"
	"dbgengine/linker"
	"dbgengine/values"
)

// Op is an graph.Operator identified only by its name, the simplest
// possible implementation of that interface.
type Op string

func (o Op) Name() string { return string(o) }

const (
	Add        Op = "add"
	Mul        Op = "mul"
	Neg        Op = "neg"
	NegInplace Op = "neg_inplace"
	Transpose  Op = "transpose"
	Double     Op = "double"
)

// ConstOp is a zero-input operator that always produces the tensor it
// was built with. Unlike the named Op constants, each ConstOp instance
// carries its own payload, read back out of node.Op inside constThunk.
type ConstOp struct {
	Value *values.Tensor
}

func (c ConstOp) Name() string { return "const" }

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

func mulThunk(node *graph.Node, inputs []values.Value, outputs []*linker.Cell) error {
	a := inputs[0].(*values.Tensor)
	b := inputs[1].(*values.Tensor)
	out := make([]float64, len(a.Data))
	for i := range a.Data {
		out[i] = a.Data[i] * b.Data[i]
	}
	outputs[0].Set(values.NewTensor(out...))
	return nil
}

func negThunk(node *graph.Node, inputs []values.Value, outputs []*linker.Cell) error {
	in := inputs[0].(*values.Tensor)
	out := make([]float64, len(in.Data))
	for i, v := range in.Data {
		out[i] = -v
	}
	outputs[0].Set(values.NewTensor(out...))
	return nil
}

// negInplaceThunk mutates its bound input cell directly, the behavior
// NewNegInplaceNode declares via DestroyMap and NewBuggyNegInplaceNode
// does not.
func negInplaceThunk(node *graph.Node, inputs []values.Value, outputs []*linker.Cell) error {
	in := inputs[0].(*values.Tensor)
	for i := range in.Data {
		in.Data[i] = -in.Data[i]
	}
	outputs[0].Set(in)
	return nil
}

// transposeThunk hands back a *Tensor built over in's own backing array
// rather than a copy, the aliasing NewTransposeNode declares via ViewMap
// and NewBuggyTransposeNode does not.
func transposeThunk(node *graph.Node, inputs []values.Value, outputs []*linker.Cell) error {
	in := inputs[0].(*values.Tensor)
	outputs[0].Set(&values.Tensor{Shape: append([]int(nil), in.Shape...), Data: in.Data})
	return nil
}

func doubleThunk(node *graph.Node, inputs []values.Value, outputs []*linker.Cell) error {
	in := inputs[0].(*values.Tensor)
	out := make([]float64, len(in.Data))
	for i, v := range in.Data {
		out[i] = 2 * v
	}
	outputs[0].Set(values.NewTensor(out...))
	return nil
}

func constThunk(node *graph.Node, inputs []values.Value, outputs []*linker.Cell) error {
	c, ok := node.Op.(ConstOp)
	if !ok {
		return fmt.Errorf("fixtures: const thunk invoked on a node whose operator is not ConstOp")
	}
	outputs[0].Set(node.Outputs[0].Type.DeepCopy(c.Value))
	return nil
}

// CompiledAdd builds a compiled "add" kernel. When broken is true it
// perturbs every output element past any reasonable tolerance,
// reproducing the backend-disagreement scenario on demand instead of
// relying on an accidental bug.
func CompiledAdd(broken bool) linker.CompiledBuilder {
	return func(node *graph.Node) (linker.Thunk, error) {
		return func(node *graph.Node, inputs []values.Value, outputs []*linker.Cell) error {
			a := inputs[0].(*values.Tensor)
			b := inputs[1].(*values.Tensor)
			out := make([]float64, len(a.Data))
			for i := range a.Data {
				out[i] = a.Data[i] + b.Data[i]
				if broken {
					out[i] += 0.5
				}
			}
			outputs[0].Set(values.NewTensor(out...))
			return nil
		}, nil
	}
}

// Registry returns the operator table for every fixture operator.
// brokenCompiledAdd wires CompiledAdd's perturbed kernel in place of the
// correct one, for exercising the compiled-backend-disagreement check.
func Registry(brokenCompiledAdd bool) linker.Registry {
	return linker.Registry{
		Add.Name():        {Reference: addThunk, Compiled: CompiledAdd(brokenCompiledAdd)},
		Mul.Name():        {Reference: mulThunk},
		Neg.Name():        {Reference: negThunk},
		NegInplace.Name(): {Reference: negInplaceThunk},
		Transpose.Name():  {Reference: transposeThunk},
		Double.Name():     {Reference: doubleThunk},
		ConstOp{}.Name():  {Reference: constThunk},
	}
}
