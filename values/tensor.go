package values

import (
	"fmt"
	"math"
	"unsafe"
)

// Tensor is the reference Value implementation used by the fixture
// operator library and by this module's own tests. It is a named, shaped,
// dense slice of float64 — simple enough to reason about in tests, rich
// enough to exercise every invariant in §3: aliasing (two Tensors can
// share a backing array), mutation (NegInplace flips Data in place), and
// approximate equality (tolerant of floating-point noise).
type Tensor struct {
	Shape []int
	Data  []float64
}

// NewTensor builds a 1-D tensor from literal values, the shape used by
// every literal scenario in the spec (e.g. x=[1.0], y=[2.0]).
func NewTensor(data ...float64) *Tensor {
	return &Tensor{Shape: []int{len(data)}, Data: append([]float64(nil), data...)}
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v%v", t.Shape, t.Data)
}

// OverwriteWith implements values.MutableInPlace: it copies src's shape
// and data into t's own backing slices (reusing t.Data's array when the
// length already matches) rather than replacing t itself, so a caller
// holding a *Tensor handle sees the post-destruction value without the
// linker needing to hand back a different pointer.
func (t *Tensor) OverwriteWith(src Value) {
	s, ok := src.(*Tensor)
	if !ok || s == nil {
		return
	}
	t.Shape = append(t.Shape[:0], s.Shape...)
	if len(t.Data) == len(s.Data) {
		copy(t.Data, s.Data)
	} else {
		t.Data = append([]float64(nil), s.Data...)
	}
}

// TensorType is the Type implementation for *Tensor values, parameterized
// by rank (number of dimensions) so that TensorType instances of different
// rank are distinct types with distinct Names (the "an equivalence class
// contains variables of a single type" invariant is checked against this).
type TensorType struct {
	Rank int
	Atol float64
	Rtol float64
}

// NewTensorType returns a TensorType with Theano-style default tolerances.
func NewTensorType(rank int) *TensorType {
	return &TensorType{Rank: rank, Atol: 1e-8, Rtol: 1e-5}
}

func (tt *TensorType) Name() string {
	return fmt.Sprintf("Tensor%d", tt.Rank)
}

func (tt *TensorType) IsValid(x Value) bool {
	t, ok := x.(*Tensor)
	if !ok || t == nil {
		return false
	}
	if len(t.Shape) != tt.Rank {
		return false
	}
	want := 1
	for _, d := range t.Shape {
		if d < 0 {
			return false
		}
		want *= d
	}
	if len(t.Data) != want {
		return false
	}
	for _, v := range t.Data {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (tt *TensorType) EqualsApprox(x, y Value) bool {
	a, aok := x.(*Tensor)
	b, bok := y.(*Tensor)
	if !aok || !bok || a == nil || b == nil {
		return false
	}
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	if len(a.Data) != len(b.Data) {
		return false
	}
	atol, rtol := tt.Atol, tt.Rtol
	if atol == 0 && rtol == 0 {
		atol, rtol = 1e-8, 1e-5
	}
	for i := range a.Data {
		diff := math.Abs(a.Data[i] - b.Data[i])
		tolerance := atol + rtol*math.Abs(b.Data[i])
		if diff > tolerance {
			return false
		}
	}
	return true
}

func (tt *TensorType) DeepCopy(x Value) Value {
	t := x.(*Tensor)
	return &Tensor{
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float64(nil), t.Data...),
	}
}

// MaySharesMemory reports whether the address ranges of the two Tensors'
// Data overlap, so views of the same backing array at different offsets
// (a Data[2:] slice of the same array, say) are reported too.
func (tt *TensorType) MaySharesMemory(x, y Value) bool {
	a, aok := x.(*Tensor)
	b, bok := y.(*Tensor)
	if !aok || !bok || a == nil || b == nil {
		return false
	}
	if len(a.Data) == 0 || len(b.Data) == 0 {
		return false
	}
	elem := unsafe.Sizeof(a.Data[0])
	aStart := uintptr(unsafe.Pointer(&a.Data[0]))
	bStart := uintptr(unsafe.Pointer(&b.Data[0]))
	aEnd := aStart + uintptr(len(a.Data))*elem
	bEnd := bStart + uintptr(len(b.Data))*elem
	return aStart < bEnd && bStart < aEnd
}
