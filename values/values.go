// Package values defines the contract the engine requires of every value
// type that flows through a graph: structural validity, approximate
// equality, deep copy, and a conservative memory-aliasing predicate.
//
// The engine is agnostic to numeric representation. Everything it can
// assert about correctness reduces to these four primitives, supplied by
// the value's own Type.
package values

// Type is the contract a variable's value type must satisfy. An
// implementation owns the tolerance of its own approximate equality; the
// engine never second-guesses it.
type Type interface {
	// Name identifies the type for diagnostics and for the "an
	// equivalence class contains variables of a single type" invariant.
	Name() string

	// IsValid reports whether x is a structurally well-formed value of
	// this type (the right shape, the right element kind, and so on).
	IsValid(x Value) bool

	// EqualsApprox reports whether x and y are equal up to the type's
	// own floating-point tolerance. Must be reflexive and symmetric;
	// transitivity is not required.
	EqualsApprox(x, y Value) bool

	// DeepCopy returns a value sharing no storage with x.
	DeepCopy(x Value) Value

	// MaySharesMemory conservatively reports whether x and y could be
	// backed by overlapping storage. False negatives are forbidden for
	// dense-array-like values: when in doubt, return true.
	MaySharesMemory(x, y Value) bool
}

// Value is an opaque value handle. The engine never inspects it directly;
// every operation on a Value goes through its Type.
type Value interface{}

// MutableInPlace is an optional capability a Value may implement: it lets
// the linker overwrite a destroyed graph input's final value into the
// same container the caller originally supplied, rather than handing
// back a different Value, so caller-visible identity of the input
// container survives a destructive operator (§4.E's result-transfer
// step). For values that don't implement it the linker writes nothing
// back: the caller's container keeps its pre-run contents.
type MutableInPlace interface {
	OverwriteWith(src Value)
}
