// Package staged builds symbolic expression trees ("lifted values") that
// can be evaluated against a binding environment now, or partially
// evaluated to fold away everything currently known while leaving the
// unresolved parts as a residual expression to finish later.
package staged

import "reflect"

// Expr is the untyped view of a lifted value. The variant set is closed:
// all implementations live in this package.
type Expr interface {
	// Describe renders the expression for diagnostics.
	Describe() string

	valueKind() reflect.Type
}

// Node is a lifted value of type T: an expression tree that produces a T
// when evaluated against a stage.
type Node[T any] interface {
	Expr

	// Eval fully evaluates the expression. Every slot reachable from it
	// must be bound.
	Eval(st *Stage) (T, error)

	// Partial folds everything currently bound or constant into new
	// constants and returns an equivalent residual expression; parts
	// still unknown stay symbolic and pick up later bindings.
	Partial(st *Stage) (Node[T], error)
}

// Lift wraps a raw value as a constant. A value that is already a lifted
// node of the right type is returned unchanged rather than wrapped twice.
func Lift[T any](v T) Node[T] {
	if n, ok := any(v).(Node[T]); ok {
		return n
	}
	return NewConstant(v)
}

// Operand normalizes a node-or-raw operand to a Node[T]: lifted values
// pass through unchanged, raw T values are wrapped as constants.
func Operand[T any](v any) (Node[T], error) {
	switch x := v.(type) {
	case Node[T]:
		return x, nil
	case T:
		return NewConstant(x), nil
	default:
		return nil, &KindMismatchError{Want: reflect.TypeFor[T](), Got: reflect.TypeOf(v)}
	}
}
