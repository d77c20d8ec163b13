package staged

import (
	"fmt"
	"reflect"
)

// Constant holds one immutable value. It evaluates to that value and is a
// fixed point of partial evaluation.
type Constant[T any] struct {
	value T
}

func NewConstant[T any](v T) *Constant[T] {
	return &Constant[T]{value: v}
}

// Value returns the stored value.
func (c *Constant[T]) Value() T { return c.value }

func (c *Constant[T]) Eval(*Stage) (T, error) { return c.value, nil }

func (c *Constant[T]) Partial(*Stage) (Node[T], error) { return c, nil }

func (c *Constant[T]) Describe() string { return fmt.Sprintf("%#v", c.value) }

func (c *Constant[T]) valueKind() reflect.Type { return reflect.TypeFor[T]() }
