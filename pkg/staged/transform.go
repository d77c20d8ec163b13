package staged

import "reflect"

// mapped applies a pure function to the value of its source node.
type mapped[T, U any] struct {
	src Node[T]
	fn  func(T) U
	op  string // operator label for Describe, "" for plain maps
}

// Map composes src with a pure function.
func Map[T, U any](src Node[T], fn func(T) U) Node[U] {
	return &mapped[T, U]{src: src, fn: fn}
}

func (m *mapped[T, U]) Eval(st *Stage) (U, error) {
	v, err := m.src.Eval(st)
	if err != nil {
		var zero U
		return zero, err
	}
	return m.fn(v), nil
}

// Partial folds the node to a constant when its source folds to one; the
// function then runs once, here, and never again on the residual.
func (m *mapped[T, U]) Partial(st *Stage) (Node[U], error) {
	r, err := m.src.Partial(st)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(*Constant[T]); ok {
		return NewConstant(m.fn(c.value)), nil
	}
	return &mapped[T, U]{src: r, fn: m.fn, op: m.op}, nil
}

func (m *mapped[T, U]) Describe() string {
	if m.op != "" {
		return "(" + m.op + " " + m.src.Describe() + ")"
	}
	return "map(" + m.src.Describe() + ")"
}

func (m *mapped[T, U]) valueKind() reflect.Type { return reflect.TypeFor[U]() }

// flatMapped sequences its source with a function producing the next
// node; that node is evaluated in the same stage as the outer call, so a
// slot's bound value can decide which further slots get evaluated.
type flatMapped[T, U any] struct {
	src  Node[T]
	fn   func(T) Node[U]
	note string // display form for operator sugar, "" otherwise
}

// FlatMap composes src with a function that itself returns a lifted
// value.
func FlatMap[T, U any](src Node[T], fn func(T) Node[U]) Node[U] {
	return &flatMapped[T, U]{src: src, fn: fn}
}

func (f *flatMapped[T, U]) Eval(st *Stage) (U, error) {
	v, err := f.src.Eval(st)
	if err != nil {
		var zero U
		return zero, err
	}
	return f.fn(v).Eval(st)
}

// Partial rewraps the residual source. Nothing folds across the flat-map
// boundary: the inner node only exists once the source has a concrete
// value.
func (f *flatMapped[T, U]) Partial(st *Stage) (Node[U], error) {
	r, err := f.src.Partial(st)
	if err != nil {
		return nil, err
	}
	return &flatMapped[T, U]{src: r, fn: f.fn, note: f.note}, nil
}

func (f *flatMapped[T, U]) Describe() string {
	if f.note != "" {
		return f.note
	}
	return "bind(" + f.src.Describe() + ")"
}

func (f *flatMapped[T, U]) valueKind() reflect.Type { return reflect.TypeFor[U]() }
