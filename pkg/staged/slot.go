package staged

import "reflect"

// Slot is a named placeholder whose concrete expression is supplied later
// by binding it through a stage. It is the only node variant whose
// internal expression cell can be replaced after construction; the cell
// starts as a failing expression carrying the slot's name.
type Slot[T any] struct {
	name string
	expr Node[T]
}

// NewSlot constructs a slot and registers it with st under name.
func NewSlot[T any](st *Stage, name string) (*Slot[T], error) {
	s := &Slot[T]{name: name, expr: &unbound[T]{name: name}}
	if err := st.register(name, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the slot's own name, the one its failing expression
// reports. Stages may register the slot under a different name.
func (s *Slot[T]) Name() string { return s.name }

func (s *Slot[T]) Eval(st *Stage) (T, error) { return s.expr.Eval(st) }

// Partial evaluates the slot's current expression. An unbound slot stays
// symbolic: the slot itself is the residual, so it re-checks its cell on
// every later evaluation. A bound slot returns the partial evaluation of
// its binding, so a constant binding folds and the residual is insulated
// from later rebinds.
func (s *Slot[T]) Partial(st *Stage) (Node[T], error) {
	if _, open := s.expr.(*unbound[T]); open {
		return s, nil
	}
	return s.expr.Partial(st)
}

func (s *Slot[T]) Describe() string { return "slot(" + s.name + ")" }

func (s *Slot[T]) valueKind() reflect.Type { return reflect.TypeFor[T]() }

func (s *Slot[T]) slotName() string { return s.name }

func (s *Slot[T]) clear() { s.expr = &unbound[T]{name: s.name} }

func (s *Slot[T]) replace(e Expr) error {
	n, ok := e.(Node[T])
	if !ok {
		return &KindMismatchError{Name: s.name, Want: reflect.TypeFor[T](), Got: e.valueKind()}
	}
	s.expr = n
	return nil
}

func (s *Slot[T]) checkRaw(v any) error {
	_, err := s.coerceRaw(v)
	return err
}

func (s *Slot[T]) bindRaw(v any) error {
	x, err := s.coerceRaw(v)
	if err != nil {
		return err
	}
	s.expr = NewConstant(x)
	return nil
}

func (s *Slot[T]) coerceRaw(v any) (T, error) {
	if x, ok := v.(T); ok {
		return x, nil
	}
	want := reflect.TypeFor[T]()
	if n, ok := coerceNumeric(v, want); ok {
		return n.(T), nil
	}
	var zero T
	return zero, &KindMismatchError{Name: s.name, Want: want, Got: reflect.TypeOf(v)}
}

// Replace swaps the internal expression of target for value. Only slots
// support replacement; every other variant reports ErrReplace.
func Replace(target, value Expr) error {
	ref, ok := target.(slotRef)
	if !ok {
		return replaceError(target)
	}
	return ref.replace(value)
}

// unbound is the failing expression every slot starts with. Evaluating it
// reports which slot still has no binding.
type unbound[T any] struct {
	name string
}

func (u *unbound[T]) Eval(*Stage) (T, error) {
	var zero T
	return zero, &UnboundSlotError{Name: u.name}
}

func (u *unbound[T]) Partial(*Stage) (Node[T], error) { return u, nil }

func (u *unbound[T]) Describe() string { return "unbound(" + u.name + ")" }

func (u *unbound[T]) valueKind() reflect.Type { return reflect.TypeFor[T]() }
