package staged

import (
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// slotRef is the stage-facing surface of a slot: the operations
// registration and binding need, without the slot's value type.
type slotRef interface {
	Expr
	slotName() string
	clear()
	replace(Expr) error
	checkRaw(any) error
	bindRaw(any) error
}

type registration struct {
	kind reflect.Type
	slot slotRef
}

// Stage is a binding environment: it owns a table of registered slot
// names and drives evaluation and partial evaluation against them. The
// table is safe for concurrent use; synchronizing evaluation against
// concurrent rebinds of an individual slot is the caller's
// responsibility.
type Stage struct {
	mu    sync.RWMutex
	id    string
	slots map[string]registration
}

// NewStage creates an empty stage with a fresh identity.
func NewStage() *Stage {
	return &Stage{
		id:    uuid.NewString(),
		slots: make(map[string]registration),
	}
}

// ID returns the stage's unique identity, as embedded in its errors.
func (st *Stage) ID() string { return st.id }

func (st *Stage) String() string { return "stage(" + st.id + ")" }

func (st *Stage) register(name string, s slotRef) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, taken := st.slots[name]; taken {
		return &NameConflictError{Stage: st.id, Name: name}
	}
	st.slots[name] = registration{kind: s.valueKind(), slot: s}
	return nil
}

// Register adds an already-constructed slot to this stage under the
// slot's own name and resets its expression cell, so any binding it
// carried from another stage is discarded. Registering anything that is
// not a slot reports ErrReplace.
func (st *Stage) Register(slot Expr) error {
	ref, ok := slot.(slotRef)
	if !ok {
		return replaceError(slot)
	}
	return st.RegisterAs(ref.slotName(), slot)
}

// RegisterAs is Register under an explicit name. On a name conflict the
// slot's cell is left untouched.
func (st *Stage) RegisterAs(name string, slot Expr) error {
	ref, ok := slot.(slotRef)
	if !ok {
		return replaceError(slot)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, taken := st.slots[name]; taken {
		return &NameConflictError{Stage: st.id, Name: name}
	}
	ref.clear()
	st.slots[name] = registration{kind: slot.valueKind(), slot: ref}
	return nil
}

// Bind replaces the cell of the slot registered under name with value.
// The value's kind must match the kind the name was registered with. A
// failed bind leaves the table and every slot unmodified.
func (st *Stage) Bind(name string, value Expr) error {
	st.mu.RLock()
	reg, ok := st.slots[name]
	st.mu.RUnlock()
	if !ok {
		return &UnknownNameError{Stage: st.id, Name: name}
	}
	if k := value.valueKind(); k != reg.kind {
		return &KindMismatchError{Name: name, Want: reg.kind, Got: k}
	}
	return reg.slot.replace(value)
}

// BindValue lifts v and binds it under name.
func BindValue[T any](st *Stage, name string, v T) error {
	return st.Bind(name, Lift(v))
}

// Lookup returns the slot registered under name.
func (st *Stage) Lookup(name string) (Expr, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	reg, ok := st.slots[name]
	if !ok {
		return nil, &UnknownNameError{Stage: st.id, Name: name}
	}
	return reg.slot, nil
}

// Names returns the registered slot names, sorted.
func (st *Stage) Names() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	names := make([]string, 0, len(st.slots))
	for name := range st.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eval evaluates n against st. Every slot reachable from n must be
// bound.
func Eval[T any](st *Stage, n Node[T]) (T, error) {
	return n.Eval(st)
}

// Partial folds everything currently bound or constant in n into new
// constants and returns the residual expression, ready to be evaluated
// repeatedly as the remaining slots get bound.
func Partial[T any](st *Stage, n Node[T]) (Node[T], error) {
	return n.Partial(st)
}
