package staged

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel error kinds. Concrete errors unwrap to one of these, so
// callers classify with errors.Is and pull details with errors.As.
var (
	// ErrReplace reports an attempt to replace the internal expression
	// of a node that does not support replacement, or to replace a
	// slot's cell with an incompatible expression. It signals a usage
	// bug, not a recoverable condition.
	ErrReplace = errors.New("staged: replace not supported")

	// ErrNameResolution reports a slot name that could not be resolved
	// against a stage, including registration conflicts.
	ErrNameResolution = errors.New("staged: name resolution failed")

	// ErrEvaluation reports an evaluation that reached an unbound slot.
	ErrEvaluation = errors.New("staged: evaluation failed")
)

// NameConflictError reports a name registered twice in one stage.
type NameConflictError struct {
	Stage string
	Name  string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("stage %s: slot %q is already registered", e.Stage, e.Name)
}

func (e *NameConflictError) Unwrap() error { return ErrNameResolution }

// UnknownNameError reports a bind or lookup naming a slot the stage
// never registered.
type UnknownNameError struct {
	Stage string
	Name  string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("stage %s: slot %q is not registered", e.Stage, e.Name)
}

func (e *UnknownNameError) Unwrap() error { return ErrNameResolution }

// UnboundSlotError reports evaluation reaching a slot whose cell still
// holds the failing placeholder.
type UnboundSlotError struct {
	Name string
}

func (e *UnboundSlotError) Error() string {
	return fmt.Sprintf("slot %q has no binding", e.Name)
}

func (e *UnboundSlotError) Unwrap() error { return ErrEvaluation }

// KindMismatchError reports a value whose kind does not match the kind a
// slot was registered with.
type KindMismatchError struct {
	Name string
	Want reflect.Type
	Got  reflect.Type
}

func (e *KindMismatchError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("cannot use %v where %v is required", e.Got, e.Want)
	}
	return fmt.Sprintf("slot %q holds %v, cannot bind %v", e.Name, e.Want, e.Got)
}

func (e *KindMismatchError) Unwrap() error { return ErrReplace }

func replaceError(e Expr) error {
	return fmt.Errorf("%w: %s", ErrReplace, e.Describe())
}
