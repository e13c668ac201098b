package store

import (
	"github.com/tbxark/formstate/patch"
	"github.com/tbxark/formstate/types"
)

// State is an immutable snapshot of a form. Reduce always returns a new value;
// maps held by a State are never written after it is produced.
type State[T any] struct {
	InitialValues    T              `json:"initial_values"`
	InitialErrors    types.ErrorMap `json:"initial_errors"`
	HasInitialErrors bool           `json:"has_initial_errors"`
	Values           T              `json:"values"`
	Errors           types.ErrorMap `json:"errors"`
	IsPristine       bool           `json:"is_pristine"`
	IsValid          bool           `json:"is_valid"`
	// Version increments on every reduced action.
	Version uint64 `json:"version"`
}

// New builds the starting state. A non-empty initialErrors marks the form as
// already attempted and invalid.
func New[T any](initialValues T, initialErrors types.ErrorMap) State[T] {
	errs := initialErrors.Normalize()
	hasErrors := len(errs) > 0
	return State[T]{
		InitialValues:    initialValues,
		InitialErrors:    errs,
		HasInitialErrors: hasErrors,
		Values:           initialValues,
		Errors:           errs.Normalize(),
		IsPristine:       !hasErrors,
		IsValid:          !hasErrors,
	}
}

// Field reads a current value by field name.
func (s State[T]) Field(name string) (any, bool) {
	return patch.Lookup(s.Values, name)
}

// Error returns the current message for a field, or "".
func (s State[T]) Error(name string) string {
	return s.Errors[name]
}
