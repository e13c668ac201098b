package store

import (
	"fmt"

	"github.com/tbxark/formstate/patch"
)

// Reduce applies a to s and returns the next state. s is never modified. The
// only failure is a PatchValues whose payload does not fit T, in which case s is
// returned unchanged. Actions outside the vocabulary panic.
func Reduce[T any](s State[T], a Action) (State[T], error) {
	next := s
	switch act := a.(type) {
	case PatchValues:
		values, err := patch.Apply(s.Values, act.Values, patch.FieldsOf[T]())
		if err != nil {
			return s, fmt.Errorf("%s: %w", act.Kind(), err)
		}
		next.Values = values
	case SetErrors:
		next.Errors = act.Errors.Normalize()
		next.IsValid = len(next.Errors) == 0
	case ResetForm:
		next.Values = s.InitialValues
		next.Errors = s.InitialErrors.Normalize()
		next.IsPristine = !s.HasInitialErrors
		next.IsValid = !s.HasInitialErrors
	case SetPristine:
		next.IsPristine = act.Pristine
	case SetValid:
		next.IsValid = act.Valid
	default:
		panic(fmt.Sprintf("store: unreachable action %T", a))
	}
	next.Version = s.Version + 1
	return next, nil
}
