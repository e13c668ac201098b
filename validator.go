package formstate

import (
	"context"

	"github.com/tbxark/formstate/types"
)

// Validator checks a complete snapshot of form values. Fields missing from the
// returned map are valid. Validate may block; it receives the context of the
// operation that triggered it.
type Validator[T any] interface {
	Validate(ctx context.Context, values T) (types.ErrorMap, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(ctx context.Context, values T) (types.ErrorMap, error)

func (f ValidatorFunc[T]) Validate(ctx context.Context, values T) (types.ErrorMap, error) {
	return f(ctx, values)
}

// SubmitFunc receives a snapshot that passed validation.
type SubmitFunc[T any] func(ctx context.Context, values T) error

// ValidationResult reports one run of the validation pipeline.
type ValidationResult struct {
	Errors types.ErrorMap
	// Stale is set when a newer validation was issued before this one resolved.
	// Errors were not applied to the form in that case.
	Stale bool
}

// Valid reports whether the result is authoritative and carries no errors.
func (r ValidationResult) Valid() bool {
	return !r.Stale && len(r.Errors) == 0
}
