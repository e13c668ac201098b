package formstate

import (
	"log/slog"

	"github.com/tbxark/formstate/extract"
	"github.com/tbxark/formstate/types"
)

// Config describes a form. Only InitialValues is required.
type Config[T any] struct {
	InitialValues T
	// InitialErrors, when non-empty, starts the form non-pristine and invalid.
	InitialErrors types.ErrorMap

	// Validator runs on every change and submit. A nil Validator treats the form as
	// always valid.
	Validator Validator[T]
	OnSubmit  SubmitFunc[T]

	// Extractor defaults to extract.Default.
	Extractor extract.Extractor
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// ID names the controller in log lines; a random UUID is used when empty.
	ID string
}

// ChangeOptions tune a single change or update.
type ChangeOptions struct {
	SkipValidation bool
}
