package patch

import "errors"

const (
	OperationAdd     = "add"
	OperationReplace = "replace"
	OperationRemove  = "remove"
)

var (
	// ErrUnknownField is returned when a field name is not part of the record.
	ErrUnknownField = errors.New("patch: unknown field")
	// ErrTypeMismatch is returned when a value cannot be stored in its field.
	ErrTypeMismatch = errors.New("patch: type mismatch")
)

// Operation is a single RFC6902 operation.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}
