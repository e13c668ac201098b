package store

import "github.com/tbxark/formstate/types"

// Action is the closed set of state transitions accepted by Reduce.
type Action interface {
	Kind() string
	action()
}

// PatchValues merges Values onto the current values, key by key.
type PatchValues struct {
	Values types.Patch
}

// SetErrors replaces the whole error map and derives validity from it.
type SetErrors struct {
	Errors types.ErrorMap
}

// ResetForm restores the values and errors captured at construction.
type ResetForm struct{}

type SetPristine struct {
	Pristine bool
}

type SetValid struct {
	Valid bool
}

func (PatchValues) Kind() string { return "patch_values" }
func (SetErrors) Kind() string   { return "set_errors" }
func (ResetForm) Kind() string   { return "reset_form" }
func (SetPristine) Kind() string { return "set_pristine" }
func (SetValid) Kind() string    { return "set_valid" }

func (PatchValues) action() {}
func (SetErrors) action()   {}
func (ResetForm) action()   {}
func (SetPristine) action() {}
func (SetValid) action()    {}
