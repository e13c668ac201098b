package formstate

import (
	"context"
	"fmt"

	"github.com/tbxark/formstate/extract"
)

// FieldBinding projects one field for an input control. Boolean fields report
// Checked instead of Value.
type FieldBinding struct {
	Name    string
	Value   any
	Toggle  bool
	Checked bool
	// OnChange feeds a control back into HandleChange with the binding's options.
	OnChange func(ctx context.Context, control extract.Control) error
}

// BindField returns the read/write projection of a field.
func (c *Controller[T]) BindField(name string, opts ChangeOptions) (FieldBinding, error) {
	if err := c.fields.Check(name); err != nil {
		return FieldBinding{}, fmt.Errorf("formstate: bind: %w", err)
	}
	binding := FieldBinding{
		Name: name,
		OnChange: func(ctx context.Context, control extract.Control) error {
			return c.HandleChange(ctx, name, control, opts)
		},
	}
	value, _ := c.Snapshot().Field(name)
	if checked, ok := value.(bool); ok {
		binding.Toggle = true
		binding.Checked = checked
		return binding, nil
	}
	binding.Value = value
	return binding, nil
}

// BindFieldError returns the field's message once the form is no longer
// pristine, and "" before that.
func (c *Controller[T]) BindFieldError(name string) string {
	s := c.Snapshot()
	if s.IsPristine {
		return ""
	}
	return s.Errors[name]
}
