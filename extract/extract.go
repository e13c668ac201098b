// Package extract turns input controls into typed field values.
package extract

import "strings"

// OnValue is the value a toggle control reports when no explicit value was set.
const OnValue = "on"

// Control is anything that carries raw input content.
type Control interface {
	Value() string
}

// Toggle is implemented by controls that can be activated, such as checkboxes.
type Toggle interface {
	Control
	IsToggle() bool
	Checked() bool
}

// Extractor converts a control into the value stored for its field. It must be
// pure and synchronous.
type Extractor interface {
	IsToggle(c Control) bool
	Extract(c Control) any
}

// Default is the standard extractor: toggles yield true/false, or their own value
// string when activated with a meaningful value; everything else yields raw
// content.
type Default struct{}

func (Default) IsToggle(c Control) bool {
	t, ok := c.(Toggle)
	return ok && t.IsToggle()
}

func (d Default) Extract(c Control) any {
	if c == nil {
		return nil
	}
	if !d.IsToggle(c) {
		return c.Value()
	}
	t := c.(Toggle)
	if !t.Checked() {
		return false
	}
	if v := t.Value(); v != "" && v != OnValue {
		return v
	}
	return true
}

// Input is a plain control description. Only Type "checkbox" is toggle-like;
// a radio reports its value like any other input.
type Input struct {
	Type   string
	Raw    string
	Active bool
}

// Text returns a text-like control holding raw.
func Text(raw string) Input {
	return Input{Type: "text", Raw: raw}
}

// Checkbox returns a checkbox with the generic "on" value.
func Checkbox(checked bool) Input {
	return Input{Type: "checkbox", Raw: OnValue, Active: checked}
}

func (i Input) Value() string { return i.Raw }

func (i Input) Checked() bool { return i.Active }

func (i Input) IsToggle() bool {
	return strings.EqualFold(i.Type, "checkbox")
}
