package types

import "sort"

// ErrorMap holds one human-readable message per field name. A missing key means
// the field has no error; empty messages are never stored.
type ErrorMap map[string]string

// Patch is a partial record keyed by field name.
type Patch map[string]any

// FieldInfo describes a form field for prompts and UIs.
type FieldInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Normalize returns a copy of m without empty messages. It never returns nil.
func (m ErrorMap) Normalize() ErrorMap {
	out := make(ErrorMap, len(m))
	for field, msg := range m {
		if msg == "" {
			continue
		}
		out[field] = msg
	}
	return out
}

// Merge returns a copy of m with other layered on top. An empty message in other
// removes the field's error.
func (m ErrorMap) Merge(other ErrorMap) ErrorMap {
	out := m.Normalize()
	for field, msg := range other {
		if msg == "" {
			delete(out, field)
			continue
		}
		out[field] = msg
	}
	return out
}

// Fields returns the field names carrying an error, sorted.
func (m ErrorMap) Fields() []string {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (p Patch) Clone() Patch {
	if p == nil {
		return nil
	}
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Fields returns the patched field names, sorted.
func (p Patch) Fields() []string {
	fields := make([]string, 0, len(p))
	for field := range p {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
