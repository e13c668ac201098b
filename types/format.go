package types

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// FormatFields renders field descriptions as a markdown table.
func FormatFields(fields []FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Name", "Required", "Description")
	for _, field := range fields {
		_ = table.Append(field.DisplayName, field.Name, fmt.Sprint(field.Required), field.Description)
	}
	_ = table.Render()
	return buf.String()
}

// FormatErrors renders an error map as a markdown table ordered by field name.
func FormatErrors(errs ErrorMap) string {
	if len(errs) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Error")
	for _, field := range errs.Fields() {
		_ = table.Append(field, errs[field])
	}
	_ = table.Render()
	return buf.String()
}

// FormatPatch renders a partial record as a markdown table ordered by field name.
func FormatPatch(p Patch) string {
	if len(p) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value")
	for _, field := range p.Fields() {
		_ = table.Append(field, fmt.Sprint(p[field]))
	}
	_ = table.Render()
	return buf.String()
}
