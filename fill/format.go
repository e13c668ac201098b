package fill

import (
	"fmt"
	"sort"
	"strings"
)

func formatAllowedFields(names []string) string {
	if len(names) == 0 {
		return "any top-level field"
	}
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString("- /")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatFieldGuidanceSection(guidance map[string]string) string {
	if len(guidance) == 0 {
		return ""
	}
	keys := make([]string, 0, len(guidance))
	for name := range guidance {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	result := "# Field guidance:\n"
	for _, name := range keys {
		result += fmt.Sprintf("- %s: %s\n", name, guidance[name])
	}
	return strings.TrimRight(result, "\n")
}
