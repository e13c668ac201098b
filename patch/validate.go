package patch

import (
	"fmt"
	"strings"
)

// ValidateOperations checks that every operation targets a single known field.
func ValidateOperations(ops []Operation, fields Fields) error {
	for i, op := range ops {
		name, err := topLevelName(op.Path)
		if err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		if err := fields.Check(name); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

func topLevelName(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("path %q is not a JSON pointer", path)
	}
	token := path[1:]
	if token == "" || strings.Contains(token, "/") {
		return "", fmt.Errorf("path %q does not name a top-level field", path)
	}
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~"), nil
}
