package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyOperations applies RFC6902 operations to the JSON form of current and
// decodes the result into a fresh T. Fields without a JSON representation come
// back zeroed, so use it to check generated operations, and Apply to change a
// record.
func ApplyOperations[T any](current T, ops []Operation) (T, error) {
	if len(ops) == 0 {
		return current, nil
	}

	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return current, fmt.Errorf("marshal current values: %w", err)
	}
	if string(currentJSON) == "null" {
		currentJSON = []byte("{}")
	}

	ops = FixOperations(currentJSON, ops)

	patchJSON, err := sonic.Marshal(ops)
	if err != nil {
		return current, fmt.Errorf("marshal patch operations: %w", err)
	}
	decoded, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return current, fmt.Errorf("decode patch: %w", err)
	}
	modifiedJSON, err := decoded.Apply(currentJSON)
	if err != nil {
		return current, fmt.Errorf("apply patch: %w", err)
	}

	var result T
	if err := sonic.Unmarshal(modifiedJSON, &result); err != nil {
		return current, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return result, nil
}

// FixOperations adapts ops to the current document: replace on a missing path
// becomes add, remove on a missing path is dropped, and top-level values are
// coerced to the kind already stored at their path.
func FixOperations(currentJSON []byte, ops []Operation) []Operation {
	var doc any
	if err := sonic.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case OperationReplace, OperationAdd:
			existing, ok := lookupPath(doc, op.Path)
			if !ok {
				op.Op = OperationAdd
			} else {
				op.Value = coerce(existing, op.Value)
			}
			fixed = append(fixed, op)
		case OperationRemove:
			if _, ok := lookupPath(doc, op.Path); ok {
				fixed = append(fixed, op)
			}
		default:
			fixed = append(fixed, op)
		}
	}
	return fixed
}

func lookupPath(doc any, path string) (any, bool) {
	if path == "" {
		return doc, true
	}
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}

	cur := doc
	for _, token := range strings.Split(path[1:], "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		switch node := cur.(type) {
		case map[string]any:
			value, ok := node[token]
			if !ok {
				return nil, false
			}
			cur = value
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			cur = node[index]
		default:
			return nil, false
		}
	}
	return cur, true
}
