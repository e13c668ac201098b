package patch

import (
	"fmt"
	"reflect"

	"github.com/bytedance/sonic"
	"github.com/tbxark/formstate/types"
)

// Diff returns the top-level fields of to whose value differs from from. Values
// are compared after a JSON round trip so int 3 and float 3.0 are equal.
func Diff[T any](from, to T) (types.Patch, error) {
	fromMap, err := toMap(from)
	if err != nil {
		return nil, fmt.Errorf("decode base values: %w", err)
	}
	toMapped, err := toMap(to)
	if err != nil {
		return nil, fmt.Errorf("decode target values: %w", err)
	}

	out := types.Patch{}
	for key, value := range toMapped {
		prev, ok := fromMap[key]
		if !ok || !reflect.DeepEqual(prev, value) {
			out[key] = value
		}
	}
	for key := range fromMap {
		if _, ok := toMapped[key]; !ok {
			out[key] = nil
		}
	}
	return out, nil
}

func toMap(record any) (map[string]any, error) {
	raw, err := sonic.Marshal(record)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToPatch converts add/replace operations on top-level paths into a partial
// record. Any other operation is rejected.
func ToPatch(ops []Operation, fields Fields) (types.Patch, error) {
	out := make(types.Patch, len(ops))
	for i, op := range ops {
		if op.Op != OperationAdd && op.Op != OperationReplace {
			return nil, fmt.Errorf("operation %d: unsupported op %q", i, op.Op)
		}
		name, err := topLevelName(op.Path)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if err := fields.Check(name); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		out[name] = op.Value
	}
	return out, nil
}
