package patch

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tbxark/formstate/types"
)

// Fields is the set of field names a record accepts. An empty set accepts any
// name, which is how map-shaped records are handled.
type Fields map[string]bool

// FieldsOf collects the top-level field names of T.
func FieldsOf[T any]() Fields {
	names := FieldNames[T]()
	fields := make(Fields, len(names))
	for _, name := range names {
		fields[name] = true
	}
	return fields
}

// FieldNames returns the JSON names of T's exported fields in declaration order.
// Non-struct records yield no names.
func FieldNames[T any]() []string {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return []string{}
	}
	names := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonFieldName(field)
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (f Fields) Check(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownField)
	}
	if len(f) == 0 || f[name] {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func (f Fields) CheckPatch(p types.Patch) error {
	for _, name := range p.Fields() {
		if err := f.Check(name); err != nil {
			return err
		}
	}
	return nil
}

// Lookup reads a field by JSON name from a struct or string-keyed map, following
// pointers.
func Lookup(record any, name string) (any, bool) {
	val := reflect.ValueOf(record)
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil, false
		}
		val = val.Elem()
	}
	switch val.Kind() {
	case reflect.Struct:
		if index, ok := fieldIndex(val.Type(), name); ok {
			return val.Field(index).Interface(), true
		}
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		item := val.MapIndex(reflect.ValueOf(name).Convert(val.Type().Key()))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true
	default:
	}
	return nil, false
}

// fieldIndex finds the exported field of typ whose JSON name is name.
func fieldIndex(typ reflect.Type, name string) (int, bool) {
	if name == "" || name == "-" {
		return 0, false
	}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.IsExported() && jsonFieldName(field) == name {
			return i, true
		}
	}
	return 0, false
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		return parts[0]
	}
	return field.Name
}
