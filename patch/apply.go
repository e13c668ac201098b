package patch

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tbxark/formstate/types"
)

// Apply merges p onto a copy of current with shallow key overwrite. Only the
// patched fields are written; everything else, including fields JSON never
// sees, keeps its value. String input is coerced to the kind the field holds
// where that is unambiguous ("25" for a number, "true" for a bool).
func Apply[T any](current T, p types.Patch, fields Fields) (T, error) {
	if err := fields.CheckPatch(p); err != nil {
		return current, err
	}
	if len(p) == 0 {
		return current, nil
	}
	next := reflect.New(reflect.TypeOf(&current).Elem()).Elem()
	next.Set(reflect.ValueOf(&current).Elem())
	if err := applyTo(next, p); err != nil {
		return current, err
	}
	return *(next.Addr().Interface().(*T)), nil
}

// applyTo writes p into v. Pointers and maps are copied before writing so the
// caller's record is never shared with the result.
func applyTo(v reflect.Value, p types.Patch) error {
	switch v.Kind() {
	case reflect.Ptr:
		elem := reflect.New(v.Type().Elem())
		if !v.IsNil() {
			elem.Elem().Set(v.Elem())
		}
		if err := applyTo(elem.Elem(), p); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	case reflect.Interface:
		if v.IsNil() {
			return fmt.Errorf("%w: nil record", ErrTypeMismatch)
		}
		inner := reflect.New(v.Elem().Type()).Elem()
		inner.Set(v.Elem())
		if err := applyTo(inner, p); err != nil {
			return err
		}
		v.Set(inner)
		return nil
	case reflect.Struct:
		for _, name := range p.Fields() {
			index, ok := fieldIndex(v.Type(), name)
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownField, name)
			}
			field := v.Field(index)
			if err := assign(field, field.Kind(), name, p[name]); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		return applyToMap(v, p)
	default:
		return fmt.Errorf("%w: unsupported record kind %s", ErrTypeMismatch, v.Kind())
	}
}

func applyToMap(v reflect.Value, p types.Patch) error {
	typ := v.Type()
	if typ.Key().Kind() != reflect.String {
		return fmt.Errorf("%w: map record needs string keys", ErrTypeMismatch)
	}
	out := reflect.MakeMapWithSize(typ, v.Len()+len(p))
	iter := v.MapRange()
	for iter.Next() {
		out.SetMapIndex(iter.Key(), iter.Value())
	}
	for _, name := range p.Fields() {
		key := reflect.ValueOf(name).Convert(typ.Key())
		elem := reflect.New(typ.Elem()).Elem()
		kind := elem.Kind()
		if existing := v.MapIndex(key); kind == reflect.Interface && p[name] != nil && existing.IsValid() && !existing.IsNil() {
			kind = existing.Elem().Kind()
			// Keep the stored value's type when the input converts cleanly.
			typed := reflect.New(existing.Elem().Type()).Elem()
			if err := assign(typed, kind, name, p[name]); err == nil {
				out.SetMapIndex(key, typed)
				continue
			}
		}
		if err := assign(elem, kind, name, p[name]); err != nil {
			return err
		}
		out.SetMapIndex(key, elem)
	}
	v.Set(out)
	return nil
}

// assign stores value into dst, coercing it toward kind first. Values that are
// not directly assignable go through a JSON round trip into dst's type.
func assign(dst reflect.Value, kind reflect.Kind, name string, value any) error {
	value = coerceKind(kind, value)
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	raw, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrTypeMismatch, name, err)
	}
	decoded := reflect.New(dst.Type())
	if err := sonic.Unmarshal(raw, decoded.Interface()); err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrTypeMismatch, name, err)
	}
	dst.Set(decoded.Elem())
	return nil
}

func coerce(existing, value any) any {
	return coerceKind(reflect.ValueOf(existing).Kind(), value)
}

// coerceKind converts string input for numeric and bool kinds, and numbers for
// string kinds. Anything else is returned unchanged.
func coerceKind(kind reflect.Kind, value any) any {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		s, ok := value.(string)
		if !ok {
			return value
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	case reflect.Bool:
		s, ok := value.(string)
		if !ok {
			return value
		}
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b
		}
	case reflect.String:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return strconv.FormatUint(rv.Uint(), 10)
		case reflect.Float32, reflect.Float64:
			return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
		default:
		}
	default:
	}
	return value
}
