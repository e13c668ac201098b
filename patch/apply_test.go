package patch_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tbxark/formstate/patch"
	"github.com/tbxark/formstate/types"
)

type profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Remember bool   `json:"remember"`
	Note     string `json:"note,omitempty"`
	internal string
}

func TestFieldNames(t *testing.T) {
	want := []string{"name", "email", "age", "remember", "note"}
	if diff := cmp.Diff(want, patch.FieldNames[profile]()); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
	if got := patch.FieldNames[map[string]any](); len(got) != 0 {
		t.Fatalf("expected no names for map record, got %v", got)
	}
}

func TestApplyMergesLeftToRight(t *testing.T) {
	fields := patch.FieldsOf[profile]()
	current := profile{Name: "", Email: "old@example.com"}
	patches := []types.Patch{
		{"name": "Alice"},
		{"age": 30, "note": "first"},
		{"name": "Alicia", "remember": true},
	}
	for _, p := range patches {
		next, err := patch.Apply(current, p, fields)
		if err != nil {
			t.Fatalf("apply %v: %v", p, err)
		}
		current = next
	}
	want := profile{Name: "Alicia", Email: "old@example.com", Age: 30, Remember: true, Note: "first"}
	if diff := cmp.Diff(want, current, cmp.AllowUnexported(profile{})); diff != "" {
		t.Fatalf("merged values mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyCoercesStringInput(t *testing.T) {
	fields := patch.FieldsOf[profile]()
	got, err := patch.Apply(profile{Age: 7}, types.Patch{"age": "25", "remember": "true"}, fields)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Age != 25 || !got.Remember {
		t.Fatalf("expected coerced age and remember, got %+v", got)
	}

	got, err = patch.Apply(got, types.Patch{"age": "", "name": 42}, fields)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Age != 0 || got.Name != "42" {
		t.Fatalf("expected cleared age and stringified name, got %+v", got)
	}
}

func TestApplyRejectsUnknownField(t *testing.T) {
	current := profile{Name: "keep"}
	got, err := patch.Apply(current, types.Patch{"nickname": "x"}, patch.FieldsOf[profile]())
	if !errors.Is(err, patch.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if got.Name != "keep" {
		t.Fatalf("state changed on error: %+v", got)
	}
}

func TestApplyTypeMismatch(t *testing.T) {
	_, err := patch.Apply(profile{}, types.Patch{"age": "twenty"}, patch.FieldsOf[profile]())
	if !errors.Is(err, patch.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestApplyMapRecord(t *testing.T) {
	current := map[string]any{"name": "", "count": 1}
	got, err := patch.Apply(current, types.Patch{"name": "x", "count": "3", "extra": true}, patch.FieldsOf[map[string]any]())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := map[string]any{"name": "x", "count": 3, "extra": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("map record mismatch (-want +got):\n%s", diff)
	}
	if current["name"] != "" {
		t.Fatalf("input map mutated: %v", current)
	}
}

type account struct {
	Name   string `json:"name"`
	Secret string `json:"-"`
	Tags   []string
	token  string
}

func TestApplyKeepsFieldsOutsideJSON(t *testing.T) {
	current := account{Name: "a", Secret: "keep", Tags: []string{"x"}, token: "t"}
	got, err := patch.Apply(current, types.Patch{"name": "b"}, patch.FieldsOf[account]())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := account{Name: "b", Secret: "keep", Tags: []string{"x"}, token: "t"}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(account{})); diff != "" {
		t.Fatalf("untouched fields changed (-want +got):\n%s", diff)
	}
	if _, err := patch.Apply(current, types.Patch{"-": "x"}, patch.FieldsOf[account]()); !errors.Is(err, patch.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for hidden field, got %v", err)
	}
}

func TestApplyMapKeepsUntouchedValues(t *testing.T) {
	current := map[string]any{"name": "", "age": 3, "ratio": float32(0.5), "tags": []string{"a"}}
	got, err := patch.Apply(current, types.Patch{"name": "Alice", "note": nil}, patch.FieldsOf[map[string]any]())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := map[string]any{"name": "Alice", "age": 3, "ratio": float32(0.5), "tags": []string{"a"}, "note": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("map record mismatch (-want +got):\n%s", diff)
	}

	got, err = patch.Apply(got, types.Patch{"age": "x"}, patch.FieldsOf[map[string]any]())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got["age"] != "x" {
		t.Fatalf("loose map value should be stored as given, got %#v", got["age"])
	}
}

func TestApplyPointerRecord(t *testing.T) {
	current := &profile{Name: "a", Age: 1}
	got, err := patch.Apply(current, types.Patch{"age": "2"}, patch.FieldsOf[*profile]())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got == current || current.Age != 1 {
		t.Fatal("input record must not be modified")
	}
	if got.Name != "a" || got.Age != 2 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestApplyOperations(t *testing.T) {
	got, err := patch.ApplyOperations(profile{Name: "a", Age: 1}, []patch.Operation{
		{Op: patch.OperationReplace, Path: "/age", Value: "30"},
		{Op: patch.OperationReplace, Path: "/note", Value: "n"},
		{Op: patch.OperationRemove, Path: "/missing"},
	})
	if err != nil {
		t.Fatalf("apply operations: %v", err)
	}
	want := profile{Name: "a", Age: 30, Note: "n"}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(profile{})); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	_, err = patch.ApplyOperations(profile{}, []patch.Operation{{Op: patch.OperationReplace, Path: "/age", Value: "old"}})
	if !errors.Is(err, patch.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestDiff(t *testing.T) {
	from := profile{Name: "", Age: 3}
	to := profile{Name: "Ann", Age: 3, Remember: true}
	got, err := patch.Diff(from, to)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	want := types.Patch{"name": "Ann", "remember": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diff mismatch (-want +got):\n%s", diff)
	}
}

func TestToPatch(t *testing.T) {
	fields := patch.FieldsOf[profile]()
	got, err := patch.ToPatch([]patch.Operation{
		{Op: patch.OperationReplace, Path: "/name", Value: "Bob"},
		{Op: patch.OperationAdd, Path: "/age", Value: float64(41)},
	}, fields)
	if err != nil {
		t.Fatalf("to patch: %v", err)
	}
	if diff := cmp.Diff(types.Patch{"name": "Bob", "age": float64(41)}, got); diff != "" {
		t.Fatalf("patch mismatch (-want +got):\n%s", diff)
	}

	bad := [][]patch.Operation{
		{{Op: patch.OperationRemove, Path: "/name"}},
		{{Op: patch.OperationReplace, Path: "/name/first", Value: "x"}},
		{{Op: patch.OperationReplace, Path: "/nickname", Value: "x"}},
	}
	for _, ops := range bad {
		if _, err := patch.ToPatch(ops, fields); err == nil {
			t.Errorf("expected error for %+v", ops)
		}
	}
}

func TestLookup(t *testing.T) {
	rec := &profile{Name: "Ann", Age: 9}
	if v, ok := patch.Lookup(rec, "age"); !ok || v != 9 {
		t.Fatalf("lookup age = %v, %v", v, ok)
	}
	if _, ok := patch.Lookup(rec, "internal"); ok {
		t.Fatal("unexported field should not resolve")
	}
	m := map[string]any{"flag": true}
	if v, ok := patch.Lookup(m, "flag"); !ok || v != true {
		t.Fatalf("lookup flag = %v, %v", v, ok)
	}
	if _, ok := patch.Lookup(m, "missing"); ok {
		t.Fatal("missing key should not resolve")
	}
}
