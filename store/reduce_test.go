package store

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tbxark/formstate/types"
)

type login struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Remember bool   `json:"remember"`
}

func mustReduce[T any](t *testing.T, s State[T], a Action) State[T] {
	t.Helper()
	next, err := Reduce(s, a)
	if err != nil {
		t.Fatalf("reduce %s: %v", a.Kind(), err)
	}
	return next
}

func TestNewState(t *testing.T) {
	s := New(login{}, nil)
	if !s.IsPristine || !s.IsValid || s.HasInitialErrors {
		t.Fatalf("unexpected clean start: %+v", s)
	}
	if s.Errors == nil {
		t.Fatal("errors should be an empty map, not nil")
	}

	s = New(login{}, types.ErrorMap{"name": "required", "email": ""})
	if s.IsPristine || s.IsValid || !s.HasInitialErrors {
		t.Fatalf("initial errors should start non-pristine and invalid: %+v", s)
	}
	if diff := cmp.Diff(types.ErrorMap{"name": "required"}, s.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchValuesIsLeftToRightMerge(t *testing.T) {
	s := New(login{Email: "a@b.c"}, nil)
	s = mustReduce(t, s, PatchValues{Values: types.Patch{"name": "A"}})
	s = mustReduce(t, s, PatchValues{Values: types.Patch{"remember": true}})
	s = mustReduce(t, s, PatchValues{Values: types.Patch{"name": "B"}})

	want := login{Name: "B", Email: "a@b.c", Remember: true}
	if diff := cmp.Diff(want, s.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if s.Version != 3 {
		t.Fatalf("version = %d, want 3", s.Version)
	}
	if s.InitialValues.Name != "" {
		t.Fatalf("initial values changed: %+v", s.InitialValues)
	}
}

func TestPatchValuesErrorKeepsState(t *testing.T) {
	s := New(login{Name: "keep"}, nil)
	next, err := Reduce(s, PatchValues{Values: types.Patch{"unknown": 1}})
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if next.Values.Name != "keep" || next.Version != s.Version {
		t.Fatalf("state changed on error: %+v", next)
	}
}

type withHidden struct {
	Name   string `json:"name"`
	Secret string `json:"-"`
}

func TestPatchValuesKeepsHiddenFields(t *testing.T) {
	s := New(withHidden{Name: "a", Secret: "keep"}, nil)
	s = mustReduce(t, s, PatchValues{Values: types.Patch{"name": "b"}})
	if diff := cmp.Diff(withHidden{Name: "b", Secret: "keep"}, s.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchValuesOnMapRecord(t *testing.T) {
	initial := map[string]any{"name": "", "age": 3, "subscribed": false}
	s := New(initial, nil)
	s = mustReduce(t, s, PatchValues{Values: types.Patch{"name": "Alice"}})
	s = mustReduce(t, s, PatchValues{Values: types.Patch{"subscribed": "true"}})

	want := map[string]any{"name": "Alice", "age": 3, "subscribed": true}
	if diff := cmp.Diff(want, s.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if initial["name"] != "" {
		t.Fatalf("initial record mutated: %v", initial)
	}
	s = mustReduce(t, s, ResetForm{})
	if diff := cmp.Diff(initial, s.Values); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestSetErrorsReplaces(t *testing.T) {
	s := New(login{}, nil)
	s = mustReduce(t, s, SetErrors{Errors: types.ErrorMap{"name": "required", "email": "invalid"}})
	if s.IsValid {
		t.Fatal("expected invalid after errors")
	}
	s = mustReduce(t, s, SetErrors{Errors: types.ErrorMap{"email": "invalid"}})
	if diff := cmp.Diff(types.ErrorMap{"email": "invalid"}, s.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	s = mustReduce(t, s, SetErrors{Errors: types.ErrorMap{"email": ""}})
	if !s.IsValid || len(s.Errors) != 0 {
		t.Fatalf("empty messages should count as valid: %+v", s)
	}
}

func TestSetErrorsDoesNotAliasInput(t *testing.T) {
	in := types.ErrorMap{"name": "required"}
	s := mustReduce(t, New(login{}, nil), SetErrors{Errors: in})
	in["email"] = "late"
	if _, ok := s.Errors["email"]; ok {
		t.Fatal("state shares the caller's map")
	}
}

func TestResetRestoresInitial(t *testing.T) {
	initialErrors := types.ErrorMap{"email": "taken"}
	start := New(login{Name: "init"}, initialErrors)
	s := start
	s = mustReduce(t, s, PatchValues{Values: types.Patch{"name": "changed", "remember": true}})
	s = mustReduce(t, s, SetErrors{Errors: types.ErrorMap{}})
	s = mustReduce(t, s, SetPristine{Pristine: true})
	s = mustReduce(t, s, ResetForm{})

	if diff := cmp.Diff(start.Values, s.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(initialErrors, s.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if s.IsPristine || s.IsValid {
		t.Fatalf("pristine/valid should follow initial errors: %+v", s)
	}

	clean := mustReduce(t, mustReduce(t, New(login{}, nil), SetPristine{Pristine: false}), ResetForm{})
	if !clean.IsPristine || !clean.IsValid {
		t.Fatalf("reset without initial errors should be pristine and valid: %+v", clean)
	}
}

func TestFlags(t *testing.T) {
	s := New(login{}, nil)
	s = mustReduce(t, s, SetPristine{Pristine: false})
	s = mustReduce(t, s, SetValid{Valid: false})
	if s.IsPristine || s.IsValid {
		t.Fatalf("flags not applied: %+v", s)
	}
}

type rogue struct{}

func (rogue) Kind() string { return "rogue" }
func (rogue) action()      {}

func TestUnknownActionPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(r.(string), "unreachable") {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	_, _ = Reduce(New(login{}, nil), rogue{})
}

func TestFieldAccess(t *testing.T) {
	s := New(login{Name: "Ann"}, types.ErrorMap{"email": "bad"})
	if v, ok := s.Field("name"); !ok || v != "Ann" {
		t.Fatalf("field name = %v, %v", v, ok)
	}
	if s.Error("email") != "bad" || s.Error("name") != "" {
		t.Fatalf("unexpected errors %v", s.Errors)
	}
}
