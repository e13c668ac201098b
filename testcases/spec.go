package testcases

import (
	"context"
	"regexp"
	"strings"

	"github.com/tbxark/formstate"
	"github.com/tbxark/formstate/types"
)

type UserRegistrationForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegistrationFields describes the registration form for prompts.
func RegistrationFields() []types.FieldInfo {
	return []types.FieldInfo{
		{Name: "name", DisplayName: "Name", Required: true},
		{Name: "email", DisplayName: "Email", Description: "A reachable email address", Required: true},
		{Name: "age", DisplayName: "Age", Description: "Between 18 and 100"},
		{Name: "password", DisplayName: "Password", Description: "At least 6 characters", Required: true},
		{Name: "remember", DisplayName: "Remember me"},
	}
}

// ValidateRegistration is the local rule set for UserRegistrationForm.
func ValidateRegistration(_ context.Context, v UserRegistrationForm) (types.ErrorMap, error) {
	errs := types.ErrorMap{}
	if strings.TrimSpace(v.Name) == "" {
		errs["name"] = "Name is required."
	}
	switch {
	case strings.TrimSpace(v.Email) == "":
		errs["email"] = "Email is required."
	case !emailPattern.MatchString(v.Email):
		errs["email"] = "Email is invalid."
	}
	if v.Age != 0 && (v.Age < 18 || v.Age > 100) {
		errs["age"] = "Age must be between 18 and 100."
	}
	switch {
	case strings.TrimSpace(v.Password) == "":
		errs["password"] = "Password is required."
	case len(v.Password) < 6:
		errs["password"] = "Password must be at least 6 characters."
	}
	return errs, nil
}

var _ formstate.Validator[UserRegistrationForm] = formstate.ValidatorFunc[UserRegistrationForm](ValidateRegistration)
