package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eino-contrib/jsonschema"
	"github.com/tbxark/formstate"
	"github.com/tbxark/formstate/types"
)

type Registration struct {
	Name       string `json:"name" jsonschema:"description=全名"`
	Email      string `json:"email" jsonschema:"description=邮箱"`
	Age        int    `json:"age" jsonschema:"description=年龄，18 到 100 之间"`
	Password   string `json:"password" jsonschema:"description=密码，至少 6 位"`
	Newsletter bool   `json:"newsletter" jsonschema:"description=是否订阅邮件"`
}

var _ formstate.Validator[Registration] = formstate.ValidatorFunc[Registration](validateRegistration)

func registrationFields() []types.FieldInfo {
	return []types.FieldInfo{
		{Name: "name", DisplayName: "姓名", Required: true},
		{Name: "email", DisplayName: "邮箱", Required: true},
		{Name: "age", DisplayName: "年龄"},
		{Name: "password", DisplayName: "密码", Required: true},
		{Name: "newsletter", DisplayName: "订阅邮件"},
	}
}

// registrationSchema describes Registration for the model validator.
func registrationSchema() (string, error) {
	schema := jsonschema.Reflect(&Registration{})
	schema.Title = "注册表单"
	schema.Description = "新用户注册表单，包含姓名、邮箱、年龄、密码和订阅选项。"
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(schemaBytes), nil
}

func validateRegistration(_ context.Context, current Registration) (types.ErrorMap, error) {
	errs := types.ErrorMap{}
	if strings.TrimSpace(current.Name) == "" {
		errs["name"] = "姓名不能为空"
	}
	switch {
	case current.Email == "":
		errs["email"] = "邮箱不能为空"
	case !strings.Contains(current.Email, "@"):
		errs["email"] = "邮箱格式不正确"
	}
	if current.Age != 0 && (current.Age < 18 || current.Age > 100) {
		errs["age"] = "年龄应在 18 到 100 之间"
	}
	switch {
	case current.Password == "":
		errs["password"] = "密码不能为空"
	case len(current.Password) < 6:
		errs["password"] = "密码至少 6 位"
	}
	return errs, nil
}

func summary(current Registration) string {
	return fmt.Sprintf("注册信息：姓名 %s，邮箱 %s，年龄 %d，订阅 %t",
		current.Name, current.Email, current.Age, current.Newsletter)
}
