// Package validate provides a Validator backed by a tool-calling chat model.
package validate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstate"
	"github.com/tbxark/formstate/patch"
	"github.com/tbxark/formstate/structured"
	"github.com/tbxark/formstate/types"
)

var _ formstate.Validator[map[string]any] = (*ModelValidator[map[string]any])(nil)

const (
	reportErrorsToolName        = "report_field_errors"
	reportErrorsToolDescription = "Report one validation message for every invalid form field. Return an empty list when every field is valid."
)

// DefaultSystemPromptTemplate is the system prompt used by ModelValidator. The
// template may contain a single "%s" placeholder for the language of messages.
const DefaultSystemPromptTemplate = `You check form values before they are submitted.

Rules:
- Only report fields whose current value breaks a stated rule or is obviously malformed.
- Never report a field that is not listed in the form.
- Keep every message short and written for the person filling the form.
- Write messages in %s.

Call the '` + reportErrorsToolName + `' tool with the result.`

type fieldError struct {
	Field   string `json:"field" jsonschema:"required,description=Name of the invalid field"`
	Message string `json:"message" jsonschema:"required,description=Short reason the value is invalid"`
}

type reportErrorsArgs struct {
	Errors []fieldError `json:"errors" jsonschema:"description=One entry per invalid field; empty when the form is valid"`
}

type request[T any] struct {
	Values T
	Fields []types.FieldInfo
	Rules  string
}

type validatorOptions struct {
	lang         string
	systemPrompt string
	fields       []types.FieldInfo
	rules        string
}

type Option func(*validatorOptions)

// WithLang sets the language used for error messages.
func WithLang(lang string) Option {
	return func(o *validatorOptions) {
		o.lang = lang
	}
}

// WithSystemPrompt replaces the system prompt. A "%s" is formatted with the
// language.
func WithSystemPrompt(systemPrompt string) Option {
	return func(o *validatorOptions) {
		o.systemPrompt = systemPrompt
	}
}

// WithFields describes the form fields to the model.
func WithFields(fields ...types.FieldInfo) Option {
	return func(o *validatorOptions) {
		o.fields = append(o.fields, fields...)
	}
}

// WithRules adds free-form validation rules to the prompt.
func WithRules(rules string) Option {
	return func(o *validatorOptions) {
		o.rules = rules
	}
}

// ModelValidator asks a chat model which fields are invalid. Errors naming
// fields outside T are dropped.
type ModelValidator[T any] struct {
	chain  *structured.Chain[*request[T], reportErrorsArgs]
	known  patch.Fields
	fields []types.FieldInfo
	rules  string
}

func NewModelValidator[T any](chatModel model.ToolCallingChatModel, opts ...Option) (*ModelValidator[T], error) {
	options := validatorOptions{
		lang:         "English",
		systemPrompt: DefaultSystemPromptTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	systemPrompt := options.systemPrompt
	if strings.Contains(systemPrompt, "%s") {
		systemPrompt = fmt.Sprintf(systemPrompt, options.lang)
	}

	chain, err := structured.NewChain[*request[T], reportErrorsArgs](
		chatModel,
		buildValidatePrompt[T](systemPrompt),
		reportErrorsToolName,
		reportErrorsToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ModelValidator[T]{
		chain:  chain,
		known:  patch.FieldsOf[T](),
		fields: options.fields,
		rules:  options.rules,
	}, nil
}

func (v *ModelValidator[T]) Validate(ctx context.Context, values T) (types.ErrorMap, error) {
	ctx = callbacks.EnsureRunInfo(ctx, "ModelValidator", "Validator")
	ctx = callbacks.OnStart(ctx, map[string]any{
		"values": values,
	})

	result, err := v.chain.Invoke(ctx, &request[T]{Values: values, Fields: v.fields, Rules: v.rules})
	if err != nil {
		err = fmt.Errorf("model validation failed: %w", err)
		callbacks.OnError(ctx, err)
		return nil, err
	}

	errs := types.ErrorMap{}
	for _, fe := range result.Errors {
		if fe.Message == "" {
			continue
		}
		if err := v.known.Check(fe.Field); err != nil {
			slog.Debug("Dropping model error", "field", fe.Field, "reason", err)
			continue
		}
		if prev, ok := errs[fe.Field]; ok {
			errs[fe.Field] = prev + " " + fe.Message
			continue
		}
		errs[fe.Field] = fe.Message
	}

	callbacks.OnEnd(ctx, map[string]any{
		"errors": errs,
		"valid":  len(errs) == 0,
	})
	return errs, nil
}

func buildValidatePrompt[T any](systemPrompt string) structured.PromptBuilder[*request[T]] {
	return func(ctx context.Context, req *request[T]) ([]*schema.Message, error) {
		valuesJSON, err := sonic.MarshalString(req.Values)
		if err != nil {
			return nil, fmt.Errorf("marshal form values: %w", err)
		}
		sections := []string{
			fmt.Sprintf("# Form values JSON:\n```json\n%s\n```", valuesJSON),
		}
		if s := types.FormatFields(req.Fields); s != "" {
			sections = append(sections, "# Fields:\n"+s)
		}
		if req.Rules != "" {
			sections = append(sections, "# Rules:\n"+req.Rules)
		}
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(strings.Join(sections, "\n\n")),
		}, nil
	}
}
