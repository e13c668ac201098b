// Package fill extracts form values from free text with a tool-calling chat
// model and feeds them to a controller as a programmatic update.
package fill

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstate"
	"github.com/tbxark/formstate/patch"
	"github.com/tbxark/formstate/structured"
	"github.com/tbxark/formstate/types"
)

const (
	updateFormToolName        = "update_form"
	updateFormToolDescription = "Generate RFC6902 JSON Patch operations that set form fields from user input. Only include operations for information explicitly provided by the user."
)

type fillArgs struct {
	Ops []patch.Operation `json:"ops" jsonschema:"description=add or replace operations on top-level form fields"`
}

type request[T any] struct {
	Input    string
	Current  T
	Fields   []string
	Errors   types.ErrorMap
	Guidance map[string]string
}

type Option func(*fillerOptions)

type fillerOptions struct {
	Guidance map[string]string
}

// WithGuidance adds per-field hints to the prompt.
func WithGuidance(guidance map[string]string) Option {
	return func(o *fillerOptions) {
		o.Guidance = guidance
	}
}

// ModelFiller turns free text into a partial record of T.
type ModelFiller[T any] struct {
	chain    *structured.Chain[*request[T], fillArgs]
	fields   patch.Fields
	names    []string
	guidance map[string]string
}

func NewModelFiller[T any](chatModel model.ToolCallingChatModel, opts ...Option) (*ModelFiller[T], error) {
	var options fillerOptions
	for _, opt := range opts {
		opt(&options)
	}
	chain, err := structured.NewChain[*request[T], fillArgs](
		chatModel,
		buildFillPrompt[T],
		updateFormToolName,
		updateFormToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ModelFiller[T]{
		chain:    chain,
		fields:   patch.FieldsOf[T](),
		names:    patch.FieldNames[T](),
		guidance: options.Guidance,
	}, nil
}

// Fill proposes field values for input given the current values and errors.
func (f *ModelFiller[T]) Fill(ctx context.Context, current T, errs types.ErrorMap, input string) (types.Patch, error) {
	result, err := f.chain.Invoke(ctx, &request[T]{
		Input:    input,
		Current:  current,
		Fields:   f.names,
		Errors:   errs,
		Guidance: f.guidance,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	if err := patch.ValidateOperations(result.Ops, f.fields); err != nil {
		return nil, fmt.Errorf("generated patches failed validation: %w", err)
	}
	if _, err := patch.ApplyOperations(current, result.Ops); err != nil {
		return nil, fmt.Errorf("generated patches do not fit the form: %w", err)
	}
	return patch.ToPatch(result.Ops, f.fields)
}

// Apply fills from the controller's latest values and errors, then updates the
// controller with the result. It returns the applied patch.
func (f *ModelFiller[T]) Apply(ctx context.Context, c *formstate.Controller[T], input string, opts formstate.ChangeOptions) (types.Patch, error) {
	s := c.Snapshot()
	p, err := f.Fill(ctx, s.Values, s.Errors, input)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return p, nil
	}
	if err := c.UpdateValues(ctx, p, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func buildFillPrompt[T any](ctx context.Context, req *request[T]) ([]*schema.Message, error) {
	stateJSON, err := sonic.MarshalString(req.Current)
	if err != nil {
		return nil, fmt.Errorf("marshal form state: %w", err)
	}
	systemPrompt := fmt.Sprintf("You are a form assistant. Analyze user input and call %s to generate RFC6902 JSON Patch operations. Rules: only use explicit user info; use replace for top-level fields; only use allowed paths; if nothing to extract, return empty operations.", updateFormToolName)

	sections := []string{
		fmt.Sprintf("# Form state JSON:\n%s", stateJSON),
		fmt.Sprintf("# Allowed paths:\n%s", formatAllowedFields(req.Fields)),
	}
	if s := types.FormatErrors(req.Errors); s != "" {
		sections = append(sections, "# Current errors:\n"+s)
	}
	if s := formatFieldGuidanceSection(req.Guidance); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, fmt.Sprintf("# User input:\n%s", req.Input))

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}
