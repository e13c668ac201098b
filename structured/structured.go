// Package structured gets typed answers out of a chat model by forcing it to
// call one tool whose parameters mirror the output type.
package structured

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type PromptBuilder[In any] func(ctx context.Context, in In) ([]*schema.Message, error)

// Chain binds a prompt builder and a tool-calling model to the output type Out.
type Chain[In, Out any] struct {
	build    PromptBuilder[In]
	model    model.ToolCallingChatModel
	tool     *schema.ToolInfo
	callOpts []model.Option
}

// NewChain describes Out as a tool named name and returns a chain that always
// answers through it.
func NewChain[In, Out any](chatModel model.ToolCallingChatModel, build PromptBuilder[In], name, desc string) (*Chain[In, Out], error) {
	if chatModel == nil {
		return nil, errors.New("structured: chat model is nil")
	}
	if build == nil {
		return nil, errors.New("structured: prompt builder is nil")
	}
	tool, err := utils.GoStruct2ToolInfo[Out](name, desc)
	if err != nil {
		return nil, fmt.Errorf("structured: describe tool %s: %w", name, err)
	}
	return &Chain[In, Out]{
		build: build,
		model: chatModel,
		tool:  tool,
		callOpts: []model.Option{
			model.WithTools([]*schema.ToolInfo{tool}),
			model.WithToolChoice(schema.ToolChoiceForced, name),
		},
	}, nil
}

// Tool returns the tool the model is forced to call.
func (c *Chain[In, Out]) Tool() *schema.ToolInfo {
	return c.tool
}

func (c *Chain[In, Out]) Invoke(ctx context.Context, in In) (*Out, error) {
	messages, err := c.build(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("structured: build prompt: %w", err)
	}
	slog.DebugContext(ctx, "Calling model", "tool", c.tool.Name, "messages", len(messages))
	reply, err := c.model.Generate(ctx, messages, c.callOpts...)
	if err != nil {
		return nil, fmt.Errorf("structured: generate: %w", err)
	}
	return Decode[Out](reply, c.tool.Name)
}

// Decode reads the arguments of the call to tool in msg. A call with a
// different name is used only when none matches; an empty tool matches any.
func Decode[Out any](msg *schema.Message, tool string) (*Out, error) {
	if msg == nil {
		return nil, errors.New("structured: empty model reply")
	}
	if len(msg.ToolCalls) == 0 {
		return nil, fmt.Errorf("structured: reply has no tool call: %s", msg.Content)
	}
	call := msg.ToolCalls[0]
	for _, tc := range msg.ToolCalls {
		if tool != "" && tc.Function.Name == tool {
			call = tc
			break
		}
	}
	var out Out
	if err := sonic.UnmarshalString(call.Function.Arguments, &out); err != nil {
		return nil, fmt.Errorf("structured: decode %s arguments: %w", call.Function.Name, err)
	}
	return &out, nil
}
