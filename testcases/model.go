package testcases

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var _ model.ToolCallingChatModel = (*ScriptedModel)(nil)

// ScriptedModel answers every Generate call with a tool call carrying the next
// scripted arguments. The last script entry repeats.
type ScriptedModel struct {
	mu      sync.Mutex
	script  []string
	calls   [][]*schema.Message
	Err     error
	BlockOn chan struct{}
}

func NewScriptedModel(arguments ...string) *ScriptedModel {
	return &ScriptedModel{script: arguments}
}

func (m *ScriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if m.BlockOn != nil {
		select {
		case <-m.BlockOn:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, input)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.script) == 0 {
		return &schema.Message{Role: schema.Assistant, Content: "no script"}, nil
	}
	args := m.script[0]
	if len(m.script) > 1 {
		m.script = m.script[1:]
	}
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:       "call_1",
			Function: schema.FunctionCall{Arguments: args},
		}},
	}, nil
}

func (m *ScriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("scripted model does not stream")
}

func (m *ScriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

// Calls returns the prompts received so far.
func (m *ScriptedModel) Calls() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]*schema.Message(nil), m.calls...)
}
