package agenttest

import (
	"context"
	"errors"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Reply is one scripted model output. Respond, when set, builds the output from
// the input instead.
type Reply struct {
	Message *schema.Message
	Err     error
	Respond func(input []*schema.Message) (*schema.Message, error)
}

// ScriptedModel returns its replies in order and records every input. Once the
// script is exhausted the last reply repeats.
type ScriptedModel struct {
	mu      sync.Mutex
	replies []Reply
	Inputs  [][]*schema.Message
}

func NewScriptedModel(replies ...Reply) *ScriptedModel {
	return &ScriptedModel{replies: replies}
}

func (m *ScriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, input)
	if len(m.replies) == 0 {
		return nil, errors.New("scripted model has no replies")
	}
	i := len(m.Inputs) - 1
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	}
	r := m.replies[i]
	if r.Respond != nil {
		return r.Respond(input)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	cp := *r.Message
	cp.ToolCalls = append([]schema.ToolCall(nil), r.Message.ToolCalls...)
	return &cp, nil
}

// Calls returns how many times Generate ran.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}

// Answer is a final assistant reply.
func Answer(content string) Reply {
	return Reply{Message: schema.AssistantMessage(content, nil)}
}

// CallTools is an assistant reply requesting the given calls.
func CallTools(calls ...schema.ToolCall) Reply {
	return Reply{Message: schema.AssistantMessage("", calls)}
}

// ToolCall builds a function call.
func ToolCall(id, name, args string) schema.ToolCall {
	return schema.ToolCall{ID: id, Type: "function", Function: schema.FunctionCall{Name: name, Arguments: args}}
}
