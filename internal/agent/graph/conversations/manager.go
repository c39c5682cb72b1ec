package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/hr-agent-core/server/internal/agent/model"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

// DanglingToolResult is the content recorded for a tool invocation whose result
// was never persisted, e.g. after a crash mid-acting.
const DanglingToolResult = `{"error":"tool_interrupted","note":"the tool did not complete; its effect is unknown"}`

// ExtraToolError marks tool messages whose result is a failure.
const ExtraToolError = "tool_error"

type MessagesManager struct {
	conversationRepo model.ConversationRepository
}

func NewMessagesManager(conversationRepo model.ConversationRepository) *MessagesManager {
	return &MessagesManager{conversationRepo: conversationRepo}
}

// Load returns the thread history with dangling invocations answered. Any
// synthesized results are persisted before returning.
func (cm *MessagesManager) Load(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	repairs := Reconcile(history.Messages)
	if len(repairs) == 0 {
		return history.Messages, nil
	}
	logx.Warn().Str("conversationID", conversationID).Int("count", len(repairs)).
		Msg("answering dangling tool invocations from an interrupted turn")
	if err := cm.conversationRepo.AppendMessages(ctx, conversationID, repairs...); err != nil {
		return nil, err
	}
	return append(history.Messages, repairs...), nil
}

// Append persists messages in order as one write.
func (cm *MessagesManager) Append(ctx context.Context, conversationID string, messages ...*schema.Message) error {
	return cm.conversationRepo.AppendMessages(ctx, conversationID, messages...)
}

// BuildReasoningContext prefixes the history with the system prompt. The system
// prompt is rendered per call and never stored.
func (cm *MessagesManager) BuildReasoningContext(systemPrompt string, history []*schema.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, m := range history {
		if m == nil || m.Role == schema.System {
			continue
		}
		messages = append(messages, m)
	}
	return messages
}

// Reconcile returns error tool results for invocations in the last assistant
// message that have no result yet. Only the final assistant message can be
// dangling: every earlier one was followed by a completed acting step.
func Reconcile(messages []*schema.Message) []*schema.Message {
	last := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i] != nil && messages[i].Role == schema.Assistant {
			last = i
			break
		}
	}
	if last < 0 || len(messages[last].ToolCalls) == 0 {
		return nil
	}

	answered := make(map[string]bool)
	for _, m := range messages[last+1:] {
		if m != nil && m.Role == schema.Tool {
			answered[m.ToolCallID] = true
		}
	}

	var repairs []*schema.Message
	for _, call := range messages[last].ToolCalls {
		if answered[call.ID] {
			continue
		}
		msg := schema.ToolMessage(DanglingToolResult, call.ID, schema.WithToolName(call.Function.Name))
		msg.Extra = map[string]any{ExtraToolError: true}
		repairs = append(repairs, msg)
	}
	return repairs
}

// LastAssistantContent returns the content of the final assistant message.
func LastAssistantContent(messages []*schema.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if m := messages[i]; m != nil && m.Role == schema.Assistant {
			return m.Content
		}
	}
	return ""
}
