package conversations

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hr-agent-core/server/internal/agent/repo"
)

func toolCall(id, name string) schema.ToolCall {
	return schema.ToolCall{ID: id, Type: "function", Function: schema.FunctionCall{Name: name, Arguments: "{}"}}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		messages []*schema.Message
		want     []string
	}{
		{name: "empty", messages: nil},
		{name: "plain answer", messages: []*schema.Message{
			schema.UserMessage("hi"),
			schema.AssistantMessage("hello", nil),
		}},
		{name: "fully answered", messages: []*schema.Message{
			schema.UserMessage("hi"),
			schema.AssistantMessage("", []schema.ToolCall{toolCall("a", "Employee_Lookup")}),
			schema.ToolMessage("[]", "a"),
		}},
		{name: "crash before acting", messages: []*schema.Message{
			schema.UserMessage("hi"),
			schema.AssistantMessage("", []schema.ToolCall{toolCall("a", "Employee_Lookup"), toolCall("b", "Employee_Update")}),
		}, want: []string{"a", "b"}},
		{name: "older turn answered, new user message", messages: []*schema.Message{
			schema.AssistantMessage("", []schema.ToolCall{toolCall("a", "Employee_Lookup")}),
			schema.ToolMessage("[]", "a"),
			schema.AssistantMessage("done", nil),
			schema.UserMessage("next"),
		}},
		{name: "partially answered", messages: []*schema.Message{
			schema.AssistantMessage("", []schema.ToolCall{toolCall("a", "Employee_Lookup"), toolCall("b", "Employee_Adding")}),
			schema.ToolMessage("[]", "a"),
		}, want: []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repairs := Reconcile(tt.messages)
			ids := make([]string, 0, len(repairs))
			for _, r := range repairs {
				assert.Equal(t, schema.Tool, r.Role)
				assert.Equal(t, DanglingToolResult, r.Content)
				assert.Equal(t, true, r.Extra[ExtraToolError])
				ids = append(ids, r.ToolCallID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMessagesManager_LoadPersistsRepairs(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryConversationRepository()
	require.NoError(t, store.AppendMessages(ctx, "t",
		schema.UserMessage("add Dana"),
		schema.AssistantMessage("", []schema.ToolCall{toolCall("a", "Employee_Adding")}),
	))
	m := NewMessagesManager(store)

	msgs, err := m.Load(ctx, "t")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "a", msgs[2].ToolCallID)

	h, err := store.LoadHistory(ctx, "t")
	require.NoError(t, err)
	assert.Len(t, h.Messages, 3)

	msgs, err = m.Load(ctx, "t")
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestBuildReasoningContext(t *testing.T) {
	m := NewMessagesManager(repo.NewMemoryConversationRepository())

	msgs := m.BuildReasoningContext("be helpful", []*schema.Message{
		schema.SystemMessage("stale"),
		schema.UserMessage("hi"),
	})

	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "be helpful", msgs[0].Content)
	assert.Equal(t, "hi", msgs[1].Content)
}

func TestLastAssistantContent(t *testing.T) {
	assert.Equal(t, "", LastAssistantContent(nil))
	assert.Equal(t, "second", LastAssistantContent([]*schema.Message{
		schema.AssistantMessage("first", nil),
		schema.UserMessage("q"),
		schema.AssistantMessage("second", nil),
	}))
}
