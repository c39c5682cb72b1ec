package observers

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestToolCallbacksRecordOutcomes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	h := NewAllCallbacks(m)

	ctx := einocb.InitCallbacks(context.Background(), &einocb.RunInfo{
		Name: "Employee_Lookup", Type: "ToolExecutor", Component: components.ComponentOfTool,
	}, h)
	ctx = einocb.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: `{"query":"x"}`})
	einocb.OnEnd(ctx, &tool.CallbackOutput{Response: "[]"})

	ctx = einocb.InitCallbacks(context.Background(), &einocb.RunInfo{
		Name: "Employee_Update", Type: "ToolExecutor", Component: components.ComponentOfTool,
	}, h)
	ctx = einocb.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: `{}`})
	einocb.OnError(ctx, errors.New("Invalid arguments"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("Employee_Lookup", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("Employee_Update", "error")))
}

func TestModelCallbacksRecordTokens(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	ctx := einocb.InitCallbacks(context.Background(), &einocb.RunInfo{
		Name: "ResponseChatModel", Type: "Gemini", Component: components.ComponentOfChatModel,
	}, NewAllCallbacks(m))
	ctx = einocb.OnStart(ctx, &model.CallbackInput{Messages: []*schema.Message{schema.UserMessage("hi")}})
	einocb.OnEnd(ctx, &model.CallbackOutput{
		Message:    schema.AssistantMessage("hello", nil),
		TokenUsage: &model.TokenUsage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelCalls.WithLabelValues("Gemini", "ok")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.ModelTokens.WithLabelValues("Gemini", "prompt")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ModelTokens.WithLabelValues("Gemini", "completion")))
}

func TestNilMetrics(t *testing.T) {
	ctx := einocb.InitCallbacks(context.Background(), &einocb.RunInfo{
		Name: "Employee_Lookup", Component: components.ComponentOfTool,
	}, NewAllCallbacks(nil))
	ctx = einocb.OnStart(ctx, &tool.CallbackInput{})
	assert.NotPanics(t, func() { einocb.OnEnd(ctx, &tool.CallbackOutput{}) })
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
