package observers

import (
	"context"
	"strings"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/hr-agent-core/server/pkg/logger"
)

type startKey struct{ name string }

func withStart(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, startKey{name}, time.Now())
}

func since(ctx context.Context, name string) time.Duration {
	if t, ok := ctx.Value(startKey{name}).(time.Time); ok {
		return time.Since(t)
	}
	return 0
}

// newModelHandler logs model calls and records their latency and token usage.
func newModelHandler(metrics *Metrics) *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ev := logx.Debug().Str("type", info.Type).Str("name", info.Name)
			if input != nil {
				ev = ev.Int("messages", len(input.Messages)).Str("user", truncate(lastUserContent(input.Messages), 200))
			}
			ev.Msg("Model start")
			return withStart(ctx, info.Name)
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			elapsed := since(ctx, info.Name)
			ev := logx.Debug().Str("type", info.Type).Str("name", info.Name).Dur("duration", elapsed)
			if output != nil && output.Message != nil {
				ev = ev.Int("tool_calls", len(output.Message.ToolCalls)).
					Str("assistant", truncate(strings.TrimSpace(output.Message.Content), 200))
			}
			ev.Msg("Model end")

			if metrics != nil {
				metrics.ModelCalls.WithLabelValues(info.Type, "ok").Inc()
				metrics.ModelLatency.WithLabelValues(info.Type).Observe(elapsed.Seconds())
				if output != nil && output.TokenUsage != nil {
					metrics.ModelTokens.WithLabelValues(info.Type, "prompt").Add(float64(output.TokenUsage.PromptTokens))
					metrics.ModelTokens.WithLabelValues(info.Type, "completion").Add(float64(output.TokenUsage.CompletionTokens))
				}
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("type", info.Type).Str("name", info.Name).Msg("Model error")
			if metrics != nil {
				metrics.ModelCalls.WithLabelValues(info.Type, "error").Inc()
			}
			return ctx
		},
	}
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
