package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/hr-agent-core/server/pkg/logger"
)

// newToolHandler logs tool lifecycle events and counts outcomes per tool.
func newToolHandler(metrics *Metrics) *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			ev := logx.Debug().Str("tool", info.Name)
			if input != nil {
				ev = ev.Str("input", truncate(input.ArgumentsInJSON, 500))
			}
			ev.Msg("Tool start")
			return withStart(ctx, info.Name)
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			elapsed := since(ctx, info.Name)
			ev := logx.Debug().Str("tool", info.Name).Dur("duration", elapsed)
			if output != nil {
				ev = ev.Str("output", truncate(output.Response, 500))
			}
			ev.Msg("Tool end")
			if metrics != nil {
				metrics.ToolCalls.WithLabelValues(info.Name, "ok").Inc()
				metrics.ToolLatency.WithLabelValues(info.Name).Observe(elapsed.Seconds())
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("tool", info.Name).Msg("Tool execution failed")
			if metrics != nil {
				metrics.ToolCalls.WithLabelValues(info.Name, "error").Inc()
				metrics.ToolLatency.WithLabelValues(info.Name).Observe(since(ctx, info.Name).Seconds())
			}
			return ctx
		},
	}
}
