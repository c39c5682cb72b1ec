package nodes

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/errgroup"

	"github.com/hr-agent-core/server/internal/agent/graph/conversations"
	"github.com/hr-agent-core/server/internal/agent/graph/tools"
	"github.com/hr-agent-core/server/internal/agent/model"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

const defaultToolConcurrency = 4

// ActingConfig wires the acting step.
type ActingConfig struct {
	Registry        *tools.Registry
	MessagesManager *conversations.MessagesManager
	// Concurrency bounds how many invocations of one step run at once.
	Concurrency int
	Handlers    []callbacks.Handler
}

// Actor executes the tool invocations requested by the last assistant message.
type Actor struct {
	cfg ActingConfig
}

func NewActor(cfg ActingConfig) *Actor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultToolConcurrency
	}
	return &Actor{cfg: cfg}
}

// Step runs every invocation, then persists one result per invocation, in
// request order, with a single append.
func (a *Actor) Step(ctx context.Context, state *model.TurnState) error {
	last := state.Last()
	if last == nil || len(last.ToolCalls) == 0 {
		return fmt.Errorf("acting step without pending tool calls")
	}
	calls := last.ToolCalls

	logx.Debug().
		Str("conversation_id", state.ConversationID).
		Int("tool_count", len(calls)).
		Msg("Tool execution attempt")

	results := make([]tools.Result, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = a.invoke(gctx, call)
			return nil
		})
	}
	_ = g.Wait()

	msgs := make([]*schema.Message, 0, len(calls))
	for i, call := range calls {
		msg := schema.ToolMessage(results[i].Content, call.ID, schema.WithToolName(call.Function.Name))
		if results[i].Failed {
			msg.Extra = map[string]any{conversations.ExtraToolError: true}
		}
		msgs = append(msgs, msg)
	}

	if err := a.cfg.MessagesManager.Append(ctx, state.ConversationID, msgs...); err != nil {
		return err
	}
	state.Messages = append(state.Messages, msgs...)
	return nil
}

// invoke runs one call with tool callbacks. Panics become failed results.
func (a *Actor) invoke(ctx context.Context, call schema.ToolCall) (res tools.Result) {
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      call.Function.Name,
		Type:      NodeToolExecutor,
		Component: components.ComponentOfTool,
	}, a.cfg.Handlers...)
	ctx = callbacks.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: call.Function.Arguments})

	defer func() {
		if p := recover(); p != nil {
			logx.Error().Interface("panic", p).Str("tool_name", call.Function.Name).Msg("tool panicked")
			res = tools.Fail("Tool %s failed unexpectedly", call.Function.Name)
		}
		if res.Failed {
			callbacks.OnError(ctx, errors.New(res.Content))
			return
		}
		callbacks.OnEnd(ctx, &tool.CallbackOutput{Response: res.Content})
	}()

	return a.cfg.Registry.Call(ctx, call)
}
