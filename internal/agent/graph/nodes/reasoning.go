package nodes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/hr-agent-core/server/internal/agent/graph/conversations"
	"github.com/hr-agent-core/server/internal/agent/graph/prompts"
	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

// ReasoningConfig wires the reasoning step.
type ReasoningConfig struct {
	ChatModels      *ChatModels
	MessagesManager *conversations.MessagesManager
	Prompt          model.ResponsePromptConfig
	ToolNames       string
	// Timeout bounds one provider call; zero disables it.
	Timeout  time.Duration
	Now      func() time.Time
	Handlers []callbacks.Handler
}

// Reasoner asks the completion provider for the next assistant message.
type Reasoner struct {
	cfg ReasoningConfig
}

func NewReasoner(cfg ReasoningConfig) *Reasoner {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Reasoner{cfg: cfg}
}

// Step performs one reasoning invocation: the assistant message is persisted
// and appended to state, and state.Steps is incremented. Provider failures are
// returned as KindProvider errors.
func (r *Reasoner) Step(ctx context.Context, state *model.TurnState) error {
	promptCtx := callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      NodeResponsePrompt,
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	}, r.cfg.Handlers...)
	systemPrompt, err := prompts.RenderResponseSystem(promptCtx, r.cfg.Prompt, r.cfg.ToolNames, r.cfg.Now())
	if err != nil {
		return err
	}
	input := r.cfg.MessagesManager.BuildReasoningContext(systemPrompt, state.Messages)

	logx.Debug().Str("conversation_id", state.ConversationID).Int("step", state.Steps+1).Msg("AI thinking...")
	out, err := r.generate(ctx, input)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", state.ConversationID).Msg("Response model failed")
		return errx.WrapProvider(err)
	}

	normalizeAssistant(out)
	r.recordUsage(state, out)

	if err := r.cfg.MessagesManager.Append(ctx, state.ConversationID, out); err != nil {
		return err
	}
	state.Messages = append(state.Messages, out)
	state.Steps++

	if len(out.ToolCalls) > 0 {
		logx.Debug().Int("tool_count", len(out.ToolCalls)).Msg("Calling tools")
	} else {
		logx.Debug().Msg("AI response ready")
	}
	return nil
}

func (r *Reasoner) generate(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      NodeResponseChatModel,
		Type:      r.cfg.ChatModels.Type,
		Component: components.ComponentOfChatModel,
	}, r.cfg.Handlers...)

	out, err := r.cfg.ChatModels.Response.Generate(ctx, input)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("empty response from model")
	}
	return out, nil
}

// normalizeAssistant fills in tool call ids some providers omit, so results
// can always be correlated.
func normalizeAssistant(out *schema.Message) {
	out.Role = schema.Assistant
	for i := range out.ToolCalls {
		if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
			out.ToolCalls[i].ID = "call_" + uuid.NewString()
		}
		if out.ToolCalls[i].Type == "" {
			out.ToolCalls[i].Type = "function"
		}
	}
}

func (r *Reasoner) recordUsage(state *model.TurnState, out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	modelName := r.cfg.ChatModels.ResponseModelName
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra["usage_cost"] = map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
		"input_cost":        inC,
		"output_cost":       outC,
		"total_cost":        totalC,
	}
	logx.Debug().
		Str("conversation_id", state.ConversationID).
		Str("node", NodeResponseChatModel).
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")

	state.TotalCostUSD += totalC
}
