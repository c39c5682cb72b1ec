package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/hr-agent-core/server/internal/agent/graph/tools"
	"github.com/hr-agent-core/server/internal/agent/model"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

// LangChainModel adapts a langchaingo model to the eino chat model contract,
// including tool calling and callbacks.
type LangChainModel struct {
	llm       llms.Model
	typ       string
	modelName string
	tools     []llms.Tool
	opts      []llms.CallOption
}

// NewLangChainModel builds an Anthropic or OpenAI model with the tool
// definitions bound.
func NewLangChainModel(provider string, keys model.ProviderKeys, cfg model.ResponseModelConfig, defs []tools.Definition) (*LangChainModel, error) {
	var (
		llm llms.Model
		typ string
		err error
	)
	switch provider {
	case ProviderAnthropic:
		if keys.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		llm, err = anthropic.New(
			anthropic.WithToken(keys.AnthropicAPIKey),
			anthropic.WithModel(cfg.Model),
		)
		typ = "Anthropic"
	case ProviderOpenAI:
		if keys.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		llm, err = openai.New(
			openai.WithToken(keys.OpenAIAPIKey),
			openai.WithModel(cfg.Model),
		)
		typ = "OpenAI"
	default:
		return nil, fmt.Errorf("unsupported langchain provider: %s", provider)
	}
	if err != nil {
		logx.Error().Err(err).Str("provider", provider).Msg("Error creating Response model")
		return nil, fmt.Errorf("create %s model: %w", provider, err)
	}
	return newLangChainModel(llm, typ, cfg, defs), nil
}

func newLangChainModel(llm llms.Model, typ string, cfg model.ResponseModelConfig, defs []tools.Definition) *LangChainModel {
	lcTools := make([]llms.Tool, 0, len(defs))
	for _, d := range defs {
		lcTools = append(lcTools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	opts := []llms.CallOption{llms.WithModel(cfg.Model)}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(float64(cfg.Temperature)))

	return &LangChainModel{llm: llm, typ: typ, modelName: cfg.Model, tools: lcTools, opts: opts}
}

func (m *LangChainModel) GetType() string { return "LangChain" + m.typ }

// IsCallbacksEnabled reports that Generate triggers callbacks itself.
func (m *LangChainModel) IsCallbacksEnabled() bool { return true }

func (m *LangChainModel) Generate(ctx context.Context, input []*schema.Message, _ ...einomodel.Option) (out *schema.Message, err error) {
	ctx = callbacks.OnStart(ctx, &einomodel.CallbackInput{
		Messages: input,
		Config:   &einomodel.Config{Model: m.modelName},
	})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	content, err := toLangChainMessages(input)
	if err != nil {
		return nil, err
	}
	opts := append([]llms.CallOption{llms.WithTools(m.tools)}, m.opts...)
	resp, err := m.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices")
	}

	out = fromLangChainChoice(resp.Choices[0])
	usage := out.ResponseMeta.Usage
	callbacks.OnEnd(ctx, &einomodel.CallbackOutput{
		Message: out,
		Config:  &einomodel.Config{Model: m.modelName},
		TokenUsage: &einomodel.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		},
	})
	return out, nil
}

func toLangChainMessages(input []*schema.Message) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case schema.User:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case schema.Assistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				})
			}
			if len(mc.Parts) == 0 {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: ""})
			}
			out = append(out, mc)
		case schema.Tool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: msg.ToolCallID,
					Name:       msg.ToolName,
					Content:    msg.Content,
				}},
			})
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return out, nil
}

func fromLangChainChoice(choice *llms.ContentChoice) *schema.Message {
	var calls []schema.ToolCall
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		calls = append(calls, schema.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      tc.FunctionCall.Name,
				Arguments: tc.FunctionCall.Arguments,
			},
		})
	}
	msg := schema.AssistantMessage(choice.Content, calls)

	info := choice.GenerationInfo
	prompt := intFrom(info, "PromptTokens", "InputTokens")
	completion := intFrom(info, "CompletionTokens", "OutputTokens")
	total := intFrom(info, "TotalTokens")
	if total == 0 {
		total = prompt + completion
	}
	msg.ResponseMeta = &schema.ResponseMeta{
		FinishReason: choice.StopReason,
		Usage: &schema.TokenUsage{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      total,
		},
	}
	return msg
}

// intFrom returns the first integer found under keys.
func intFrom(info map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := info[k].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}
