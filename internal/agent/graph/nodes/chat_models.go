package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/hr-agent-core/server/internal/agent/graph/tools"
	"github.com/hr-agent-core/server/internal/agent/model"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ChatModel is the completion provider used by the reasoning step.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	Keys       model.ProviderKeys
	RespConfig *model.ResponseModelConfig
}

// ChatModels holds the response chat model with tools bound
type ChatModels struct {
	Response          ChatModel
	ResponseModelName string
	// Type is reported as the callbacks RunInfo type.
	Type string
}

// NewChatModels creates the configured response model and binds tools to it.
func NewChatModels(ctx context.Context, config ChatModelConfig, defs []tools.Definition) (*ChatModels, error) {
	if config.RespConfig == nil {
		return nil, fmt.Errorf("response model config is nil")
	}
	provider := strings.ToLower(strings.TrimSpace(config.RespConfig.Provider))
	switch provider {
	case ProviderGemini, "":
		cm, err := newGeminiChatModel(ctx, config)
		if err != nil {
			return nil, err
		}
		infos := make([]*schema.ToolInfo, 0, len(defs))
		for _, d := range defs {
			infos = append(infos, d.ToolInfo())
		}
		if err := cm.BindTools(infos); err != nil {
			logx.Error().Err(err).Msg("Failed to bind tools")
			return nil, fmt.Errorf("failed to bind tools: %w", err)
		}
		logx.Debug().Msg("Successfully bound tools to response model")
		return &ChatModels{Response: cm, ResponseModelName: config.RespConfig.Model, Type: "Gemini"}, nil
	case ProviderAnthropic, ProviderOpenAI:
		cm, err := NewLangChainModel(provider, config.Keys, *config.RespConfig, defs)
		if err != nil {
			return nil, err
		}
		return &ChatModels{Response: cm, ResponseModelName: config.RespConfig.Model, Type: cm.GetType()}, nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", config.RespConfig.Provider)
	}
}

func newGeminiChatModel(ctx context.Context, config ChatModelConfig) (*gemini.ChatModel, error) {
	if config.Keys.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  config.Keys.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.Keys.GeminiBaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.Keys.GeminiBaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	resp := config.RespConfig
	geminiCfg := &gemini.Config{
		Client:      client,
		Model:       resp.Model,
		Temperature: &resp.Temperature,
		MaxTokens:   &resp.MaxTokens,
	}
	if resp.ThinkingBudget > 0 {
		geminiCfg.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(resp.ThinkingBudget),
		}
	}

	chatModelResponse, err := gemini.NewChatModel(ctx, geminiCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Response model")
		return nil, fmt.Errorf("error creating Response model: %w", err)
	}
	return chatModelResponse, nil
}
