// Package embedding turns text into vectors for the employee similarity index.
package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/genai"

	"github.com/hr-agent-core/server/internal/agent/model"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIModel = "text-embedding-ada-002"
	defaultGeminiModel = "gemini-embedding-001"
)

// Embedder produces one vector per text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New builds the configured provider and wraps it with the in-process cache.
func New(ctx context.Context, cfg model.EmbeddingConfig, keys model.ProviderKeys) (*Cached, error) {
	var (
		base Embedder
		err  error
	)
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		base, err = NewOpenAI(keys.OpenAIAPIKey, cfg.Model)
	case ProviderGemini:
		modelName := cfg.Model
		if modelName == "" || modelName == defaultOpenAIModel {
			modelName = defaultGeminiModel
		}
		base, err = NewGemini(ctx, keys.GeminiAPIKey, modelName)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewCached(base, cfg.CacheTTL), nil
}

// OpenAI embeds through langchaingo's OpenAI client.
type OpenAI struct {
	model     embeddings.Embedder
	modelName string
}

func NewOpenAI(apiKey, modelName string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for openai embeddings")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	e, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create openai embedder: %w", err)
	}
	return &OpenAI{model: e, modelName: modelName}, nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vector, err := o.model.EmbedQuery(ctx, text)
	if err != nil {
		logx.Warn().Err(err).Str("model", o.modelName).Int("text_len", len(text)).
			Dur("duration", time.Since(start)).Msg("embedding failed")
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	logx.Debug().Str("model", o.modelName).Int("dims", len(vector)).Dur("duration", time.Since(start)).Msg("embedding complete")
	return vector, nil
}

// Gemini embeds through the Gemini API.
type Gemini struct {
	client    *genai.Client
	modelName string
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for gemini embeddings")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, modelName: modelName}, nil
}

func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, g.modelName, genai.Text(text), &genai.EmbedContentConfig{})
	if err != nil {
		logx.Warn().Err(err).Str("model", g.modelName).Int("text_len", len(text)).Msg("embedding failed")
		return nil, fmt.Errorf("embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Embeddings[0].Values, nil
}
