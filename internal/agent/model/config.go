package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	TTL           time.Duration `envconfig:"CONVERSATION_TTL" default:"0s"`
	DefaultThread string        `envconfig:"CONVERSATION_DEFAULT_THREAD" default:"3801"`
	// MaxRoundTrips bounds reasoning/acting round trips per turn.
	MaxRoundTrips   int    `envconfig:"CONVERSATION_MAX_ROUND_TRIPS" default:"15"`
	ToolConcurrency int    `envconfig:"CONVERSATION_TOOL_CONCURRENCY" default:"4"`
	Backend         string `envconfig:"CHECKPOINT_BACKEND" default:"redis"`
}

type ResponseModelConfig struct {
	Provider       string        `envconfig:"COMPLETION_PROVIDER" default:"gemini"`
	Model          string        `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens      int           `envconfig:"RESPONSE_MAX_TOKENS" default:"4000"`
	Temperature    float32       `envconfig:"RESPONSE_TEMPERATURE" default:"0"`
	ThinkingBudget int32         `envconfig:"RESPONSE_THINKING_BUDGET" default:"0"`
	Timeout        time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"90s"`
}

type EmbeddingConfig struct {
	Provider string        `envconfig:"EMBEDDING_PROVIDER" default:"openai"`
	Model    string        `envconfig:"EMBEDDING_MODEL" default:"text-embedding-ada-002"`
	CacheTTL time.Duration `envconfig:"EMBEDDING_CACHE_TTL" default:"10m"`
}

type ProviderKeys struct {
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL   string `envconfig:"GEMINI_BASE_URL"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
}

type ResponsePromptConfig struct {
	AssistantRole string `envconfig:"PROMPT_ASSISTANT_ROLE" default:"You are helpful HR Chatbot Agent"`
}

type ToolConfig struct {
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"15s"`
}
