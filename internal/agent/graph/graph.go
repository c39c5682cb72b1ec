package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/schema"

	"github.com/hr-agent-core/server/internal/agent/graph/conversations"
	"github.com/hr-agent-core/server/internal/agent/graph/nodes"
	"github.com/hr-agent-core/server/internal/agent/graph/tools"
	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

const DefaultMaxRoundTrips = 15

// Runner executes one conversational turn.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the agent end-to-end.
type Config struct {
	Keys             model.ProviderKeys
	ResponseModel    model.ResponseModelConfig
	ResponsePrompt   model.ResponsePromptConfig
	Conversation     model.ConversationConfig
	ConversationRepo model.ConversationRepository
	Tools            tools.Deps
	Handlers         []callbacks.Handler
}

// EngineConfig wires an Engine from already constructed parts.
type EngineConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	Registry        *tools.Registry
	ResponsePrompt  model.ResponsePromptConfig
	MaxRoundTrips   int
	ToolConcurrency int
	ProviderTimeout time.Duration
	Now             func() time.Time
	Handlers        []callbacks.Handler
}

// Engine drives the reasoning/acting state machine for each turn.
type Engine struct {
	mm            *conversations.MessagesManager
	reasoner      *nodes.Reasoner
	actor         *nodes.Actor
	maxRoundTrips int
	locks         *keyedMutex
}

// BuildResponseGraph constructs the chat model, tool registry and messages
// manager from cfg and returns the Engine.
func BuildResponseGraph(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}
	registry := tools.NewRegistry(cfg.Tools)

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		Keys:       cfg.Keys,
		RespConfig: &cfg.ResponseModel,
	}, registry.Definitions())
	if err != nil {
		return nil, err
	}

	engine, err := NewEngine(EngineConfig{
		ChatModels:      cms,
		MessagesManager: conversations.NewMessagesManager(cfg.ConversationRepo),
		Registry:        registry,
		ResponsePrompt:  cfg.ResponsePrompt,
		MaxRoundTrips:   cfg.Conversation.MaxRoundTrips,
		ToolConcurrency: cfg.Conversation.ToolConcurrency,
		ProviderTimeout: cfg.ResponseModel.Timeout,
		Handlers:        cfg.Handlers,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Str("provider", cfg.ResponseModel.Provider).Str("model", cms.ResponseModelName).Msg("Response graph built successfully")
	return engine, nil
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.ChatModels == nil || cfg.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if cfg.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is nil")
	}
	if cfg.MaxRoundTrips <= 0 {
		cfg.MaxRoundTrips = DefaultMaxRoundTrips
	}

	return &Engine{
		mm: cfg.MessagesManager,
		reasoner: nodes.NewReasoner(nodes.ReasoningConfig{
			ChatModels:      cfg.ChatModels,
			MessagesManager: cfg.MessagesManager,
			Prompt:          cfg.ResponsePrompt,
			ToolNames:       cfg.Registry.Names(),
			Timeout:         cfg.ProviderTimeout,
			Now:             cfg.Now,
			Handlers:        cfg.Handlers,
		}),
		actor: nodes.NewActor(nodes.ActingConfig{
			Registry:        cfg.Registry,
			MessagesManager: cfg.MessagesManager,
			Concurrency:     cfg.ToolConcurrency,
			Handlers:        cfg.Handlers,
		}),
		maxRoundTrips: cfg.MaxRoundTrips,
		locks:         newKeyedMutex(),
	}, nil
}

// Invoke runs one turn: it appends the user message, then alternates reasoning
// and acting until the model answers without tool calls. The turn fails with
// ErrTurnLimitExceeded when MaxRoundTrips reasoning steps did not reach an answer.
func (e *Engine) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	state, err := e.Run(ctx, in)
	if err != nil {
		return "", err
	}
	return conversations.LastAssistantContent(state.Messages), nil
}

// Run is Invoke returning the final turn state.
func (e *Engine) Run(ctx context.Context, in model.QueryInput) (*model.TurnState, error) {
	if strings.TrimSpace(in.ConversationID) == "" {
		return nil, errx.Validation("conversation id is required")
	}
	unlock, err := e.locks.Lock(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	history, err := e.mm.Load(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	userMsg := schema.UserMessage(in.Query)
	if err := e.mm.Append(ctx, in.ConversationID, userMsg); err != nil {
		return nil, err
	}

	state := &model.TurnState{
		ConversationID: in.ConversationID,
		Messages:       append(history, userMsg),
	}
	current := StateReasoning
	for current != StateTerminal {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		switch current {
		case StateReasoning:
			if state.Steps >= e.maxRoundTrips {
				logx.Warn().Str("conversation_id", state.ConversationID).Int("steps", state.Steps).
					Msg("Turn limit reached without a final answer")
				return state, errx.TurnLimit(e.maxRoundTrips)
			}
			if err := e.reasoner.Step(ctx, state); err != nil {
				return state, err
			}
		case StateActing:
			if err := e.actor.Step(ctx, state); err != nil {
				return state, err
			}
		}
		current = Transition(current, state.Last())
	}

	logx.Info().
		Str("conversation_id", state.ConversationID).
		Int("steps", state.Steps).
		Float64("total_cost_usd", state.TotalCostUSD).
		Msg("Turn completed")
	return state, nil
}

// History returns the persisted messages of a conversation.
func (e *Engine) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	unlock, err := e.locks.Lock(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return e.mm.Load(ctx, conversationID)
}

var _ Runner = (*Engine)(nil)
