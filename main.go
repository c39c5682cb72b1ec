package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/hr-agent-core/server/internal/agent/embedding"
	"github.com/hr-agent-core/server/internal/agent/graph"
	"github.com/hr-agent-core/server/internal/agent/graph/observers"
	"github.com/hr-agent-core/server/internal/agent/graph/tools"
	"github.com/hr-agent-core/server/internal/agent/model"
	"github.com/hr-agent-core/server/internal/agent/repo"
	"github.com/hr-agent-core/server/internal/core"
	"github.com/hr-agent-core/server/internal/server"
	logx "github.com/hr-agent-core/server/pkg/logger"
	pkgmongo "github.com/hr-agent-core/server/pkg/mongo"
	pkgredis "github.com/hr-agent-core/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the server,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Server server.Config
	Redis  pkgredis.Config
	Mongo  pkgmongo.Config

	// LLM providers
	Keys model.ProviderKeys

	// Agent configs
	Response     model.ResponseModelConfig
	Embedding    model.EmbeddingConfig
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig
	Tools        model.ToolConfig
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to process environment config: %v\n", err)
		os.Exit(1)
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel})

	if err := run(cfg); err != nil {
		logx.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(cfg AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := cfg.Mongo.New(ctx)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logx.Warn().Err(err).Msg("Mongo disconnect failed")
		}
	}()
	logx.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.Database)
	employees := repo.NewEmployeeRepository(db.Collection(cfg.Mongo.EmployeesCollection), cfg.Mongo.VectorIndex)
	if err := employees.EnsureIndexes(ctx, cfg.Mongo.VectorDimensions); err != nil {
		return fmt.Errorf("ensure employee indexes: %w", err)
	}

	conversations, closeCheckpoints, err := newConversationRepo(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeCheckpoints()

	embedder, err := embedding.New(ctx, cfg.Embedding, cfg.Keys)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}

	metrics := observers.NewMetrics(prometheus.DefaultRegisterer)
	engine, err := graph.BuildResponseGraph(ctx, graph.Config{
		Keys:             cfg.Keys,
		ResponseModel:    cfg.Response,
		ResponsePrompt:   cfg.Prompt,
		Conversation:     cfg.Conversation,
		ConversationRepo: conversations,
		Tools: tools.Deps{
			Store:        employees,
			Embedder:     embedder,
			StoreTimeout: cfg.Tools.StoreTimeout,
		},
		Handlers: []callbacks.Handler{observers.NewAllCallbacks(metrics)},
	})
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	app := server.New(cfg.Server, server.Deps{
		Agent:     engine,
		Employees: employees,
		Metrics:   metrics,
	})

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("port", cfg.Server.Port).Str("environment", cfg.Environment.String()).Msg("HR Agent server listening")
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("Shutting down server")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		logx.Warn().Err(err).Msg("Server shutdown failed")
	}
	return nil
}

// newConversationRepo selects the checkpoint backend. The returned func
// releases any connection the backend owns.
func newConversationRepo(ctx context.Context, cfg AppConfig, db *mongodriver.Database) (model.ConversationRepository, func(), error) {
	switch strings.ToLower(cfg.Conversation.Backend) {
	case "redis", "":
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("init redis: %w", err)
		}
		logx.Info().Msg("Connected to Redis")
		return repo.NewRedisConversationRepository(rdb, cfg.Conversation.TTL), closeRedis(rdb), nil
	case "mongo":
		return repo.NewMongoConversationRepository(db.Collection(cfg.Mongo.CheckpointsCollection)), func() {}, nil
	case "memory":
		logx.Warn().Msg("Using in-memory checkpoints; threads will not survive a restart")
		return repo.NewMemoryConversationRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported CHECKPOINT_BACKEND %q", cfg.Conversation.Backend)
	}
}

func closeRedis(rdb *goredis.Client) func() {
	return func() {
		if err := rdb.Close(); err != nil {
			logx.Warn().Err(err).Msg("Redis close failed")
		}
	}
}
