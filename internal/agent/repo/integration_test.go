//go:build integration

package repo

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hr-agent-core/server/internal/agent/agenttest"
	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
	pkgmongo "github.com/hr-agent-core/server/pkg/mongo"
	pkgredis "github.com/hr-agent-core/server/pkg/redis"
)

var (
	testRedis *goredis.Client
	testMongo *mongo.Client
)

func startContainer(ctx context.Context, image, port string, waitFor wait.Strategy) (testcontainers.Container, string) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port + "/tcp"},
			WaitingFor:   waitFor.WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start %s container: %v", image, err)
	}
	host, err := c.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	if host == "" || host == "null" {
		host = "localhost"
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}
	return c, fmt.Sprintf("%s:%s", host, mapped.Port())
}

func TestMain(m *testing.M) {
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	ctx := context.Background()

	redisC, redisAddr := startContainer(ctx, "redis:7-alpine", "6379", wait.ForLog("Ready to accept connections"))
	mongoC, mongoAddr := startContainer(ctx, "mongo:7", "27017", wait.ForLog("Waiting for connections"))

	var err error
	redisCfg := pkgredis.Config{URL: "redis://" + redisAddr, DialTimeout: 5 * time.Second, ReadTimeout: 3 * time.Second, WriteTimeout: 3 * time.Second}
	testRedis, err = redisCfg.New(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	mongoCfg := pkgmongo.Config{URI: "mongodb://" + mongoAddr, MaxPoolSize: 5, ConnectTimeoutSeconds: 10, ServerSelectTimeoutSecs: 5}
	testMongo, err = mongoCfg.New(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}

	code := m.Run()

	_ = testRedis.Close()
	_ = testMongo.Disconnect(ctx)
	_ = redisC.Terminate(ctx)
	_ = mongoC.Terminate(ctx)
	os.Exit(code)
}

func exerciseConversationRepository(t *testing.T, r model.ConversationRepository) {
	t.Helper()
	ctx := context.Background()
	thread := fmt.Sprintf("thread-%d", time.Now().UnixNano())

	h, err := r.LoadHistory(ctx, thread)
	require.NoError(t, err)
	assert.Empty(t, h.Messages)

	require.NoError(t, r.AppendMessages(ctx, thread, schema.UserMessage("who works in IT?")))
	require.NoError(t, r.AppendMessages(ctx, thread,
		schema.AssistantMessage("", []schema.ToolCall{
			{ID: "a", Type: "function", Function: schema.FunctionCall{Name: "Employee_Lookup", Arguments: `{"query":"IT"}`}},
			{ID: "b", Type: "function", Function: schema.FunctionCall{Name: "Employee_Lookup", Arguments: `{"query":"engineers"}`}},
		}),
	))
	require.NoError(t, r.AppendMessages(ctx, thread,
		schema.ToolMessage("[]", "a", schema.WithToolName("Employee_Lookup")),
		schema.ToolMessage("[]", "b", schema.WithToolName("Employee_Lookup")),
	))

	h, err = r.LoadHistory(ctx, thread)
	require.NoError(t, err)
	require.Len(t, h.Messages, 4)
	assert.Equal(t, schema.User, h.Messages[0].Role)
	require.Len(t, h.Messages[1].ToolCalls, 2)
	assert.Equal(t, `{"query":"IT"}`, h.Messages[1].ToolCalls[0].Function.Arguments)
	assert.Equal(t, "a", h.Messages[2].ToolCallID)
	assert.Equal(t, "b", h.Messages[3].ToolCallID)
	assert.Equal(t, "Employee_Lookup", h.Messages[3].ToolName)
}

func TestRedisConversationRepository(t *testing.T) {
	exerciseConversationRepository(t, NewRedisConversationRepository(testRedis, time.Hour))
}

func TestRedisConversationRepository_TTL(t *testing.T) {
	ctx := context.Background()
	r := NewRedisConversationRepository(testRedis, time.Minute)
	require.NoError(t, r.AppendMessages(ctx, "ttl-thread", schema.UserMessage("hi")))

	ttl, err := testRedis.TTL(ctx, r.conversationKey("ttl-thread")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestMongoConversationRepository(t *testing.T) {
	coll := testMongo.Database("hr_test").Collection("checkpoints")
	exerciseConversationRepository(t, NewMongoConversationRepository(coll))
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	r := NewEmployeeRepository(testMongo.Database("hr_test").Collection("employees"), "vector_index")
	require.NoError(t, r.EnsureIndexes(ctx, 0))

	alice := agenttest.Employee("EMP-001", "Alice", "Smith")
	alice.EmbeddingText = "Alice summary"
	alice.Embedding = []float32{0.1, 0.2}
	require.NoError(t, r.Insert(ctx, alice))

	err := r.Insert(ctx, agenttest.Employee("EMP-001", "Other", "Person"))
	assert.ErrorIs(t, err, errx.ErrConflict)
	assert.Equal(t, errx.KindConflict, errx.KindOf(err))

	exists, err := r.Exists(ctx, "EMP-001")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = r.Exists(ctx, "EMP-404")
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := r.FindByID(ctx, "EMP-001")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "Alice summary", got.EmbeddingText)
	assert.Nil(t, got.Embedding)

	_, err = r.FindByID(ctx, "EMP-404")
	assert.ErrorIs(t, err, errx.ErrNotFound)

	require.NoError(t, r.UpdateFields(ctx, "EMP-001", map[string]any{
		"notes":          "Promoted",
		"embedding_text": "new summary",
		"embedding":      []float32{0.3, 0.4},
	}))
	got, err = r.FindByID(ctx, "EMP-001")
	require.NoError(t, err)
	assert.Equal(t, "Promoted", got.Notes)
	assert.Equal(t, "new summary", got.EmbeddingText)

	err = r.UpdateFields(ctx, "EMP-404", map[string]any{"notes": "x"})
	assert.ErrorIs(t, err, errx.ErrNotFound)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new summary", list[0].EmbeddingText)
	assert.Equal(t, []float32{0.3, 0.4}, list[0].Embedding)
}
