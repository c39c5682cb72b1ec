package embedding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hr-agent-core/server/internal/agent/agenttest"
	"github.com/hr-agent-core/server/internal/agent/embedding"
	"github.com/hr-agent-core/server/internal/agent/model"
)

func TestCached_MemoizesByText(t *testing.T) {
	base := &agenttest.Embedder{}
	c := embedding.NewCached(base, time.Minute)
	ctx := context.Background()

	first, err := c.Embed(ctx, "senior go engineer")
	require.NoError(t, err)
	first[0] = 99

	second, err := c.Embed(ctx, "senior go engineer")
	require.NoError(t, err)
	assert.Equal(t, agenttest.Vector("senior go engineer"), second)
	assert.Equal(t, 1, base.Calls())

	_, err = c.Embed(ctx, "payroll")
	require.NoError(t, err)
	assert.Equal(t, 2, base.Calls())
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	base := &agenttest.Embedder{Err: errors.New("rate limited")}
	c := embedding.NewCached(base, time.Minute)

	_, err := c.Embed(context.Background(), "x")
	require.Error(t, err)
	base.Err = nil
	_, err = c.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 2, base.Calls())
}

func TestCached_Disabled(t *testing.T) {
	base := &agenttest.Embedder{}
	c := embedding.NewCached(base, 0)

	for range 3 {
		_, err := c.Embed(context.Background(), "same")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, base.Calls())
}

func TestNew_RequiresKeys(t *testing.T) {
	_, err := embedding.New(context.Background(), model.EmbeddingConfig{Provider: "openai"}, model.ProviderKeys{})
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	_, err = embedding.New(context.Background(), model.EmbeddingConfig{Provider: "gemini"}, model.ProviderKeys{})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	_, err = embedding.New(context.Background(), model.EmbeddingConfig{Provider: "cohere"}, model.ProviderKeys{})
	assert.ErrorContains(t, err, "unsupported")
}
