package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestWrapRedis(t *testing.T) {
	assert.Nil(t, WrapRedis(nil))

	err := WrapRedis(redis.Nil)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.ErrorIs(t, err, redis.Nil)

	err = WrapRedis(errors.New("connection refused"))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, KindStore, KindOf(err))
}

func TestWrapMongo(t *testing.T) {
	err := WrapMongo(mongo.ErrNoDocuments)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	assert.Equal(t, KindNotFound, KindOf(err))

	err = WrapMongo(errors.New("server selection timeout"))
	assert.Equal(t, KindStore, KindOf(err))
}

func TestTurnLimit(t *testing.T) {
	err := fmt.Errorf("invoke: %w", TurnLimit(15))
	assert.ErrorIs(t, err, ErrTurnLimitExceeded)
	assert.Equal(t, KindTurnLimitExceeded, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Contains(t, err.Error(), "15 round trips")
}

func TestAs(t *testing.T) {
	var appErr *AppError
	require.True(t, errors.As(WrapProvider(errors.New("503")), &appErr))
	assert.Equal(t, KindProvider, appErr.Kind)
	assert.Equal(t, ProviderErrorMessage, appErr.Message)
}

func TestStatusOfPlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestConflict(t *testing.T) {
	cause := errors.New("E11000 duplicate key")
	err := fmt.Errorf("insert: %w", Conflict(cause, "employee EMP-1 already exists"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, http.StatusConflict, StatusOf(err))
}
