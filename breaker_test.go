package lottery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore always reports a transient infrastructure failure
type failingStore struct{}

func (failingStore) SaveResult(ctx context.Context, roundID string, result *GameResult) error {
	return ErrRedisConnectionFailed
}

func (failingStore) LoadResult(ctx context.Context, roundID string) (*GameResult, error) {
	return nil, ErrRedisConnectionFailed
}

func testBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:      true,
		Name:         "test-breaker",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.6,
		MinRequests:  3,
	}
}

func TestBreakerResultStore(t *testing.T) {
	ctx := context.Background()

	t.Run("passes through to a healthy store", func(t *testing.T) {
		breaker := NewBreakerResultStore(NewMemoryResultStore(), testBreakerConfig(), NewSilentLogger())
		result := finalizedResult("round-1")

		require.NoError(t, breaker.SaveResult(ctx, "round-1", result))

		loaded, err := breaker.LoadResult(ctx, "round-1")
		require.NoError(t, err)
		assert.Same(t, result, loaded)
		assert.Equal(t, "closed", breaker.State())
	})

	t.Run("opens after repeated failures and rejects fast", func(t *testing.T) {
		breaker := NewBreakerResultStore(failingStore{}, testBreakerConfig(), NewSilentLogger())
		result := finalizedResult("round-1")

		for i := 0; i < 3; i++ {
			err := breaker.SaveResult(ctx, "round-1", result)
			assert.ErrorIs(t, err, ErrRedisConnectionFailed)
		}

		require.Equal(t, "open", breaker.State())

		err := breaker.SaveResult(ctx, "round-1", result)
		assert.ErrorIs(t, err, ErrCircuitBreakerOpen, "an open breaker rejects without touching the store")
	})

	t.Run("disabled config is a transparent wrapper", func(t *testing.T) {
		cfg := testBreakerConfig()
		cfg.Enabled = false
		breaker := NewBreakerResultStore(NewMemoryResultStore(), cfg, NewSilentLogger())

		require.NoError(t, breaker.SaveResult(ctx, "round-1", finalizedResult("round-1")))
		assert.Equal(t, "disabled", breaker.State())

		health := breaker.HealthCheck()
		assert.Equal(t, false, health["circuit_breaker_enabled"])
		assert.Equal(t, true, health["healthy"])
	})

	t.Run("nil config falls back to defaults", func(t *testing.T) {
		breaker := NewBreakerResultStore(NewMemoryResultStore(), nil, NewSilentLogger())
		assert.Equal(t, "closed", breaker.State())
	})

	t.Run("health check reports breaker statistics", func(t *testing.T) {
		breaker := NewBreakerResultStore(NewMemoryResultStore(), testBreakerConfig(), NewSilentLogger())
		require.NoError(t, breaker.SaveResult(ctx, "round-1", finalizedResult("round-1")))

		health := breaker.HealthCheck()
		assert.Equal(t, true, health["circuit_breaker_enabled"])
		assert.Equal(t, "closed", health["state"])
		assert.Equal(t, true, health["healthy"])
	})
}
