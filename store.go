package lottery

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ResultStore archives finalized round results. Saving happens after a round
// finalizes and never feeds back into game state.
type ResultStore interface {
	// SaveResult persists a finalized round result under roundID
	SaveResult(ctx context.Context, roundID string, result *GameResult) error

	// LoadResult retrieves a previously saved round result.
	// A missing round returns ErrResultNotFound.
	LoadResult(ctx context.Context, roundID string) (*GameResult, error)
}

// generateRoundID generates a unique round identifier using crypto/rand
func generateRoundID() string {
	bytes := make([]byte, RoundIDLength)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a timestamp-based ID if crypto/rand fails
		return fmt.Sprintf("round_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}

// serializeResult serializes a finalized GameResult to JSON bytes
func serializeResult(result *GameResult) ([]byte, error) {
	if result == nil {
		return nil, ErrGameResultMissing
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, ErrSerializationFailed.WithCause(err)
	}

	if len(data) > MaxSerializationSize {
		return nil, ErrSerializationFailed.WithDetails(fmt.Sprintf(
			"serialized result size (%d bytes) exceeds maximum allowed size (%d bytes): roundID=%s",
			len(data), MaxSerializationSize, result.RoundID))
	}

	return data, nil
}

// RedisResultStore persists round results to Redis as JSON with a TTL
type RedisResultStore struct {
	client         *redis.Client
	logger         Logger
	ttl            time.Duration
	retryAttempts  int
	retryBaseDelay time.Duration
}

// NewRedisResultStore creates a Redis-backed result store with default
// TTL and retry settings
func NewRedisResultStore(client *redis.Client, logger Logger) *RedisResultStore {
	return &RedisResultStore{
		client:         client,
		logger:         logger,
		ttl:            DefaultResultTTL,
		retryAttempts:  DefaultStoreRetryAttempts,
		retryBaseDelay: DefaultStoreRetryInterval,
	}
}

// NewRedisResultStoreWithRetry creates a Redis-backed result store with
// custom TTL and retry settings
func NewRedisResultStoreWithRetry(
	client *redis.Client, logger Logger, ttl time.Duration, retryAttempts int, retryDelay time.Duration,
) *RedisResultStore {
	return &RedisResultStore{
		client:         client,
		logger:         logger,
		ttl:            ttl,
		retryAttempts:  retryAttempts,
		retryBaseDelay: retryDelay,
	}
}

// resultKey builds the Redis key for a round
func resultKey(roundID string) string {
	return RoundKeyPrefix + roundID
}

// executeWithRetry executes a Redis operation with exponential backoff,
// retrying only on transient infrastructure failures
func (s *RedisResultStore) executeWithRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	startTime := time.Now()

	for attempt := 0; attempt <= s.retryAttempts; attempt++ {
		if attempt > 0 {
			// baseDelay * 2^(attempt-1), capped
			delay := time.Duration(1<<(attempt-1)) * s.retryBaseDelay
			maxDelay := 5 * time.Second
			if delay > maxDelay {
				delay = maxDelay
			}

			s.logger.Debug("Retrying %s operation (attempt %d/%d) after %v backoff, total elapsed: %v",
				operation, attempt, s.retryAttempts, delay, time.Since(startTime))

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry for %s operation: %w", operation, ctx.Err())
			case <-time.After(delay):
			}
		}

		if lastErr = fn(); lastErr == nil {
			if attempt > 0 {
				s.logger.Info("%s operation succeeded after %d retries", operation, attempt)
			}
			return nil
		}

		if !IsRetryableError(lastErr) {
			s.logger.Debug("%s operation failed with non-retryable error: %v", operation, lastErr)
			return lastErr
		}

		s.logger.Debug("%s operation failed with retryable error (attempt %d/%d): %v",
			operation, attempt+1, s.retryAttempts+1, lastErr)
	}

	return fmt.Errorf("%s operation failed after %d attempts: %w", operation, s.retryAttempts+1, lastErr)
}

// SaveResult persists a finalized round result under roundID
func (s *RedisResultStore) SaveResult(ctx context.Context, roundID string, result *GameResult) error {
	s.logger.Debug("SaveResult called for roundID=%s", roundID)

	if roundID == "" {
		s.logger.Error("SaveResult failed: empty round ID")
		return ErrInvalidParameters.WithDetails("round ID cannot be empty")
	}

	data, err := serializeResult(result)
	if err != nil {
		s.logger.Error("SaveResult serialization failed: roundID=%s, error=%v", roundID, err)
		return err
	}

	key := resultKey(roundID)
	err = s.executeWithRetry(ctx, "save_result", func() error {
		return s.client.Set(ctx, key, data, s.ttl).Err()
	})
	if err != nil {
		s.logger.Error("SaveResult failed to save to Redis: roundID=%s, error=%v", roundID, err)
		return ErrResultSaveFailure.WithCause(err)
	}

	s.logger.Info("Round result saved: roundID=%s, key=%s, size=%d bytes", roundID, key, len(data))
	return nil
}

// LoadResult retrieves a previously saved round result
func (s *RedisResultStore) LoadResult(ctx context.Context, roundID string) (*GameResult, error) {
	s.logger.Debug("LoadResult called for roundID=%s", roundID)

	if roundID == "" {
		s.logger.Error("LoadResult failed: empty round ID")
		return nil, ErrInvalidParameters.WithDetails("round ID cannot be empty")
	}

	key := resultKey(roundID)
	var data string
	err := s.executeWithRetry(ctx, "load_result", func() error {
		val, err := s.client.Get(ctx, key).Result()
		if err != nil {
			return err
		}
		data = val
		return nil
	})
	if err != nil {
		if err == redis.Nil {
			s.logger.Debug("No saved result for roundID=%s", roundID)
			return nil, ErrResultNotFound.WithMetadata("round_id", roundID)
		}
		s.logger.Error("LoadResult failed to load from Redis: roundID=%s, error=%v", roundID, err)
		return nil, ErrResultLoadFailure.WithCause(err)
	}

	result := &GameResult{}
	if err := json.Unmarshal([]byte(data), result); err != nil {
		s.logger.Error("LoadResult deserialization failed: roundID=%s, error=%v", roundID, err)
		return nil, ErrDeserializationFailed.WithCause(err)
	}

	s.logger.Info("Round result loaded: roundID=%s", roundID)
	return result, nil
}

// MemoryResultStore keeps round results in process memory
type MemoryResultStore struct {
	mu      sync.RWMutex
	results map[string]*GameResult
}

// NewMemoryResultStore creates an empty in-memory result store
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{
		results: make(map[string]*GameResult),
	}
}

// SaveResult stores a finalized round result in memory
func (s *MemoryResultStore) SaveResult(ctx context.Context, roundID string, result *GameResult) error {
	if roundID == "" {
		return ErrInvalidParameters.WithDetails("round ID cannot be empty")
	}
	if result == nil {
		return ErrGameResultMissing
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[roundID] = result
	return nil
}

// LoadResult retrieves a round result from memory
func (s *MemoryResultStore) LoadResult(ctx context.Context, roundID string) (*GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[roundID]
	if !ok {
		return nil, ErrResultNotFound.WithMetadata("round_id", roundID)
	}
	return result, nil
}
