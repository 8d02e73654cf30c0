package lottery

import (
	"context"

	"github.com/sony/gobreaker"
)

// BreakerResultStore wraps a ResultStore with a circuit breaker so a dead
// backend cannot stall rounds: once the failure ratio trips, archival calls
// fail fast until the breaker recovers.
type BreakerResultStore struct {
	store ResultStore

	breaker *gobreaker.CircuitBreaker
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewBreakerResultStore wraps store with a circuit breaker. A disabled
// config yields a pass-through wrapper.
func NewBreakerResultStore(store ResultStore, config *CircuitBreakerConfig, logger Logger) *BreakerResultStore {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}

	if !config.Enabled {
		return &BreakerResultStore{
			store:  store,
			logger: logger,
			config: config,
		}
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange && logger != nil {
				logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
	}

	return &BreakerResultStore{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
		config:  config,
	}
}

// executeWithBreaker runs operation through the breaker when enabled
func (b *BreakerResultStore) executeWithBreaker(operation func() (any, error)) (any, error) {
	if b.breaker == nil {
		return operation()
	}

	result, err := b.breaker.Execute(operation)
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, ErrCircuitBreakerOpen.WithDetails("circuit breaker is open, requests are being rejected")
		}
		if err == gobreaker.ErrTooManyRequests {
			return nil, ErrCircuitBreakerOpen.WithDetails("too many requests, circuit breaker is half-open")
		}
	}

	return result, err
}

// SaveResult persists a round result through the breaker
func (b *BreakerResultStore) SaveResult(ctx context.Context, roundID string, result *GameResult) error {
	_, err := b.executeWithBreaker(func() (any, error) {
		return nil, b.store.SaveResult(ctx, roundID, result)
	})

	return err
}

// LoadResult retrieves a round result through the breaker
func (b *BreakerResultStore) LoadResult(ctx context.Context, roundID string) (*GameResult, error) {
	result, err := b.executeWithBreaker(func() (any, error) {
		return b.store.LoadResult(ctx, roundID)
	})
	if err != nil {
		return nil, err
	}

	return result.(*GameResult), nil
}

// State returns the breaker state as a string
func (b *BreakerResultStore) State() string {
	if b.breaker == nil {
		return "disabled"
	}

	switch b.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts returns the breaker's request statistics
func (b *BreakerResultStore) Counts() gobreaker.Counts {
	if b.breaker == nil {
		return gobreaker.Counts{}
	}

	return b.breaker.Counts()
}

// HealthCheck reports the breaker's health as a map suitable for logging
// or status endpoints
func (b *BreakerResultStore) HealthCheck() map[string]any {
	result := map[string]any{
		"circuit_breaker_enabled": b.config.Enabled,
	}

	if !b.config.Enabled || b.breaker == nil {
		result["state"] = "disabled"
		result["healthy"] = true
		return result
	}

	state := b.State()
	counts := b.Counts()

	result["state"] = state
	result["requests"] = counts.Requests
	result["total_successes"] = counts.TotalSuccesses
	result["total_failures"] = counts.TotalFailures
	result["consecutive_failures"] = counts.ConsecutiveFailures

	healthy := true
	switch state {
	case "open":
		healthy = false
	case "half-open":
		if counts.ConsecutiveFailures > 2 {
			healthy = false
		}
	}
	result["healthy"] = healthy

	return result
}
