package lottery

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode identifies a class of failure
type ErrorCode string

const (
	// System errors (1000-1999)
	ErrCodeSystem          ErrorCode = "LOTTO_1000"
	ErrCodeRedisConnection ErrorCode = "LOTTO_1001"
	ErrCodeRedisTimeout    ErrorCode = "LOTTO_1002"
	ErrCodeConfigInvalid   ErrorCode = "LOTTO_1003"

	// Game errors (2000-2999)
	ErrCodeInvalidParameters     ErrorCode = "LOTTO_2000"
	ErrCodeInvalidRange          ErrorCode = "LOTTO_2001"
	ErrCodeTicketCountOutOfRange ErrorCode = "LOTTO_2002"
	ErrCodeInvalidTicketNumber   ErrorCode = "LOTTO_2003"
	ErrCodeNilTicketPool         ErrorCode = "LOTTO_2004"
	ErrCodeEmptyTicketPool       ErrorCode = "LOTTO_2005"
	ErrCodePlayerNotFound        ErrorCode = "LOTTO_2006"
	ErrCodePlayersAlreadyCreated ErrorCode = "LOTTO_2007"
	ErrCodePlayersNotCreated     ErrorCode = "LOTTO_2008"
	ErrCodeNoPlayerResults       ErrorCode = "LOTTO_2009"
	ErrCodeGameNotInitialised    ErrorCode = "LOTTO_2010"
	ErrCodeGameInProgress        ErrorCode = "LOTTO_2011"
	ErrCodeGameResultMissing     ErrorCode = "LOTTO_2012"
	ErrCodeDistributionFailed    ErrorCode = "LOTTO_2013"
	ErrCodeProfitFailed          ErrorCode = "LOTTO_2014"
	ErrCodePromptFailed          ErrorCode = "LOTTO_2015"

	// Circuit breaker errors (5000-5999)
	ErrCodeCircuitBreakerOpen ErrorCode = "LOTTO_5000"

	// Store errors (6000-6999)
	ErrCodeResultNotFound        ErrorCode = "LOTTO_6000"
	ErrCodeResultSaveFailure     ErrorCode = "LOTTO_6001"
	ErrCodeResultLoadFailure     ErrorCode = "LOTTO_6002"
	ErrCodeSerializationFailed   ErrorCode = "LOTTO_6003"
	ErrCodeDeserializationFailed ErrorCode = "LOTTO_6004"
)

// ErrorSeverity classifies how serious a failure is
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// GameError is the error type carried across the lottery round
type GameError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	Severity   ErrorSeverity  `json:"severity"`
	Timestamp  time.Time      `json:"timestamp"`
	Operation  string         `json:"operation,omitempty"`
	StackTrace string         `json:"stack_trace,omitempty"`
	Cause      error          `json:"-"`
	Retryable  bool           `json:"retryable"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *GameError) Unwrap() error {
	return e.Cause
}

// Is implements the errors.Is interface; two GameErrors match on their code
func (e *GameError) Is(target error) bool {
	if t, ok := target.(*GameError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithCause attaches the underlying error
func (e *GameError) WithCause(cause error) *GameError {
	c := *e
	c.Cause = cause
	return &c
}

// WithDetails attaches human-readable detail
func (e *GameError) WithDetails(details string) *GameError {
	c := *e
	c.Details = details
	return &c
}

// WithOperation records which phase or operation failed
func (e *GameError) WithOperation(operation string) *GameError {
	c := *e
	c.Operation = operation
	return &c
}

// WithMetadata attaches a key/value pair for diagnostics
func (e *GameError) WithMetadata(key string, value any) *GameError {
	c := *e
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	} else {
		md := make(map[string]any, len(c.Metadata)+1)
		for k, v := range c.Metadata {
			md[k] = v
		}
		c.Metadata = md
	}
	c.Metadata[key] = value
	return &c
}

// WithStackTrace captures the current goroutine stack
func (e *GameError) WithStackTrace() *GameError {
	c := *e
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	c.StackTrace = string(buf[:n])
	return &c
}

// NewError creates a new error
func NewError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: false,
	}
}

// NewRetryableError creates an error callers may retry
func NewRetryableError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: true,
	}
}

// NewCriticalError creates a critical error with a captured stack trace
func NewCriticalError(code ErrorCode, message string) *GameError {
	err := &GameError{
		Code:      code,
		Message:   message,
		Severity:  SeverityCritical,
		Timestamp: time.Now(),
		Retryable: false,
	}
	return err.WithStackTrace()
}

// Predefined error instances
var (
	// System errors
	ErrSystemError           = NewCriticalError(ErrCodeSystem, "system error occurred")
	ErrRedisConnectionFailed = NewRetryableError(ErrCodeRedisConnection, "Redis connection failed")
	ErrRedisTimeout          = NewRetryableError(ErrCodeRedisTimeout, "Redis operation timeout")
	ErrConfigInvalid         = NewCriticalError(ErrCodeConfigInvalid, "configuration is invalid")

	// Game errors
	ErrInvalidParameters     = NewError(ErrCodeInvalidParameters, "invalid parameters provided")
	ErrInvalidRange          = NewError(ErrCodeInvalidRange, "invalid range: min must be less than or equal to max")
	ErrTicketCountOutOfRange = NewError(ErrCodeTicketCountOutOfRange, "requested ticket count is outside the configured limit")
	ErrInvalidTicketNumber   = NewError(ErrCodeInvalidTicketNumber, "invalid ticket number: must be a positive integer")
	ErrNilTicketPool         = NewError(ErrCodeNilTicketPool, "ticket pool cannot be nil")
	ErrEmptyTicketPool       = NewError(ErrCodeEmptyTicketPool, "ticket pool is empty")
	ErrPlayerNotFound        = NewError(ErrCodePlayerNotFound, "no player owns this ticket")
	ErrPlayersAlreadyCreated = NewError(ErrCodePlayersAlreadyCreated, "players have already been created for this round")
	ErrPlayersNotCreated     = NewError(ErrCodePlayersNotCreated, "players have not been created yet")
	ErrNoPlayerResults       = NewError(ErrCodeNoPlayerResults, "game result contains no player results")
	ErrGameNotInitialised    = NewError(ErrCodeGameNotInitialised, "game has not been initialised")
	ErrGameInProgress        = NewError(ErrCodeGameInProgress, "prize distribution is already in progress")
	ErrGameResultMissing     = NewError(ErrCodeGameResultMissing, "game result cannot be nil")
	ErrDistributionFailed    = NewCriticalError(ErrCodeDistributionFailed, "prize distribution failed")
	ErrProfitFailed          = NewCriticalError(ErrCodeProfitFailed, "house profit computation failed")
	ErrPromptFailed          = NewError(ErrCodePromptFailed, "failed to obtain a valid ticket count")

	// Circuit breaker errors
	ErrCircuitBreakerOpen = NewRetryableError(ErrCodeCircuitBreakerOpen, "circuit breaker is open")

	// Store errors
	ErrResultNotFound        = NewError(ErrCodeResultNotFound, "round result not found")
	ErrResultSaveFailure     = NewRetryableError(ErrCodeResultSaveFailure, "failed to save round result")
	ErrResultLoadFailure     = NewRetryableError(ErrCodeResultLoadFailure, "failed to load round result")
	ErrSerializationFailed   = NewError(ErrCodeSerializationFailed, "serialization failed")
	ErrDeserializationFailed = NewError(ErrCodeDeserializationFailed, "deserialization failed")
)

// IsRetryableError reports whether err looks like a transient infrastructure
// failure worth retrying
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var gameErr *GameError
	if errors.As(err, &gameErr) {
		return gameErr.Retryable
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"network is unreachable",
		"temporary failure",
		"server closed",
		"broken pipe",
		"i/o timeout",
		"dial tcp",
		"read tcp",
		"write tcp",
		"connection timed out",
		"no route to host",
		"host is down",
		"connection aborted",
		"operation timed out",
		"redis: connection pool timeout",
		"redis: client is closed",
		"context deadline exceeded",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
