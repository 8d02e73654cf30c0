package lottery

import "time"

const (
	// DefaultTicketPrice is the default cost of a single ticket
	DefaultTicketPrice = 1.0

	// DefaultInitialBalance is the default starting balance per player,
	// denominated in ticket units (one unit buys one ticket)
	DefaultInitialBalance = 10

	// DefaultMinPlayers is the default lower bound on the total player count
	DefaultMinPlayers = 10

	// DefaultMaxPlayers is the default upper bound on the total player count
	DefaultMaxPlayers = 15

	// DefaultMinTicketsPerPlayer is the default minimum tickets a player may request
	DefaultMinTicketsPerPlayer = 1

	// DefaultMaxTicketsPerPlayer is the default maximum tickets a player may request
	DefaultMaxTicketsPerPlayer = 10

	// DefaultUserPlayerName is the display name given to the user player
	// when the caller does not supply one
	DefaultUserPlayerName = "Player 1"

	// DefaultPromptAttempts is the number of times the console prompter
	// re-asks after invalid input before giving up
	DefaultPromptAttempts = 3
)

// Prize tier labels
const (
	TierGrandPrize = "Grand Prize"
	TierSecond     = "Second Tier"
	TierThird      = "Third Tier"
)

const (
	// GrandPrizeWinners is the fixed number of Grand Prize winners
	GrandPrizeWinners = 1

	// SecondTierWinnerDivisor yields the Second Tier winner count:
	// max(1, ticketCount/SecondTierWinnerDivisor)
	SecondTierWinnerDivisor = 10

	// ThirdTierWinnerDivisor yields the Third Tier winner count:
	// max(1, ticketCount/ThirdTierWinnerDivisor)
	ThirdTierWinnerDivisor = 5

	// MoneyScale is the number of decimal places all monetary amounts
	// are rounded to
	MoneyScale = 2
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "lottoround-store"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3

	// DefaultCircuitBreakerOnStateChange is the default on state change
	DefaultCircuitBreakerOnStateChange = true
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 50
	DefaultRedisMinIdleConns = 10
	DefaultRedisMaxRetries   = 3
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisPoolTimeout  = 4 * time.Second
)

const (
	// RoundKeyPrefix is the prefix for Redis round result keys
	RoundKeyPrefix = "lotto:round:"

	// DefaultResultTTL is the default TTL for persisted round results
	DefaultResultTTL = 24 * time.Hour

	// DefaultStoreRetryAttempts is the default number of store retry attempts
	DefaultStoreRetryAttempts = 3

	// DefaultStoreRetryInterval is the default base delay between store retries
	DefaultStoreRetryInterval = 100 * time.Millisecond

	// MaxSerializationSize is the maximum allowed size for a serialized
	// GameResult (10MB)
	MaxSerializationSize = 10 * 1024 * 1024

	// RoundIDLength is the length of the generated round ID in bytes
	RoundIDLength = 8
)
