package lottery

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"
)

// RandomSource is the randomness capability injected into the registry and
// the engine. Implementations return a uniformly distributed integer in
// [min, max] inclusive.
type RandomSource interface {
	IntInRange(min, max int) (int, error)
}

// SecureRandomSource implements RandomSource using crypto/rand
type SecureRandomSource struct{}

// NewSecureRandomSource creates a new secure random source
func NewSecureRandomSource() *SecureRandomSource {
	return &SecureRandomSource{}
}

// IntInRange generates a secure random number within [min, max] inclusive
func (g *SecureRandomSource) IntInRange(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}

	// Handle edge case where min == max
	if min == max {
		return min, nil
	}

	rangeSize := max - min + 1
	randomBig, err := rand.Int(rand.Reader, big.NewInt(int64(rangeSize)))
	if err != nil {
		return 0, err
	}

	return int(randomBig.Int64()) + min, nil
}

// SeededRandomSource implements RandomSource using math/rand with a fixed
// seed, making round outcomes reproducible for tests.
type SeededRandomSource struct {
	rng *mrand.Rand
	mu  sync.Mutex
}

// NewSeededRandomSource creates a random source seeded with seed
func NewSeededRandomSource(seed int64) *SeededRandomSource {
	return &SeededRandomSource{
		rng: mrand.New(mrand.NewSource(seed)),
	}
}

// IntInRange generates a seeded random number within [min, max] inclusive
func (g *SeededRandomSource) IntInRange(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}

	if min == max {
		return min, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(max-min+1) + min, nil
}

// ValidateRange validates range parameters
func ValidateRange(min, max int) error {
	if min > max {
		return ErrInvalidRange
	}
	return nil
}
