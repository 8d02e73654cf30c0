package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureRandomSource_IntInRange(t *testing.T) {
	t.Run("results stay within bounds", func(t *testing.T) {
		rng := NewSecureRandomSource()

		for i := 0; i < 1000; i++ {
			n, err := rng.IntInRange(5, 17)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, 5)
			assert.LessOrEqual(t, n, 17)
		}
	})

	t.Run("degenerate range returns the single value", func(t *testing.T) {
		rng := NewSecureRandomSource()

		n, err := rng.IntInRange(7, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		rng := NewSecureRandomSource()

		_, err := rng.IntInRange(10, 5)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestSeededRandomSource_IntInRange(t *testing.T) {
	t.Run("same seed yields the same sequence", func(t *testing.T) {
		first := NewSeededRandomSource(99)
		second := NewSeededRandomSource(99)

		for i := 0; i < 100; i++ {
			a, err := first.IntInRange(0, 1000)
			require.NoError(t, err)
			b, err := second.IntInRange(0, 1000)
			require.NoError(t, err)
			assert.Equal(t, a, b, "sequences diverged at draw %d", i)
		}
	})

	t.Run("results stay within bounds", func(t *testing.T) {
		rng := NewSeededRandomSource(1)

		for i := 0; i < 1000; i++ {
			n, err := rng.IntInRange(-3, 3)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, -3)
			assert.LessOrEqual(t, n, 3)
		}
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		rng := NewSeededRandomSource(1)

		_, err := rng.IntInRange(1, 0)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange(1, 10))
	assert.NoError(t, ValidateRange(5, 5))
	assert.ErrorIs(t, ValidateRange(10, 1), ErrInvalidRange)
}
