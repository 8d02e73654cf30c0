package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketPool(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		pool := NewTicketPool()
		assert.True(t, pool.IsEmpty())
		assert.Equal(t, 0, pool.Len())
	})

	t.Run("append and index", func(t *testing.T) {
		pool := NewTicketPool()
		pool.Append(1)
		pool.Append(2)
		pool.Append(3)

		assert.Equal(t, 3, pool.Len())
		assert.Equal(t, 2, pool.At(1))
		assert.True(t, pool.Contains(3))
		assert.False(t, pool.Contains(4))
	})

	t.Run("remove returns the ticket and shrinks the pool", func(t *testing.T) {
		pool := NewTicketPool()
		for n := 1; n <= 5; n++ {
			pool.Append(n)
		}

		removed := pool.RemoveAt(2)
		assert.Equal(t, 3, removed)
		assert.Equal(t, 4, pool.Len())
		assert.False(t, pool.Contains(3), "a removed ticket is no longer a member")
		assert.True(t, pool.Contains(1))
		assert.True(t, pool.Contains(5))
	})

	t.Run("numbers returns an isolated copy", func(t *testing.T) {
		pool := NewTicketPool()
		pool.Append(1)
		pool.Append(2)

		numbers := pool.Numbers()
		require.Equal(t, []int{1, 2}, numbers)

		numbers[0] = 99
		assert.Equal(t, 1, pool.At(0), "mutating the copy must not touch the pool")
	})
}
