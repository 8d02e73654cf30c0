package lottery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *GameResult {
	result := NewGameResult(decimal.NewFromInt(100))
	result.RoundID = "round-1"
	alice := &Player{Name: "Alice", TicketsPurchased: 5}
	bob := &Player{Name: "Bob", TicketsPurchased: 3}

	result.addEntry(alice, decimal.NewFromFloat(50.00), TierGrandPrize)
	result.addEntry(bob, decimal.NewFromFloat(30.00), TierSecond)
	result.addEntry(alice, decimal.NewFromFloat(10.00), TierThird)
	return result
}

func TestGameResult_TotalWinnings(t *testing.T) {
	result := sampleResult()
	assert.True(t, result.TotalWinnings().Equal(decimal.NewFromInt(90)))
}

func TestGameResult_ByTier(t *testing.T) {
	grouped := sampleResult().ByTier()

	require.Len(t, grouped, 3)
	assert.Equal(t, "Alice", grouped[TierGrandPrize][0].PlayerName)
	assert.Equal(t, "Bob", grouped[TierSecond][0].PlayerName)
	assert.Equal(t, "Alice", grouped[TierThird][0].PlayerName)
}

func TestGameResult_WinnerCount(t *testing.T) {
	result := sampleResult()

	assert.Equal(t, 1, result.WinnerCount(TierGrandPrize))
	assert.Equal(t, 1, result.WinnerCount(TierSecond))
	assert.Equal(t, 0, result.WinnerCount("no such tier"))
}

func TestGameResult_Validate(t *testing.T) {
	t.Run("empty result is invalid", func(t *testing.T) {
		result := NewGameResult(decimal.NewFromInt(100))
		assert.ErrorIs(t, result.Validate(), ErrNoPlayerResults)
	})

	t.Run("finalized result must reconcile", func(t *testing.T) {
		result := sampleResult()
		result.HouseProfit = decimal.NewFromInt(10)
		result.Finalized = true
		assert.NoError(t, result.Validate())

		result.HouseProfit = decimal.NewFromInt(11)
		assert.Error(t, result.Validate(), "winnings plus profit above revenue must fail")
	})

	t.Run("unfinalized result skips the accounting check", func(t *testing.T) {
		result := sampleResult()
		assert.NoError(t, result.Validate())
	})
}
