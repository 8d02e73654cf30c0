package lottery

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(seed int64, cfg *GameConfig) *GameEngine {
	if cfg == nil {
		cfg = testGameConfig()
	}
	rng := NewSeededRandomSource(seed)
	registry := NewPlayerRegistryWithLogger(cfg, rng, NewSilentLogger())
	return NewGameEngineWithLogger(registry, rng, NewSilentLogger())
}

func totalPurchased(engine *GameEngine) int {
	total := 0
	for _, player := range engine.Registry().Players() {
		total += player.TicketsPurchased
	}
	return total
}

func TestGameEngine_InitialiseGame(t *testing.T) {
	t.Run("creates players and issues tickets", func(t *testing.T) {
		engine := newTestEngine(5, nil)

		require.NoError(t, engine.InitialiseGame("You", 5))

		players := engine.Registry().Players()
		require.NotEmpty(t, players)
		assert.Equal(t, "You", players[0].Name)

		owner, err := engine.Registry().FindPlayerByTicket(1)
		require.NoError(t, err)
		assert.Same(t, players[0], owner, "ticket 1 belongs to the user player")
	})

	t.Run("cannot initialise twice", func(t *testing.T) {
		engine := newTestEngine(5, nil)

		require.NoError(t, engine.InitialiseGame("You", 5))
		assert.ErrorIs(t, engine.InitialiseGame("You", 5), ErrGameInProgress)
	})

	t.Run("invalid ticket count surfaces and leaves the engine idle", func(t *testing.T) {
		engine := newTestEngine(5, nil)

		err := engine.InitialiseGame("You", 99)
		assert.ErrorIs(t, err, ErrTicketCountOutOfRange)

		// Still idle, a valid initialisation must succeed afterwards
		assert.NoError(t, engine.InitialiseGame("You", 5))
	})

	t.Run("interactive initialisation uses the prompter", func(t *testing.T) {
		engine := newTestEngine(5, nil)

		require.NoError(t, engine.InitialiseGameInteractive("You", &fixedPrompter{count: 3}))
		assert.Equal(t, 3, engine.Registry().UserPlayer().TicketsPurchased)
	})
}

func TestGameEngine_PlayGame(t *testing.T) {
	t.Run("winnings plus profit equals revenue", func(t *testing.T) {
		for seed := int64(1); seed <= 10; seed++ {
			engine := newTestEngine(seed, nil)
			require.NoError(t, engine.InitialiseGame("You", 5))

			result, err := engine.PlayGame(context.Background())
			require.NoError(t, err)

			total := result.TotalWinnings().Add(result.HouseProfit).Round(MoneyScale)
			assert.True(t, total.Equal(result.TotalRevenue.Round(MoneyScale)),
				"seed %d: winnings %s + profit %s != revenue %s",
				seed, result.TotalWinnings(), result.HouseProfit, result.TotalRevenue)
			assert.NoError(t, result.Validate())
		}
	})

	t.Run("winner counts follow the tier formulas", func(t *testing.T) {
		engine := newTestEngine(5, nil)
		require.NoError(t, engine.InitialiseGame("You", 5))
		total := totalPurchased(engine)

		result, err := engine.PlayGame(context.Background())
		require.NoError(t, err)

		assert.Equal(t, GrandPrizeWinners, result.WinnerCount(TierGrandPrize))
		assert.Equal(t, atLeastOne(total/SecondTierWinnerDivisor), result.WinnerCount(TierSecond))
		assert.Equal(t, atLeastOne(total/ThirdTierWinnerDivisor), result.WinnerCount(TierThird))
	})

	t.Run("per-winner payout is the tier pool split evenly", func(t *testing.T) {
		engine := newTestEngine(5, nil)
		require.NoError(t, engine.InitialiseGame("You", 5))

		result, err := engine.PlayGame(context.Background())
		require.NoError(t, err)

		byTier := result.ByTier()
		for _, tier := range tiers() {
			entries := byTier[tier.label]
			require.NotEmpty(t, entries, "tier %s should have winners", tier.label)

			pool := result.TotalRevenue.Mul(tier.revenueShare)
			expected := pool.Div(decimal.NewFromInt(int64(len(entries)))).Round(MoneyScale)
			for _, entry := range entries {
				assert.True(t, entry.Winnings.Equal(expected),
					"tier %s payout %s != expected %s", tier.label, entry.Winnings, expected)
			}
		}
	})

	t.Run("drawn tickets leave the shared pool", func(t *testing.T) {
		engine := newTestEngine(5, nil)
		require.NoError(t, engine.InitialiseGame("You", 5))
		total := totalPurchased(engine)

		result, err := engine.PlayGame(context.Background())
		require.NoError(t, err)

		remaining := engine.Pool().Len()
		assert.Equal(t, total-len(result.PlayerResults), remaining,
			"each winning entry must retire exactly one ticket")
	})

	t.Run("seeded rounds are reproducible", func(t *testing.T) {
		run := func() *GameResult {
			engine := newTestEngine(42, nil)
			require.NoError(t, engine.InitialiseGame("You", 5))
			result, err := engine.PlayGame(context.Background())
			require.NoError(t, err)
			return result
		}

		first, second := run(), run()
		require.Equal(t, len(first.PlayerResults), len(second.PlayerResults))
		for i := range first.PlayerResults {
			assert.Equal(t, first.PlayerResults[i].PlayerName, second.PlayerResults[i].PlayerName)
			assert.Equal(t, first.PlayerResults[i].Tier, second.PlayerResults[i].Tier)
			assert.True(t, first.PlayerResults[i].Winnings.Equal(second.PlayerResults[i].Winnings))
		}
		assert.True(t, first.HouseProfit.Equal(second.HouseProfit))
	})

	t.Run("requires initialisation", func(t *testing.T) {
		engine := newTestEngine(5, nil)

		_, err := engine.PlayGame(context.Background())
		assert.ErrorIs(t, err, ErrGameNotInitialised)
	})

	t.Run("finalized engine starts a fresh result on re-invocation", func(t *testing.T) {
		engine := newTestEngine(5, nil)
		require.NoError(t, engine.InitialiseGame("You", 5))

		first, err := engine.PlayGame(context.Background())
		require.NoError(t, err)

		second, err := engine.PlayGame(context.Background())
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.NoError(t, second.Validate(), "the fresh result carries no entries over")
	})

	t.Run("cancelled context aborts and resets the phase", func(t *testing.T) {
		engine := newTestEngine(5, nil)
		require.NoError(t, engine.InitialiseGame("You", 5))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := engine.PlayGame(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDistributionFailed)
		assert.ErrorIs(t, err, context.Canceled, "the cause must stay reachable through the wrap")

		// The round rolled back, a fresh attempt succeeds
		result, err := engine.PlayGame(context.Background())
		require.NoError(t, err)
		assert.NoError(t, result.Validate())
	})

	t.Run("monitor records draws and the round", func(t *testing.T) {
		engine := newTestEngine(5, nil)
		require.NoError(t, engine.InitialiseGame("You", 5))

		result, err := engine.PlayGame(context.Background())
		require.NoError(t, err)

		metrics := engine.Monitor().GetMetrics()
		assert.Equal(t, int64(len(result.PlayerResults)), metrics.SuccessfulDraws)
		assert.Equal(t, int64(1), metrics.SuccessfulRounds)
		assert.Equal(t, int64(0), metrics.FailedRounds)
	})

	t.Run("finalized result is archived to the store", func(t *testing.T) {
		engine := newTestEngine(5, nil)
		store := NewMemoryResultStore()
		engine.SetResultStore(store)
		require.NoError(t, engine.InitialiseGame("You", 5))

		result, err := engine.PlayGame(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, engine.RoundID())

		loaded, err := store.LoadResult(context.Background(), engine.RoundID())
		require.NoError(t, err)
		assert.Equal(t, result.RoundID, loaded.RoundID)
		assert.True(t, result.HouseProfit.Equal(loaded.HouseProfit))
	})
}

func TestGameEngine_SingleTicketPool(t *testing.T) {
	cfg := &GameConfig{
		TicketPrice:         1,
		InitialBalance:      1,
		MinPlayers:          1,
		MaxPlayers:          1,
		MinTicketsPerPlayer: 1,
		MaxTicketsPerPlayer: 1,
	}
	engine := newTestEngine(5, cfg)
	require.NoError(t, engine.InitialiseGame("You", 1))
	require.Equal(t, 1, totalPurchased(engine))

	result, err := engine.PlayGame(context.Background())
	require.NoError(t, err)

	// The single ticket takes the grand prize, the other tiers find an empty pool
	require.Len(t, result.PlayerResults, 1)
	assert.Equal(t, TierGrandPrize, result.PlayerResults[0].Tier)
	assert.Equal(t, 0, result.WinnerCount(TierSecond))
	assert.Equal(t, 0, result.WinnerCount(TierThird))

	assert.True(t, result.PlayerResults[0].Winnings.Equal(decimal.NewFromFloat(0.50)),
		"grand prize pool is half of a 1.00 revenue")
	assert.True(t, result.HouseProfit.Equal(decimal.NewFromFloat(0.50)))
	assert.True(t, engine.Pool().IsEmpty())
}

func TestGameEngine_WinningsAccumulateAcrossTiers(t *testing.T) {
	// Small population so multi-tier winners are common; verify the result
	// aggregates per entry while player totals accumulate rounded
	engine := newTestEngine(13, &GameConfig{
		TicketPrice:         1,
		InitialBalance:      10,
		MinPlayers:          2,
		MaxPlayers:          3,
		MinTicketsPerPlayer: 5,
		MaxTicketsPerPlayer: 10,
	})
	require.NoError(t, engine.InitialiseGame("You", 10))

	result, err := engine.PlayGame(context.Background())
	require.NoError(t, err)

	perPlayer := make(map[string]decimal.Decimal)
	for _, entry := range result.PlayerResults {
		sum := perPlayer[entry.PlayerName]
		perPlayer[entry.PlayerName] = sum.Add(entry.Winnings).Round(MoneyScale)
	}
	for _, player := range engine.Registry().Players() {
		expected := perPlayer[player.Name]
		assert.True(t, player.Winnings.Equal(expected),
			"%s holds %s, entries sum to %s", player.Name, player.Winnings, expected)
	}
}
