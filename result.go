package lottery

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlayerResult is a single per-winner entry in the round's result
type PlayerResult struct {
	PlayerName       string          `json:"player_name"`
	TicketsPurchased int             `json:"tickets_purchased"`
	Winnings         decimal.Decimal `json:"winnings"`
	Tier             string          `json:"tier"`
}

// GameResult is the accumulating record of one round: per-winner entries plus
// the house profit. The engine populates it incrementally and never mutates
// it after the round finalizes.
type GameResult struct {
	RoundID       string          `json:"round_id,omitempty"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PlayerResults []PlayerResult  `json:"player_results"`
	HouseProfit   decimal.Decimal `json:"house_profit"`
	Finalized     bool            `json:"finalized"`
	CreatedAt     int64           `json:"created_at"`
}

// NewGameResult creates an empty result for a round with the given revenue
func NewGameResult(totalRevenue decimal.Decimal) *GameResult {
	return &GameResult{
		TotalRevenue:  totalRevenue,
		PlayerResults: make([]PlayerResult, 0),
		HouseProfit:   decimal.Zero,
		CreatedAt:     time.Now().Unix(),
	}
}

// addEntry appends a per-winner entry
func (gr *GameResult) addEntry(player *Player, payout decimal.Decimal, tier string) {
	gr.PlayerResults = append(gr.PlayerResults, PlayerResult{
		PlayerName:       player.Name,
		TicketsPurchased: player.TicketsPurchased,
		Winnings:         payout,
		Tier:             tier,
	})
}

// TotalWinnings sums every recorded payout
func (gr *GameResult) TotalWinnings() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range gr.PlayerResults {
		total = total.Add(entry.Winnings)
	}
	return total
}

// ByTier groups the per-winner entries by prize tier label
func (gr *GameResult) ByTier() map[string][]PlayerResult {
	grouped := make(map[string][]PlayerResult)
	for _, entry := range gr.PlayerResults {
		grouped[entry.Tier] = append(grouped[entry.Tier], entry)
	}
	return grouped
}

// WinnerCount returns the number of winners recorded for a tier
func (gr *GameResult) WinnerCount(tier string) int {
	count := 0
	for _, entry := range gr.PlayerResults {
		if entry.Tier == tier {
			count++
		}
	}
	return count
}

// Validate checks the result's internal accounting: a finalized round must
// satisfy sum(winnings) + house profit == total revenue at 2 decimal places
func (gr *GameResult) Validate() error {
	if len(gr.PlayerResults) == 0 {
		return ErrNoPlayerResults
	}

	if gr.Finalized {
		accounted := gr.TotalWinnings().Round(MoneyScale).Add(gr.HouseProfit)
		if !accounted.Equal(gr.TotalRevenue.Round(MoneyScale)) {
			return ErrInvalidParameters.WithDetails(
				"winnings plus house profit do not reconcile with total revenue")
		}
	}

	return nil
}
