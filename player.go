package lottery

import "github.com/shopspring/decimal"

// Player is a single participant in the round.
//
// Balance is denominated in ticket units, so after creation the invariant
// InitialBalance == Balance + TicketsPurchased holds for the rest of the
// round. Winnings are the only field the engine mutates after creation.
type Player struct {
	Name             string          `json:"name"`
	InitialBalance   int             `json:"initial_balance"`
	Balance          int             `json:"balance"`
	TicketsPurchased int             `json:"tickets_purchased"`
	Tickets          []int           `json:"tickets,omitempty"`
	Winnings         decimal.Decimal `json:"winnings"`
}

// newPlayer creates a player with the full starting balance and no tickets
func newPlayer(name string, initialBalance int) *Player {
	return &Player{
		Name:           name,
		InitialBalance: initialBalance,
		Balance:        initialBalance,
		Winnings:       decimal.Zero,
	}
}

// buyTickets deducts up to requested tickets from the player's balance,
// silently capping the purchase at what the balance affords.
// It returns the number of tickets actually purchased.
func (p *Player) buyTickets(requested int) int {
	tickets := requested
	if tickets > p.Balance {
		tickets = p.Balance
	}

	p.Balance -= tickets
	p.TicketsPurchased = tickets
	return tickets
}

// addWinnings accumulates a payout into the player's running winnings,
// rounding after each addition
func (p *Player) addWinnings(amount decimal.Decimal) {
	p.Winnings = p.Winnings.Add(amount).Round(MoneyScale)
}

// HasWon reports whether the player holds positive winnings
func (p *Player) HasWon() bool {
	return p.Winnings.IsPositive()
}

// ownsTicket reports whether number falls inside the player's issued block.
// Ticket blocks are contiguous, so a range check suffices.
func (p *Player) ownsTicket(number int) bool {
	if len(p.Tickets) == 0 {
		return false
	}
	return number >= p.Tickets[0] && number <= p.Tickets[len(p.Tickets)-1]
}
