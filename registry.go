package lottery

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PlayerRegistry owns the player population of a single round. It creates
// the user player and a randomized number of simulated players, issues the
// globally unique ticket numbers, and answers ticket-ownership queries.
type PlayerRegistry struct {
	config  *GameConfig
	rng     RandomSource
	logger  Logger
	players []*Player

	// Shared pool reference kept from GenerateTickets; ownership lookups
	// consult its residual membership so retired tickets resolve as absent.
	pool *TicketPool
}

// NewPlayerRegistry creates a registry for one round
func NewPlayerRegistry(config *GameConfig, rng RandomSource) *PlayerRegistry {
	return NewPlayerRegistryWithLogger(config, rng, &DefaultLogger{})
}

// NewPlayerRegistryWithLogger creates a registry with a custom logger
func NewPlayerRegistryWithLogger(config *GameConfig, rng RandomSource, logger Logger) *PlayerRegistry {
	if config == nil {
		config = DefaultGameConfig()
	}

	return &PlayerRegistry{
		config: config,
		rng:    rng,
		logger: logger,
	}
}

// CreatePlayers materializes the player population: the user player with the
// requested ticket count, then a uniformly drawn total player count with
// randomized ticket purchases for every simulated player.
//
// userTickets must lie within the configured per-player limit; violating it
// returns ErrTicketCountOutOfRange and creates no players. Affordability then
// silently caps every purchase, including the user's, at the player's balance.
func (r *PlayerRegistry) CreatePlayers(userName string, userTickets int) error {
	r.logger.Debug("CreatePlayers called with userName=%q, userTickets=%d", userName, userTickets)

	if len(r.players) > 0 {
		r.logger.Error("CreatePlayers failed: players already created")
		return ErrPlayersAlreadyCreated
	}

	limit := r.config
	if userTickets < limit.MinTicketsPerPlayer || userTickets > limit.MaxTicketsPerPlayer {
		r.logger.Error("CreatePlayers validation failed: userTickets=%d outside [%d, %d]",
			userTickets, limit.MinTicketsPerPlayer, limit.MaxTicketsPerPlayer)
		return ErrTicketCountOutOfRange.WithDetails(
			fmt.Sprintf("requested %d, allowed [%d, %d]",
				userTickets, limit.MinTicketsPerPlayer, limit.MaxTicketsPerPlayer))
	}

	if userName == "" {
		userName = DefaultUserPlayerName
	}

	// The total player count includes the user player
	totalPlayers, err := r.rng.IntInRange(limit.MinPlayers, limit.MaxPlayers)
	if err != nil {
		r.logger.Error("CreatePlayers failed to draw player count: %v", err)
		return ErrSystemError.WithOperation("create_players").WithCause(err)
	}

	user := newPlayer(userName, limit.InitialBalance)
	bought := user.buyTickets(userTickets)
	r.players = append(r.players, user)
	r.logger.Debug("User player created: name=%q, tickets=%d, balance=%d", user.Name, bought, user.Balance)

	for i := 2; i <= totalPlayers; i++ {
		requested, err := r.rng.IntInRange(limit.MinTicketsPerPlayer, limit.MaxTicketsPerPlayer)
		if err != nil {
			r.players = nil
			r.logger.Error("CreatePlayers failed to draw ticket count for player %d: %v", i, err)
			return ErrSystemError.WithOperation("create_players").WithCause(err)
		}

		player := newPlayer(fmt.Sprintf("Player %d", i), limit.InitialBalance)
		player.buyTickets(requested)
		r.players = append(r.players, player)
	}

	r.logger.Info("CreatePlayers successful: %d players created", len(r.players))
	return nil
}

// CreatePlayersInteractive obtains the user's ticket count from the injected
// prompter, then creates the population
func (r *PlayerRegistry) CreatePlayersInteractive(userName string, prompter TicketPrompter) error {
	if prompter == nil {
		return ErrInvalidParameters.WithDetails("prompter cannot be nil")
	}

	count, err := prompter.PromptTicketCount(r.config.MinTicketsPerPlayer, r.config.MaxTicketsPerPlayer)
	if err != nil {
		r.logger.Error("CreatePlayersInteractive prompt failed: %v", err)
		return ErrPromptFailed.WithCause(err)
	}

	return r.CreatePlayers(userName, count)
}

// GenerateTickets assigns every player a contiguous block of ticket numbers
// sized to its purchase, starting at 1 with no gaps or overlaps, appending
// each number to the player's own record and to pool. It returns the total
// revenue as an exact decimal.
func (r *PlayerRegistry) GenerateTickets(pool *TicketPool) (decimal.Decimal, error) {
	r.logger.Debug("GenerateTickets called")

	if pool == nil {
		r.logger.Error("GenerateTickets failed: nil ticket pool")
		return decimal.Zero, ErrNilTicketPool
	}
	if len(r.players) == 0 {
		r.logger.Error("GenerateTickets failed: no players created")
		return decimal.Zero, ErrPlayersNotCreated
	}

	next := 1
	totalTickets := 0
	for _, player := range r.players {
		for i := 0; i < player.TicketsPurchased; i++ {
			player.Tickets = append(player.Tickets, next)
			pool.Append(next)
			next++
		}
		totalTickets += player.TicketsPurchased
	}

	r.pool = pool

	price := decimal.NewFromFloat(r.config.TicketPrice)
	revenue := decimal.NewFromInt(int64(totalTickets)).Mul(price)

	r.logger.Info("GenerateTickets successful: %d tickets issued, revenue=%s", totalTickets, revenue)
	return revenue, nil
}

// FindPlayerByTicket resolves a ticket number to its owning player.
//
// Non-positive numbers return ErrInvalidTicketNumber. Numbers that were never
// sold, or that have been retired from the shared pool by prize distribution,
// return ErrPlayerNotFound: residual pool membership decides, not the
// per-player records, which stay intact for reporting.
func (r *PlayerRegistry) FindPlayerByTicket(number int) (*Player, error) {
	if number <= 0 {
		return nil, ErrInvalidTicketNumber.WithDetails(fmt.Sprintf("got %d", number))
	}

	if r.pool == nil || !r.pool.Contains(number) {
		return nil, ErrPlayerNotFound.WithMetadata("ticket", number)
	}

	for _, player := range r.players {
		if player.ownsTicket(number) {
			return player, nil
		}
	}

	return nil, ErrPlayerNotFound.WithMetadata("ticket", number)
}

// GetWinningPlayers returns every player with positive winnings
func (r *PlayerRegistry) GetWinningPlayers() []*Player {
	winners := make([]*Player, 0)
	for _, player := range r.players {
		if player.HasWon() {
			winners = append(winners, player)
		}
	}
	return winners
}

// Players returns the full population in creation order
func (r *PlayerRegistry) Players() []*Player {
	return r.players
}

// UserPlayer returns the user-controlled player, or nil before creation
func (r *PlayerRegistry) UserPlayer() *Player {
	if len(r.players) == 0 {
		return nil
	}
	return r.players[0]
}

// Config returns the game rules this registry was built with
func (r *PlayerRegistry) Config() *GameConfig {
	return r.config
}
