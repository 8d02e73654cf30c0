package lottery

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Prize tier revenue shares. The three shares sum to 90% of revenue; the
// remaining 10% is never allocated to a tier and folds into house profit
// through the profit computation (the house edge).
var (
	grandPrizeShare = decimal.NewFromFloat(0.50)
	secondTierShare = decimal.NewFromFloat(0.30)
	thirdTierShare  = decimal.NewFromFloat(0.10)
)

// gamePhase tracks the engine's position in a round
type gamePhase int

const (
	phaseIdle gamePhase = iota
	phaseDistributing
	phaseFinalized
)

func (p gamePhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseDistributing:
		return "distributing"
	case phaseFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// prizeTier describes one prize category
type prizeTier struct {
	label        string
	revenueShare decimal.Decimal
	winnerCount  func(ticketCount int) int
}

// tiers returns the three prize tiers in payout order
func tiers() []prizeTier {
	return []prizeTier{
		{
			label:        TierGrandPrize,
			revenueShare: grandPrizeShare,
			winnerCount:  func(int) int { return GrandPrizeWinners },
		},
		{
			label:        TierSecond,
			revenueShare: secondTierShare,
			winnerCount: func(ticketCount int) int {
				return atLeastOne(ticketCount / SecondTierWinnerDivisor)
			},
		},
		{
			label:        TierThird,
			revenueShare: thirdTierShare,
			winnerCount: func(ticketCount int) int {
				return atLeastOne(ticketCount / ThirdTierWinnerDivisor)
			},
		},
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// GameEngine runs one round of prize distribution over the ticket pool the
// registry generated. Phases run strictly Idle -> Distributing -> Finalized;
// re-invoking PlayGame on a finalized engine starts a fresh result against
// whatever tickets remain in the pool.
//
// The engine is single-owner: nothing here is safe for concurrent use, and
// the engine holds exclusive mutation rights over the pool once
// InitialiseGame returns.
type GameEngine struct {
	registry *PlayerRegistry
	rng      RandomSource
	logger   Logger
	monitor  *RoundMonitor
	store    ResultStore

	pool         *TicketPool
	totalTickets int
	totalRevenue decimal.Decimal
	roundID      string
	phase        gamePhase
}

// NewGameEngine creates an engine for one round
func NewGameEngine(registry *PlayerRegistry, rng RandomSource) *GameEngine {
	return NewGameEngineWithLogger(registry, rng, &DefaultLogger{})
}

// NewGameEngineWithLogger creates an engine with a custom logger
func NewGameEngineWithLogger(registry *PlayerRegistry, rng RandomSource, logger Logger) *GameEngine {
	return &GameEngine{
		registry: registry,
		rng:      rng,
		logger:   logger,
		monitor:  NewRoundMonitor(),
	}
}

// SetResultStore attaches an optional store that finalized results are
// archived to. Saving is best-effort and never alters round semantics.
func (e *GameEngine) SetResultStore(store ResultStore) {
	e.store = store
}

// SetLogger updates the logger at runtime
func (e *GameEngine) SetLogger(logger Logger) {
	if logger != nil && logger != e.logger {
		e.logger = logger
	}
}

// Monitor returns the engine's round monitor
func (e *GameEngine) Monitor() *RoundMonitor {
	return e.monitor
}

// Registry returns the player registry the engine distributes over
func (e *GameEngine) Registry() *PlayerRegistry {
	return e.registry
}

// Pool returns the shared ticket pool, nil before initialisation
func (e *GameEngine) Pool() *TicketPool {
	return e.pool
}

// RoundID returns the identifier assigned to this round at initialisation
func (e *GameEngine) RoundID() string {
	return e.roundID
}

// InitialiseGame delegates to the registry to create the population and
// generate the ticket pool, and records the round's total revenue. At least
// one ticket must exist for subsequent play.
func (e *GameEngine) InitialiseGame(userName string, userTickets int) error {
	e.logger.Debug("InitialiseGame called with userName=%q, userTickets=%d", userName, userTickets)

	if e.phase != phaseIdle {
		e.logger.Error("InitialiseGame failed: engine is %s", e.phase)
		return ErrGameInProgress.WithDetails("engine already initialised")
	}

	if err := e.registry.CreatePlayers(userName, userTickets); err != nil {
		return err
	}

	return e.generateTickets()
}

// InitialiseGameInteractive initialises the round, obtaining the user's
// ticket count through the injected prompter
func (e *GameEngine) InitialiseGameInteractive(userName string, prompter TicketPrompter) error {
	e.logger.Debug("InitialiseGameInteractive called with userName=%q", userName)

	if e.phase != phaseIdle {
		e.logger.Error("InitialiseGameInteractive failed: engine is %s", e.phase)
		return ErrGameInProgress.WithDetails("engine already initialised")
	}

	if err := e.registry.CreatePlayersInteractive(userName, prompter); err != nil {
		return err
	}

	return e.generateTickets()
}

func (e *GameEngine) generateTickets() error {
	pool := NewTicketPool()
	revenue, err := e.registry.GenerateTickets(pool)
	if err != nil {
		return err
	}

	if pool.IsEmpty() {
		e.logger.Error("InitialiseGame failed: no tickets were sold")
		return ErrEmptyTicketPool.WithDetails("no tickets were sold")
	}

	e.pool = pool
	e.totalTickets = pool.Len()
	e.totalRevenue = revenue
	e.roundID = generateRoundID()

	e.logger.Info("Game initialised: roundID=%s, tickets=%d, revenue=%s",
		e.roundID, e.totalTickets, e.totalRevenue)
	return nil
}

// PlayGame runs the two distribution phases and returns the finalized result:
// prize distribution across the three tiers, then house profit computation.
// The round either completes fully or aborts with a wrapped, diagnosable
// error; nothing is silently swallowed.
func (e *GameEngine) PlayGame(ctx context.Context) (*GameResult, error) {
	startTime := time.Now()
	e.logger.Debug("PlayGame called: phase=%s", e.phase)

	switch e.phase {
	case phaseDistributing:
		e.logger.Error("PlayGame failed: distribution already in progress")
		return nil, ErrGameInProgress
	case phaseIdle, phaseFinalized:
		// Idle after InitialiseGame, or a fresh result after a finalized round
	}

	if e.pool == nil {
		e.logger.Error("PlayGame failed: game not initialised")
		return nil, ErrGameNotInitialised
	}
	if e.pool.IsEmpty() {
		e.logger.Error("PlayGame failed: ticket pool is empty")
		return nil, ErrEmptyTicketPool
	}

	e.phase = phaseDistributing
	result := NewGameResult(e.totalRevenue)
	result.RoundID = e.roundID

	if err := e.distributePrizes(ctx, result); err != nil {
		e.phase = phaseIdle
		e.monitor.RecordRound(false, time.Since(startTime))
		return nil, ErrDistributionFailed.WithOperation("distribute_prizes").WithCause(err)
	}

	if err := e.computeHouseProfit(result); err != nil {
		e.phase = phaseIdle
		e.monitor.RecordRound(false, time.Since(startTime))
		return nil, ErrProfitFailed.WithOperation("compute_house_profit").WithCause(err)
	}

	e.phase = phaseFinalized
	e.monitor.RecordRound(true, time.Since(startTime))

	e.logger.Info("PlayGame successful: roundID=%s, winners=%d, houseProfit=%s",
		e.roundID, len(result.PlayerResults), result.HouseProfit)

	e.archiveResult(ctx, result)
	return result, nil
}

// distributePrizes partitions revenue into the three tier pools and draws
// the winners for each
func (e *GameEngine) distributePrizes(ctx context.Context, result *GameResult) error {
	if result == nil {
		return ErrGameResultMissing
	}

	for _, tier := range tiers() {
		// Check for cancellation between tiers
		select {
		case <-ctx.Done():
			e.logger.Info("Prize distribution cancelled during %s", tier.label)
			return ctx.Err()
		default:
		}

		if err := e.drawTierWinners(tier, result); err != nil {
			return err
		}
	}

	return nil
}

// drawTierWinners repeatedly draws tickets for one tier until its winner
// count is reached or the pool is exhausted, whichever comes first
func (e *GameEngine) drawTierWinners(tier prizeTier, result *GameResult) error {
	// Winner counts are computed against the total ticket count fixed at
	// initialisation, not the shrinking pool.
	winnerCount := tier.winnerCount(e.totalTickets)
	tierPool := e.totalRevenue.Mul(tier.revenueShare)
	payout := tierPool.Div(decimal.NewFromInt(int64(winnerCount))).Round(MoneyScale)

	e.logger.Debug("Drawing %s: winners=%d, tierPool=%s, payout=%s",
		tier.label, winnerCount, tierPool, payout)

	for drawn := 0; drawn < winnerCount && !e.pool.IsEmpty(); drawn++ {
		drawStart := time.Now()

		index, err := e.rng.IntInRange(0, e.pool.Len()-1)
		if err != nil {
			e.monitor.RecordDraw(false, time.Since(drawStart))
			e.logger.Error("Draw failed for %s: %v", tier.label, err)
			return err
		}

		ticket := e.pool.At(index)

		// Resolve the owner before retiring the ticket; afterwards the
		// residual-membership lookup would report it absent.
		winner, err := e.registry.FindPlayerByTicket(ticket)
		if err != nil {
			// Every pooled ticket maps to exactly one player, so this is an
			// unrecoverable consistency violation.
			e.monitor.RecordDraw(false, time.Since(drawStart))
			e.logger.Error("Ticket %d resolved to no player during %s: %v", ticket, tier.label, err)
			return ErrSystemError.
				WithDetails("drawn ticket resolved to no player").
				WithMetadata("ticket", ticket).
				WithCause(err)
		}

		e.pool.RemoveAt(index)

		winner.addWinnings(payout)
		result.addEntry(winner, payout, tier.label)
		e.monitor.RecordDraw(true, time.Since(drawStart))

		e.logger.Debug("%s winner: player=%q, ticket=%d, payout=%s",
			tier.label, winner.Name, ticket, payout)
	}

	if got := result.WinnerCount(tier.label); got < winnerCount {
		e.logger.Info("%s pool exhausted: %d/%d winners drawn", tier.label, got, winnerCount)
	}

	return nil
}

// computeHouseProfit records the revenue the house retains after all payouts
func (e *GameEngine) computeHouseProfit(result *GameResult) error {
	if result == nil {
		return ErrGameResultMissing
	}
	if len(result.PlayerResults) == 0 {
		return ErrNoPlayerResults
	}

	totalWinnings := result.TotalWinnings().Round(MoneyScale)
	result.HouseProfit = e.totalRevenue.Sub(totalWinnings).Round(MoneyScale)
	result.Finalized = true

	e.logger.Debug("House profit computed: revenue=%s, winnings=%s, profit=%s",
		e.totalRevenue, totalWinnings, result.HouseProfit)
	return nil
}

// archiveResult saves the finalized result to the attached store, if any.
// Failures are logged, not surfaced: archival never fails a completed round.
func (e *GameEngine) archiveResult(ctx context.Context, result *GameResult) {
	if e.store == nil {
		return
	}

	if err := e.store.SaveResult(ctx, e.roundID, result); err != nil {
		e.logger.Error("Failed to archive round result: roundID=%s, error=%v", e.roundID, err)
		return
	}

	e.logger.Info("Round result archived: roundID=%s", e.roundID)
}
