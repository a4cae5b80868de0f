package dispatch

import (
	"context"
	"math/big"
	"time"

	"github.com/intentlane-hq/intentlane/logging"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// FeeStep is one step of a descending-fee auction schedule.
type FeeStep struct {
	Wait time.Duration
	Fee  *big.Int
}

// AcceptRule decides whether the offer at a given schedule step is taken.
type AcceptRule func(step int, fee *big.Int) bool

// FixedStepRule accepts exactly the offer at index k.
func FixedStepRule(k int) AcceptRule {
	return func(step int, _ *big.Int) bool { return step == k }
}

// Auction iterates a fixed schedule of decreasing fee offers and selects the
// first eligible solver at the first step the accepting rule takes. Times out
// once the schedule is exhausted.
type Auction struct {
	pool     *Pool
	schedule []FeeStep
	accept   AcceptRule
	logger   zerolog.Logger
}

// NewAuction builds an auction over the given schedule and accepting rule.
func NewAuction(pool *Pool, schedule []FeeStep, accept AcceptRule, logger zerolog.Logger) *Auction {
	return &Auction{
		pool:     pool,
		schedule: schedule,
		accept:   accept,
		logger:   logger.With().Str(logging.FieldModule, "dispatch").Str(logging.FieldMechanism, string(models.MechanismAuction)).Logger(),
	}
}

func (a *Auction) Name() models.Mechanism {
	return models.MechanismAuction
}

func (a *Auction) Select(ctx context.Context, intent *models.Intent) (*models.Selection, error) {
	start := time.Now()

	for step, offer := range a.schedule {
		if err := wait(ctx, offer.Wait); err != nil {
			return nil, err
		}

		if !a.accept(step, offer.Fee) {
			continue
		}

		eligible := a.pool.EligibleSolvers()
		if len(eligible) == 0 {
			return nil, errors.Wrap(ErrNoSolverSelected, "no bonded solvers in pool")
		}

		// First responder takes the accepted offer.
		selection := &models.Selection{
			Solver:  eligible[0],
			Fee:     new(big.Int).Set(offer.Fee),
			Latency: time.Since(start),
			Rounds:  step + 1,
		}

		a.logger.Debug().
			Str(logging.FieldSolver, selection.Solver.Hex()).
			Str("fee", selection.Fee.String()).
			Int("step", step).
			Msg("Auction offer accepted")

		return selection, nil
	}

	return nil, errors.Wrap(ErrNoSolverSelected, "auction schedule exhausted")
}
