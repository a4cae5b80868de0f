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

// OpenClaimBestFit models a first-come-first-served claim with no competitive
// bidding: a fixed claim window followed by a fixed processing delay, then
// finalization at a fixed fee.
type OpenClaimBestFit struct {
	pool            *Pool
	fee             *big.Int
	claimWindow     time.Duration
	processingDelay time.Duration
	logger          zerolog.Logger
}

// NewOpenClaimBestFit builds the mechanism.
func NewOpenClaimBestFit(
	pool *Pool,
	fee *big.Int,
	claimWindow, processingDelay time.Duration,
	logger zerolog.Logger,
) *OpenClaimBestFit {
	return &OpenClaimBestFit{
		pool:            pool,
		fee:             new(big.Int).Set(fee),
		claimWindow:     claimWindow,
		processingDelay: processingDelay,
		logger:          logger.With().Str(logging.FieldModule, "dispatch").Str(logging.FieldMechanism, string(models.MechanismOpenClaim)).Logger(),
	}
}

func (o *OpenClaimBestFit) Name() models.Mechanism {
	return models.MechanismOpenClaim
}

func (o *OpenClaimBestFit) Select(ctx context.Context, intent *models.Intent) (*models.Selection, error) {
	start := time.Now()

	if err := wait(ctx, o.claimWindow+o.processingDelay); err != nil {
		return nil, err
	}

	eligible := o.pool.EligibleSolvers()
	if len(eligible) == 0 {
		return nil, errors.Wrap(ErrNoSolverSelected, "no claim within window")
	}

	selection := &models.Selection{
		Solver:  eligible[0],
		Fee:     new(big.Int).Set(o.fee),
		Latency: time.Since(start),
		Rounds:  1,
	}

	o.logger.Debug().
		Str(logging.FieldSolver, selection.Solver.Hex()).
		Msg("Open claim finalized")

	return selection, nil
}
