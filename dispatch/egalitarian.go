package dispatch

import (
	"context"
	"math/big"
	"math/rand"
	"sync"
	"time"

	"github.com/intentlane-hq/intentlane/logging"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// RandomizedEgalitarian selects uniformly at random from the eligible bonded
// pool, with up to maxReassignments re-draws before finalizing. Each
// reassignment round adds one acknowledgment-delay unit to the selection
// latency.
type RandomizedEgalitarian struct {
	pool             *Pool
	fee              *big.Int
	ackDelay         time.Duration
	maxReassignments int
	logger           zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomizedEgalitarian builds the mechanism with a fixed settlement fee.
// The seed makes selection reproducible for benchmarking.
func NewRandomizedEgalitarian(
	pool *Pool,
	fee *big.Int,
	ackDelay time.Duration,
	maxReassignments int,
	seed int64,
	logger zerolog.Logger,
) *RandomizedEgalitarian {
	return &RandomizedEgalitarian{
		pool:             pool,
		fee:              new(big.Int).Set(fee),
		ackDelay:         ackDelay,
		maxReassignments: maxReassignments,
		logger:           logger.With().Str(logging.FieldModule, "dispatch").Str(logging.FieldMechanism, string(models.MechanismEgalitarian)).Logger(),
		rng:              rand.New(rand.NewSource(seed)),
	}
}

func (e *RandomizedEgalitarian) Name() models.Mechanism {
	return models.MechanismEgalitarian
}

func (e *RandomizedEgalitarian) Select(ctx context.Context, intent *models.Intent) (*models.Selection, error) {
	start := time.Now()

	eligible := e.pool.EligibleSolvers()
	if len(eligible) == 0 {
		return nil, errors.Wrap(ErrNoSolverSelected, "no bonded solvers in pool")
	}

	e.mu.Lock()
	reassignments := 0
	if e.maxReassignments > 0 {
		reassignments = e.rng.Intn(e.maxReassignments + 1)
	}
	solver := eligible[e.rng.Intn(len(eligible))]
	e.mu.Unlock()

	rounds := 1
	for i := 0; i < reassignments; i++ {
		if err := wait(ctx, e.ackDelay); err != nil {
			return nil, err
		}

		e.mu.Lock()
		solver = eligible[e.rng.Intn(len(eligible))]
		e.mu.Unlock()
		rounds++
	}

	// Final acknowledgment before the fee is locked in.
	if err := wait(ctx, e.ackDelay); err != nil {
		return nil, err
	}

	selection := &models.Selection{
		Solver:  solver,
		Fee:     new(big.Int).Set(e.fee),
		Latency: time.Since(start),
		Rounds:  rounds,
	}

	e.logger.Debug().
		Str(logging.FieldSolver, solver.Hex()).
		Int("rounds", rounds).
		Msg("Egalitarian assignment finalized")

	return selection, nil
}
