package dispatch

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intentlane-hq/intentlane/models"
)

func solverSet(n int) []common.Address {
	out := make([]common.Address, n)
	for i := range out {
		out[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
	}
	return out
}

func testIntent() *models.Intent {
	return &models.Intent{
		User:   common.HexToAddress("0x0b"),
		Asset:  common.HexToAddress("0xa1"),
		Amount: big.NewInt(100),
		Fee:    big.NewInt(1),
	}
}

func TestPoolEligibility(t *testing.T) {
	solvers := solverSet(4)
	banned := solvers[2]

	pool := NewPool(solvers, func(s common.Address) bool { return s != banned })
	eligible := pool.EligibleSolvers()

	require.Len(t, eligible, 3)
	assert.NotContains(t, eligible, banned)

	// nil eligibility admits everyone
	assert.Len(t, NewPool(solvers, nil).EligibleSolvers(), 4)
}

func TestAuctionAcceptsAtStep(t *testing.T) {
	solvers := solverSet(3)
	pool := NewPool(solvers, nil)

	schedule := []FeeStep{
		{Wait: time.Millisecond, Fee: big.NewInt(10)},
		{Wait: time.Millisecond, Fee: big.NewInt(8)},
		{Wait: time.Millisecond, Fee: big.NewInt(6)},
		{Wait: time.Millisecond, Fee: big.NewInt(4)},
	}

	auction := NewAuction(pool, schedule, FixedStepRule(2), zerolog.Nop())
	selection, err := auction.Select(context.Background(), testIntent())
	require.NoError(t, err)

	assert.Equal(t, solvers[0], selection.Solver)
	assert.Equal(t, big.NewInt(6), selection.Fee)
	assert.Equal(t, 3, selection.Rounds)
	assert.GreaterOrEqual(t, selection.Latency, 3*time.Millisecond)
}

func TestAuctionScheduleExhausted(t *testing.T) {
	pool := NewPool(solverSet(2), nil)
	schedule := []FeeStep{
		{Wait: time.Millisecond, Fee: big.NewInt(10)},
		{Wait: time.Millisecond, Fee: big.NewInt(8)},
	}

	// rule never accepts within the schedule
	auction := NewAuction(pool, schedule, FixedStepRule(5), zerolog.Nop())
	_, err := auction.Select(context.Background(), testIntent())
	assert.ErrorIs(t, err, ErrNoSolverSelected)
}

func TestAuctionEmptyPool(t *testing.T) {
	pool := NewPool(solverSet(2), func(common.Address) bool { return false })
	schedule := []FeeStep{{Wait: time.Millisecond, Fee: big.NewInt(10)}}

	auction := NewAuction(pool, schedule, FixedStepRule(0), zerolog.Nop())
	_, err := auction.Select(context.Background(), testIntent())
	assert.ErrorIs(t, err, ErrNoSolverSelected)
}

func TestAuctionContextCancelled(t *testing.T) {
	pool := NewPool(solverSet(2), nil)
	schedule := []FeeStep{{Wait: time.Minute, Fee: big.NewInt(10)}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	auction := NewAuction(pool, schedule, FixedStepRule(0), zerolog.Nop())
	_, err := auction.Select(ctx, testIntent())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEgalitarianSelectsFromEligible(t *testing.T) {
	solvers := solverSet(5)
	banned := solvers[0]
	pool := NewPool(solvers, func(s common.Address) bool { return s != banned })

	mech := NewRandomizedEgalitarian(pool, big.NewInt(2), 0, 2, 1, zerolog.Nop())

	seen := make(map[common.Address]int)
	for i := 0; i < 50; i++ {
		selection, err := mech.Select(context.Background(), testIntent())
		require.NoError(t, err)

		assert.NotEqual(t, banned, selection.Solver)
		assert.Equal(t, big.NewInt(2), selection.Fee)
		assert.GreaterOrEqual(t, selection.Rounds, 1)
		assert.LessOrEqual(t, selection.Rounds, 3)
		seen[selection.Solver]++
	}

	// with a fixed seed and 50 draws every eligible solver gets work
	assert.Len(t, seen, 4)
}

func TestEgalitarianEmptyPool(t *testing.T) {
	pool := NewPool(nil, nil)
	mech := NewRandomizedEgalitarian(pool, big.NewInt(2), 0, 2, 1, zerolog.Nop())

	_, err := mech.Select(context.Background(), testIntent())
	assert.ErrorIs(t, err, ErrNoSolverSelected)
}

func TestOpenClaimFixedTerms(t *testing.T) {
	solvers := solverSet(3)
	pool := NewPool(solvers, nil)

	mech := NewOpenClaimBestFit(pool, big.NewInt(2), 2*time.Millisecond, time.Millisecond, zerolog.Nop())
	selection, err := mech.Select(context.Background(), testIntent())
	require.NoError(t, err)

	assert.Equal(t, solvers[0], selection.Solver)
	assert.Equal(t, big.NewInt(2), selection.Fee)
	assert.Equal(t, 1, selection.Rounds)
	assert.GreaterOrEqual(t, selection.Latency, 3*time.Millisecond)
}

func TestOpenClaimEmptyPool(t *testing.T) {
	pool := NewPool(solverSet(1), func(common.Address) bool { return false })
	mech := NewOpenClaimBestFit(pool, big.NewInt(2), 0, 0, zerolog.Nop())

	_, err := mech.Select(context.Background(), testIntent())
	assert.ErrorIs(t, err, ErrNoSolverSelected)
}

func TestMechanismNames(t *testing.T) {
	pool := NewPool(solverSet(1), nil)

	assert.Equal(t, models.MechanismAuction, NewAuction(pool, nil, FixedStepRule(0), zerolog.Nop()).Name())
	assert.Equal(t, models.MechanismEgalitarian, NewRandomizedEgalitarian(pool, big.NewInt(1), 0, 0, 1, zerolog.Nop()).Name())
	assert.Equal(t, models.MechanismOpenClaim, NewOpenClaimBestFit(pool, big.NewInt(1), 0, 0, zerolog.Nop()).Name())
}
