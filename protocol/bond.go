package protocol

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/intentlane-hq/intentlane/utils"
	"github.com/pkg/errors"
)

// BondLedger tracks per-solver staked collateral. A bond at or above the
// minimum is the economic precondition for settlement eligibility; the stake
// amount carries no further protocol semantics.
type BondLedger struct {
	mu       sync.Mutex
	minimum  *big.Int
	balances map[common.Address]*big.Int
	sink     EventSink
	now      func() time.Time
}

// NewBondLedger creates a ledger with the given minimum bond. A nil sink
// discards stake events.
func NewBondLedger(minimum *big.Int, sink EventSink) *BondLedger {
	if sink == nil {
		sink = NopSink{}
	}

	return &BondLedger{
		minimum:  new(big.Int).Set(minimum),
		balances: make(map[common.Address]*big.Int),
		sink:     sink,
		now:      time.Now,
	}
}

// MinimumBond returns the eligibility threshold.
func (l *BondLedger) MinimumBond() *big.Int {
	return new(big.Int).Set(l.minimum)
}

// Deposit increases the solver's bond and returns the new total. The bond is
// created implicitly on first stake.
func (l *BondLedger) Deposit(ctx context.Context, solver common.Address, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.Wrap(ErrInvalidStake, "deposit must be positive")
	}

	l.mu.Lock()
	balance, ok := l.balances[solver]
	if !ok {
		balance = new(big.Int)
		l.balances[solver] = balance
	}
	balance.Add(balance, amount)
	total := new(big.Int).Set(balance)
	l.mu.Unlock()

	l.sink.RecordStake(ctx, &models.StakeEvent{
		ID:        utils.EventID(),
		Kind:      models.StakeAdded,
		Solver:    solver,
		Amount:    new(big.Int).Set(amount),
		Total:     total,
		CreatedAt: l.now(),
	})

	return total, nil
}

// Withdraw decreases the solver's bond and returns the new total. It fails
// with ErrInsufficientBond on a zero amount or over-withdrawal. The balance
// is debited before funds are released, so a re-entrant withdrawal observes
// the reduced balance.
func (l *BondLedger) Withdraw(ctx context.Context, solver common.Address, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.Wrap(ErrInsufficientBond, "withdrawal must be positive")
	}

	l.mu.Lock()
	balance, ok := l.balances[solver]
	if !ok || balance.Cmp(amount) < 0 {
		l.mu.Unlock()
		return nil, errors.Wrapf(ErrInsufficientBond, "solver %s", solver.Hex())
	}
	balance.Sub(balance, amount)
	total := new(big.Int).Set(balance)
	l.mu.Unlock()

	l.sink.RecordStake(ctx, &models.StakeEvent{
		ID:        utils.EventID(),
		Kind:      models.StakeWithdrawn,
		Solver:    solver,
		Amount:    new(big.Int).Set(amount),
		Total:     total,
		CreatedAt: l.now(),
	})

	return total, nil
}

// Balance returns the solver's current bond.
func (l *BondLedger) Balance(solver common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[solver]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(balance)
}

// Eligible reports whether the solver's bond meets the minimum.
func (l *BondLedger) Eligible(solver common.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[solver]
	return ok && balance.Cmp(l.minimum) >= 0
}
