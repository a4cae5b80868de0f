// Package dispatch implements the solver-dispatch policies that decide which
// bonded solver services a given intent and at what fee. Mechanisms are pure
// scheduling policies: they run off the settlement critical path and share no
// state with the settlement engine.
package dispatch

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/pkg/errors"
)

// ErrNoSolverSelected signals a mechanism exhausted its policy window without
// selecting a solver.
var ErrNoSolverSelected = errors.New("no solver selected")

// Mechanism selects a bonded solver and a fee for an intent. Every mechanism
// terminates: it either returns a selection within its policy window or fails
// with ErrNoSolverSelected.
type Mechanism interface {
	Name() models.Mechanism
	Select(ctx context.Context, intent *models.Intent) (*models.Selection, error)
}

// Eligibility reports whether a solver currently meets the bond requirement.
type Eligibility func(solver common.Address) bool

// Pool is the candidate solver set a mechanism draws from, filtered by
// eligibility at selection time.
type Pool struct {
	solvers  []common.Address
	eligible Eligibility
}

// NewPool creates a pool over a fixed solver set. A nil eligibility admits
// every solver.
func NewPool(solvers []common.Address, eligible Eligibility) *Pool {
	if eligible == nil {
		eligible = func(common.Address) bool { return true }
	}

	return &Pool{solvers: solvers, eligible: eligible}
}

// EligibleSolvers returns the solvers passing the eligibility check, in pool
// order.
func (p *Pool) EligibleSolvers() []common.Address {
	out := make([]common.Address, 0, len(p.solvers))
	for _, solver := range p.solvers {
		if p.eligible(solver) {
			out = append(out, solver)
		}
	}
	return out
}

// wait suspends for d or until the context is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
