package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Intent represents a user's signed authorization to move amount+fee of an
// asset to whichever bonded solver produces a valid matching commitment
// before the deadline. Immutable once signed; a new intent with an
// incremented nonce supersedes it.
type Intent struct {
	User     common.Address `json:"user"`
	Asset    common.Address `json:"asset"`
	Amount   *big.Int       `json:"amount"`
	Fee      *big.Int       `json:"fee"`
	Nonce    uint64         `json:"nonce"`
	Deadline uint64         `json:"deadline"` // unix seconds
}

// Expired reports whether the intent deadline has passed at the given time.
func (i *Intent) Expired(now time.Time) bool {
	return uint64(now.Unix()) > i.Deadline
}

// Total returns amount+fee, the full sum released to the solver on settlement.
func (i *Intent) Total() *big.Int {
	return new(big.Int).Add(i.Amount, i.Fee)
}

// SolverCommitment binds a solver to fulfill exactly one intent, identified
// by its digest. It only exists as a signed digest; nothing is persisted.
type SolverCommitment struct {
	IntentDigest common.Hash `json:"intent_digest"`
}

// Mechanism identifies a solver-dispatch policy.
type Mechanism string

const (
	MechanismAuction     Mechanism = "auction"
	MechanismEgalitarian Mechanism = "egalitarian"
	MechanismOpenClaim   Mechanism = "openclaim"
)

// Selection is the outcome of a dispatch mechanism: the solver that will
// service the intent, the fee it settles at, and how long selection took.
type Selection struct {
	Solver  common.Address `json:"solver"`
	Fee     *big.Int       `json:"fee"`
	Latency time.Duration  `json:"latency"`
	Rounds  int            `json:"rounds"`
}
