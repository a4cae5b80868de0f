package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// FulfillmentEvent is emitted once per successful settlement. Append-only:
// never mutated after emission.
type FulfillmentEvent struct {
	ID        string         `json:"id"`
	User      common.Address `json:"user"`
	Solver    common.Address `json:"solver"`
	Asset     common.Address `json:"asset"`
	Amount    *big.Int       `json:"amount"`
	Fee       *big.Int       `json:"fee"`
	CreatedAt time.Time      `json:"created_at"`
}

// StakeEventKind distinguishes bond deposits from withdrawals.
type StakeEventKind string

const (
	StakeAdded     StakeEventKind = "added"
	StakeWithdrawn StakeEventKind = "withdrawn"
)

// StakeEvent is emitted on every bond deposit or withdrawal, carrying the
// solver's resulting total.
type StakeEvent struct {
	ID        string         `json:"id"`
	Kind      StakeEventKind `json:"kind"`
	Solver    common.Address `json:"solver"`
	Amount    *big.Int       `json:"amount"`
	Total     *big.Int       `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
}
