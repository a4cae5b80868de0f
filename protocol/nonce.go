package protocol

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// NonceLedger tracks one strictly increasing counter per user. The counter
// advances by exactly one per successful settlement or cancellation and
// defines the total order of a user's authorized actions.
type NonceLedger struct {
	mu       sync.Mutex
	counters map[common.Address]uint64
}

// NewNonceLedger creates an empty ledger; every user starts at nonce 0.
func NewNonceLedger() *NonceLedger {
	return &NonceLedger{counters: make(map[common.Address]uint64)}
}

// Current returns the user's current nonce.
func (l *NonceLedger) Current(user common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counters[user]
}

// Advance increments the user's nonce and returns the new value. It fails
// with ErrNonceMismatch unless expected equals the current nonce, which gives
// exactly-once consumption: a replayed intent embeds a nonce that no longer
// matches.
func (l *NonceLedger) Advance(user common.Address, expected uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.counters[user]
	if current != expected {
		return 0, errors.Wrapf(ErrNonceMismatch, "expected %d, current %d", expected, current)
	}

	l.counters[user] = current + 1
	return current + 1, nil
}

// rollback restores a nonce consumed by an advance whose follow-up effect
// failed. Callers must hold the settlement lock so no other transition for
// the user interleaves between the advance and the rollback.
func (l *NonceLedger) rollback(user common.Address, to uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters[user] = to
}
