package protocol

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// AssetLedger is the external fungible-asset collaborator consumed by the
// settlement engine and the baseline bridge.
type AssetLedger interface {
	// TransferFrom moves amount of asset from owner to recipient on behalf
	// of spender. An owner acting as its own spender needs no allowance.
	TransferFrom(asset, owner, spender, to common.Address, amount *big.Int) error

	// BalanceOf returns the owner's balance of asset.
	BalanceOf(asset, owner common.Address) *big.Int
}

// TokenLedger is an in-memory fungible-asset ledger with standard
// transfer/approve semantics.
type TokenLedger struct {
	mu         sync.Mutex
	balances   map[common.Address]map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]map[common.Address]*big.Int
}

// NewTokenLedger creates an empty ledger.
func NewTokenLedger() *TokenLedger {
	return &TokenLedger{
		balances:   make(map[common.Address]map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]map[common.Address]*big.Int),
	}
}

// Mint credits owner with amount of asset.
func (l *TokenLedger) Mint(asset, owner common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balance(asset, owner)
	balance.Add(balance, amount)
}

// Approve sets spender's allowance over owner's balance of asset.
func (l *TokenLedger) Approve(asset, owner, spender common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	byOwner, ok := l.allowances[asset]
	if !ok {
		byOwner = make(map[common.Address]map[common.Address]*big.Int)
		l.allowances[asset] = byOwner
	}
	bySpender, ok := byOwner[owner]
	if !ok {
		bySpender = make(map[common.Address]*big.Int)
		byOwner[owner] = bySpender
	}
	bySpender[spender] = new(big.Int).Set(amount)
}

// Allowance returns spender's remaining allowance over owner's asset balance.
func (l *TokenLedger) Allowance(asset, owner, spender common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.allowance(asset, owner, spender))
}

// TransferFrom implements AssetLedger. Allowance is checked and consumed
// before the balance moves; both checks pass or nothing changes.
func (l *TokenLedger) TransferFrom(asset, owner, spender, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.Wrap(ErrInsufficientBalance, "negative transfer")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var allowance *big.Int
	if owner != spender {
		allowance = l.allowance(asset, owner, spender)
		if allowance.Cmp(amount) < 0 {
			return errors.Wrapf(ErrInsufficientAllowance, "spender %s", spender.Hex())
		}
	}

	balance := l.balance(asset, owner)
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "owner %s", owner.Hex())
	}

	if allowance != nil {
		allowance.Sub(allowance, amount)
	}
	balance.Sub(balance, amount)

	recipient := l.balance(asset, to)
	recipient.Add(recipient, amount)

	return nil
}

// BalanceOf implements AssetLedger.
func (l *TokenLedger) BalanceOf(asset, owner common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.balance(asset, owner))
}

func (l *TokenLedger) balance(asset, owner common.Address) *big.Int {
	byOwner, ok := l.balances[asset]
	if !ok {
		byOwner = make(map[common.Address]*big.Int)
		l.balances[asset] = byOwner
	}
	balance, ok := byOwner[owner]
	if !ok {
		balance = new(big.Int)
		byOwner[owner] = balance
	}
	return balance
}

func (l *TokenLedger) allowance(asset, owner, spender common.Address) *big.Int {
	byOwner, ok := l.allowances[asset]
	if !ok {
		return new(big.Int)
	}
	bySpender, ok := byOwner[owner]
	if !ok {
		return new(big.Int)
	}
	allowance, ok := bySpender[spender]
	if !ok {
		return new(big.Int)
	}
	return allowance
}
