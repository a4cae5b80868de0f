package protocol

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intentlane-hq/intentlane/logging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BaselineBridge is the reference two-phase lock/unlock escrow used only as
// a timing and cost baseline. No signatures, no nonce, no bonding.
type BaselineBridge struct {
	mu     sync.Mutex
	escrow common.Address
	assets AssetLedger
	locked map[common.Address]map[common.Address]*big.Int
	logger zerolog.Logger
}

// NewBaselineBridge creates a bridge escrowing funds under the given escrow
// identity. Users must approve the escrow as spender before locking.
func NewBaselineBridge(escrow common.Address, assets AssetLedger, logger zerolog.Logger) *BaselineBridge {
	return &BaselineBridge{
		escrow: escrow,
		assets: assets,
		locked: make(map[common.Address]map[common.Address]*big.Int),
		logger: logger.With().Str(logging.FieldModule, "bridge").Logger(),
	}
}

// Lock moves amount of asset from the user into escrow and credits the
// user's locked balance.
func (b *BaselineBridge) Lock(user, asset common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.Wrap(ErrInsufficientBalance, "lock amount must be positive")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.assets.TransferFrom(asset, user, b.escrow, b.escrow, amount); err != nil {
		return err
	}

	balance := b.lockedBalance(user, asset)
	balance.Add(balance, amount)

	b.logger.Debug().
		Str("user", user.Hex()).
		Str("asset", asset.Hex()).
		Str("amount", amount.String()).
		Msg("Locked funds in escrow")

	return nil
}

// Unlock debits the user's locked balance and returns the asset from escrow.
// Fails with ErrInsufficientLocked if the locked balance does not cover the
// amount; the debit happens before the outbound transfer.
func (b *BaselineBridge) Unlock(user, asset common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.Wrap(ErrInsufficientLocked, "unlock amount must be positive")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	balance := b.lockedBalance(user, asset)
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientLocked, "user %s", user.Hex())
	}

	balance.Sub(balance, amount)

	if err := b.assets.TransferFrom(asset, b.escrow, b.escrow, user, amount); err != nil {
		balance.Add(balance, amount)
		return err
	}

	return nil
}

// LockedBalance returns the user's locked balance for an asset.
func (b *BaselineBridge) LockedBalance(user, asset common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return new(big.Int).Set(b.lockedBalance(user, asset))
}

func (b *BaselineBridge) lockedBalance(user, asset common.Address) *big.Int {
	byAsset, ok := b.locked[user]
	if !ok {
		byAsset = make(map[common.Address]*big.Int)
		b.locked[user] = byAsset
	}
	balance, ok := byAsset[asset]
	if !ok {
		balance = new(big.Int)
		byAsset[asset] = balance
	}
	return balance
}
