package protocol

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intentlane-hq/intentlane/logging"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/intentlane-hq/intentlane/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// FulfillParams carries everything a solver submits to settle an intent.
// The nonce is never supplied by the caller; the engine recomputes the digest
// with the user's current nonce, so a stale intent fails signature
// verification or nonce consumption.
type FulfillParams struct {
	User            common.Address
	Asset           common.Address
	Amount          *big.Int
	Fee             *big.Int
	Deadline        uint64
	UserSignature   []byte
	SolverSignature []byte
	Caller          common.Address
}

// SettlementEngine validates an intent/commitment pair, consumes a nonce and
// performs the atomic asset transfer.
type SettlementEngine struct {
	codec  *DigestCodec
	nonces *NonceLedger
	bonds  *BondLedger
	assets AssetLedger
	sink   EventSink
	now    func() time.Time
	logger zerolog.Logger

	// settleMu serializes the effects phase so a failed transfer can roll
	// the nonce back without another transition for the same user
	// interleaving.
	settleMu sync.Mutex
}

// NewSettlementEngine wires the engine with its collaborators. A nil sink
// discards events.
func NewSettlementEngine(
	codec *DigestCodec,
	nonces *NonceLedger,
	bonds *BondLedger,
	assets AssetLedger,
	sink EventSink,
	logger zerolog.Logger,
) *SettlementEngine {
	if sink == nil {
		sink = NopSink{}
	}

	return &SettlementEngine{
		codec:  codec,
		nonces: nonces,
		bonds:  bonds,
		assets: assets,
		sink:   sink,
		now:    time.Now,
		logger: logger.With().Str(logging.FieldModule, "settlement").Logger(),
	}
}

// Nonces exposes the nonce ledger for read-only queries.
func (e *SettlementEngine) Nonces() *NonceLedger {
	return e.nonces
}

// Codec exposes the digest codec so signer tooling shares the exact domain.
func (e *SettlementEngine) Codec() *DigestCodec {
	return e.codec
}

// Fulfill settles an intent in one shot. Preconditions are checked in order,
// each with a distinct failure; effects only begin once every check has
// passed. The nonce is consumed strictly before the asset transfer, and a
// transfer failure restores it, so the operation either fully commits or
// leaves no trace.
func (e *SettlementEngine) Fulfill(ctx context.Context, params FulfillParams) (*models.FulfillmentEvent, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	if uint64(e.now().Unix()) > params.Deadline {
		return nil, errors.Wrapf(ErrIntentExpired, "deadline %d", params.Deadline)
	}

	if !e.bonds.Eligible(params.Caller) {
		return nil, errors.Wrapf(ErrSolverNotBonded, "solver %s", params.Caller.Hex())
	}

	intent := &models.Intent{
		User:     params.User,
		Asset:    params.Asset,
		Amount:   params.Amount,
		Fee:      params.Fee,
		Nonce:    e.nonces.Current(params.User),
		Deadline: params.Deadline,
	}

	intentDigest := e.codec.IntentDigest(intent)
	signer, err := RecoverSigner(intentDigest, params.UserSignature)
	if err != nil || signer != params.User {
		return nil, errors.Wrapf(ErrInvalidUserSignature, "recovered %s", signer.Hex())
	}

	commitmentDigest := e.codec.CommitmentDigest(intentDigest)
	committer, err := RecoverSigner(commitmentDigest, params.SolverSignature)
	if err != nil || committer != params.Caller {
		return nil, errors.Wrapf(ErrInvalidSolverSignature, "recovered %s", committer.Hex())
	}

	e.settleMu.Lock()
	defer e.settleMu.Unlock()

	// A concurrent fulfill or cancel that won the race leaves a stale nonce
	// behind; this fails here with no effects.
	if _, err := e.nonces.Advance(params.User, intent.Nonce); err != nil {
		return nil, err
	}

	if err := e.assets.TransferFrom(params.Asset, params.User, params.Caller, params.Caller, intent.Total()); err != nil {
		e.nonces.rollback(params.User, intent.Nonce)
		return nil, err
	}

	event := &models.FulfillmentEvent{
		ID:        utils.EventID(),
		User:      params.User,
		Solver:    params.Caller,
		Asset:     params.Asset,
		Amount:    new(big.Int).Set(params.Amount),
		Fee:       new(big.Int).Set(params.Fee),
		CreatedAt: e.now(),
	}
	e.sink.RecordFulfillment(ctx, event)
	logFulfilled(e.logger, event, intent.Nonce)

	return event, nil
}

// CancelIntent advances the user's nonce without any transfer, permanently
// invalidating the intent built on that nonce. The cancellation signature is
// typed separately from intent signatures.
func (e *SettlementEngine) CancelIntent(ctx context.Context, user common.Address, expectedNonce uint64, signature []byte) error {
	if current := e.nonces.Current(user); current != expectedNonce {
		return errors.Wrapf(ErrNonceMismatch, "expected %d, current %d", expectedNonce, current)
	}

	digest := e.codec.CancelDigest(user, expectedNonce)
	signer, err := RecoverSigner(digest, signature)
	if err != nil || signer != user {
		return errors.Wrapf(ErrInvalidUserSignature, "recovered %s", signer.Hex())
	}

	e.settleMu.Lock()
	defer e.settleMu.Unlock()

	if _, err := e.nonces.Advance(user, expectedNonce); err != nil {
		return err
	}

	e.logger.Info().
		Str("user", user.Hex()).
		Uint64("nonce", expectedNonce).
		Msg("Intent cancelled")

	return nil
}

func validateParams(params FulfillParams) error {
	zero := common.Address{}

	switch {
	case params.User == zero:
		return errors.Wrap(ErrInvalidIntent, "user is zero address")
	case params.Asset == zero:
		return errors.Wrap(ErrInvalidIntent, "asset is zero address")
	case params.Amount == nil || params.Amount.Sign() <= 0:
		return errors.Wrap(ErrInvalidIntent, "amount must be positive")
	case params.Fee == nil || params.Fee.Sign() < 0:
		return errors.Wrap(ErrInvalidIntent, "fee must be non-negative")
	case params.Amount.Cmp(params.Fee) <= 0:
		return errors.Wrap(ErrInvalidIntent, "amount must exceed fee")
	}

	return nil
}

func logFulfilled(logger zerolog.Logger, event *models.FulfillmentEvent, nonce uint64) {
	logger.Info().
		Str("user", event.User.Hex()).
		Str("solver", event.Solver.Hex()).
		Str("asset", event.Asset.Hex()).
		Str("amount", event.Amount.String()).
		Str("fee", event.Fee.String()).
		Uint64("nonce", nonce).
		Msg("Intent fulfilled")
}
