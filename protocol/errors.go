package protocol

import "github.com/pkg/errors"

// Failure taxonomy for settlement and its ledgers. Every operation aborts on
// the first failing check with no partial state change; callers classify with
// errors.Is.
var (
	// ErrInvalidIntent indicates malformed intent parameters.
	ErrInvalidIntent = errors.New("invalid intent")

	// ErrIntentExpired indicates the intent deadline has passed.
	ErrIntentExpired = errors.New("intent expired")

	// ErrSolverNotBonded indicates the caller's bond is below the minimum.
	ErrSolverNotBonded = errors.New("solver not bonded")

	// ErrInvalidUserSignature indicates the user signature does not recover
	// to the intent's user for the recomputed digest.
	ErrInvalidUserSignature = errors.New("invalid user signature")

	// ErrInvalidSolverSignature indicates the solver signature does not
	// recover to the caller for the commitment digest.
	ErrInvalidSolverSignature = errors.New("invalid solver signature")

	// ErrNonceMismatch indicates a replayed or superseded intent.
	ErrNonceMismatch = errors.New("nonce mismatch")

	// ErrInvalidSignature indicates a malformed or non-canonical signature.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidStake indicates a non-positive stake deposit.
	ErrInvalidStake = errors.New("invalid stake amount")

	// ErrInsufficientBond indicates a zero or over-balance withdrawal.
	ErrInsufficientBond = errors.New("insufficient bond")

	// ErrInsufficientLocked indicates an unlock exceeding the locked balance.
	ErrInsufficientLocked = errors.New("insufficient locked balance")

	// ErrInsufficientAllowance indicates a transferFrom exceeding the
	// spender's allowance.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrInsufficientBalance indicates a transfer exceeding the owner's
	// balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
