package services

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intentlane-hq/intentlane/protocol"
	"github.com/pkg/errors"
)

// CreateSigners generates n fresh protocol signers.
func CreateSigners(n int) ([]*protocol.Signer, error) {
	signers := make([]*protocol.Signer, n)
	for i := range signers {
		signer, err := protocol.GenerateSigner()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create signer")
		}
		signers[i] = signer
	}
	return signers, nil
}

// FundUsers mints each user a balance of the asset and approves every solver
// and the bridge escrow as spenders, so settlements and baseline locks can
// draw on it.
func FundUsers(
	tokens *protocol.TokenLedger,
	asset common.Address,
	users []*protocol.Signer,
	solvers []*protocol.Signer,
	escrow common.Address,
	balance *big.Int,
) {
	for _, user := range users {
		owner := user.Address()
		tokens.Mint(asset, owner, balance)

		for _, solver := range solvers {
			tokens.Approve(asset, owner, solver.Address(), balance)
		}
		tokens.Approve(asset, owner, escrow, balance)
	}
}

// BondSolvers stakes each solver with the given bond.
func BondSolvers(ctx context.Context, bonds *protocol.BondLedger, solvers []*protocol.Signer, bond *big.Int) error {
	for _, solver := range solvers {
		if _, err := bonds.Deposit(ctx, solver.Address(), bond); err != nil {
			return errors.Wrapf(err, "failed to bond solver %s", solver.Address().Hex())
		}
	}
	return nil
}
