package protocol

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAsset = common.HexToAddress("0xa1")
	alice     = common.HexToAddress("0xa11ce")
	bob       = common.HexToAddress("0xb0b")
)

func TestTokenLedgerTransferFrom(t *testing.T) {
	ledger := NewTokenLedger()
	ledger.Mint(testAsset, alice, big.NewInt(100))
	ledger.Approve(testAsset, alice, bob, big.NewInt(60))

	err := ledger.TransferFrom(testAsset, alice, bob, bob, big.NewInt(40))
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(60), ledger.BalanceOf(testAsset, alice))
	assert.Equal(t, big.NewInt(40), ledger.BalanceOf(testAsset, bob))
	assert.Equal(t, big.NewInt(20), ledger.Allowance(testAsset, alice, bob))
}

func TestTokenLedgerInsufficientAllowance(t *testing.T) {
	ledger := NewTokenLedger()
	ledger.Mint(testAsset, alice, big.NewInt(100))
	ledger.Approve(testAsset, alice, bob, big.NewInt(10))

	err := ledger.TransferFrom(testAsset, alice, bob, bob, big.NewInt(11))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	// no partial effects
	assert.Equal(t, big.NewInt(100), ledger.BalanceOf(testAsset, alice))
	assert.Equal(t, big.NewInt(10), ledger.Allowance(testAsset, alice, bob))
}

func TestTokenLedgerInsufficientBalance(t *testing.T) {
	ledger := NewTokenLedger()
	ledger.Mint(testAsset, alice, big.NewInt(5))
	ledger.Approve(testAsset, alice, bob, big.NewInt(100))

	err := ledger.TransferFrom(testAsset, alice, bob, bob, big.NewInt(6))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	assert.Equal(t, big.NewInt(5), ledger.BalanceOf(testAsset, alice))
	assert.Equal(t, big.NewInt(100), ledger.Allowance(testAsset, alice, bob))
}

func TestTokenLedgerOwnerNeedsNoAllowance(t *testing.T) {
	ledger := NewTokenLedger()
	ledger.Mint(testAsset, alice, big.NewInt(100))

	err := ledger.TransferFrom(testAsset, alice, alice, bob, big.NewInt(30))
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(70), ledger.BalanceOf(testAsset, alice))
	assert.Equal(t, big.NewInt(30), ledger.BalanceOf(testAsset, bob))
}

func TestTokenLedgerAssetsIndependent(t *testing.T) {
	other := common.HexToAddress("0xa2")

	ledger := NewTokenLedger()
	ledger.Mint(testAsset, alice, big.NewInt(100))

	assert.Equal(t, big.NewInt(0), ledger.BalanceOf(other, alice))
}
