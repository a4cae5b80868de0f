package protocol

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/stretchr/testify/assert"
)

func testDomain() Domain {
	return Domain{
		Name:              "intentlane",
		Version:           "1",
		NetworkID:         1,
		SettlementAddress: common.HexToAddress("0x1001"),
	}
}

func testIntent() *models.Intent {
	return &models.Intent{
		User:     common.HexToAddress("0xaaaa"),
		Asset:    common.HexToAddress("0xbbbb"),
		Amount:   big.NewInt(100),
		Fee:      big.NewInt(1),
		Nonce:    0,
		Deadline: 1_900_000_000,
	}
}

func TestIntentDigestDeterministic(t *testing.T) {
	codec := NewDigestCodec(testDomain())

	d1 := codec.IntentDigest(testIntent())
	d2 := codec.IntentDigest(testIntent())

	assert.Equal(t, d1, d2)
	assert.NotEqual(t, common.Hash{}, d1)
}

func TestIntentDigestFieldSensitivity(t *testing.T) {
	codec := NewDigestCodec(testDomain())
	base := codec.IntentDigest(testIntent())

	mutations := map[string]func(*models.Intent){
		"user":     func(i *models.Intent) { i.User = common.HexToAddress("0xcccc") },
		"asset":    func(i *models.Intent) { i.Asset = common.HexToAddress("0xdddd") },
		"amount":   func(i *models.Intent) { i.Amount = big.NewInt(101) },
		"fee":      func(i *models.Intent) { i.Fee = big.NewInt(2) },
		"nonce":    func(i *models.Intent) { i.Nonce = 1 },
		"deadline": func(i *models.Intent) { i.Deadline = 1_900_000_001 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			intent := testIntent()
			mutate(intent)
			assert.NotEqual(t, base, codec.IntentDigest(intent))
		})
	}
}

func TestIntentDigestDomainSeparation(t *testing.T) {
	base := NewDigestCodec(testDomain()).IntentDigest(testIntent())

	variants := []Domain{
		{Name: "other", Version: "1", NetworkID: 1, SettlementAddress: common.HexToAddress("0x1001")},
		{Name: "intentlane", Version: "2", NetworkID: 1, SettlementAddress: common.HexToAddress("0x1001")},
		{Name: "intentlane", Version: "1", NetworkID: 2, SettlementAddress: common.HexToAddress("0x1001")},
		{Name: "intentlane", Version: "1", NetworkID: 1, SettlementAddress: common.HexToAddress("0x1002")},
	}

	for _, domain := range variants {
		assert.NotEqual(t, base, NewDigestCodec(domain).IntentDigest(testIntent()))
	}
}

func TestCommitmentDigestBoundToIntent(t *testing.T) {
	codec := NewDigestCodec(testDomain())

	intentDigest := codec.IntentDigest(testIntent())
	c1 := codec.CommitmentDigest(intentDigest)
	c2 := codec.CommitmentDigest(intentDigest)
	assert.Equal(t, c1, c2)
	assert.NotEqual(t, intentDigest, c1)

	other := testIntent()
	other.Nonce = 7
	assert.NotEqual(t, c1, codec.CommitmentDigest(codec.IntentDigest(other)))
}

func TestCancelDigestTypedSeparately(t *testing.T) {
	codec := NewDigestCodec(testDomain())
	user := common.HexToAddress("0xaaaa")

	cancel := codec.CancelDigest(user, 0)
	assert.NotEqual(t, codec.CancelDigest(user, 1), cancel)
	assert.NotEqual(t, codec.IntentDigest(testIntent()), cancel)
}
