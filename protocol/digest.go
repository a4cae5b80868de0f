package protocol

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/intentlane-hq/intentlane/models"
)

// Domain binds digests to one protocol deployment. Signer and verifier must
// use identical parameters; a mismatch yields a non-matching digest and
// surfaces as a signature failure, not a distinct error.
type Domain struct {
	Name              string
	Version           string
	NetworkID         uint64
	SettlementAddress common.Address
}

var (
	domainTypeHash     = crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	intentTypeHash     = crypto.Keccak256Hash([]byte("Intent(address user,address asset,uint256 amount,uint256 fee,uint256 nonce,uint256 deadline)"))
	commitmentTypeHash = crypto.Keccak256Hash([]byte("SolverCommitment(bytes32 intentDigest)"))
	cancelTypeHash     = crypto.Keccak256Hash([]byte("CancelIntent(address user,uint256 nonce)"))
)

// DigestCodec deterministically encodes intents and commitments into
// fixed-size domain-separated digests. Pure; no state beyond the
// precomputed domain separator.
type DigestCodec struct {
	domain    Domain
	separator common.Hash
}

// NewDigestCodec precomputes the domain separator for the given deployment.
func NewDigestCodec(domain Domain) *DigestCodec {
	separator := crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		crypto.Keccak256Hash([]byte(domain.Name)).Bytes(),
		crypto.Keccak256Hash([]byte(domain.Version)).Bytes(),
		uint64Word(domain.NetworkID),
		addressWord(domain.SettlementAddress),
	)

	return &DigestCodec{domain: domain, separator: separator}
}

// Domain returns the deployment parameters the codec was built with.
func (c *DigestCodec) Domain() Domain {
	return c.domain
}

// IntentDigest returns the signable digest of an intent. The deadline is part
// of the signed struct; a tuple differing in any field produces a different
// digest.
func (c *DigestCodec) IntentDigest(intent *models.Intent) common.Hash {
	structHash := crypto.Keccak256Hash(
		intentTypeHash.Bytes(),
		addressWord(intent.User),
		addressWord(intent.Asset),
		bigWord(intent.Amount),
		bigWord(intent.Fee),
		uint64Word(intent.Nonce),
		uint64Word(intent.Deadline),
	)

	return c.finalize(structHash)
}

// CommitmentDigest returns the signable digest of a solver commitment bound
// to the given intent digest.
func (c *DigestCodec) CommitmentDigest(intentDigest common.Hash) common.Hash {
	structHash := crypto.Keccak256Hash(
		commitmentTypeHash.Bytes(),
		intentDigest.Bytes(),
	)

	return c.finalize(structHash)
}

// CancelDigest returns the signable digest authorizing cancellation of the
// intent built on the given nonce.
func (c *DigestCodec) CancelDigest(user common.Address, nonce uint64) common.Hash {
	structHash := crypto.Keccak256Hash(
		cancelTypeHash.Bytes(),
		addressWord(user),
		uint64Word(nonce),
	)

	return c.finalize(structHash)
}

// finalize applies the EIP-191 version prefix and domain separator.
func (c *DigestCodec) finalize(structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(
		[]byte{0x19, 0x01},
		c.separator.Bytes(),
		structHash.Bytes(),
	)
}

func addressWord(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), 32)
}

func uint64Word(v uint64) []byte {
	return math.U256Bytes(new(big.Int).SetUint64(v))
}

func bigWord(v *big.Int) []byte {
	if v == nil {
		v = new(big.Int)
	}
	return math.U256Bytes(new(big.Int).Set(v))
}
