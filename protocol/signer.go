package protocol

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const signatureLength = 65

// RecoverSigner recovers the identity that produced a 65-byte [R||S||V]
// signature over the digest. V is accepted as 0/1 or 27/28. Only the
// canonical low-S encoding is accepted per digest; the malleated variant
// fails with ErrInvalidSignature.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != signatureLength {
		return common.Address{}, errors.Wrapf(ErrInvalidSignature, "expected %d bytes, got %d", signatureLength, len(sig))
	}

	v := sig[signatureLength-1]
	if v == 27 || v == 28 {
		v -= 27
	}
	if v > 1 {
		return common.Address{}, errors.Wrapf(ErrInvalidSignature, "invalid recovery id %d", v)
	}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return common.Address{}, errors.Wrap(ErrInvalidSignature, "non-canonical signature values")
	}

	plain := make([]byte, signatureLength)
	copy(plain, sig[:signatureLength-1])
	plain[signatureLength-1] = v

	pub, err := crypto.SigToPub(digest.Bytes(), plain)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// Signer holds an ECDSA key and produces protocol signatures. Used by the
// benchmark harness and tests to model users and solvers.
type Signer struct {
	key *ecdsa.PrivateKey
}

// NewSigner wraps an existing private key.
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// GenerateSigner creates a signer with a fresh random key.
func GenerateSigner() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate key")
	}
	return &Signer{key: key}, nil
}

// Address returns the signer's identity.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Sign produces a canonical 65-byte [R||S||V] signature with V in {27,28}.
func (s *Signer) Sign(digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign digest")
	}

	sig[signatureLength-1] += 27
	return sig, nil
}
