package utils

import (
	"fmt"
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// Address regex pattern (basic Ethereum address format)
	addressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

	// Signature regex pattern (65-byte hex signature)
	signatureRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{130}$`)
)

// ValidateAddress validates a hex-encoded identity address
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !addressRegex.MatchString(address) {
		return fmt.Errorf("invalid address format: %s", address)
	}
	return nil
}

// ParseAddress validates and decodes a hex-encoded address
func ParseAddress(address string) (common.Address, error) {
	if err := ValidateAddress(address); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(address), nil
}

// ParseAmount validates and decodes a positive decimal amount
func ParseAmount(amount string) (*big.Int, error) {
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}
	value, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("amount cannot be negative: %s", amount)
	}
	return value, nil
}

// ParseSignature validates and decodes a 0x-prefixed 65-byte hex signature
func ParseSignature(signature string) ([]byte, error) {
	if !signatureRegex.MatchString(signature) {
		return nil, fmt.Errorf("invalid signature format")
	}
	return common.FromHex(signature), nil
}
