package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	require.NoError(t, err)
	assert.Equal(t, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", addr.Hex())

	invalid := []string{
		"",
		"742d35Cc6634C0532925a3b844Bc454e4438f44e",
		"0x742d35",
		"0x742d35Cc6634C0532925a3b844Bc454e4438f44ezz",
	}
	for _, s := range invalid {
		_, err := ParseAddress(s)
		assert.Error(t, err, s)
	}
}

func TestParseAmount(t *testing.T) {
	value, err := ParseAmount("1000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", value.String())

	zero, err := ParseAmount("0")
	require.NoError(t, err)
	assert.Zero(t, zero.Sign())

	for _, s := range []string{"", "abc", "1.5", "-10", "0x10"} {
		_, err := ParseAmount(s)
		assert.Error(t, err, s)
	}
}

func TestParseSignature(t *testing.T) {
	hexSig := "0x" + strings.Repeat("ab", 65)

	sig, err := ParseSignature(hexSig)
	require.NoError(t, err)
	assert.Len(t, sig, 65)

	for _, s := range []string{"", "0x1234", strings.Repeat("ab", 65), "0x" + strings.Repeat("zz", 65)} {
		_, err := ParseSignature(s)
		assert.Error(t, err, s)
	}
}

func TestIDs(t *testing.T) {
	a := EventID()
	b := EventID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	run := RunID()
	assert.True(t, strings.HasPrefix(run, "run-"), run)
	assert.NotEqual(t, run, RunID())
}
