package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPNR_Format(t *testing.T) {
	pnr, err := NewPNR()
	require.NoError(t, err)
	assert.Len(t, pnr, 10)
	for _, r := range pnr {
		assert.Contains(t, codeAlphabet, string(r))
	}
}

func TestNewPNR_Uniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		pnr, err := NewPNR()
		require.NoError(t, err)
		assert.False(t, seen[pnr], "duplicate pnr %s", pnr)
		seen[pnr] = true
	}
}

func TestNewTransactionID_Format(t *testing.T) {
	txn, err := NewTransactionID()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(txn, "TXN"))
	assert.Len(t, txn, 18)
	for _, r := range txn[3:] {
		assert.Contains(t, codeAlphabet, string(r))
	}
}
