package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	tc, err := NewTokenCounter()
	require.NoError(t, err)

	count := tc.CountTokens("hello world")
	assert.Greater(t, count, 0)
	assert.Less(t, count, 10)
}

func TestTokenCounter_Empty(t *testing.T) {
	tc, err := NewTokenCounter()
	require.NoError(t, err)

	assert.Equal(t, 0, tc.CountTokens(""))
}

func TestTokenCounter_NilFallback(t *testing.T) {
	var tc *TokenCounter

	// A nil counter falls back to character-based estimation.
	assert.Equal(t, 3, tc.CountTokens("hello world!"))
}
