package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefNumber(t *testing.T) {
	n := RefNumber("BK")
	assert.True(t, strings.HasPrefix(n, "BK"))
	// prefix + 14-digit timestamp + 8 random chars
	assert.Len(t, n, 2+14+8)
	assert.Equal(t, strings.ToUpper(n), n)
}

func TestRefNumberUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := RefNumber("ORD")
		require.False(t, seen[n], "duplicate reference %s", n)
		seen[n] = true
	}
}
