package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 500)
	for range 500 {
		id, err := Generate(PrefixRevision)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate(PrefixRevision)
	require.NoError(t, err)

	prefix, rest, ok := strings.Cut(id, "-")
	require.True(t, ok)
	assert.Equal(t, "rev", prefix)
	assert.Len(t, rest, 21)
}
