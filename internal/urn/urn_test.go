package urn

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	u := New()
	require.True(t, strings.HasPrefix(u, "ext:"))

	id, err := uuid.Parse(strings.TrimPrefix(u, "ext:"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func TestNewIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		u := New()
		require.False(t, seen[u], "duplicate URN %s", u)
		seen[u] = true
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(New()))
	assert.False(t, Valid(""))
	assert.False(t, Valid("ext:"))
	assert.False(t, Valid("ext:not-a-uuid"))
	assert.False(t, Valid(uuid.NewString()))
	// Wrong UUID version behind the prefix.
	assert.False(t, Valid("ext:00000000-0000-1000-8000-000000000000"))
}
