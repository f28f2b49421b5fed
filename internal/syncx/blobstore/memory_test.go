package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetAbsent(t *testing.T) {
	m := NewMemory()

	b, err := m.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestMemory_UpsertOverwrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Upsert(ctx, "u1", "blob-v1"))
	require.NoError(t, m.Upsert(ctx, "u1", "blob-v2"))

	b, err := m.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "blob-v2", b.Ciphertext)
	assert.False(t, b.UpdatedAt.IsZero())

	other, err := m.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, other)
}
