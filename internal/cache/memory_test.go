package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryStore_MissingKey(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 10*time.Minute))

	// Still inside the window.
	now = now.Add(9 * time.Minute)
	_, err := store.Get(ctx, "k")
	require.NoError(t, err)

	// Past the window: indistinguishable from a key that never existed.
	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("first"), time.Minute))
	require.NoError(t, store.Set(ctx, "k", []byte("second"), time.Minute))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}
