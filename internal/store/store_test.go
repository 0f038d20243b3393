package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKeysArePerChat(t *testing.T) {
	assert.Equal(t, "subscription:42", SubscriptionKey(42))
	assert.Equal(t, "routine:42", RoutineKey(42))
	assert.Equal(t, "favorites:42", FavoritesKey(42))
	assert.Equal(t, "theme:42", ThemeKey(42))
	assert.NotEqual(t, SubscriptionKey(1), SubscriptionKey(2))
}

func TestVerseKeyIsPerDate(t *testing.T) {
	assert.Equal(t, "verse:2026-09-01", VerseKey("2026-09-01"))
}

func TestMemoryRoundTrip(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))

	val, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", val)

	require.NoError(t, kv.Del(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
