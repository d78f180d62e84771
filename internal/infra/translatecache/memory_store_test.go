package translatecache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherchat/internal/domain/chat"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2, 0)

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	want := chat.Response{Reply: "晴れ", Bullets: []string{"帽子"}}
	require.NoError(t, store.Set(ctx, "sunny|ja", want))
	got, ok, err := store.Get(ctx, "sunny|ja")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2, 0)

	require.NoError(t, store.Set(ctx, "a", chat.Response{Reply: "a"}))
	require.NoError(t, store.Set(ctx, "b", chat.Response{Reply: "b"}))
	_, ok, _ := store.Get(ctx, "a")
	require.True(t, ok)
	require.NoError(t, store.Set(ctx, "c", chat.Response{Reply: "c"}))

	require.Equal(t, 2, store.Len())
	_, ok, _ = store.Get(ctx, "b")
	require.False(t, ok)
	_, ok, _ = store.Get(ctx, "a")
	require.True(t, ok)
}

func TestMemoryStoreExpiresEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(4, 20*time.Millisecond)
	require.NoError(t, store.Set(ctx, "a", chat.Response{Reply: "a"}))

	require.Eventually(t, func() bool {
		_, ok, _ := store.Get(ctx, "a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestNewMemoryStoreDefaultsCapacity(t *testing.T) {
	store := NewMemoryStore(0, time.Hour)
	require.NotNil(t, store.lru)
	require.Zero(t, store.Len())
}
