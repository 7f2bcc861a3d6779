package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type rendered struct {
	Format string
	Body   string
}

func newCache[V any]() *InMemoryCacheManager[Key, V] {
	return NewInMemoryCacheManager[Key, V]("test", DefaultExpiration, DefaultCleanupInterval)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := newCache[string]()
	cache.Set(context.Background(), "doc", "<p>本</p>", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "doc")
	require.True(t, ok)
	require.Equal(t, "<p>本</p>", got)
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := newCache[rendered]()
	want := rendered{Format: "html", Body: "<p>本</p>"}
	cache.Set(context.Background(), "doc", want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "doc")
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := newCache[string]()

	got, ok := cache.Get(context.Background(), "doc")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWrongType(t *testing.T) {
	cache := newCache[string]()
	cache.cache.Set("doc", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "doc")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := newCache[string]()
	cache.Set(context.Background(), "doc", "old", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "doc")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_ZeroTTLUsesDefault(t *testing.T) {
	cache := NewInMemoryCacheManager[Key, string]("test", time.Hour, time.Hour)
	cache.Set(context.Background(), "doc", "body", 0)

	_, expiry, ok := cache.cache.GetWithExpiration("doc")
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := newCache[string]()

	_, ok := cache.GetWithRefresh(context.Background(), "doc", time.Hour)
	require.False(t, ok)

	cache.Set(context.Background(), "doc", "body", time.Minute)
	got, ok := cache.GetWithRefresh(context.Background(), "doc", time.Hour)
	require.True(t, ok)
	require.Equal(t, "body", got)

	_, expiry, _ := cache.cache.GetWithExpiration("doc")
	require.True(t, expiry.After(time.Now().Add(30*time.Minute)), "expiry should be extended")
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	ctx := context.Background()
	cache := newCache[string]()
	require.NoError(t, cache.Delete(ctx))

	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", DefaultExpiration)
	cache.Set(ctx, "c", "3", DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "a", "b"))

	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "b")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "c")
	require.True(t, ok)
}
