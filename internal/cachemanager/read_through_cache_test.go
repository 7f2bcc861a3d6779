package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCacheManager struct {
	mock.Mock
}

func newMockCacheManager(t *testing.T) *mockCacheManager {
	m := &mockCacheManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockCacheManager) Get(ctx context.Context, key Key) (string, bool) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1)
}

func (m *mockCacheManager) GetWithRefresh(ctx context.Context, key Key, ttl time.Duration) (string, bool) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1)
}

func (m *mockCacheManager) Set(ctx context.Context, key Key, value string, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCacheManager) Delete(ctx context.Context, keys ...Key) error {
	return m.Called(ctx, keys).Error(0)
}

var _ CacheManager[Key, string] = (*mockCacheManager)(nil)

func upper(_ context.Context, input string) (string, error) {
	return "<p>" + input + "</p>", nil
}

func TestReadThroughCache_GetWithRefresh_Disabled(t *testing.T) {
	m := newMockCacheManager(t)
	r := NewReadThroughCache[Key, string, string](m, upper, true)

	got, err := r.GetWithRefresh(context.Background(), "key", "本", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "<p>本</p>", got)
	m.AssertNotCalled(t, "GetWithRefresh", mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_GetWithRefresh_ErrorIsNotCached(t *testing.T) {
	m := newMockCacheManager(t)
	m.On("GetWithRefresh", mock.Anything, Key("key"), time.Minute).Return("", false)

	r := NewReadThroughCache[Key, string, string](m,
		func(context.Context, string) (string, error) {
			return "", errors.New("render failed")
		},
		false,
	)

	_, err := r.GetWithRefresh(context.Background(), "key", "本", time.Minute)
	require.EqualError(t, err, "render failed")
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_Delete(t *testing.T) {
	m := newMockCacheManager(t)
	m.On("Delete", mock.Anything, []Key{"old"}).Return(nil)

	r := NewReadThroughCache[Key, string, string](m, upper, false)
	require.NoError(t, r.Delete(context.Background(), "old"))
}

func TestReadThroughCache_Delete_DisabledOrEmpty(t *testing.T) {
	m := newMockCacheManager(t)

	require.NoError(t, NewReadThroughCache[Key, string, string](m, upper, true).Delete(context.Background(), "old"))
	require.NoError(t, NewReadThroughCache[Key, string, string](m, upper, false).Delete(context.Background()))
	m.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReadThroughCache_GetWithRefresh_Hit(t *testing.T) {
	m := newMockCacheManager(t)
	m.On("GetWithRefresh", mock.Anything, Key("key"), time.Hour).Return("<p>cached</p>", true)

	r := NewReadThroughCache[Key, string, string](m, upper, false)

	got, err := r.GetWithRefresh(context.Background(), "key", "本", time.Hour)
	require.NoError(t, err)
	require.Equal(t, "<p>cached</p>", got)
}

func TestReadThroughCache_GetWithRefresh_MissStores(t *testing.T) {
	m := newMockCacheManager(t)
	m.On("GetWithRefresh", mock.Anything, Key("key"), time.Hour).Return("", false)
	m.On("Set", mock.Anything, Key("key"), "<p>本</p>", time.Hour).Return()

	r := NewReadThroughCache[Key, string, string](m, upper, false)

	got, err := r.GetWithRefresh(context.Background(), "key", "本", time.Hour)
	require.NoError(t, err)
	require.Equal(t, "<p>本</p>", got)
}

func TestReadThroughCache_WithInMemoryCache(t *testing.T) {
	calls := 0
	r := NewReadThroughCache[Key, string, string](newCache[string](),
		func(ctx context.Context, input string) (string, error) {
			calls++
			return upper(ctx, input)
		},
		false,
	)

	for range 3 {
		got, err := r.GetWithRefresh(context.Background(), NewKey([]byte("本")), "本", time.Minute)
		require.NoError(t, err)
		require.Equal(t, "<p>本</p>", got)
	}
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_DeleteForcesReload(t *testing.T) {
	calls := 0
	r := NewReadThroughCache[Key, string, string](newCache[string](),
		func(ctx context.Context, input string) (string, error) {
			calls++
			return upper(ctx, input)
		},
		false,
	)
	key := NewKey([]byte("本"))

	_, err := r.GetWithRefresh(context.Background(), key, "本", time.Minute)
	require.NoError(t, err)
	require.NoError(t, r.Delete(context.Background(), key))
	_, err = r.GetWithRefresh(context.Background(), key, "本", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
