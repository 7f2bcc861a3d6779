// Package cachemanager caches rendered documents so unchanged input is not
// converted twice.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values under string-like keys with a per-entry TTL.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
}
