package resilience

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how stale a cached value may be before the
// degradation chain refuses to serve it.
const DefaultCacheTTL = 5 * time.Minute

// cacheEntry is one cached primary result.
type cacheEntry[T any] struct {
	value    T
	cachedAt time.Time
}

// Degrader serves a value even when the primary call fails, in a fixed
// priority order: primary → fresh cache (≤ TTL old) → registered fallback →
// safe default. When a default is configured the chain never returns an
// error to the caller.
type Degrader[T any] struct {
	cacheTTL time.Duration
	fallback func(ctx context.Context, key string) (T, error)

	defaultValue T
	hasDefault   bool

	mu    sync.Mutex
	cache map[string]cacheEntry[T]

	now func() time.Time
}

// NewDegrader creates a degradation chain with the default cache TTL and no
// fallback or default registered.
func NewDegrader[T any]() *Degrader[T] {
	return &Degrader[T]{
		cacheTTL: DefaultCacheTTL,
		cache:    make(map[string]cacheEntry[T]),
		now:      time.Now,
	}
}

// WithTTL overrides the cache freshness bound.
func (d *Degrader[T]) WithTTL(ttl time.Duration) *Degrader[T] {
	if ttl > 0 {
		d.cacheTTL = ttl
	}
	return d
}

// WithFallback registers the function tried after the cache misses.
func (d *Degrader[T]) WithFallback(fn func(ctx context.Context, key string) (T, error)) *Degrader[T] {
	d.fallback = fn
	return d
}

// WithDefault registers the hardcoded safe value returned when every other
// tier fails.
func (d *Degrader[T]) WithDefault(v T) *Degrader[T] {
	d.defaultValue = v
	d.hasDefault = true
	return d
}

// Execute runs the primary call for key. On success the result is cached and
// returned; on failure the chain falls through cache, fallback, and default
// in that order. The last error is returned only when no tier can serve.
func (d *Degrader[T]) Execute(ctx context.Context, key string, primary func(ctx context.Context) (T, error)) (T, error) {
	value, err := primary(ctx)
	if err == nil {
		d.store(key, value)
		return value, nil
	}

	if cached, ok := d.fresh(key); ok {
		return cached, nil
	}

	if d.fallback != nil {
		if fb, fbErr := d.fallback(ctx, key); fbErr == nil {
			return fb, nil
		}
	}

	if d.hasDefault {
		return d.defaultValue, nil
	}

	var zero T
	return zero, err
}

// store caches a successful primary result.
func (d *Degrader[T]) store(key string, value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache[key] = cacheEntry[T]{value: value, cachedAt: d.now()}
}

// fresh returns the cached value for key if it is within the TTL.
func (d *Degrader[T]) fresh(key string) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.cache[key]
	if !ok || d.now().Sub(entry.cachedAt) > d.cacheTTL {
		var zero T
		return zero, false
	}
	return entry.value, true
}
