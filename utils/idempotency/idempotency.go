// Package idempotency de-duplicates concurrent and repeated executions of
// an operation identified by a caller-chosen key.
package idempotency

import (
	"context"
	"sync"
	"time"

	"indastreet/metrics"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is used when a cache is built with a non-positive TTL.
const DefaultTTL = 60 * time.Second

// Cache shares in-flight executions per key and keeps successful results
// for a fixed TTL. Failures are never stored. The zero value is not usable;
// build one with New.
type Cache[V any] struct {
	name    string
	ttl     time.Duration
	results *expirable.LRU[string, V]

	mu       sync.Mutex
	group    *singleflight.Group
	inflight map[string]*flight
}

type flight struct {
	invalidated bool
}

// New returns an empty cache. name labels the cache in metrics.
func New[V any](name string, ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{
		name:     name,
		ttl:      ttl,
		results:  expirable.NewLRU[string, V](0, nil, ttl),
		group:    &singleflight.Group{},
		inflight: make(map[string]*flight),
	}
}

// TTL returns how long successful results are kept.
func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// ExecuteOnce returns the cached result for key if one is still fresh,
// joins the execution already running for key if there is one, and
// otherwise runs op. op is detached from ctx cancellation so a departing
// caller never aborts work others are waiting on; ctx only bounds how long
// this caller waits.
func (c *Cache[V]) ExecuteOnce(ctx context.Context, key string, op func(context.Context) (V, error)) (V, error) {
	if v, ok := c.results.Get(key); ok {
		metrics.RecordIdempotency(c.name, "cached")
		return v, nil
	}

	c.mu.Lock()
	group := c.group
	c.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ran := false
	ch := group.DoChan(key, func() (interface{}, error) {
		// A flight that finished just before this one started may have
		// stored a result already.
		if v, ok := c.results.Get(key); ok {
			return v, nil
		}
		ran = true
		return c.run(detached, key, op)
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			metrics.RecordIdempotency(c.name, "failed")
			return zero, res.Err
		}
		if ran {
			metrics.RecordIdempotency(c.name, "executed")
		} else {
			metrics.RecordIdempotency(c.name, "shared")
		}
		return res.Val.(V), nil
	}
}

func (c *Cache[V]) run(ctx context.Context, key string, op func(context.Context) (V, error)) (V, error) {
	f := &flight{}
	c.mu.Lock()
	c.inflight[key] = f
	c.mu.Unlock()

	v, err := op(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] == f {
		delete(c.inflight, key)
	}
	if err == nil && !f.invalidated {
		c.results.Add(key, v)
	}
	return v, err
}

// Invalidate drops the cached result for key and detaches any running
// execution so the next call starts afresh. The detached execution still
// completes for its current waiters but its result is not cached.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.inflight[key]; ok {
		f.invalidated = true
		delete(c.inflight, key)
	}
	c.group.Forget(key)
	c.results.Remove(key)
}

// Clear resets the whole cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.inflight {
		f.invalidated = true
	}
	c.inflight = make(map[string]*flight)
	c.group = &singleflight.Group{}
	c.results.Purge()
}

// Len reports the number of cached results.
func (c *Cache[V]) Len() int {
	return c.results.Len()
}
