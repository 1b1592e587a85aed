package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTL is a typed expiring cache. Entries live for the configured duration
// and are swept in the background. Safe for concurrent use; entries are
// independent, so no cross-key invariant is maintained.
type TTL[V any] struct {
	inner *gocache.Cache
}

// NewTTL creates a cache whose entries expire after ttl. The janitor runs
// at twice the ttl.
func NewTTL[V any](ttl time.Duration) *TTL[V] {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &TTL[V]{inner: gocache.New(ttl, 2*ttl)}
}

func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	v, ok := c.inner.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

func (c *TTL[V]) Set(key string, value V) {
	c.inner.SetDefault(key, value)
}

// SetFor stores a value with an entry-specific lifetime.
func (c *TTL[V]) SetFor(key string, value V, ttl time.Duration) {
	c.inner.Set(key, value, ttl)
}

// Add stores the value only if the key is absent or expired. Returns false
// when a live entry already exists.
func (c *TTL[V]) Add(key string, value V) bool {
	return c.inner.Add(key, value, gocache.DefaultExpiration) == nil
}

func (c *TTL[V]) Delete(key string) {
	c.inner.Delete(key)
}

func (c *TTL[V]) Len() int {
	return c.inner.ItemCount()
}

func (c *TTL[V]) Flush() {
	c.inner.Flush()
}

// Key builds a namespaced cache key from parts.
func Key(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
