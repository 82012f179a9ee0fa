package discovery

import (
	"context"
	"sync"
	"time"
)

// Cached wraps a Discoverer with a bounded-TTL cache. Discovery is live
// by default; use this wrapper when the catalog query becomes a hot-path
// cost. A stale entry simply means a freshly created database shows up at
// most ttl later.
type Cached struct {
	next Discoverer
	ttl  time.Duration

	mu      sync.Mutex
	names   []string
	expires time.Time
}

// NewCached creates a caching wrapper around next with the given TTL.
func NewCached(next Discoverer, ttl time.Duration) *Cached {
	return &Cached{next: next, ttl: ttl}
}

// Databases returns the cached list, refreshing it from the wrapped
// discoverer when expired. Errors are not cached.
func (c *Cached) Databases(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.expires) && c.names != nil {
		out := make([]string, len(c.names))
		copy(out, c.names)
		return out, nil
	}

	names, err := c.next.Databases(ctx)
	if err != nil {
		return nil, err
	}

	c.names = make([]string, len(names))
	copy(c.names, names)
	c.expires = time.Now().Add(c.ttl)

	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}
