package download

import (
	"sync"
	"time"
)

// SizeCache memoizes probe results per URL so repeated acquisitions of the
// same asset cost a single network round trip. Unknown results are cached
// too, keeping a flaky endpoint from being probed once per asset.
type SizeCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]sizeEntry
	now     func() time.Time
}

type sizeEntry struct {
	size     Size
	storedAt time.Time
}

// SizeCacheOption customises SizeCache construction.
type SizeCacheOption func(*SizeCache)

// WithTTL bounds how long cached sizes stay valid. Zero keeps entries for
// the process lifetime.
func WithTTL(ttl time.Duration) SizeCacheOption {
	return func(c *SizeCache) {
		c.ttl = ttl
	}
}

// NewSizeCache constructs an empty cache.
func NewSizeCache(opts ...SizeCacheOption) *SizeCache {
	c := &SizeCache{
		entries: make(map[string]sizeEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the cached size for url. Expired entries are dropped.
func (c *SizeCache) Lookup(url string) (Size, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[url]
	if !ok {
		return Size{}, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, url)
		return Size{}, false
	}
	return entry.size, true
}

// Store records the probe result for url.
func (c *SizeCache) Store(url string, size Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = sizeEntry{size: size, storedAt: c.now()}
}

// Invalidate drops the cached entry for url.
func (c *SizeCache) Invalidate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

// Len returns the number of stored entries, expired ones included.
func (c *SizeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
