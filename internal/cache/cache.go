// Package cache implements a short-lived in-memory response cache for the
// realtime chat provider. Entries hold streaming bodies, so the cache forks
// streams on every write and read via the stream.Tee primitive: exactly one
// upstream read happens per miss, and each hit hands out an independent copy.
//
// The cache is explicitly constructed and injected (never a package global),
// process-local by design, and safe for concurrent use. Expired entries are
// evicted lazily on the next lookup.
package cache

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/thefixer3x/vortexcore-api/internal/stream"
)

// entry pairs a retained stream copy with its expiry deadline.
type entry struct {
	body      io.ReadCloser
	expiresAt time.Time
}

// ResponseCache maps normalized query text to cached response streams.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

// NewResponseCache constructs a cache whose entries live for ttl from write
// time.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		ttl:     ttl,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// NormalizeKey canonicalizes free-text queries so trivially different
// spellings share a cache slot: lower-cased, surrounding whitespace trimmed.
func NormalizeKey(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Get returns an independent copy of the cached stream for key, or (nil,
// false) on miss. The retained entry is itself replaced with a fresh fork so
// later hits within the TTL keep working. Expired entries are closed and
// dropped here rather than by a background sweeper.
func (c *ResponseCache) Get(key string) (io.ReadCloser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		e.body.Close()
		delete(c.entries, key)
		return nil, false
	}

	kept, out := stream.Tee(e.body)
	e.body = kept
	return out, true
}

// Put stores one fork of body under key and returns the other for the caller
// to consume. Any previous entry under the same key is closed and replaced.
func (c *ResponseCache) Put(key string, body io.ReadCloser) io.ReadCloser {
	kept, out := stream.Tee(body)

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[key]; ok {
		old.body.Close()
	}
	c.entries[key] = &entry{body: kept, expiresAt: c.now().Add(c.ttl)}
	return out
}

// Len reports the number of stored entries, counting expired ones not yet
// evicted.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
