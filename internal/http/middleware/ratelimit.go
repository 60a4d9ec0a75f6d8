// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a lightweight, in-memory, fixed-window rate limiter
// with per-client buckets and opportunistic garbage collection. It guards the
// payment endpoint against abuse in a single-process deployment.
//
// Features:
//   - Per-key {count, window start} buckets with a fixed window length
//   - Pluggable identity function (forwarded IP with an "unknown" sentinel)
//   - Best-effort cleanup of stale buckets to bound memory
//   - Injected construction (no package-level state), deterministic clock seam
//
// Notes:
//   - This limiter is process-local. Concurrent instances do not share
//     counters, so the limit is per warm instance, not global. For
//     horizontally scaled deployments prefer a distributed limiter.
//   - It is edge-level abuse control and cost protection, not authorization.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// KeyByForwardedIP returns a keyFunc that uses the first hop of the
// X-Forwarded-For header, falling back to Gin's ClientIP, and finally to the
// sentinel "unknown" bucket so the limiter still bounds anonymous traffic.
func KeyByForwardedIP() keyFunc {
	return func(c *gin.Context) string {
		if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
			if first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0]); first != "" {
				return "ip:" + first
			}
		}
		if ip := c.ClientIP(); ip != "" {
			return "ip:" + ip
		}
		return "ip:unknown"
	}
}

// window tracks one client's count within the current fixed window.
type window struct {
	count int
	start time.Time
}

// FixedWindowLimiter counts requests per key within fixed windows.
//
// The first request of a fresh (or expired) window resets the bucket to
// {count=1, start=now}; requests under the cap increment; the rest are
// denied until the window rolls over. Safe for concurrent use.
type FixedWindowLimiter struct {
	length time.Duration
	max    int
	keyFn  keyFunc

	mu      sync.Mutex
	buckets map[string]*window

	// now is a test seam; defaults to time.Now.
	now      func() time.Time
	cleanupN uint64
}

// NewFixedWindowLimiter constructs a limiter allowing max requests per
// window length, keyed by keyFn. max values < 1 are coerced to 1.
func NewFixedWindowLimiter(length time.Duration, max int, keyFn keyFunc) *FixedWindowLimiter {
	if max < 1 {
		max = 1
	}
	return &FixedWindowLimiter{
		length:  length,
		max:     max,
		keyFn:   keyFn,
		buckets: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it is within the
// limit. Exposed for direct use outside Gin (and for tests).
func (rl *FixedWindowLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Opportunistic cleanup after a threshold of lookups. Run it before
	// touching the requested bucket so an expired bucket can be dropped even
	// when it is the one being fetched.
	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, w := range rl.buckets {
			if now.Sub(w.start) >= rl.length {
				delete(rl.buckets, k)
			}
		}
		rl.cleanupN = 0
	}

	w, ok := rl.buckets[key]
	if !ok || now.Sub(w.start) >= rl.length {
		rl.buckets[key] = &window{count: 1, start: now}
		return true
	}
	if w.count < rl.max {
		w.count++
		return true
	}
	return false
}

// Handler returns a Gin middleware enforcing the fixed-window limit.
//
// Denied requests receive:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	  "request_id": "<uuid>",
//	  "code":       "too_many_requests",
//	  "message":    "rate limit exceeded"
//	}
//
// with Retry-After set to the remaining window in whole seconds.
func (rl *FixedWindowLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.keyFn(c)
		if rl.Allow(key) {
			c.Next()
			return
		}

		retry := int(rl.length.Seconds())
		rl.mu.Lock()
		if w, ok := rl.buckets[key]; ok {
			if left := rl.length - rl.now().Sub(w.start); left > 0 {
				retry = int(left.Seconds()) + 1
			}
		}
		rl.mu.Unlock()

		c.Header("Retry-After", strconv.Itoa(retry))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get("X-Request-ID"),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}
