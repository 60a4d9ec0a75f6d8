package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestFixedWindowLimiter_Allow(t *testing.T) {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(60*time.Second, 3, KeyByForwardedIP())
	rl.now = func() time.Time { return base }

	t.Run("allows up to max, then denies", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			if !rl.Allow("ip:1.2.3.4") {
				t.Fatalf("request %d denied under the cap", i)
			}
		}
		if rl.Allow("ip:1.2.3.4") {
			t.Fatal("request over the cap allowed")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		if !rl.Allow("ip:5.6.7.8") {
			t.Fatal("fresh key denied")
		}
	})

	t.Run("window rollover resets the count", func(t *testing.T) {
		rl.now = func() time.Time { return base.Add(60 * time.Second) }
		for i := 1; i <= 3; i++ {
			if !rl.Allow("ip:1.2.3.4") {
				t.Fatalf("request %d denied in fresh window", i)
			}
		}
		if rl.Allow("ip:1.2.3.4") {
			t.Fatal("over-cap request allowed in fresh window")
		}
	})

	t.Run("mid-window requests do not extend the window", func(t *testing.T) {
		// Window started at +60s; +119s is still inside it, +120s is not.
		rl.now = func() time.Time { return base.Add(119 * time.Second) }
		if rl.Allow("ip:1.2.3.4") {
			t.Fatal("still inside window; should deny")
		}
		rl.now = func() time.Time { return base.Add(120 * time.Second) }
		if !rl.Allow("ip:1.2.3.4") {
			t.Fatal("window elapsed; should allow")
		}
	})
}

func TestNewFixedWindowLimiter_CoercesMax(t *testing.T) {
	rl := NewFixedWindowLimiter(time.Minute, 0, KeyByForwardedIP())
	if !rl.Allow("k") {
		t.Fatal("first request denied with coerced max=1")
	}
	if rl.Allow("k") {
		t.Fatal("second request allowed with coerced max=1")
	}
}

func TestKeyByForwardedIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fn := KeyByForwardedIP()

	mk := func(xff string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
		if xff != "" {
			c.Request.Header.Set("X-Forwarded-For", xff)
		}
		return c
	}

	if got := fn(mk("203.0.113.9, 10.0.0.1")); got != "ip:203.0.113.9" {
		t.Fatalf("first hop: got %q", got)
	}
	if got := fn(mk("  203.0.113.9  ")); got != "ip:203.0.113.9" {
		t.Fatalf("trimmed hop: got %q", got)
	}
	// No header: falls back to the request's remote address.
	c := mk("")
	c.Request.RemoteAddr = "192.0.2.7:1234"
	if got := fn(c); got != "ip:192.0.2.7" {
		t.Fatalf("ClientIP fallback: got %q", got)
	}
}

func TestFixedWindowLimiter_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(60*time.Second, 2, KeyByForwardedIP())
	rl.now = func() time.Time { return base }

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-7")
		c.Next()
	})
	r.POST("/pay", rl.Handler(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	do := func(ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/pay", nil)
		req.Header.Set("X-Forwarded-For", ip)
		r.ServeHTTP(w, req)
		return w
	}

	if w := do("1.1.1.1"); w.Code != http.StatusOK {
		t.Fatalf("req 1: %d", w.Code)
	}
	if w := do("1.1.1.1"); w.Code != http.StatusOK {
		t.Fatalf("req 2: %d", w.Code)
	}

	w := do("1.1.1.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("req 3: got %d; want 429", w.Code)
	}
	var body struct {
		RequestID string `json:"request_id"`
		Code      string `json:"code"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("429 body: %v (%s)", err, w.Body.String())
	}
	if body.Code != "too_many_requests" || body.Message == "" || body.RequestID != "rid-7" {
		t.Fatalf("unexpected 429 envelope: %+v", body)
	}
	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	if err != nil || retry < 1 || retry > 61 {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}

	// A different client is unaffected.
	if w := do("2.2.2.2"); w.Code != http.StatusOK {
		t.Fatalf("other client: %d", w.Code)
	}
}
