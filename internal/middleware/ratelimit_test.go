package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// ============================================================================
// NewRateLimiter Tests (Configuration)
// ============================================================================

func TestNewRateLimiter_DefaultConfig(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})
	defer rl.Stop()

	if rl.rps != rate.Limit(5) {
		t.Errorf("expected default rps 5, got %v", rl.rps)
	}
	if rl.burst != 20 {
		t.Errorf("expected default burst 20, got %d", rl.burst)
	}
	if rl.idle != 10*time.Minute {
		t.Errorf("expected default idle 10m, got %v", rl.idle)
	}
}

func TestNewRateLimiter_CustomConfig(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 2.5, Burst: 3})
	defer rl.Stop()

	if rl.rps != rate.Limit(2.5) {
		t.Errorf("expected rps 2.5, got %v", rl.rps)
	}
	if rl.burst != 3 {
		t.Errorf("expected burst 3, got %d", rl.burst)
	}
}

// ============================================================================
// Allow() Tests
// ============================================================================

func TestAllow_BurstThenDenied(t *testing.T) {
	t.Parallel()
	// A very low rate keeps refills out of the test window
	rl := NewRateLimiter(RateLimitConfig{RPS: 0.001, Burst: 3})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		allowed, remaining, _ := rl.Allow("user:123")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if remaining != 2-i {
			t.Errorf("request %d: expected remaining %d, got %d", i+1, 2-i, remaining)
		}
	}

	allowed, remaining, retryAfter := rl.Allow("user:123")
	if allowed {
		t.Error("4th request should be denied")
	}
	if remaining != 0 {
		t.Errorf("expected remaining 0, got %d", remaining)
	}
	if retryAfter <= 0 {
		t.Errorf("expected positive retry delay, got %v", retryAfter)
	}
}

func TestAllow_DeniedRequestDoesNotConsumeToken(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 20, Burst: 1})
	defer rl.Stop()

	if allowed, _, _ := rl.Allow("k"); !allowed {
		t.Fatal("first request should be allowed")
	}
	_, _, first := rl.Allow("k")
	_, _, second := rl.Allow("k")

	// a cancelled reservation must not push the next token further out
	if second > first+10*time.Millisecond {
		t.Errorf("retry delay grew from %v to %v", first, second)
	}
}

func TestAllow_DifferentKeys_SeparateBuckets(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 0.001, Burst: 1})
	defer rl.Stop()

	if allowed, _, _ := rl.Allow("a"); !allowed {
		t.Error("first request for a should be allowed")
	}
	if allowed, _, _ := rl.Allow("a"); allowed {
		t.Error("second request for a should be denied")
	}
	if allowed, _, _ := rl.Allow("b"); !allowed {
		t.Error("first request for b should be allowed")
	}
}

func TestAllow_RefillsOverTime(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 50, Burst: 1})
	defer rl.Stop()

	rl.Allow("k")
	if allowed, _, _ := rl.Allow("k"); allowed {
		t.Fatal("expected bucket to be empty")
	}

	time.Sleep(40 * time.Millisecond)

	if allowed, _, _ := rl.Allow("k"); !allowed {
		t.Error("expected a token after refill")
	}
}

func TestAllow_ConcurrentAccess_ThreadSafe(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 0.001, Burst: 50})
	defer rl.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, _ := rl.Allow("shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("expected exactly 50 allowed, got %d", allowed)
	}
}

// ============================================================================
// Cleanup Tests
// ============================================================================

func TestCleanup_RemovesIdleBuckets(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{Idle: time.Minute, Cleanup: time.Hour})
	defer rl.Stop()

	rl.Allow("old")
	rl.Allow("fresh")

	rl.mu.Lock()
	rl.clients["old"].lastSeen = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	rl.cleanupIdle(time.Now())

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["old"]; ok {
		t.Error("expected idle bucket to be removed")
	}
	if _, ok := rl.clients["fresh"]; !ok {
		t.Error("expected fresh bucket to be kept")
	}
}

func TestStop_Idempotent(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})

	rl.Stop()
	rl.Stop()
}

// ============================================================================
// RateLimit() Middleware Tests
// ============================================================================

func TestRateLimitMiddleware_AllowedRequest_SetsHeaders(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 1, Burst: 5})
	defer rl.Stop()
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
	rr := httptest.NewRecorder()

	RateLimit(rl)(handler).ServeHTTP(rr, req)

	if !handler.called {
		t.Error("expected handler to be called")
	}
	if got := rr.Header().Get("X-RateLimit-Limit"); got != "5" {
		t.Errorf("expected X-RateLimit-Limit 5, got %q", got)
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Errorf("expected X-RateLimit-Remaining 4, got %q", got)
	}
}

func TestRateLimitMiddleware_DeniedRequest_Returns429(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 0.001, Burst: 1})
	defer rl.Stop()
	mw := RateLimit(rl)

	first := httptest.NewRecorder()
	mw(&captureHandler{}).ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/v1/subscriptions", nil))

	handler := &captureHandler{}
	rr := httptest.NewRecorder()
	mw(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/subscriptions", nil))

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
	retry, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	if err != nil || retry < 1 {
		t.Errorf("expected Retry-After >= 1, got %q", rr.Header().Get("Retry-After"))
	}
}

func TestRateLimitMiddleware_UsesUserID_WhenAuthenticated(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 0.001, Burst: 1})
	defer rl.Stop()
	mw := RateLimit(rl)

	for _, user := range []string{"user:1", "user:2"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, user))
		rr := httptest.NewRecorder()

		mw(&captureHandler{}).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected status %d, got %d", user, http.StatusOK, rr.Code)
		}
	}
}

func TestRateLimitMiddleware_UsesIP_WhenUnauthenticated(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{RPS: 0.001, Burst: 1})
	defer rl.Stop()
	mw := RateLimit(rl)

	// same host, different ports share a bucket
	for i, addr := range []string{"192.168.1.7:1111", "192.168.1.7:2222"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()

		mw(&captureHandler{}).ServeHTTP(rr, req)

		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if rr.Code != want {
			t.Errorf("request %d: expected status %d, got %d", i+1, want, rr.Code)
		}
	}
}

func TestClientIP_NoPort(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "not-an-addr"

	if got := clientIP(req); got != "not-an-addr" {
		t.Errorf("expected raw remote addr, got %q", got)
	}
}
