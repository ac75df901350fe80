package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/fixtures", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rate.Limit(1), 2)
	rl.now = func() time.Time { return now }
	h := rl.Limit(okHandler())

	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:5001").Code)

	rec := hit(h, "10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Another client has its own budget.
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.2:5000").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:5003").Code)
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rate.Limit(1), 1)
	rl.now = func() time.Time { return now }
	h := rl.Limit(okHandler())

	hit(h, "10.0.0.1:1")
	hit(h, "10.0.0.2:1")
	assert.Len(t, rl.visitors, 2)

	now = now.Add(limiterIdleTTL + time.Second)
	hit(h, "10.0.0.3:1")
	assert.Len(t, rl.visitors, 1)
}

func TestRateLimiter_SweepsAtMostOncePerTTL(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := start
	rl := NewRateLimiter(rate.Limit(1), 1)
	rl.now = func() time.Time { return now }
	h := rl.Limit(okHandler())

	hit(h, "10.0.0.1:1")
	assert.Equal(t, start, rl.lastSweep)

	// Idle clients survive until the sweep interval has passed.
	now = start.Add(limiterIdleTTL / 2)
	hit(h, "10.0.0.2:1")
	now = start.Add(limiterIdleTTL)
	hit(h, "10.0.0.3:1")
	assert.Len(t, rl.visitors, 3)
	assert.Equal(t, start, rl.lastSweep)

	now = start.Add(limiterIdleTTL + time.Minute)
	hit(h, "10.0.0.4:1")
	assert.Equal(t, now, rl.lastSweep)
	// Only 10.0.0.1 has been idle longer than the TTL.
	assert.Len(t, rl.visitors, 3)
	assert.NotContains(t, rl.visitors, "10.0.0.1")
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:4431"
	assert.Equal(t, "192.0.2.7", clientKey(req))

	req.RemoteAddr = "192.0.2.7"
	assert.Equal(t, "192.0.2.7", clientKey(req))
}
