package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_ForwardsValidAndReplacesInvalid(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = apiclient.RequestIDFromContext(r.Context())
	}))

	const id = "4f1e2c3d-0000-4000-8000-000000000001"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, seen)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "<script>", seen)
	assert.Len(t, seen, 36)
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	now = now.Add(5 * time.Minute)
	assert.True(t, rl.Allow("b"))
	require.Equal(t, 2, rl.Len())

	now = now.Add(6 * time.Minute)
	rl.Cleanup(10 * time.Minute)
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimit_KeysOnClientIP(t *testing.T) {
	h := RateLimit(NewRateLimiter(0.001, 2))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	serve := func(addr, device string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		if device != "" {
			req.AddCookie(&http.Cookie{Name: DeviceCookie, Value: device})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// Cookieless requests from new source ports still share one limiter.
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1000", ""))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1001", ""))
	for port := 1002; port < 1010; port++ {
		assert.Equal(t, http.StatusTooManyRequests, serve(fmt.Sprintf("10.0.0.1:%d", port), ""))
	}
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:1000", uuid.NewString()))

	// RealIP leaves a bare address behind.
	assert.Equal(t, http.StatusOK, serve("10.0.0.2", ""))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:2000", ""))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.2", ""))
}

func TestLeaveSetup_WithoutWorkspace(t *testing.T) {
	called := false
	h := LeaveSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.True(t, called)
}

func TestMetricsCollector_CountsErrorsNotRedirects(t *testing.T) {
	var counters Counters
	mc := NewMetricsCollector(&counters)
	status := http.StatusOK
	h := mc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	for _, status = range []int{http.StatusOK, http.StatusSeeOther, http.StatusUnprocessableEntity, http.StatusTooManyRequests} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	assert.EqualValues(t, 4, counters.Requests.Load())
	assert.EqualValues(t, 2, counters.Errors.Load())
	assert.EqualValues(t, 1, counters.RateLimited.Load())
}

func TestRequireSession_WithoutWorkspace(t *testing.T) {
	called := false
	h := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
