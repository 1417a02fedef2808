package middleware

import (
	"net/http"
	"sync/atomic"
)

// Counters are the request metrics served on /metrics.
type Counters struct {
	Requests    atomic.Int64
	Errors      atomic.Int64
	RateLimited atomic.Int64
}

// MetricsCollector collects request metrics.
type MetricsCollector struct {
	counters *Counters
}

func NewMetricsCollector(counters *Counters) *MetricsCollector {
	return &MetricsCollector{counters: counters}
}

// Middleware counts requests, 4xx/5xx answers and rate-limited requests.
// Redirects are not errors.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.counters.Requests.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode == http.StatusTooManyRequests {
			mc.counters.RateLimited.Add(1)
		}
		if rw.statusCode >= 400 {
			mc.counters.Errors.Add(1)
		}
	})
}
