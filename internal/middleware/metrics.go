// AngelaMos | 2026
// metrics.go

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oonkoo/dashboard-api/internal/core"
)

// Metrics records request count, latency and in-flight requests. The route
// label is the chi pattern so ids do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		core.HTTPInFlight.Inc()
		defer core.HTTPInFlight.Dec()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r)

		route := routePattern(r)
		status := strconv.Itoa(sw.code)

		core.HTTPRequestDuration.
			WithLabelValues(r.Method, route, status).
			Observe(time.Since(start).Seconds())
		core.HTTPRequestsTotal.
			WithLabelValues(r.Method, route, status).
			Inc()
	})
}

// routePattern is only complete once the router has matched the request.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
