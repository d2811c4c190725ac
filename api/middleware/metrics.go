package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/articles-api/pkg/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latency labelled by the chi route pattern.
// A panicking handler is recorded as a 500 and the panic is passed on to Recoverer.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.Start()
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			defer func() {
				status := rec.Status()
				rv := recover()
				if rv != nil {
					status = http.StatusInternalServerError
				}
				m.Observe(r.Method, metricsRoutePattern(r), status, time.Since(start))
				if rv != nil {
					panic(rv)
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

func metricsRoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}
