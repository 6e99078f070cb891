package controller

import (
	"net/http"
	"portal/pkg/metrics"
	"time"
)

// WithMetrics returns a middleware recording the duration and status of every
// request on m. A nil m records nothing.
func WithMetrics(m *metrics.Instruments) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)

			next.ServeHTTP(rec, r)

			m.RecordRequest(r.Context(), r.Method, rec.status, time.Since(start))
		})
	}
}
