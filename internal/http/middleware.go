package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	m "github.com/go-chi/chi/v5/middleware"

	"lms-evaluation/internal/metrics"
)

// CountRequests counts each request by method, matched route pattern and
// status code.
func CountRequests(mt *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := m.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			mt.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
		})
	}
}
