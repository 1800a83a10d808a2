package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"aura-check/api/internal/logger"
	"aura-check/api/internal/metrics"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger attaches a request-scoped logrus entry, echoes or assigns
// X-Request-ID and counts http_requests_total.
func RequestLogger(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rid := r.Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, rid)

			entry := logger.WithFields(logrus.Fields{
				"request_id": rid,
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  r.RemoteAddr,
			})
			r = r.WithContext(logger.WithContext(r.Context(), entry))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reg.Inc(r.Context(), metrics.HTTPRequestsTotal, map[string]string{
				"method": r.Method,
				"path":   routePattern(r),
				"status": metrics.StatusClass(status),
			}, 1)

			fields := logrus.Fields{
				"status":   status,
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
			}
			if status >= 500 {
				entry.WithFields(fields).Error("http request failed")
				return
			}
			entry.WithFields(fields).Info("http request served")
		})
	}
}

// routePattern keeps label cardinality bounded on unmatched paths.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
