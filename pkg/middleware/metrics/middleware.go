package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Collect counts every request that the label policy does not skip, by
// status, uri label and method, and records its latency.
func Collect() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			uri, ok := labels.label(r)
			if !ok {
				return
			}
			code := strconv.Itoa(statusOf(ww))
			totalHttpRequestsToUri.WithLabelValues(code, uri, r.Method).Inc()
			totalHttpRequests.WithLabelValues(code, r.Method).Inc()
			responseTime.Observe(time.Since(start).Seconds())
		})
	}
}

// statusOf treats a handler that never called WriteHeader as 200.
func statusOf(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}
