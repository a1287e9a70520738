package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives one observation per request.
// *prometheus.GrayZoneMetrics satisfies it.
type HTTPRecorder interface {
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration)
}

// Metrics records request counts and latency labelled by route pattern so
// that path parameters do not explode label cardinality.
func Metrics(rec HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := newStatusRecorder(w)
			next.ServeHTTP(sr, r)
			rec.RecordHTTPRequest(r.Method, routePattern(r), sr.status, time.Since(start))
		})
	}
}

//Personal.AI order the ending
