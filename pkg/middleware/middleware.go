// Package middleware provides production-grade HTTP middleware for remix
// applications: Prometheus request metrics and OpenTelemetry tracing.
//
// Both middlewares are standard func(http.Handler) http.Handler wrappers,
// so they compose with any router:
//
//	handler := middleware.Metrics()(middleware.OpenTelemetry()(app))
//	http.ListenAndServe(":3000", handler)
package middleware

import (
	"net/http"
	"strings"
)

// Request kinds, used as metric and span labels. They mirror the
// pipeline's classification of the raw request path.
const (
	KindHTML  = "html"
	KindData  = "data"
	KindPatch = "patch"
)

// requestKind classifies a request path the way the dispatcher does.
func requestKind(path string) string {
	switch {
	case strings.HasPrefix(path, "/__remix_data"):
		return KindData
	case strings.HasPrefix(path, "/__remix_patch"):
		return KindPatch
	default:
		return KindHTML
	}
}

// statusRecorder captures the status code written by a downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}
