package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
)

// responseRecorder captures the status code written by a handler
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware records request metrics and logs each request
func HTTPMiddleware(metrics *MetricsCollector, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			endpoint := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					endpoint = tmpl
				}
			}

			if metrics != nil {
				metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(recorder.statusCode), duration)
			}
			log.HTTPRequest(r.Method, r.URL.Path, recorder.statusCode, duration.Milliseconds())
		})
	}
}
