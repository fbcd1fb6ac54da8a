package middleware

import (
	"net/http"
	"time"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/metrics"
)

// Logging logs HTTP requests and records status and duration metrics.
type Logging struct {
	logger  *logger.Logger
	metrics *metrics.Collector
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger, metrics *metrics.Collector) *Logging {
	return &Logging{logger: logger, metrics: metrics}
}

// Handler logs method, path, duration and status for each request.
func (l *Logging) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		l.logger.Info("HTTP request started",
			"method", r.Method,
			"path", r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		l.logger.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"status", rec.status)

		if l.metrics != nil {
			l.metrics.RecordHTTPStatus(rec.status)
			l.metrics.RecordRequestDuration(duration)
		}
	})
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
