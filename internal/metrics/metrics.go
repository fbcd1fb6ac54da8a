// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records application metrics into a Prometheus registry.
type Collector struct {
	logins          prometheus.Counter
	signups         prometheus.Counter
	starToggles     prometheus.Counter
	uploads         *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectfair_logins_total",
			Help: "Total number of successful logins",
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectfair_signups_total",
			Help: "Total number of successful sign-ups",
		}),
		starToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectfair_star_toggles_total",
			Help: "Total number of project star toggles",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projectfair_uploads_total",
			Help: "Total number of thumbnail uploads by result",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projectfair_http_status_total",
			Help: "Total number of HTTP responses by status code",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "projectfair_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.logins,
		c.signups,
		c.starToggles,
		c.uploads,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordLogin records a successful login.
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordSignup records a successful sign-up.
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordStarToggle records a project star toggle.
func (c *Collector) RecordStarToggle() {
	c.starToggles.Inc()
}

// RecordUpload records an upload outcome. result is "success" or "failure".
func (c *Collector) RecordUpload(result string) {
	c.uploads.WithLabelValues(result).Inc()
}

// RecordHTTPStatus records an HTTP response status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration records how long a request took to serve.
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler returns the HTTP handler serving Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
