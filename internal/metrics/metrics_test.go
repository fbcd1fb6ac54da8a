package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin()
	c.RecordLogin()
	c.RecordSignup()
	c.RecordStarToggle()
	c.RecordUpload("success")
	c.RecordUpload("failure")
	c.RecordUpload("failure")
	c.RecordHTTPStatus(http.StatusOK)
	c.RecordHTTPStatus(http.StatusOK)
	c.RecordHTTPStatus(http.StatusNotFound)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.logins))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.signups))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.starToggles))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.uploads.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.uploads.WithLabelValues("failure")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.httpStatus.WithLabelValues("200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.httpStatus.WithLabelValues("404")))
}

func TestCollector_RequestDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestDuration(30 * time.Millisecond)
	c.RecordRequestDuration(70 * time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "projectfair_request_duration_seconds" {
			found = true
			require.Len(t, mf.GetMetric(), 1)
			assert.Equal(t, uint64(2), mf.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	require.True(t, found)
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSignup()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "projectfair_signups_total 1")
}
