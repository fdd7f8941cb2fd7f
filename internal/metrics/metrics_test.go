package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerExposesCounters(t *testing.T) {
	CaptureFramesTotal.WithLabelValues("test0").Add(3)
	StoreEvictionsTotal.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `netsniff_capture_frames_total{interface="test0"} 3`)
	assert.Contains(t, rec.Body.String(), "netsniff_store_evictions_total")
}

func TestCaptureRunningGauge(t *testing.T) {
	CaptureRunning.Set(1)
	assert.Equal(t, 1.0, testutil.ToFloat64(CaptureRunning))
	CaptureRunning.Set(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(CaptureRunning))
}
