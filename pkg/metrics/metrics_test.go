package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer("scheduling-test", reg)

	m.ObserveHTTPRequest("GET", "/api/v1/practitioners/{ownerId}/availability", 200, 10*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/practitioners/{ownerId}/availability", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/v1/appointments", 409, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/practitioners/{ownerId}/availability", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/appointments", "409")))

	m.IncBookingOutcome("created")
	m.IncBookingOutcome("conflict")
	m.IncBookingOutcome("conflict")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingOutcomes.WithLabelValues("conflict")))

	m.ObserveDBQuery("exec", errors.New("boom"), time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.dbQueryDuration))

	m.SetDBPoolStats(5, 2, 3, 7)
	assert.Equal(t, 5.0, testutil.ToFloat64(m.dbOpenConns.WithLabelValues()))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.dbWaitCount.WithLabelValues()))
}
