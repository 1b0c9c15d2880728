package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "portal")

	m.ObserveHTTPRequest("GET", "/api/v1/sessions/{sessionId}/wizard", 200, 10*time.Millisecond)
	m.IncSlotFetch("stale")
	m.IncSlotFetch("stale")
	m.IncOptimistic("rolled_back")
	m.ObserveDBQuery("QueryContext", time.Millisecond, errors.New("boom"))
	m.SetActiveSessions(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/sessions/{sessionId}/wizard", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotFetches.WithLabelValues("stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.optimistic.WithLabelValues("rolled_back")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("QueryContext")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/", 200, time.Second)
		m.ObserveAPIRequest("GET", "/", 0, time.Second)
		m.IncAPIRetry("GET", "/")
		m.IncWizardEvent("selecting_provider", "next", "ok")
		m.IncSlotFetch("applied")
		m.IncOptimistic("committed")
		m.SetActiveSessions(1)
		m.IncNotification("error")
		m.ObserveDBQuery("ExecContext", time.Second, nil)
	})
	assert.Nil(t, m.Registerer())
}
