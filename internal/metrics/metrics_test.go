package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	m.ObserveHTTP("POST", "/api/v1/appointments/{id}/move", 200, 15*time.Millisecond)
	m.ObserveEvent("appointments", "UPDATE")
	m.ObserveEvent("appointments", "UPDATE")
	m.IncReload()
	m.ObserveMove("customer", "rolled_back")
	m.SetBoardSize(12, 7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/appointments/{id}/move", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.realtimeEvents.WithLabelValues("appointments", "UPDATE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.boardReloads))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.boardMoves.WithLabelValues("customer", "rolled_back")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.boardSlots))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.boardBound))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/healthz", 200, time.Millisecond)
		m.ObserveEvent("slots", "INSERT")
		m.IncReload()
		m.ObserveMove("slot", "ok")
		m.SetBoardSize(1, 1)
	})
}
