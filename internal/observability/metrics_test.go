package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCountsRequests(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/chamados", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/api/chamados", "GET", 200, 7*time.Millisecond)
	m.RecordRequest("/api/chamados", "POST", 201, 9*time.Millisecond)

	assert.Equal(t, int64(2), m.RequestTotal("/api/chamados", "GET", 200))
	assert.Equal(t, int64(1), m.RequestTotal("/api/chamados", "POST", 201))
	assert.Equal(t, int64(0), m.RequestTotal("/api/chamados", "DELETE", 200))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/x", "GET", 200, time.Millisecond)
		m.RecordError("/x", "GET", "INTERNAL_ERROR")
	})
	assert.Equal(t, int64(0), m.RequestTotal("/x", "GET", 200))
}
