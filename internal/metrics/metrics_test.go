package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.Request(KindRoute)
	m.Request(KindRoute)
	m.Request(KindStatic)
	m.StaticMiss()
	m.HandlerPanic()
	m.Dropped()
	m.SetHeartbeats(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(KindRoute)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(KindStatic)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staticMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.panics))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.heartbeats))
}

func TestMetrics_RegisterTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.Request(KindInit)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `htinter_requests_total{kind="init"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
