// Package metrics holds the Prometheus collectors updated by htinter.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "htinter"

// Request kinds used as the "kind" label of the request counter.
const (
	KindBridge     = "bridge"
	KindTick       = "tick"
	KindRoute      = "route"
	KindInit       = "init"
	KindStatic     = "static"
	KindBadRequest = "bad_request"
	KindError      = "error"
)

// Metrics groups the server collectors.
type Metrics struct {
	requests     *prometheus.CounterVec
	staticMisses prometheus.Counter
	panics       prometheus.Counter
	dropped      prometheus.Counter
	heartbeats   prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what the SDK does unless asked otherwise.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests answered, by kind",
		}, []string{"kind"}),
		staticMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "static_misses_total",
			Help:      "Static file requests answered with 404",
		}),
		panics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_panics_total",
			Help:      "Handlers that panicked and were recovered",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_connections_total",
			Help:      "Connections closed without a response (read timeout or error)",
		}),
		heartbeats: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heartbeats",
			Help:      "Heartbeats defined on the server",
		}),
	}
}

// Request counts one answered request of the given kind.
func (m *Metrics) Request(kind string) {
	m.requests.WithLabelValues(kind).Inc()
}

// StaticMiss counts one 404.
func (m *Metrics) StaticMiss() {
	m.staticMisses.Inc()
}

// HandlerPanic counts one recovered handler panic.
func (m *Metrics) HandlerPanic() {
	m.panics.Inc()
}

// Dropped counts one connection closed without a response.
func (m *Metrics) Dropped() {
	m.dropped.Inc()
}

// SetHeartbeats records the size of the heartbeat table.
func (m *Metrics) SetHeartbeats(n int) {
	m.heartbeats.Set(float64(n))
}

// NewRegistry creates a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the metrics gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
