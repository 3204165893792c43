package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/blessfleet/internal/core/domain"
)

const namespace = "blessfleet"

// Gateway operation labels.
const (
	OpListNodes    = "list_nodes"
	OpRegister     = "register"
	OpStartSession = "start_session"
	OpStopSession  = "stop_session"
	OpPing         = "ping"
	OpDiscoverAddr = "discover_addr"
)

// Fleet holds the fleet metrics.
type Fleet struct {
	calls          *prometheus.CounterVec
	callDuration   *prometheus.HistogramVec
	claims         *prometheus.CounterVec
	restarts       *prometheus.CounterVec
	heartbeats     *prometheus.CounterVec
	sessionsClosed *prometheus.CounterVec
	supervisors    prometheus.Gauge
}

// NewFleet creates the fleet metrics and registers them with reg.
func NewFleet(reg prometheus.Registerer) *Fleet {
	f := &Fleet{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Gateway calls by operation and result kind",
		}, []string{"op", "result"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Gateway call latency by operation",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"op"}),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Node registry claim attempts by result",
		}, []string{"result"}),
		restarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Supervisor restart cycles by failure kind",
		}, []string{"reason"}),
		heartbeats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heartbeats_total",
			Help:      "Heartbeats sent by result kind",
		}, []string{"result"}),
		sessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Session closes issued at shutdown by result kind",
		}, []string{"result"}),
		supervisors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "supervisors_running",
			Help:      "Supervisor goroutines currently running",
		}),
	}

	reg.MustRegister(
		f.calls,
		f.callDuration,
		f.claims,
		f.restarts,
		f.heartbeats,
		f.sessionsClosed,
		f.supervisors,
	)
	return f
}

// ObserveCall records one gateway call.
func (f *Fleet) ObserveCall(op string, err error, d time.Duration) {
	if f == nil {
		return
	}
	f.calls.WithLabelValues(op, domain.Kind(err)).Inc()
	f.callDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveClaim records a registry claim attempt.
func (f *Fleet) ObserveClaim(claimed bool) {
	if f == nil {
		return
	}
	result := "claimed"
	if !claimed {
		result = "duplicate"
	}
	f.claims.WithLabelValues(result).Inc()
}

// ObserveHeartbeat records one heartbeat outcome.
func (f *Fleet) ObserveHeartbeat(err error) {
	if f == nil {
		return
	}
	f.heartbeats.WithLabelValues(domain.Kind(err)).Inc()
}

// ObserveRestart records a restart cycle caused by err.
func (f *Fleet) ObserveRestart(err error) {
	if f == nil {
		return
	}
	f.restarts.WithLabelValues(domain.Kind(err)).Inc()
}

// ObserveSessionClose records a shutdown session close.
func (f *Fleet) ObserveSessionClose(err error) {
	if f == nil {
		return
	}
	f.sessionsClosed.WithLabelValues(domain.Kind(err)).Inc()
}

// SupervisorStarted increments the running supervisor gauge.
func (f *Fleet) SupervisorStarted() {
	if f == nil {
		return
	}
	f.supervisors.Inc()
}

// SupervisorStopped decrements the running supervisor gauge.
func (f *Fleet) SupervisorStopped() {
	if f == nil {
		return
	}
	f.supervisors.Dec()
}

// RegisterActiveNodes exposes count as the active_nodes gauge.
func RegisterActiveNodes(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_nodes",
		Help:      "Nodes currently claimed in the registry",
	}, func() float64 { return float64(count()) }))
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
