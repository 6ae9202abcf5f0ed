package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

const namespace = "crossword"

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	reg *prometheus.Registry

	calls       *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	unsolved    prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		// Labels: method, code (OK or an error code)
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Calls served over the TCP transport",
		}, []string{"method", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "Time from request read to response write",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"method"}),
		// Labels: status (Unsolved, Solved, Claimed)
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "puzzle",
			Name:      "transitions_total",
			Help:      "Puzzles entering each lifecycle status",
		}, []string{"status"}),
		unsolved: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "puzzle",
			Name:      "unsolved",
			Help:      "Puzzles currently in the unsolved index",
		}),
	}
}

// ObserveCall records one call. Method names come off the wire, so anything
// outside the dispatched set shares the "unknown" label.
func (m *Metrics) ObserveCall(method, code string, elapsed time.Duration) {
	if !entity.IsKnownMethod(method) {
		method = "unknown"
	}
	m.calls.WithLabelValues(method, code).Inc()
	m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) PuzzleTransition(status string) {
	m.transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) AddUnsolved(delta int) {
	m.unsolved.Add(float64(delta))
}

func (m *Metrics) SetUnsolved(n int) {
	m.unsolved.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
