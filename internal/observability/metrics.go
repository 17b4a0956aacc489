package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the compile and run counters.
const (
	ResultOK          = "ok"
	ResultRejected    = "rejected"
	ResultError       = "error"
	ResultInterrupted = "interrupted"
)

// Metrics holds the Prometheus collectors for compile and run. Every method is safe
// to call on a nil *Metrics, which records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	CompilesTotal   *prometheus.CounterVec
	CompileDuration prometheus.Histogram
	RejectionsTotal *prometheus.CounterVec
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	ActiveRuns      prometheus.Gauge
}

// NewMetrics creates a Metrics with all collectors registered on a custom registry.
func NewMetrics() *Metrics {
	m, err := NewMetricsWithRegisterer(prometheus.NewRegistry())
	if err != nil {
		// A fresh registry has no collectors to collide with.
		panic(err)
	}
	return m
}

// NewMetricsWithRegisterer registers the collectors on reg. Collectors already present
// on reg, for example from another Metrics sharing the same registry, are reused. When
// reg is a *prometheus.Registry it is also exposed as Registry.
func NewMetricsWithRegisterer(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		CompilesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seval",
			Subsystem: "compile",
			Name:      "total",
			Help:      "Total compile attempts by outcome.",
		}, []string{"result"}),

		CompileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seval",
			Subsystem: "compile",
			Name:      "duration_seconds",
			Help:      "Time spent parsing, validating and compiling a body.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),

		RejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seval",
			Subsystem: "validator",
			Name:      "rejections_total",
			Help:      "Bodies rejected by the policy validator, by reason.",
		}, []string{"reason"}),

		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seval",
			Subsystem: "run",
			Name:      "total",
			Help:      "Total runs by outcome.",
		}, []string{"result"}),

		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seval",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Run duration in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		ActiveRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seval",
			Name:      "active_runs",
			Help:      "Number of runs in progress.",
		}),
	}

	if r, ok := reg.(*prometheus.Registry); ok {
		m.Registry = r
	}

	var err error
	m.CompilesTotal, err = register(reg, m.CompilesTotal)
	if err != nil {
		return nil, err
	}
	m.CompileDuration, err = register(reg, m.CompileDuration)
	if err != nil {
		return nil, err
	}
	m.RejectionsTotal, err = register(reg, m.RejectionsTotal)
	if err != nil {
		return nil, err
	}
	m.RunsTotal, err = register(reg, m.RunsTotal)
	if err != nil {
		return nil, err
	}
	m.RunDuration, err = register(reg, m.RunDuration)
	if err != nil {
		return nil, err
	}
	m.ActiveRuns, err = register(reg, m.ActiveRuns)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, err
}

// ObserveCompile records one compile attempt.
func (m *Metrics) ObserveCompile(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.CompilesTotal.WithLabelValues(result).Inc()
	m.CompileDuration.Observe(d.Seconds())
}

// ObserveRejection records a policy rejection under its reason.
func (m *Metrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

// RunStarted marks a run as active. The returned func records its outcome and must be
// called exactly once.
func (m *Metrics) RunStarted() func(result string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.ActiveRuns.Inc()
	return func(result string) {
		m.ActiveRuns.Dec()
		m.RunsTotal.WithLabelValues(result).Inc()
		m.RunDuration.Observe(time.Since(start).Seconds())
	}
}
