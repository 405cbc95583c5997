package qcollapse

import (
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

/*
Metrics collects solver and pool telemetry.

Counters and histograms live on a private prometheus registry so several
harnesses in one process never collide on registration; expose it through
Registry. Job latency is also kept in a bounded in-memory window for the
percentiles ExportMetrics reports.
*/
type Metrics struct {
	mu sync.RWMutex

	registry   *prometheus.Registry
	solves     *prometheus.CounterVec
	iterations *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
	failures   *prometheus.CounterVec
	jobs       *prometheus.CounterVec

	JobCount          int64
	TotalJobTime      time.Duration
	AverageJobLatency time.Duration
	P95JobLatency     time.Duration
	P99JobLatency     time.Duration
	JobSuccessRate    float64

	successes     int64
	latencyWindow []time.Duration
	windowSize    int
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qcollapse_solves_total",
			Help: "Completed solves by problem family and outcome",
		}, []string{"problem", "outcome"}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qcollapse_solve_iterations",
			Help:    "Operator applications per solve",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"problem"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qcollapse_solve_duration_seconds",
			Help:    "Wall-clock solve duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12),
		}, []string{"problem"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qcollapse_trial_failures_total",
			Help: "Benchmark trials that failed with an error",
		}, []string{"problem"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qcollapse_pool_jobs_total",
			Help: "Pool jobs by result",
		}, []string{"result"}),
		latencyWindow: make([]time.Duration, 0, 1000),
		windowSize:    1000,
	}

	m.registry.MustRegister(m.solves, m.iterations, m.duration, m.failures, m.jobs)
	return m
}

// Registry exposes the collectors, e.g. for promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordSolve counts one finished solve.
func (m *Metrics) RecordSolve(pt ProblemType, outcome Outcome, iterations int, d time.Duration) {
	m.solves.WithLabelValues(pt.String(), outcome.String()).Inc()
	m.iterations.WithLabelValues(pt.String()).Observe(float64(iterations))
	m.duration.WithLabelValues(pt.String()).Observe(d.Seconds())
}

// RecordFailure counts one trial that errored instead of producing an outcome.
func (m *Metrics) RecordFailure(pt ProblemType) {
	m.failures.WithLabelValues(pt.String()).Inc()
}

func (m *Metrics) recordJobExecution(startTime time.Time, success bool) {
	duration := time.Since(startTime)

	if success {
		m.jobs.WithLabelValues("success").Inc()
	} else {
		m.jobs.WithLabelValues("failure").Inc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.JobCount++
	m.TotalJobTime += duration
	if success {
		m.successes++
	}
	m.JobSuccessRate = float64(m.successes) / float64(m.JobCount)

	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageJobLatency = m.TotalJobTime / time.Duration(m.JobCount)

	m.latencyWindow = append(m.latencyWindow, duration)
	if len(m.latencyWindow) > m.windowSize {
		m.latencyWindow = m.latencyWindow[1:]
	}

	sorted := slices.Clone(m.latencyWindow)
	slices.Sort(sorted)

	p95Index := min(int(float64(len(sorted))*0.95), len(sorted)-1)
	p99Index := min(int(float64(len(sorted))*0.99), len(sorted)-1)

	m.P95JobLatency = sorted[p95Index]
	m.P99JobLatency = sorted[p99Index]
}

func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"job_count":    m.JobCount,
		"success_rate": m.JobSuccessRate,
		"avg_latency":  m.AverageJobLatency.Milliseconds(),
		"p95_latency":  m.P95JobLatency.Milliseconds(),
		"p99_latency":  m.P99JobLatency.Milliseconds(),
	}
}
