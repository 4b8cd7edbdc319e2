package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the global metrics container for a planner run.
type Metrics struct {
	// Pipeline-stage metrics (geogrid, costsurface, delaunay, corridor,
	// router, netexport, milp).
	StageRunsTotal   *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	StagesInFlight   prometheus.Gauge

	// Domain metrics.
	CandidateEdgesTotal  *prometheus.HistogramVec
	JunctionsFoundTotal  *prometheus.HistogramVec
	ShortestPathCacheHit *prometheus.CounterVec
	MilpObjectiveValue   prometheus.Gauge
	MilpSolveStatus      *prometheus.CounterVec

	// System metrics.
	MemoryUsage *prometheus.GaugeVec
	Goroutines  prometheus.Gauge

	// Service info.
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics initializes the metrics container under the given
// namespace/subsystem.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		StageRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stage_runs_total",
				Help:      "Total number of pipeline stage executions",
			},
			[]string{"stage", "status"},
		),

		StageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"stage"},
		),

		StagesInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stages_in_flight",
				Help:      "Current number of pipeline stages executing",
			},
		),

		CandidateEdgesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "candidate_edges_total",
				Help:      "Number of candidate network edges produced per run",
				Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"kind"}, // delaunay, pipeline, routed
		),

		JunctionsFoundTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "junctions_found_total",
				Help:      "Number of transshipment junctions discovered per run",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
			[]string{"carrier"}, // path, pipeline
		),

		ShortestPathCacheHit: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "shortest_path_cache_total",
				Help:      "Shortest-path cache lookups by result",
			},
			[]string{"result"}, // hit, miss
		),

		MilpObjectiveValue: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "milp_objective_value",
				Help:      "Objective value of the last extracted MILP solution",
			},
		),

		MilpSolveStatus: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "milp_solve_status_total",
				Help:      "Terminal solver statuses observed",
			},
			[]string{"status"}, // optimal, infeasible, inf_or_unbd, solver_unavailable
		),

		MemoryUsage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "memory_usage_bytes",
				Help:      "Current memory usage",
			},
			[]string{"type"},
		),

		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "goroutines",
				Help:      "Current number of goroutines",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics container, initializing it with defaults
// if InitMetrics has not been called yet.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("planner", "")
	}
	return defaultMetrics
}

// RecordStage records one pipeline stage execution.
func (m *Metrics) RecordStage(stage string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.StageRunsTotal.WithLabelValues(stage, status).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCandidateEdges records the size of a candidate edge set.
func (m *Metrics) RecordCandidateEdges(kind string, count int) {
	m.CandidateEdgesTotal.WithLabelValues(kind).Observe(float64(count))
}

// RecordJunctions records the number of junctions discovered for a carrier.
func (m *Metrics) RecordJunctions(carrier string, count int) {
	m.JunctionsFoundTotal.WithLabelValues(carrier).Observe(float64(count))
}

// RecordCacheLookup records a shortest-path cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ShortestPathCacheHit.WithLabelValues(result).Inc()
}

// RecordMilpResult records the terminal status and objective value of a
// solver invocation.
func (m *Metrics) RecordMilpResult(status string, objective float64) {
	m.MilpSolveStatus.WithLabelValues(status).Inc()
	if status == "optimal" {
		m.MilpObjectiveValue.Set(objective)
	}
}

// SetServiceInfo sets the service version/environment info gauge.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler returns the HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer starts a standalone HTTP server exposing /metrics and
// /health on the given port.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
