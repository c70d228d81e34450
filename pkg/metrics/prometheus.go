// Package metrics provides Prometheus metrics for the candidate evaluation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Evaluation pipeline
	evaluationRuns     *prometheus.CounterVec // labeled by recommendation
	evaluationFailures *prometheus.CounterVec // labeled by reason
	evaluationDuration prometheus.Histogram
	summaryWrites      prometheus.Counter

	// Log store IO
	recordsFetched *prometheus.CounterVec // labeled by kind (interaction|outcome)
	recordsSkipped *prometheus.CounterVec // labeled by kind
	storeWrites    *prometheus.CounterVec // labeled by kind
	storeWriteErrs *prometheus.CounterVec // labeled by kind
	fetchLatency   prometheus.Histogram

	// Assistant invocation
	assistantCalls   prometheus.Counter
	assistantErrors  prometheus.Counter
	assistantLatency prometheus.Histogram

	// Persistence queue and workers
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter
	workerCount      prometheus.Gauge
	workerLatency    prometheus.Histogram
	workerErrors     prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors by origin
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec
}

var defaultManager *Manager

//nolint:gochecknoinits // intentional init for global metrics setup
func init() {
	defaultManager = NewManager()
}

// NewManager creates a Manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "evalcore",
		subsystem:        "engine",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	histOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
			Buckets:   m.histogramBuckets,
		}
	}

	m.evaluationRuns = prometheus.NewCounterVec(
		factory("evaluation_runs_total", "Completed evaluation runs by recommendation."),
		[]string{"recommendation"},
	)
	m.evaluationFailures = prometheus.NewCounterVec(
		factory("evaluation_failures_total", "Failed evaluation runs by reason."),
		[]string{"reason"},
	)
	m.evaluationDuration = prometheus.NewHistogram(
		histOpts("evaluation_duration_ms", "End-to-end evaluation run duration in milliseconds."),
	)
	m.summaryWrites = prometheus.NewCounter(
		factory("summary_writes_total", "Metrics summaries persisted."),
	)

	m.recordsFetched = prometheus.NewCounterVec(
		factory("records_fetched_total", "Log records fetched by kind."),
		[]string{"kind"},
	)
	m.recordsSkipped = prometheus.NewCounterVec(
		factory("records_skipped_total", "Unreadable log records skipped by kind."),
		[]string{"kind"},
	)
	m.storeWrites = prometheus.NewCounterVec(
		factory("store_writes_total", "Log records written by kind."),
		[]string{"kind"},
	)
	m.storeWriteErrs = prometheus.NewCounterVec(
		factory("store_write_errors_total", "Log record write failures by kind."),
		[]string{"kind"},
	)
	m.fetchLatency = prometheus.NewHistogram(
		histOpts("fetch_latency_ms", "Candidate history fetch latency in milliseconds."),
	)

	m.assistantCalls = prometheus.NewCounter(
		factory("assistant_calls_total", "Assistant invocations."),
	)
	m.assistantErrors = prometheus.NewCounter(
		factory("assistant_errors_total", "Assistant invocation failures."),
	)
	m.assistantLatency = prometheus.NewHistogram(
		histOpts("assistant_latency_ms", "Assistant invocation latency in milliseconds."),
	)

	m.queueSize = prometheus.NewGauge(
		gaugeOpts("queue_size", "Current persistence queue depth."),
	)
	m.queueCapacity = prometheus.NewGauge(
		gaugeOpts("queue_capacity", "Persistence queue capacity."),
	)
	m.queueUtilization = prometheus.NewGauge(
		gaugeOpts("queue_utilization", "Persistence queue utilization ratio."),
	)
	m.queueEnqueues = prometheus.NewCounter(
		factory("queue_enqueues_total", "Jobs enqueued for persistence."),
	)
	m.queueDequeues = prometheus.NewCounter(
		factory("queue_dequeues_total", "Jobs dequeued by workers."),
	)
	m.queueEnqueueErrs = prometheus.NewCounter(
		factory("queue_enqueue_errors_total", "Enqueue rejections due to backpressure."),
	)
	m.workerCount = prometheus.NewGauge(
		gaugeOpts("worker_count", "Configured persistence workers."),
	)
	m.workerLatency = prometheus.NewHistogram(
		histOpts("worker_latency_ms", "Persistence job latency in milliseconds."),
	)
	m.workerErrors = prometheus.NewCounter(
		factory("worker_errors_total", "Persistence job failures."),
	)

	m.httpRequests = prometheus.NewCounterVec(
		factory("http_requests_total", "HTTP requests by endpoint, method and status."),
		[]string{"endpoint", "method", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		histOpts("http_request_duration_ms", "HTTP request duration in milliseconds."),
		[]string{"endpoint", "method", "status"},
	)

	m.errorsByComponent = prometheus.NewCounterVec(
		factory("errors_by_component_total", "Errors by component and type."),
		[]string{"component", "type"},
	)
	m.errorsByEndpoint = prometheus.NewCounterVec(
		factory("errors_by_endpoint_total", "HTTP errors by endpoint, method and type."),
		[]string{"endpoint", "method", "type"},
	)

	m.registry.MustRegister(
		m.evaluationRuns, m.evaluationFailures, m.evaluationDuration, m.summaryWrites,
		m.recordsFetched, m.recordsSkipped, m.storeWrites, m.storeWriteErrs, m.fetchLatency,
		m.assistantCalls, m.assistantErrors, m.assistantLatency,
		m.queueSize, m.queueCapacity, m.queueUtilization,
		m.queueEnqueues, m.queueDequeues, m.queueEnqueueErrs,
		m.workerCount, m.workerLatency, m.workerErrors,
		m.httpRequests, m.httpRequestDuration,
		m.errorsByComponent, m.errorsByEndpoint,
	)
}

// Package-level helpers over the default manager.

// RecordEvaluationRun counts a completed run by its recommendation label.
func RecordEvaluationRun(recommendation string) {
	if defaultManager.enabled {
		defaultManager.evaluationRuns.WithLabelValues(recommendation).Inc()
	}
}

// RecordEvaluationFailure counts a failed run by reason.
func RecordEvaluationFailure(reason string) {
	if defaultManager.enabled {
		defaultManager.evaluationFailures.WithLabelValues(reason).Inc()
	}
}

// RecordEvaluationDuration observes end-to-end run duration.
func RecordEvaluationDuration(ms float64) {
	if defaultManager.enabled {
		defaultManager.evaluationDuration.Observe(ms)
	}
}

// RecordSummaryWrite counts a persisted metrics summary.
func RecordSummaryWrite() {
	if defaultManager.enabled {
		defaultManager.summaryWrites.Inc()
	}
}

// RecordRecordsFetched adds fetched record counts for a kind.
func RecordRecordsFetched(kind string, n int) {
	if defaultManager.enabled {
		defaultManager.recordsFetched.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordRecordSkipped counts one unreadable record of a kind.
func RecordRecordSkipped(kind string) {
	if defaultManager.enabled {
		defaultManager.recordsSkipped.WithLabelValues(kind).Inc()
	}
}

// RecordStoreWrite counts a persisted log record of a kind.
func RecordStoreWrite(kind string) {
	if defaultManager.enabled {
		defaultManager.storeWrites.WithLabelValues(kind).Inc()
	}
}

// RecordStoreWriteError counts a failed log record write of a kind.
func RecordStoreWriteError(kind string) {
	if defaultManager.enabled {
		defaultManager.storeWriteErrs.WithLabelValues(kind).Inc()
	}
}

// RecordFetchLatency observes a candidate history fetch.
func RecordFetchLatency(ms float64) {
	if defaultManager.enabled {
		defaultManager.fetchLatency.Observe(ms)
	}
}

// RecordAssistantCall counts an assistant invocation.
func RecordAssistantCall() {
	if defaultManager.enabled {
		defaultManager.assistantCalls.Inc()
	}
}

// RecordAssistantError counts an assistant invocation failure.
func RecordAssistantError() {
	if defaultManager.enabled {
		defaultManager.assistantErrors.Inc()
	}
}

// RecordAssistantLatency observes an assistant invocation.
func RecordAssistantLatency(ms float64) {
	if defaultManager.enabled {
		defaultManager.assistantLatency.Observe(ms)
	}
}

// UpdateQueueSize sets the current persistence queue depth.
func UpdateQueueSize(size int) {
	if defaultManager.enabled {
		defaultManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the persistence queue capacity.
func UpdateQueueCapacity(capacity int) {
	if defaultManager.enabled {
		defaultManager.queueCapacity.Set(float64(capacity))
	}
}

// UpdateQueueUtilization sets the persistence queue utilization ratio.
func UpdateQueueUtilization(ratio float64) {
	if defaultManager.enabled {
		defaultManager.queueUtilization.Set(ratio)
	}
}

// RecordQueueEnqueue counts one accepted persistence job.
func RecordQueueEnqueue() {
	if defaultManager.enabled {
		defaultManager.queueEnqueues.Inc()
	}
}

// RecordQueueDequeue counts one dequeued persistence job.
func RecordQueueDequeue() {
	if defaultManager.enabled {
		defaultManager.queueDequeues.Inc()
	}
}

// RecordQueueEnqueueError counts one enqueue rejection.
func RecordQueueEnqueueError() {
	if defaultManager.enabled {
		defaultManager.queueEnqueueErrs.Inc()
	}
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	if defaultManager.enabled {
		defaultManager.workerCount.Set(float64(count))
	}
}

// RecordWorkerLatency observes one persistence job.
func RecordWorkerLatency(ms float64) {
	if defaultManager.enabled {
		defaultManager.workerLatency.Observe(ms)
	}
}

// RecordWorkerError counts one persistence job failure.
func RecordWorkerError() {
	if defaultManager.enabled {
		defaultManager.workerErrors.Inc()
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if defaultManager.enabled {
		defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if defaultManager.enabled {
		defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	if defaultManager.enabled {
		defaultManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByEndpoint counts an HTTP error by endpoint, method and type.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if defaultManager.enabled {
		defaultManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// GetRegistry returns the default manager's registry for exposition.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}
