// Package metrics provides Prometheus metrics for the touchline match tracker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const subsystem = "match"

// latencyBuckets are in milliseconds.
var latencyBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // shared bucket layout

// Manager holds every Prometheus collector of the service.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// Match metrics
	goalsRecorded     *prometheus.CounterVec
	incidentsRecorded *prometheus.CounterVec
	eventsDeleted     *prometheus.CounterVec
	timeEdits         *prometheus.CounterVec
	duplicates        prometheus.Counter

	// Clock metrics
	clockTransitions *prometheus.CounterVec
	clockTicks       prometheus.Counter
	elapsedSeconds   prometheus.Gauge

	// Persistence metrics
	persistenceWrites   *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	persistenceLatency  *prometheus.HistogramVec

	// Notification pipeline metrics
	notificationsDispatched *prometheus.CounterVec
	notificationsDropped    prometheus.Counter
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueued           prometheus.Counter
	queueDequeued           prometheus.Counter
	workerActive            prometheus.Gauge
	workerErrors            prometheus.Counter
	workerLatency           prometheus.Histogram
	websocketClients        prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "touchline",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) histogram(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   latencyBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.goalsRecorded = auto.NewCounterVec(m.counter("goals_recorded_total", "Goals recorded by side"), []string{"side"})
	m.incidentsRecorded = auto.NewCounterVec(m.counter("incidents_recorded_total", "Incidents recorded by kind"), []string{"kind"})
	m.eventsDeleted = auto.NewCounterVec(m.counter("events_deleted_total", "Timeline entries deleted by kind"), []string{"kind"})
	m.timeEdits = auto.NewCounterVec(m.counter("time_edits_total", "Event times edited by kind"), []string{"kind"})
	m.duplicates = auto.NewCounter(m.counter("duplicate_submissions_total", "Submissions answered from the request id cache"))

	m.clockTransitions = auto.NewCounterVec(m.counter("clock_transitions_total", "Clock transitions by target phase"), []string{"phase"})
	m.clockTicks = auto.NewCounter(m.counter("clock_ticks_total", "Clock ticks accepted while running"))
	m.elapsedSeconds = auto.NewGauge(m.gauge("elapsed_seconds", "Elapsed match seconds at the last sample"))

	m.persistenceWrites = auto.NewCounterVec(m.counter("persistence_writes_total", "Store writes by operation"), []string{"op"})
	m.persistenceFailures = auto.NewCounterVec(m.counter("persistence_failures_total", "Failed store operations by operation"), []string{"op"})
	m.persistenceLatency = auto.NewHistogramVec(
		m.histogram("persistence_latency_milliseconds", "Store operation latency in milliseconds"),
		[]string{"op"},
	)

	m.notificationsDispatched = auto.NewCounterVec(
		m.counter("notifications_dispatched_total", "Notifications delivered by sink"),
		[]string{"sink"},
	)
	m.notificationsDropped = auto.NewCounter(m.counter("notifications_dropped_total", "Notifications dropped on a full queue"))
	m.queueSize = auto.NewGauge(m.gauge("notification_queue_size", "Current notification queue length"))
	m.queueCapacity = auto.NewGauge(m.gauge("notification_queue_capacity", "Notification queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counter("notification_queue_enqueued_total", "Notifications enqueued"))
	m.queueDequeued = auto.NewCounter(m.counter("notification_queue_dequeued_total", "Notifications dequeued"))
	m.workerActive = auto.NewGauge(m.gauge("notification_workers_active", "Running notification workers"))
	m.workerErrors = auto.NewCounter(m.counter("notification_worker_errors_total", "Notification deliveries that failed"))
	m.workerLatency = auto.NewHistogram(m.histogram("notification_delivery_latency_milliseconds", "Notification delivery latency in milliseconds"))
	m.websocketClients = auto.NewGauge(m.gauge("websocket_clients", "Connected live feed clients"))

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordGoal increments the goals counter for side.
func RecordGoal(side string) {
	globalManager.goalsRecorded.WithLabelValues(side).Inc()
}

// RecordIncident increments the incidents counter for kind.
func RecordIncident(kind string) {
	globalManager.incidentsRecorded.WithLabelValues(kind).Inc()
}

// RecordDeletion increments the deletions counter for an event kind.
func RecordDeletion(kind string) {
	globalManager.eventsDeleted.WithLabelValues(kind).Inc()
}

// RecordTimeEdit increments the time edit counter for an event kind.
func RecordTimeEdit(kind string) {
	globalManager.timeEdits.WithLabelValues(kind).Inc()
}

// RecordDuplicate increments the duplicate submissions counter.
func RecordDuplicate() {
	globalManager.duplicates.Inc()
}

// RecordClockTransition increments the transition counter for the phase entered.
func RecordClockTransition(phase string) {
	globalManager.clockTransitions.WithLabelValues(phase).Inc()
}

// RecordClockTick counts an accepted tick and publishes the elapsed time.
func RecordClockTick(elapsed int) {
	globalManager.clockTicks.Inc()
	globalManager.elapsedSeconds.Set(float64(elapsed))
}

// UpdateElapsedSeconds sets the elapsed gauge.
func UpdateElapsedSeconds(elapsed int) {
	globalManager.elapsedSeconds.Set(float64(elapsed))
}

// RecordPersistence records one store operation. A non-nil err counts as
// a failure; writes are counted only when they succeed.
func RecordPersistence(op string, took time.Duration, err error) {
	globalManager.persistenceLatency.WithLabelValues(op).Observe(float64(took.Microseconds()) / 1000)
	if err != nil {
		globalManager.persistenceFailures.WithLabelValues(op).Inc()
		return
	}
	if op != "load" {
		globalManager.persistenceWrites.WithLabelValues(op).Inc()
	}
}

// RecordNotificationDispatched counts a notification delivered by sink.
func RecordNotificationDispatched(sink string) {
	globalManager.notificationsDispatched.WithLabelValues(sink).Inc()
}

// RecordNotificationDropped counts a notification the queue could not take.
func RecordNotificationDropped() {
	globalManager.notificationsDropped.Inc()
}

// UpdateQueueSize sets the current notification queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the notification queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordWorkerLatency records one delivery latency in milliseconds.
func RecordWorkerLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// UpdateWebsocketClients sets the connected client gauge.
func UpdateWebsocketClients(count int) {
	globalManager.websocketClients.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
