package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	Operations          *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
	NotificationsActive prometheus.Gauge
	SinkFailures        *prometheus.CounterVec
	SinkDropped         *prometheus.CounterVec
	SinkCircuitOpen     *prometheus.GaugeVec
	UsersCreated        prometheus.Counter
	ReportsGenerated    *prometheus.CounterVec
}

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// New creates and registers all metrics on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status",
			Buckets: durationBuckets,
		}, []string{"route", "method", "status"}),
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_operations_total",
			Help: "Store operations by outcome",
		}, []string{"store", "operation", "outcome"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_operation_duration_seconds",
			Help:    "Store operation latency including simulated delay",
			Buckets: durationBuckets,
		}, []string{"store", "operation"}),
		NotificationsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "backoffice_notifications_active",
			Help: "Notifications currently queued in the channel",
		}),
		SinkFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_notification_sink_failures_total",
			Help: "Failed deliveries to external notification sinks",
		}, []string{"sink"}),
		SinkDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_notification_sink_dropped_total",
			Help: "Events dropped because the sink's circuit was open",
		}, []string{"sink"}),
		SinkCircuitOpen: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "backoffice_notification_sink_circuit_open",
			Help: "1 while the sink's circuit breaker is open, 0 when closed",
		}, []string{"sink"}),
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_users_created_total",
			Help: "Total number of users created",
		}),
		ReportsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_reports_generated_total",
			Help: "Reports generated by type",
		}, []string{"type"}),
	}
}

// ObserveOperation records one bracketed store operation.
// Call with time.Now() taken before the operation started.
func (m *Metrics) ObserveOperation(store, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.Operations.WithLabelValues(store, operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(store, operation).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one HTTP request.
func (m *Metrics) ObserveHTTP(route, method string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

// SetNotificationsActive reports the channel's queue length.
func (m *Metrics) SetNotificationsActive(n int) {
	if m == nil {
		return
	}
	m.NotificationsActive.Set(float64(n))
}

// IncrementSinkFailure counts a failed sink delivery.
func (m *Metrics) IncrementSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.SinkFailures.WithLabelValues(sink).Inc()
}

// IncrementSinkDropped counts an event skipped by an open circuit.
func (m *Metrics) IncrementSinkDropped(sink string) {
	if m == nil {
		return
	}
	m.SinkDropped.WithLabelValues(sink).Inc()
}

// SetSinkCircuitOpen reports the circuit state of a sink.
func (m *Metrics) SetSinkCircuitOpen(sink string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.SinkCircuitOpen.WithLabelValues(sink).Set(v)
}

// IncrementUsersCreated increments the users created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncrementReportsGenerated counts a generated report of the given type.
func (m *Metrics) IncrementReportsGenerated(reportType string) {
	if m == nil {
		return
	}
	m.ReportsGenerated.WithLabelValues(reportType).Inc()
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
