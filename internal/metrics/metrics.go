package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application metrics that are safe to scrape via Prometheus.
// All methods are no-ops on a nil receiver.
type Metrics struct {
	registry            *prometheus.Registry
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	commandPublishes    *prometheus.CounterVec
	alertsIngested      *prometheus.CounterVec
	emails              *prometheus.CounterVec
	deadLetters         *prometheus.CounterVec
	alertQueueDepth     prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deviceio",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "deviceio",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	commandPublishes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deviceio",
		Name:      "command_publishes_total",
		Help:      "Device commands handed to the broker, by kind and result",
	}, []string{"kind", "result"})

	alertsIngested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deviceio",
		Name:      "alerts_ingested_total",
		Help:      "Device alerts processed, by error type and result",
	}, []string{"error_type", "result"})

	emails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deviceio",
		Name:      "alert_emails_total",
		Help:      "Alert email delivery attempts, by result",
	}, []string{"result"})

	deadLetters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deviceio",
		Name:      "dead_letters_total",
		Help:      "Dead-lettered alert emails, by outcome",
	}, []string{"outcome"})

	alertQueueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "deviceio",
		Name:      "alert_queue_depth",
		Help:      "Alerts waiting for a background worker",
	})

	registry.MustRegister(
		httpRequests,
		httpRequestDuration,
		commandPublishes,
		alertsIngested,
		emails,
		deadLetters,
		alertQueueDepth,
	)

	return &Metrics{
		registry:            registry,
		httpRequests:        httpRequests,
		httpRequestDuration: httpRequestDuration,
		commandPublishes:    commandPublishes,
		alertsIngested:      alertsIngested,
		emails:              emails,
		deadLetters:         deadLetters,
		alertQueueDepth:     alertQueueDepth,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

func (m *Metrics) ObserveCommand(kind, result string) {
	if m == nil {
		return
	}
	m.commandPublishes.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveAlert(errorType, result string) {
	if m == nil {
		return
	}
	m.alertsIngested.WithLabelValues(errorType, result).Inc()
}

func (m *Metrics) ObserveEmail(result string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveDeadLetter(outcome string) {
	if m == nil {
		return
	}
	m.deadLetters.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetAlertQueueDepth(n int) {
	if m == nil {
		return
	}
	m.alertQueueDepth.Set(float64(n))
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
