package daemon

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/notify"
)

const metricsNamespace = "eventcal"

// Metrics holds the daemon's Prometheus collectors on a private registry.
// It implements scheduler.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	checks          prometheus.Counter
	checkDuration   prometheus.Histogram
	eventsScanned   prometheus.Gauge
	notifications   prometheus.Counter
	deliveries      *prometheus.CounterVec
	deliveryLatency prometheus.Histogram
	errors          *prometheus.CounterVec
	lastCheck       prometheus.Gauge
}

// NewMetrics creates the collectors, plus Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		checks: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "daemon",
			Name:      "checks_total",
			Help:      "Notification checks run.",
		}),
		checkDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "daemon",
			Name:      "check_duration_seconds",
			Help:      "Time spent loading and selecting events per check.",
			Buckets:   prometheus.DefBuckets,
		}),
		eventsScanned: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "daemon",
			Name:      "events_scanned",
			Help:      "Events considered by the last check, after expansion.",
		}),
		notifications: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "daemon",
			Name:      "notifications_total",
			Help:      "Event notifications fired.",
		}),
		deliveries: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "webhook",
			Name:      "deliveries_total",
			Help:      "Webhook deliveries by result.",
		}, []string{"webhook", "result"}),
		deliveryLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "webhook",
			Name:      "delivery_duration_seconds",
			Help:      "Webhook delivery time including retries.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		errors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "daemon",
			Name:      "errors_total",
			Help:      "Errors by category.",
		}, []string{"category"}),
		lastCheck: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "daemon",
			Name:      "last_check_timestamp_seconds",
			Help:      "Unix time of the last completed check.",
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveCheck(events, fresh int, took time.Duration) {
	m.checks.Inc()
	m.checkDuration.Observe(took.Seconds())
	m.eventsScanned.Set(float64(events))
	m.notifications.Add(float64(fresh))
	m.lastCheck.SetToCurrentTime()
}

func (m *Metrics) ObserveDelivery(r notify.DispatchResult) {
	result := "success"
	if !r.Success {
		result = "failure"
	}
	m.deliveries.WithLabelValues(r.WebhookName, result).Inc()
	m.deliveryLatency.Observe(r.Duration.Seconds())
	if r.Error != nil {
		m.RecordError("webhook", r.Error)
	}
}

func (m *Metrics) RecordError(category string, _ error) {
	m.errors.WithLabelValues(category).Inc()
}
