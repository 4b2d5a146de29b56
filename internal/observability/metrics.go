// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Webhook metrics
	WebhookRequests  *prometheus.CounterVec
	WebhookEvents    *prometheus.CounterVec
	WebhookLatency   prometheus.Histogram
	ObservationsLost prometheus.Counter

	// Alert metrics
	AlertsDispatched *prometheus.CounterVec
	AlertsDropped    *prometheus.CounterVec
	DeliveryFailures *prometheus.CounterVec
	DeliveryLatency  *prometheus.HistogramVec
	QueueDepth       prometheus.Gauge
	WSClients        prometheus.Gauge

	// Evaluator metrics
	EvaluatorTicks     prometheus.Counter
	SimulatedProfit    prometheus.Histogram
	WatchedTokens      prometheus.Gauge
	ActiveTokens       prometheus.Gauge
	ControlOperations  *prometheus.CounterVec
	SettingUpdates     *prometheus.CounterVec
	LastSuccessfulTick prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_swap_watch"
	}

	return &Metrics{
		WebhookRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "requests_total",
			Help:      "Total number of webhook deliveries by status",
		}, []string{"status"}),
		WebhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total number of webhook events by filter outcome",
		}, []string{"outcome"}),
		WebhookLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "batch_latency_seconds",
			Help:      "Time to filter one webhook batch and enqueue its alerts",
			Buckets:   prometheus.DefBuckets,
		}),
		ObservationsLost: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "observations_lost_total",
			Help:      "Swap observations that could not be recorded",
		}),

		AlertsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "dispatched_total",
			Help:      "Total number of alerts accepted for delivery by kind",
		}, []string{"kind"}),
		AlertsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "dropped_total",
			Help:      "Alerts dropped before delivery by reason",
		}, []string{"reason"}),
		DeliveryFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "delivery_failures_total",
			Help:      "Alert delivery failures by sink",
		}, []string{"sink"}),
		DeliveryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "delivery_latency_seconds",
			Help:      "Alert delivery latency in seconds by sink",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "queue_depth",
			Help:      "Alerts waiting in the dispatch queue",
		}),
		WSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "ws_clients",
			Help:      "Connected live alert feed clients",
		}),

		EvaluatorTicks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "opportunity",
			Name:      "ticks_total",
			Help:      "Total number of opportunity evaluator ticks",
		}),
		SimulatedProfit: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "opportunity",
			Name:      "simulated_profit",
			Help:      "Distribution of simulated profit draws",
			Buckets:   []float64{4, 4.5, 5, 5.5, 6, 6.5, 7, 7.5, 8},
		}),
		WatchedTokens: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "tokens",
			Help:      "Number of watched tokens",
		}),
		ActiveTokens: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "active_tokens",
			Help:      "Number of active watched tokens",
		}),
		ControlOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "control",
			Name:      "operations_total",
			Help:      "Control surface operations by operation and result",
		}, []string{"operation", "result"}),
		SettingUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "control",
			Name:      "setting_updates_total",
			Help:      "Setting update attempts by setting and result",
		}, []string{"setting", "result"}),
		LastSuccessfulTick: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_evaluator_tick_timestamp",
			Help:      "Unix timestamp of last evaluator tick",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordWebhookRequest counts one webhook delivery.
func RecordWebhookRequest(status string, seconds float64) {
	DefaultMetrics.WebhookRequests.WithLabelValues(status).Inc()
	if status == "ok" {
		DefaultMetrics.WebhookLatency.Observe(seconds)
	}
}

// RecordWebhookEvents adds n events with the given filter outcome.
func RecordWebhookEvents(outcome string, n int) {
	if n > 0 {
		DefaultMetrics.WebhookEvents.WithLabelValues(outcome).Add(float64(n))
	}
}

// RecordObservationsLost counts observations that failed to persist.
func RecordObservationsLost(n int) {
	DefaultMetrics.ObservationsLost.Add(float64(n))
}

// RecordAlertDispatched counts an alert accepted by the dispatcher.
func RecordAlertDispatched(kind string) {
	DefaultMetrics.AlertsDispatched.WithLabelValues(kind).Inc()
}

// RecordAlertDropped counts an alert dropped before delivery.
func RecordAlertDropped(reason string) {
	DefaultMetrics.AlertsDropped.WithLabelValues(reason).Inc()
}

// RecordDelivery records one sink delivery attempt.
func RecordDelivery(sink string, seconds float64, err error) {
	DefaultMetrics.DeliveryLatency.WithLabelValues(sink).Observe(seconds)
	if err != nil {
		DefaultMetrics.DeliveryFailures.WithLabelValues(sink).Inc()
	}
}

// UpdateQueueDepth sets the dispatch queue depth gauge.
func UpdateQueueDepth(n int) {
	DefaultMetrics.QueueDepth.Set(float64(n))
}

// UpdateWSClients sets the live feed client gauge.
func UpdateWSClients(n int) {
	DefaultMetrics.WSClients.Set(float64(n))
}

// RecordEvaluatorTick records one evaluator tick.
func RecordEvaluatorTick(unixSeconds float64) {
	DefaultMetrics.EvaluatorTicks.Inc()
	DefaultMetrics.LastSuccessfulTick.Set(unixSeconds)
}

// RecordSimulatedProfit observes one simulated profit draw.
func RecordSimulatedProfit(v float64) {
	DefaultMetrics.SimulatedProfit.Observe(v)
}

// UpdateWatchedTokens sets the watch-list gauges.
func UpdateWatchedTokens(total, active int) {
	DefaultMetrics.WatchedTokens.Set(float64(total))
	DefaultMetrics.ActiveTokens.Set(float64(active))
}

// RecordControlOperation counts a control surface operation.
func RecordControlOperation(operation, result string) {
	DefaultMetrics.ControlOperations.WithLabelValues(operation, result).Inc()
}

// RecordSettingUpdate counts a setting update attempt.
func RecordSettingUpdate(setting, result string) {
	DefaultMetrics.SettingUpdates.WithLabelValues(setting, result).Inc()
}
