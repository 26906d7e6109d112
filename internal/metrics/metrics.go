package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Conversation metrics
	IntentsTotal *prometheus.CounterVec

	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Inbound text longer than the configured limit
	TruncatedMessagesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		IntentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_intents_total",
				Help: "Total number of resolved intents by kind",
			},
			[]string{"intent"}, // intent: menu, list_courses, course_detail, fallback, ...
		),

		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coursebot_webhook_duration_seconds",
				Help:    "Webhook processing duration in seconds by channel",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}, // In-memory replies
			},
			[]string{"channel"}, // channel: whatsapp, line
		),

		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_webhook_requests_total",
				Help: "Total number of webhook requests by channel and status",
			},
			[]string{"channel", "status"}, // status: success, error, rejected
		),

		HTTPErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_http_errors_total",
				Help: "Total HTTP errors by type and channel",
			},
			[]string{"error_type", "channel"}, // error_type: invalid_signature, bad_request, reply_failed
		),

		TruncatedMessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_truncated_messages_total",
				Help: "Total inbound messages truncated before intent resolution",
			},
			[]string{"channel"},
		),
	}
}

// RecordIntent records a resolved intent
func (m *Metrics) RecordIntent(intent string) {
	if m == nil {
		return
	}
	m.IntentsTotal.WithLabelValues(intent).Inc()
}

// RecordWebhook records a webhook request
func (m *Metrics) RecordWebhook(channel, status string, duration float64) {
	if m == nil {
		return
	}
	m.WebhookRequestsTotal.WithLabelValues(channel, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(channel).Observe(duration)
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, channel string) {
	if m == nil {
		return
	}
	m.HTTPErrorsTotal.WithLabelValues(errorType, channel).Inc()
}

// RecordTruncation records an inbound message cut to the length limit
func (m *Metrics) RecordTruncation(channel string) {
	if m == nil {
		return
	}
	m.TruncatedMessagesTotal.WithLabelValues(channel).Inc()
}
