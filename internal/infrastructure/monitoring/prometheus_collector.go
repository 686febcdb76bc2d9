package monitoring

import (
	"time"

	"peerlink/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type RelayCollector struct {
	messagesSubmitted *prometheus.CounterVec
	drainsServed      prometheus.Counter
	messagesDrained   prometheus.Counter
	invalidRequests   prometheus.Counter
	customersSaved    *prometheus.CounterVec
	uploadsStored     prometheus.Counter
	requestDuration   *prometheus.HistogramVec
}

func NewRelayCollector() *RelayCollector {
	return &RelayCollector{
		messagesSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "peerlink_messages_submitted_total",
			Help: "Total signaling messages accepted, by message type",
		}, []string{"type"}),

		drainsServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peerlink_drains_served_total",
			Help: "Total drain requests served",
		}),

		messagesDrained: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peerlink_messages_drained_total",
			Help: "Total signaling messages delivered to pollers",
		}),

		invalidRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peerlink_invalid_requests_total",
			Help: "Total requests rejected as invalid",
		}),

		customersSaved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "peerlink_customers_saved_total",
			Help: "Total customer saves, by action (insert or update)",
		}, []string{"action"}),

		uploadsStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peerlink_uploads_stored_total",
			Help: "Total customer photos stored",
		}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "peerlink_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "route"}),
	}
}

func (c *RelayCollector) RecordSubmit(msgType domain.MessageType) {
	c.messagesSubmitted.WithLabelValues(string(msgType)).Inc()
}

func (c *RelayCollector) RecordDrain(delivered int) {
	c.drainsServed.Inc()
	c.messagesDrained.Add(float64(delivered))
}

func (c *RelayCollector) RecordInvalidRequest() {
	c.invalidRequests.Inc()
}

func (c *RelayCollector) RecordCustomerSaved(created bool) {
	action := "update"
	if created {
		action = "insert"
	}
	c.customersSaved.WithLabelValues(action).Inc()
}

func (c *RelayCollector) RecordUpload() {
	c.uploadsStored.Inc()
}

func (c *RelayCollector) RecordRequestDuration(method, route string, d time.Duration) {
	c.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
