// Package metric holds the Prometheus collectors of the signaling server.
package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signal_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_ws_active_connections",
			Help: "Open WebSocket connections.",
		},
	)

	activeRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_active_rooms",
			Help: "Rooms with at least one member.",
		},
	)

	eventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_events_received_total",
			Help: "Inbound events by type.",
		},
		[]string{"type"},
	)

	eventsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_events_sent_total",
			Help: "Outbound frames enqueued by event type.",
		},
		[]string{"type"},
	)

	framesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_frames_dropped_total",
			Help: "Frames that hit a full send queue, by policy action.",
		},
		[]string{"action"},
	)
)

// RecordHTTP records one served request.
func RecordHTTP(method, endpoint string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, endpoint, s).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, s).Observe(d.Seconds())
}

func IncWSConnections() { wsActiveConnections.Inc() }
func DecWSConnections() { wsActiveConnections.Dec() }

func SetRooms(n int) { activeRooms.Set(float64(n)) }

func EventReceived(eventType string) { eventsReceived.WithLabelValues(eventType).Inc() }

// EventSent adds n enqueued frames of the given type.
func EventSent(eventType string, n int) {
	if n <= 0 {
		return
	}
	eventsSent.WithLabelValues(eventType).Add(float64(n))
}

func FrameDropped(action string) { framesDropped.WithLabelValues(action).Inc() }

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
