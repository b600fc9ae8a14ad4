// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessageEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmchat_message_events_total",
			Help: "Committed message mutations by event kind.",
		},
		[]string{"kind"},
	)

	DispatchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmchat_dispatch_failures_total",
			Help: "Realtime deliveries that were dropped, by reason.",
		},
		[]string{"reason"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dmchat_ws_connections",
			Help: "Open websocket connections.",
		},
	)

	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmchat_uploads_total",
			Help: "Stored uploads by attachment kind.",
		},
		[]string{"kind"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dmchat_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		},
	)
)

func init() {
	prometheus.MustRegister(MessageEvents)
	prometheus.MustRegister(DispatchFailures)
	prometheus.MustRegister(ActiveConnections)
	prometheus.MustRegister(Uploads)
	prometheus.MustRegister(RateLimited)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
