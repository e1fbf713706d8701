package bus

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidekit",
			Subsystem: "bus",
			Name:      "events_published_total",
			Help:      "Total number of events published",
		},
		[]string{"tag"},
	)

	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidekit",
			Subsystem: "bus",
			Name:      "deliveries_total",
			Help:      "Total number of handler invocations",
		},
		[]string{"tag"},
	)

	handlerPanics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidekit",
			Subsystem: "bus",
			Name:      "handler_panics_total",
			Help:      "Handlers that panicked during delivery",
		},
		[]string{"tag"},
	)

	subscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "guidekit",
			Subsystem: "bus",
			Name:      "subscriptions",
			Help:      "Live (subscriber, tag) registrations across all buses",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsPublished, deliveries, handlerPanics, subscriptions)
}
