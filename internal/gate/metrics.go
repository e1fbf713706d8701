package gate

import "github.com/prometheus/client_golang/prometheus"

var (
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidekit",
			Subsystem: "gate",
			Name:      "transitions_total",
			Help:      "Lifecycle transitions by target state",
		},
		[]string{"state"},
	)

	terminationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guidekit",
			Subsystem: "gate",
			Name:      "terminations_total",
			Help:      "Screens finished because the session no longer allows them",
		},
		[]string{"screen"},
	)

	reauthPromptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guidekit",
			Subsystem: "gate",
			Name:      "reauth_prompts_total",
			Help:      "Login prompts requested after an unauthorized API response",
		},
	)
)

func init() {
	prometheus.MustRegister(transitionsTotal, terminationsTotal, reauthPromptsTotal)
}
