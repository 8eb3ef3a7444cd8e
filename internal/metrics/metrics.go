package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "minesweeper"

// Metrics - counters for one process. Each instance owns its registry, so tests never collide.
type Metrics struct {
	Registry *prometheus.Registry

	actions  *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	sessions *prometheus.CounterVec
}

func New() *Metrics {
	that := &Metrics{
		Registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Player actions by kind",
			},
			[]string{"action"},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "action_outcomes_total",
				Help:      "Board outcomes of player actions",
			},
			[]string{"outcome"},
		),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_total",
				Help:      "Finished sessions by result",
			},
			[]string{"result"},
		),
	}

	that.Registry.MustRegister(that.actions, that.outcomes, that.sessions)

	return that
}

func (that *Metrics) ObserveAction(action string) {
	that.actions.WithLabelValues(action).Inc()
}

func (that *Metrics) ObserveOutcome(outcome string) {
	that.outcomes.WithLabelValues(outcome).Inc()
}

func (that *Metrics) ObserveSession(result string) {
	that.sessions.WithLabelValues(result).Inc()
}
