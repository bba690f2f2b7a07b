package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wattendo",
			Name:      "attendance_transition_total",
			Help:      "Count of attendance transitions by resulting status.",
		},
		[]string{"status"},
	)

	transitionsRefused = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wattendo",
			Name:      "attendance_transition_refused_total",
			Help:      "Count of refused attendance transitions by reason.",
		},
		[]string{"reason"},
	)

	remindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wattendo",
			Name:      "reminders_sent_total",
			Help:      "Count of reminders dispatched by kind.",
		},
		[]string{"kind"},
	)

	storageErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wattendo",
			Name:      "storage_errors_total",
			Help:      "Count of storage read/write failures.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(transitions, transitionsRefused, remindersSent, storageErrors)
	})
}

func IncTransition(status string) {
	transitions.WithLabelValues(status).Inc()
}

func IncTransitionRefused(reason string) {
	transitionsRefused.WithLabelValues(reason).Inc()
}

func IncReminderSent(kind string) {
	remindersSent.WithLabelValues(kind).Inc()
}

func IncStorageError() {
	storageErrors.Inc()
}
