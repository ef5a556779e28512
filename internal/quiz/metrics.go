package quiz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursequiz_sessions_started_total",
		Help: "Sessions started, by mode.",
	}, []string{"mode"})

	sessionsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursequiz_sessions_submitted_total",
		Help: "Completed quiz submissions.",
	})

	progressRestores = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursequiz_progress_restores_total",
		Help: "Sessions that restored cached answers on start.",
	})

	emptyDatasetStarts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursequiz_empty_dataset_starts_total",
		Help: "Start attempts that resolved zero questions.",
	})
)
