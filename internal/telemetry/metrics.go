package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quizboard"

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Number of quiz sessions started.",
	})

	sessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_completed_total",
		Help:      "Number of quiz sessions that reached the last question.",
	})

	answersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_submitted_total",
		Help:      "Number of answers submitted, by correctness.",
	}, []string{"correct"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of sessions held in memory.",
	})
)

func SessionStarted() {
	sessionsStarted.Inc()
	activeSessions.Inc()
}

func SessionCompleted() {
	sessionsCompleted.Inc()
}

// SessionsDiscarded is called whenever sessions leave memory, completed or expired.
func SessionsDiscarded(n int) {
	activeSessions.Sub(float64(n))
}

func AnswerSubmitted(correct bool) {
	answersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()
}
