package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/event"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyberquest_sessions_started_total",
		Help: "Number of quiz sessions started.",
	})

	sessionsGraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyberquest_sessions_graded_total",
		Help: "Number of quiz sessions graded, by terminal status.",
	}, []string{"status"})
)

// ObserveSessions feeds the session counters off the event bus.
func ObserveSessions(eb *event.Bus) {
	eb.Subscribe(domain.EventNameSessionStarted, func(context.Context, event.Event) error {
		sessionsStarted.Inc()
		return nil
	})

	eb.Subscribe(domain.EventNameSessionGraded, func(_ context.Context, e event.Event) error {
		graded := e.(domain.EventSessionGraded)
		sessionsGraded.WithLabelValues(string(graded.Session.Status)).Inc()
		return nil
	})
}
