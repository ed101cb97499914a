// Package metrics exposes the process's Prometheus registry and its custom
// collectors: room and game gauges, the per-action-type dispatch latency
// and error count, and bot-loop and debug-pause counters. The room
// dispatcher reports latency, errors, bot-loop runs and debug pauses;
// nothing in this module sets the room and game gauges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every custom collector this process registers.
type Metrics struct {
	Rooms          prometheus.Gauge
	ActiveGames    prometheus.Gauge
	ActionLatency  *prometheus.HistogramVec
	ActionErrors   *prometheus.CounterVec
	BotActions     prometheus.Counter
	DebugPauses    prometheus.Counter
}

// New registers every collector against reg and returns the handle used
// to record observations from the room dispatcher and bot loop.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mtg", Name: "rooms_active", Help: "Number of rooms currently tracked in memory.",
		}),
		ActiveGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mtg", Name: "games_active", Help: "Number of rooms with an in-progress GameState.",
		}),
		ActionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mtg", Name: "action_duration_seconds", Help: "Time spent inside the room dispatcher's per-action critical section.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action_type"}),
		ActionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mtg", Name: "action_errors_total", Help: "Strict actions that returned a RulesEngine error, by action type.",
		}, []string{"action_type"}),
		BotActions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mtg", Name: "bot_actions_total", Help: "Bot loop runs across all rooms.",
		}),
		DebugPauses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mtg", Name: "debug_pauses_total", Help: "Actions deferred to a debug pause.",
		}),
	}

	reg.MustRegister(m.Rooms, m.ActiveGames, m.ActionLatency, m.ActionErrors, m.BotActions, m.DebugPauses)
	return m
}

// ObserveAction records one dispatcher critical-section's duration and,
// on a non-nil err, increments the per-action-type error counter.
func (m *Metrics) ObserveAction(actionType string, start time.Time, err error) {
	m.ActionLatency.WithLabelValues(actionType).Observe(time.Since(start).Seconds())
	if err != nil {
		m.ActionErrors.WithLabelValues(actionType).Inc()
	}
}

// IncBotActions implements room.MetricsRecorder.
func (m *Metrics) IncBotActions() { m.BotActions.Inc() }

// IncDebugPauses implements room.MetricsRecorder.
func (m *Metrics) IncDebugPauses() { m.DebugPauses.Inc() }
