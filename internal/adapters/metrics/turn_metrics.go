package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TurnMetricsCollector handles turn pipeline and combat metrics
type TurnMetricsCollector struct {
	turnsTotal    *prometheus.CounterVec
	turnDuration  *prometheus.HistogramVec
	phaseDuration *prometheus.HistogramVec
	phaseEntities *prometheus.CounterVec
	combatEvents  *prometheus.CounterVec
	damageDealt   prometheus.Histogram
}

// NewTurnMetricsCollector creates a new turn metrics collector
func NewTurnMetricsCollector() *TurnMetricsCollector {
	return &TurnMetricsCollector{
		turnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "turns_total",
				Help:      "Total number of turn resolutions by outcome",
			},
			[]string{"status"},
		),

		turnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "turn_duration_seconds",
				Help:      "Wall time spent resolving one turn",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),

		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "phase_duration_seconds",
				Help:      "Wall time spent in each pipeline phase",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"phase"},
		),

		// Entities touched per phase, split by outcome
		phaseEntities: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "phase_entities_total",
				Help:      "Entities handled per phase by outcome",
			},
			[]string{"phase", "outcome"},
		),

		combatEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "combat_events_total",
				Help:      "Combat log events by type",
			},
			[]string{"event_type"},
		),

		damageDealt: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "damage_dealt",
				Help:      "Damage per landed hit",
				Buckets:   []float64{1, 5, 10, 20, 40, 80, 160},
			},
		),
	}
}

// Register registers all turn metrics with the Prometheus registry
func (c *TurnMetricsCollector) Register() error {
	return register(
		c.turnsTotal,
		c.turnDuration,
		c.phaseDuration,
		c.phaseEntities,
		c.combatEvents,
		c.damageDealt,
	)
}

func (c *TurnMetricsCollector) RecordTurnResolution(status string, duration time.Duration) {
	c.turnsTotal.WithLabelValues(status).Inc()
	c.turnDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (c *TurnMetricsCollector) RecordPhase(phase string, processed, skipped, failed int, duration time.Duration) {
	c.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
	c.phaseEntities.WithLabelValues(phase, "processed").Add(float64(processed))
	c.phaseEntities.WithLabelValues(phase, "skipped").Add(float64(skipped))
	c.phaseEntities.WithLabelValues(phase, "failed").Add(float64(failed))
}

func (c *TurnMetricsCollector) RecordCombatEvent(eventType string, damage int) {
	c.combatEvents.WithLabelValues(eventType).Inc()
	if damage > 0 {
		c.damageDealt.Observe(float64(damage))
	}
}
