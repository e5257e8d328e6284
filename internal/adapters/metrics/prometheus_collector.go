package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace for all metrics
	namespace = "voidfleet"
	// Subsystem for turn engine metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalTurnCollector is set by SetGlobalTurnCollector() when metrics are enabled
	globalTurnCollector TurnMetricsRecorder
)

// TurnMetricsRecorder is used by the turn engine to report progress
type TurnMetricsRecorder interface {
	RecordTurnResolution(status string, duration time.Duration)
	RecordPhase(phase string, processed, skipped, failed int, duration time.Duration)
	RecordCombatEvent(eventType string, damage int)
}

// InitRegistry initializes the Prometheus registry with the Go runtime collectors
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// register adds collectors to Registry; a no-op while metrics are disabled
func register(cs ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, c := range cs {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// GetRegistry returns the global Prometheus registry, nil when metrics are disabled
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	if Registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// SetGlobalTurnCollector sets the global turn metrics collector
func SetGlobalTurnCollector(collector TurnMetricsRecorder) {
	globalTurnCollector = collector
}

// RecordTurnResolution records a finished or failed turn globally
func RecordTurnResolution(status string, duration time.Duration) {
	if globalTurnCollector != nil {
		globalTurnCollector.RecordTurnResolution(status, duration)
	}
}

// RecordPhase records one pipeline phase globally
func RecordPhase(phase string, processed, skipped, failed int, duration time.Duration) {
	if globalTurnCollector != nil {
		globalTurnCollector.RecordPhase(phase, processed, skipped, failed, duration)
	}
}

// RecordCombatEvent records a combat log event globally
func RecordCombatEvent(eventType string, damage int) {
	if globalTurnCollector != nil {
		globalTurnCollector.RecordCombatEvent(eventType, damage)
	}
}
