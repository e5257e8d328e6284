package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

type pingCommand struct{}

func withRegistry(t *testing.T) {
	t.Helper()
	InitRegistry()
	t.Cleanup(func() {
		Registry = nil
		SetGlobalTurnCollector(nil)
	})
}

func TestPrometheusMiddleware_RecordsOutcomeByCommandName(t *testing.T) {
	withRegistry(t)
	collector := NewCommandMetricsCollector()
	require.NoError(t, collector.Register())

	mw := PrometheusMiddleware(collector)
	ok := func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return "pong", nil
	}
	fail := func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	}

	resp, err := mw(context.Background(), &pingCommand{}, ok)
	require.NoError(t, err)
	assert.Equal(t, "pong", resp)

	_, err = mw(context.Background(), &pingCommand{}, fail)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("pingCommand", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("pingCommand", OutcomeError)))
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, outcomeOf(nil))
	assert.Equal(t, OutcomeRejected, outcomeOf(shared.NewValidationError("payload", "required")))
	assert.Equal(t, OutcomeNotFound, outcomeOf(shared.NewNotFoundError("ship", "ghost")))
	assert.Equal(t, OutcomeConflict, outcomeOf(shared.NewTurnClaimError("g", 3)))
	assert.Equal(t, OutcomeConflict, outcomeOf(shared.NewDomainError("game is finished")))
	assert.Equal(t, OutcomeError, outcomeOf(errors.New("disk full")))
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := PrometheusMiddleware(nil)
	resp, err := mw(context.Background(), &pingCommand{}, func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}

func TestGlobalTurnRecorder(t *testing.T) {
	withRegistry(t)
	collector := NewTurnMetricsCollector()
	require.NoError(t, collector.Register())
	SetGlobalTurnCollector(collector)

	RecordTurnResolution("resolved", 20*time.Millisecond)
	RecordPhase("movement", 3, 1, 0, time.Millisecond)
	RecordCombatEvent("attack", 12)
	RecordCombatEvent("miss", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.turnsTotal.WithLabelValues("resolved")))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.phaseEntities.WithLabelValues("movement", "processed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.phaseEntities.WithLabelValues("movement", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.combatEvents.WithLabelValues("miss")))
}

func TestRecordersAreNoOpsWhenDisabled(t *testing.T) {
	SetGlobalTurnCollector(nil)
	assert.False(t, IsEnabled())
	assert.NotPanics(t, func() {
		RecordTurnResolution("resolved", time.Second)
		RecordPhase("upkeep", 1, 0, 0, time.Second)
		RecordCombatEvent("kill", 0)
	})
	assert.NoError(t, NewTurnMetricsCollector().Register())
}
