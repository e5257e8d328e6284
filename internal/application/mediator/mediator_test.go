package mediator_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
)

type pingQuery struct{ Value string }

type pingHandler struct{}

func (pingHandler) Handle(_ context.Context, request mediator.Request) (mediator.Response, error) {
	return "pong:" + request.(*pingQuery).Value, nil
}

func TestMediator_DispatchesThroughMiddlewareInOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	var trace []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		m.RegisterMiddleware(func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			trace = append(trace, name)
			return next(ctx, req)
		})
	}

	// Act
	resp, err := m.Send(context.Background(), &pingQuery{Value: "a"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong:a", resp)
	assert.Equal(t, []string{"outer", "inner"}, trace)
}

func TestMediator_RejectsUnknownAndDuplicate(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	_, err := m.Send(context.Background(), struct{}{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestLoggingMiddleware_TagsContextLogger(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	hook := test.NewLocal(log)

	m := mediator.NewMediator()
	m.RegisterMiddleware(mediator.LoggingMiddleware(logrus.NewEntry(log)))
	require.NoError(t, mediator.RegisterHandler[*scopedCommand](m, scopedHandler{}))

	_, err := m.Send(context.Background(), &scopedCommand{GameID: "game-1", ShipID: "scout-1"})
	require.NoError(t, err)

	require.Len(t, hook.AllEntries(), 2)
	inner := hook.AllEntries()[0]
	assert.Equal(t, "inside", inner.Message)
	assert.Equal(t, "game-1", inner.Data["game_id"])
	assert.Equal(t, "scout-1", inner.Data["ship_id"])
	assert.Equal(t, "scopedCommand", inner.Data["request"])
	assert.Equal(t, "request handled", hook.LastEntry().Message)
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "pingQuery", mediator.RequestName(&pingQuery{}))
	assert.Equal(t, "unknown", mediator.RequestName(nil))
}

type scopedCommand struct {
	GameID string
	ShipID string
}

type scopedHandler struct{}

func (scopedHandler) Handle(ctx context.Context, _ mediator.Request) (mediator.Response, error) {
	logging.LoggerFromContext(ctx).Info("inside")
	return nil, nil
}
