package orders_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

func TestDecodePayload_Variants(t *testing.T) {
	move, err := orders.DecodePayload(orders.OrderMove, []byte(`{"destination":{"x":5,"y":-2}}`))
	require.NoError(t, err)
	assert.Equal(t, orders.MovePayload{Destination: shared.NewPosition(5, -2)}, move)

	ab, err := orders.DecodePayload(orders.OrderAbility, []byte(`{"abilityKey":"jettison","params":{"resource":"ore","quantity":4}}`))
	require.NoError(t, err)
	assert.Equal(t, orders.OrderAbility, ab.OrderType())
	assert.Equal(t, 4, ab.(orders.AbilityPayload).Params.Quantity)

	stop, err := orders.DecodePayload(orders.OrderHarvestStop, nil)
	require.NoError(t, err)
	assert.Equal(t, orders.HarvestStopPayload{}, stop)
}

func TestDecodePayload_RejectsInvalid(t *testing.T) {
	_, err := orders.DecodePayload("teleport", nil)
	assert.True(t, shared.IsValidation(err))

	_, err = orders.DecodePayload(orders.OrderHarvestStart, []byte(`{}`))
	assert.True(t, shared.IsValidation(err), "node id is required")

	_, err = orders.DecodePayload(orders.OrderMove, []byte(`{not json`))
	assert.Error(t, err)
}

func TestQueuedOrder_EligibilityAndTermination(t *testing.T) {
	notBefore := 5
	q, err := orders.NewQueuedOrder("q-1", "game-1", "ship-1", orders.HarvestStopPayload{}, &notBefore, time.Now())
	require.NoError(t, err)

	assert.False(t, q.EligibleAt(4))
	assert.True(t, q.EligibleAt(5))

	require.NoError(t, q.Consume(5))
	assert.Equal(t, orders.QueueConsumed, q.Status)
	assert.Equal(t, 5, *q.ResolvedTurn)
	assert.False(t, q.EligibleAt(6), "consumed exactly once")

	err = q.Cancel(6)
	var transition *shared.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
}
