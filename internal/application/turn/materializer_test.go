package turn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/movement"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/test/helpers"
)

func newMaterializer(stores turn.Stores) *turn.OrderMaterializer {
	return turn.NewOrderMaterializer(stores, ability.DefaultRegistry(), shared.NewMockClock(epoch), helpers.IDSequence("m"))
}

func TestMaterialize_CreatesMovementOrderFromQueueHead(t *testing.T) {
	h := newHarness(t)
	h.ship("shuttle-1", "shuttle", "player-1", 0, 0)
	h.move("shuttle-1", 5, 0)

	report, err := newMaterializer(h.stores).Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	order, err := h.stores.Movement.FindInProgressByShip(h.ctx, "shuttle-1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, movement.StatusActive, order.Status)
	assert.Equal(t, shared.NewPosition(5, 0), order.Destination)
	assert.Equal(t, 2, order.Speed)
	assert.Equal(t, 3, order.ETATurns)
	assert.Equal(t, []orders.QueueStatus{orders.QueueConsumed}, h.queueStatuses("shuttle-1"))
}

func TestMaterialize_WarpStartsPreparing(t *testing.T) {
	h := newHarness(t)
	h.ship("frigate-1", "frigate", "player-1", 0, 0)
	h.fx.Queue(testGame, "frigate-1", orders.WarpPayload{Destination: shared.NewPosition(9, 0)}, nil)

	_, err := newMaterializer(h.stores).Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)

	order, err := h.stores.Movement.FindInProgressByShip(h.ctx, "frigate-1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, movement.KindWarp, order.Kind)
	assert.Equal(t, movement.StatusWarpPreparing, order.Status)
}

func TestMaterialize_IsIdempotentWithinTurn(t *testing.T) {
	h := newHarness(t)
	h.ship("alpha", "frigate", "player-1", 0, 0)
	h.ship("bravo", "shuttle", "player-1", 5, 5)
	h.fx.Queue(testGame, "alpha", orders.AbilityPayload{AbilityKey: "evasive_maneuvers"}, nil)
	h.move("alpha", 3, 0)
	h.move("bravo", 8, 5)

	m := newMaterializer(h.stores)
	first, err := m.Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Processed)

	second, err := m.Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Zero(t, second.Processed)
	assert.Zero(t, second.Skipped)

	abilityOrders, err := h.stores.TurnOrders.ListAbilityOrders(h.ctx, testGame, 1)
	require.NoError(t, err)
	require.Len(t, abilityOrders, 1)
	assert.Equal(t, "evasive_maneuvers", abilityOrders[0].AbilityKey)
	assert.True(t, epoch.Equal(abilityOrders[0].SubmittedAt))

	// the ship with an ability order keeps its move for a later turn
	assert.Equal(t, []orders.QueueStatus{orders.QueueConsumed, orders.QueueQueued}, h.queueStatuses("alpha"))

	inProgress, err := h.stores.Movement.ListInProgress(h.ctx, testGame)
	require.NoError(t, err)
	assert.Len(t, inProgress, 1)
}

func TestMaterialize_ShipWithOpenMovementIsLeftAlone(t *testing.T) {
	h := newHarness(t)
	h.ship("shuttle-1", "shuttle", "player-1", 0, 0)
	h.move("shuttle-1", 6, 0)
	h.move("shuttle-1", 0, 6)

	m := newMaterializer(h.stores)
	_, err := m.Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	_, err = m.Materialize(h.ctx, testGame, 2)
	require.NoError(t, err)

	assert.Equal(t, []orders.QueueStatus{orders.QueueConsumed, orders.QueueQueued}, h.queueStatuses("shuttle-1"))
}

func TestMaterialize_RespectsNotBeforeTurn(t *testing.T) {
	h := newHarness(t)
	h.ship("shuttle-1", "shuttle", "player-1", 0, 0)
	notBefore := 3
	h.fx.Queue(testGame, "shuttle-1", orders.MovePayload{Destination: shared.NewPosition(4, 0)}, &notBefore)

	m := newMaterializer(h.stores)
	report, err := m.Materialize(h.ctx, testGame, 2)
	require.NoError(t, err)
	assert.Zero(t, report.Processed)

	report, err = m.Materialize(h.ctx, testGame, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
}

func TestMaterialize_MoveToOwnTileIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.ship("shuttle-1", "shuttle", "player-1", 2, 2)
	h.move("shuttle-1", 2, 2)

	report, err := newMaterializer(h.stores).Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []orders.QueueStatus{orders.QueueSkipped}, h.queueStatuses("shuttle-1"))
}

func TestMaterialize_VanishedTargetCancelsRestOfQueue(t *testing.T) {
	h := newHarness(t)
	h.ship("scout-1", "scout", "player-1", 0, 0)
	h.fx.Queue(testGame, "scout-1", orders.AbilityPayload{AbilityKey: "target_painter", TargetObjectID: "ghost"}, nil)
	h.move("scout-1", 4, 0)
	h.move("scout-1", 8, 0)

	report, err := newMaterializer(h.stores).Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)

	assert.Equal(t, []orders.QueueStatus{
		orders.QueueSkipped, orders.QueueCancelled, orders.QueueCancelled,
	}, h.queueStatuses("scout-1"))
}

func TestMaterialize_OutOfRangeAbilityStaysQueued(t *testing.T) {
	h := newHarness(t)
	h.ship("scout-1", "scout", "player-1", 0, 0)
	h.ship("frigate-9", "frigate", "player-2", 20, 0)
	h.fx.Queue(testGame, "scout-1", orders.AbilityPayload{AbilityKey: "target_painter", TargetObjectID: "frigate-9"}, nil)

	report, err := newMaterializer(h.stores).Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Zero(t, report.Processed)
	assert.Zero(t, report.Skipped)

	abilityOrders, err := h.stores.TurnOrders.ListAbilityOrders(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Empty(t, abilityOrders)
	assert.Equal(t, []orders.QueueStatus{orders.QueueQueued}, h.queueStatuses("scout-1"))
}

func TestMaterialize_UnknownAbilityIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.ship("scout-1", "scout", "player-1", 0, 0)
	h.fx.Queue(testGame, "scout-1", orders.AbilityPayload{AbilityKey: "doomsday"}, nil)

	report, err := newMaterializer(h.stores).Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []orders.QueueStatus{orders.QueueSkipped}, h.queueStatuses("scout-1"))
}

func TestMaterialize_HarvestDelegatesAndBlocksQueue(t *testing.T) {
	h := newHarness(t)
	h.ship("hauler-1", "hauler", "player-1", 0, 0)
	h.fx.Queue(testGame, "hauler-1", orders.HarvestStartPayload{NodeID: "node-1"}, nil)
	h.move("hauler-1", 3, 3)

	m := newMaterializer(h.stores)
	_, err := m.Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)

	active, err := h.stores.Harvesting.HasActiveTask(h.ctx, "hauler-1")
	require.NoError(t, err)
	assert.True(t, active)

	// a harvesting ship is busy, its move waits
	_, err = m.Materialize(h.ctx, testGame, 2)
	require.NoError(t, err)
	assert.Equal(t, []orders.QueueStatus{orders.QueueConsumed, orders.QueueQueued}, h.queueStatuses("hauler-1"))
}

func TestMaterialize_RefusedHarvestStopIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.ship("hauler-1", "hauler", "player-1", 0, 0)
	h.fx.Queue(testGame, "hauler-1", orders.HarvestStopPayload{}, nil)

	report, err := newMaterializer(h.stores).Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Failed)
}

// failingQueue refuses to update one ship's entries
type failingQueue struct {
	orders.QueueRepository
	shipID string
}

func (q failingQueue) Update(ctx context.Context, order *orders.QueuedOrder) error {
	if order.ShipID == q.shipID {
		return errors.New("disk full")
	}
	return q.QueueRepository.Update(ctx, order)
}

func TestMaterialize_FailingShipIsRolledBackAndIsolated(t *testing.T) {
	h := newHarness(t)
	h.ship("bad", "shuttle", "player-1", 0, 0)
	h.ship("good", "shuttle", "player-1", 0, 5)
	h.move("bad", 4, 0)
	h.move("good", 4, 5)

	stores := h.stores
	stores.Queue = failingQueue{QueueRepository: h.stores.Queue, shipID: "bad"}

	report, err := newMaterializer(stores).Materialize(h.ctx, testGame, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Processed)

	// the movement order written before the failure was rolled back with it
	order, err := h.stores.Movement.FindInProgressByShip(h.ctx, "bad")
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Equal(t, []orders.QueueStatus{orders.QueueQueued}, h.queueStatuses("bad"))

	order, err = h.stores.Movement.FindInProgressByShip(h.ctx, "good")
	require.NoError(t, err)
	assert.NotNil(t, order)
}
