package turn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/movement"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

func TestResolveTurn_MultiTurnMovement(t *testing.T) {
	h := newHarness(t)
	h.ship("shuttle-1", "shuttle", "player-1", 0, 0)
	h.move("shuttle-1", 5, 0)

	h.resolve(1)
	assert.Equal(t, shared.NewPosition(2, 0), h.fx.Object("shuttle-1").Position)

	order, err := h.stores.Movement.FindInProgressByShip(h.ctx, "shuttle-1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 2, order.CurrentStep)
	assert.Equal(t, 2, order.ETATurns)
	orderID := order.ID

	h.resolve(2)
	assert.Equal(t, shared.NewPosition(4, 0), h.fx.Object("shuttle-1").Position)

	order, err = h.stores.Movement.FindByID(h.ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, movement.StatusActive, order.Status)
	assert.Equal(t, 4, order.CurrentStep)
	assert.Equal(t, 1, order.ETATurns)

	h.resolve(3)
	assert.Equal(t, shared.NewPosition(5, 0), h.fx.Object("shuttle-1").Position)

	order, err = h.stores.Movement.FindByID(h.ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, movement.StatusCompleted, order.Status)
	assert.Zero(t, order.ETATurns)

	records, err := h.stores.Movement.ListRecords(h.ctx, "shuttle-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{records[0].Turn, records[1].Turn, records[2].Turn})
	assert.Equal(t, shared.NewPosition(4, 0), records[2].From)
	assert.Equal(t, shared.NewPosition(5, 0), records[2].To)
	assert.Equal(t, 2, records[0].Speed)
}

func TestResolveTurn_CollisionBlocksSecondMover(t *testing.T) {
	h := newHarness(t)
	h.ship("alpha", "shuttle", "player-1", 8, 10)
	h.ship("bravo", "shuttle", "player-2", 12, 10)
	for id, from := range map[string]shared.Position{"alpha": shared.NewPosition(8, 10), "bravo": shared.NewPosition(12, 10)} {
		order, err := movement.NewOrder("mv-"+id, testGame, id, movement.KindMove,
			shared.TracePath(from, shared.NewPosition(10, 10)), 2, 1)
		require.NoError(t, err)
		require.NoError(t, h.stores.Movement.Save(h.ctx, order))
	}

	report := h.resolve(1)
	moves, _ := report.Phase(turn.PhaseMovement)
	assert.Equal(t, 2, moves.Processed)

	assert.Equal(t, shared.NewPosition(10, 10), h.fx.Object("alpha").Position)
	assert.Equal(t, shared.NewPosition(12, 10), h.fx.Object("bravo").Position)

	arrived, err := h.stores.Movement.FindByID(h.ctx, "mv-alpha")
	require.NoError(t, err)
	assert.Equal(t, movement.StatusCompleted, arrived.Status)

	stopped, err := h.stores.Movement.FindByID(h.ctx, "mv-bravo")
	require.NoError(t, err)
	assert.Equal(t, movement.StatusBlocked, stopped.Status)
	require.NotNil(t, stopped.Blocker)
	assert.Equal(t, "alpha", stopped.Blocker.ObjectID)
	assert.Equal(t, "ship", stopped.Blocker.ObjectType)

	list, err := h.stores.Movement.ListInProgress(h.ctx, testGame)
	require.NoError(t, err)
	assert.Empty(t, list)

	records, err := h.stores.Movement.ListRecords(h.ctx, "bravo")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestResolveTurn_BlockerIsRecorded(t *testing.T) {
	h := newHarness(t)
	h.ship("bravo", "shuttle", "player-2", 12, 10)
	h.fx.CreateObject(testGame, "station-1", "player-1", "station", shared.NewPosition(10, 10))

	order, err := movement.NewOrder("mv-1", testGame, "bravo", movement.KindMove,
		shared.TracePath(shared.NewPosition(12, 10), shared.NewPosition(8, 10)), 2, 1)
	require.NoError(t, err)
	require.NoError(t, h.stores.Movement.Save(h.ctx, order))

	h.resolve(1)

	order, err = h.stores.Movement.FindByID(h.ctx, "mv-1")
	require.NoError(t, err)
	assert.Equal(t, movement.StatusBlocked, order.Status)
	require.NotNil(t, order.Blocker)
	assert.Equal(t, "station-1", order.Blocker.ObjectID)
	assert.Equal(t, "station", order.Blocker.ObjectType)
	assert.Equal(t, "player-1", order.Blocker.OwnerID)
	assert.Equal(t, shared.NewPosition(10, 10), order.Blocker.Tile)
}

func TestResolveTurn_WarpSpoolsBeforeMoving(t *testing.T) {
	h := newHarness(t)
	h.ship("frigate-1", "frigate", "player-1", 0, 0)

	order, err := movement.NewOrder("warp-1", testGame, "frigate-1", movement.KindWarp,
		shared.TracePath(shared.NewPosition(0, 0), shared.NewPosition(6, 0)), 3, 1)
	require.NoError(t, err)
	require.NoError(t, h.stores.Movement.Save(h.ctx, order))

	h.resolve(1)
	assert.Equal(t, shared.NewPosition(0, 0), h.fx.Object("frigate-1").Position)

	h.resolve(2)
	assert.Equal(t, shared.NewPosition(3, 0), h.fx.Object("frigate-1").Position)
}

func TestResolveTurn_MovementBonusRaisesSpeed(t *testing.T) {
	h := newHarness(t)
	h.ship("shuttle-1", "shuttle", "player-1", 0, 0)
	h.move("shuttle-1", 9, 0)

	boost, err := effects.NewStatusEffect("fx-1", testGame, "shuttle-1", effects.KeyMovementBonus, 1.5, "shuttle-1", "afterburner", 1, 1)
	require.NoError(t, err)
	require.NoError(t, h.stores.Effects.Apply(h.ctx, boost))

	h.resolve(1)
	assert.Equal(t, shared.NewPosition(3, 0), h.fx.Object("shuttle-1").Position)

	records, err := h.stores.Movement.ListRecords(h.ctx, "shuttle-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Speed)
}

func TestResolveTurn_ImmobilizedShipHolds(t *testing.T) {
	h := newHarness(t)
	h.ship("shuttle-1", "shuttle", "player-1", 0, 0)
	h.move("shuttle-1", 4, 0)

	web, err := effects.NewStatusEffect("fx-1", testGame, "shuttle-1", effects.KeyImmobilized, 1, "enemy", "stasis_web", 1, 0)
	require.NoError(t, err)
	require.NoError(t, h.stores.Effects.Apply(h.ctx, web))

	report := h.resolve(1)
	moves, _ := report.Phase(turn.PhaseMovement)
	assert.Equal(t, 1, moves.Skipped)
	assert.Equal(t, shared.NewPosition(0, 0), h.fx.Object("shuttle-1").Position)

	order, err := h.stores.Movement.FindInProgressByShip(h.ctx, "shuttle-1")
	require.NoError(t, err)
	require.NotNil(t, order, "the order survives immobilization")

	h.resolve(2)
	assert.Equal(t, shared.NewPosition(2, 0), h.fx.Object("shuttle-1").Position)
}

func TestResolveTurn_OrderOfMissingShipIsBlocked(t *testing.T) {
	h := newHarness(t)
	order, err := movement.NewOrder("mv-1", testGame, "ghost", movement.KindMove,
		shared.TracePath(shared.NewPosition(0, 0), shared.NewPosition(3, 0)), 2, 1)
	require.NoError(t, err)
	require.NoError(t, h.stores.Movement.Save(h.ctx, order))

	h.resolve(1)

	order, err = h.stores.Movement.FindByID(h.ctx, "mv-1")
	require.NoError(t, err)
	assert.Equal(t, movement.StatusBlocked, order.Status)
	assert.Nil(t, order.Blocker)
}
