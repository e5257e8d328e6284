package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/dtos"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/queries"
	"github.com/andrescamacho/voidfleet-go/internal/application/setup"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/test/helpers"
)

const testGame = "game-1"

func setupMediator(t *testing.T) (mediator.Mediator, *helpers.Fixtures) {
	t.Helper()
	stores := helpers.NewTestStores(helpers.NewTestDB(t))
	m := mediator.NewMediator()
	require.NoError(t, setup.NewHandlerRegistry(stores, nil, nil, nil, time.Minute).RegisterAll(m))

	fx := helpers.NewFixtures(t, stores)
	fx.CreateGame(testGame, 5, time.Minute, time.Now())
	return m, fx
}

func TestListQueue_HidesClosedEntriesByDefault(t *testing.T) {
	m, fx := setupMediator(t)
	ctx := context.Background()
	fx.CreateShip(testGame, "shuttle-1", "player-1", "shuttle", shared.NewPosition(0, 0))
	done := fx.Queue(testGame, "shuttle-1", orders.MovePayload{Destination: shared.NewPosition(1, 1)}, nil)
	fx.Queue(testGame, "shuttle-1", orders.HarvestStopPayload{}, nil)
	require.NoError(t, done.Consume(4))
	require.NoError(t, fx.Stores.Queue.Update(ctx, done))

	resp, err := m.Send(ctx, &queries.ListQueueQuery{GameID: testGame, ShipID: "shuttle-1"})
	require.NoError(t, err)
	open := resp.(*queries.ListQueueResponse).Orders
	require.Len(t, open, 1)
	assert.Equal(t, "harvest_stop", open[0].OrderType)

	resp, err = m.Send(ctx, &queries.ListQueueQuery{GameID: testGame, ShipID: "shuttle-1", IncludeClosed: true})
	require.NoError(t, err)
	all := resp.(*queries.ListQueueResponse).Orders
	require.Len(t, all, 2)
	assert.Equal(t, "consumed", all[0].Status)
	assert.Equal(t, 1, all[0].Sequence)
}

func TestListQueue_UnknownShip(t *testing.T) {
	m, _ := setupMediator(t)

	_, err := m.Send(context.Background(), &queries.ListQueueQuery{GameID: testGame, ShipID: "ghost"})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetCooldowns_RelativeToOpenTurn(t *testing.T) {
	m, fx := setupMediator(t)
	ctx := context.Background()
	fx.CreateShip(testGame, "cruiser-1", "player-1", "cruiser", shared.NewPosition(0, 0))
	require.NoError(t, fx.Stores.Cooldowns.Set(ctx, effects.NewCooldown("cruiser-1", "railgun", 4, 3)))
	require.NoError(t, fx.Stores.Cooldowns.Set(ctx, effects.NewCooldown("cruiser-1", "autocannon", 4, 1)))

	resp, err := m.Send(ctx, &queries.GetCooldownsQuery{GameID: testGame, ShipID: "cruiser-1"})
	require.NoError(t, err)

	out := resp.(*queries.GetCooldownsResponse)
	assert.Equal(t, 5, out.CurrentTurn)
	assert.Equal(t, []dtos.CooldownDTO{
		{AbilityKey: "autocannon", AvailableTurn: 5, Ready: true, TurnsRemaining: 0},
		{AbilityKey: "railgun", AvailableTurn: 7, Ready: false, TurnsRemaining: 2},
	}, out.Cooldowns)
}

func TestGetCombatLog_FiltersByEventType(t *testing.T) {
	m, fx := setupMediator(t)
	ctx := context.Background()
	log := fx.Stores.CombatLog
	require.NoError(t, log.Append(ctx, combat.NewLogEntry(testGame, 4, combat.EventAttack, "a", "b", "a hits b", map[string]any{"damage": 12})))
	require.NoError(t, log.Append(ctx, combat.NewLogEntry(testGame, 4, combat.EventMiss, "b", "a", "b misses", nil)))
	require.NoError(t, log.Append(ctx, combat.NewLogEntry(testGame, 3, combat.EventAttack, "a", "b", "earlier", nil)))

	resp, err := m.Send(ctx, &queries.GetCombatLogQuery{GameID: testGame, Turn: 4})
	require.NoError(t, err)
	entries := resp.(*queries.GetCombatLogResponse).Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "attack", entries[0].EventType)
	assert.Equal(t, float64(12), entries[0].Data["damage"])

	resp, err = m.Send(ctx, &queries.GetCombatLogQuery{GameID: testGame, Turn: 4, EventType: "miss"})
	require.NoError(t, err)
	entries = resp.(*queries.GetCombatLogResponse).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].AttackerID)

	_, err = m.Send(ctx, &queries.GetCombatLogQuery{GameID: testGame, Turn: 0})
	assert.True(t, shared.IsValidation(err))
}
