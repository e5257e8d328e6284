package commands_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/commands"
	"github.com/andrescamacho/voidfleet-go/internal/application/setup"
	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/test/helpers"
)

const testGame = "game-1"

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	stores turn.Stores
	fx     *helpers.Fixtures
	m      mediator.Mediator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := helpers.NewTestStores(helpers.NewTestDB(t))
	m := mediator.NewMediator()
	registry := setup.NewHandlerRegistry(stores, nil, shared.NewMockClock(epoch), nil, time.Minute)
	require.NoError(t, registry.RegisterAll(m))

	f := &fixture{t: t, ctx: context.Background(), stores: stores, fx: helpers.NewFixtures(t, stores), m: m}
	f.fx.CreateGame(testGame, 3, time.Minute, epoch)
	return f
}

func (f *fixture) queue(shipID, orderType, payload string) (*commands.QueueOrderResponse, error) {
	resp, err := f.m.Send(f.ctx, &commands.QueueOrderCommand{
		GameID:    testGame,
		ShipID:    shipID,
		OrderType: orderType,
		Payload:   json.RawMessage(payload),
	})
	if err != nil {
		return nil, err
	}
	return resp.(*commands.QueueOrderResponse), nil
}

func TestQueueOrder_AppendsInSequence(t *testing.T) {
	f := newFixture(t)
	f.fx.CreateShip(testGame, "shuttle-1", "player-1", "shuttle", shared.NewPosition(0, 0))

	first, err := f.queue("shuttle-1", "move", `{"destination":{"x":5,"y":0}}`)
	require.NoError(t, err)
	second, err := f.queue("shuttle-1", "harvest_start", `{"nodeId":"node-7"}`)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Order.Sequence)
	assert.Equal(t, 2, second.Order.Sequence)
	assert.Equal(t, "queued", first.Order.Status)
	assert.Equal(t, orders.MovePayload{Destination: shared.NewPosition(5, 0)}, first.Order.Payload)
	assert.True(t, epoch.Equal(first.Order.CreatedAt))

	stored, err := f.stores.Queue.ListByShip(f.ctx, "shuttle-1", false)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestQueueOrder_Rejections(t *testing.T) {
	f := newFixture(t)
	f.fx.CreateShip(testGame, "shuttle-1", "player-1", "shuttle", shared.NewPosition(0, 0))
	f.fx.CreateShip(testGame, "scout-1", "player-1", "scout", shared.NewPosition(3, 0))
	f.fx.CreateGame("game-2", 1, time.Minute, epoch)
	f.fx.CreateShip("game-2", "elsewhere", "player-1", "shuttle", shared.NewPosition(0, 0))

	wreck := f.fx.CreateShip(testGame, "wreck-1", "player-1", "shuttle", shared.NewPosition(9, 9))
	wreck.BecomeWreck(sector.WreckInfo{DestroyedTurn: 1, DecayTurn: 31})
	f.fx.Update(wreck)

	tests := []struct {
		name      string
		shipID    string
		orderType string
		payload   string
		check     func(t *testing.T, err error)
	}{
		{
			name: "unknown order type", shipID: "shuttle-1", orderType: "teleport",
			check: func(t *testing.T, err error) { assert.True(t, shared.IsValidation(err)) },
		},
		{
			name: "harvest without node", shipID: "shuttle-1", orderType: "harvest_start", payload: `{}`,
			check: func(t *testing.T, err error) { assert.True(t, shared.IsValidation(err)) },
		},
		{
			name: "ability not fitted", shipID: "shuttle-1", orderType: "ability", payload: `{"abilityKey":"railgun","targetObjectId":"scout-1"}`,
			check: func(t *testing.T, err error) { assert.True(t, shared.IsValidation(err)) },
		},
		{
			name: "unknown ability", shipID: "scout-1", orderType: "ability", payload: `{"abilityKey":"death_ray"}`,
			check: func(t *testing.T, err error) { assert.True(t, shared.IsValidation(err)) },
		},
		{
			name: "reposition without position", shipID: "scout-1", orderType: "ability", payload: `{"abilityKey":"micro_warp"}`,
			check: func(t *testing.T, err error) { assert.True(t, shared.IsValidation(err)) },
		},
		{
			name: "wreck cannot take orders", shipID: "wreck-1", orderType: "move", payload: `{"destination":{"x":1,"y":1}}`,
			check: func(t *testing.T, err error) {
				var domainErr *shared.DomainError
				assert.ErrorAs(t, err, &domainErr)
			},
		},
		{
			name: "ship of another game", shipID: "elsewhere", orderType: "move", payload: `{"destination":{"x":1,"y":1}}`,
			check: func(t *testing.T, err error) { assert.True(t, shared.IsNotFound(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.queue(tt.shipID, tt.orderType, tt.payload)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestRemoveQueuedOrder_CancelsOnce(t *testing.T) {
	f := newFixture(t)
	f.fx.CreateShip(testGame, "shuttle-1", "player-1", "shuttle", shared.NewPosition(0, 0))
	queued, err := f.queue("shuttle-1", "move", `{"destination":{"x":5,"y":0}}`)
	require.NoError(t, err)

	cmd := &commands.RemoveQueuedOrderCommand{GameID: testGame, ShipID: "shuttle-1", OrderID: queued.Order.ID}
	resp, err := f.m.Send(f.ctx, cmd)
	require.NoError(t, err)

	removed := resp.(*commands.RemoveQueuedOrderResponse).Order
	assert.Equal(t, "cancelled", removed.Status)
	require.NotNil(t, removed.ResolvedTurn)
	assert.Equal(t, 3, *removed.ResolvedTurn)

	_, err = f.m.Send(f.ctx, cmd)
	var transition *shared.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
}

func TestRemoveQueuedOrder_WrongShipIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.fx.CreateShip(testGame, "shuttle-1", "player-1", "shuttle", shared.NewPosition(0, 0))
	queued, err := f.queue("shuttle-1", "move", `{"destination":{"x":5,"y":0}}`)
	require.NoError(t, err)

	_, err = f.m.Send(f.ctx, &commands.RemoveQueuedOrderCommand{GameID: testGame, ShipID: "shuttle-2", OrderID: queued.Order.ID})
	assert.True(t, shared.IsNotFound(err))

	open, err := f.stores.Queue.ListByShip(f.ctx, "shuttle-1", false)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestClearQueue_CancelsOnlyOpenEntries(t *testing.T) {
	f := newFixture(t)
	f.fx.CreateShip(testGame, "shuttle-1", "player-1", "shuttle", shared.NewPosition(0, 0))
	first := f.fx.Queue(testGame, "shuttle-1", orders.MovePayload{Destination: shared.NewPosition(1, 0)}, nil)
	f.fx.Queue(testGame, "shuttle-1", orders.MovePayload{Destination: shared.NewPosition(2, 0)}, nil)
	f.fx.Queue(testGame, "shuttle-1", orders.HarvestStopPayload{}, nil)

	require.NoError(t, first.Consume(2))
	require.NoError(t, f.stores.Queue.Update(f.ctx, first))

	resp, err := f.m.Send(f.ctx, &commands.ClearQueueCommand{GameID: testGame, ShipID: "shuttle-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.(*commands.ClearQueueResponse).Cancelled)

	open, err := f.stores.Queue.ListByShip(f.ctx, "shuttle-1", false)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestSubmitAbility_TargetsOpenTurnAndReplaces(t *testing.T) {
	f := newFixture(t)
	f.fx.CreateShip(testGame, "scout-1", "player-1", "scout", shared.NewPosition(0, 0))
	f.fx.CreateShip(testGame, "frigate-1", "player-2", "frigate", shared.NewPosition(4, 0))

	target := shared.NewPosition(2, 2)
	resp, err := f.m.Send(f.ctx, &commands.SubmitAbilityCommand{
		GameID: testGame, ShipID: "scout-1", AbilityKey: "micro_warp", TargetPosition: &target,
	})
	require.NoError(t, err)
	order := resp.(*commands.SubmitAbilityResponse).Order
	assert.Equal(t, 3, order.Turn)
	assert.Equal(t, "scout-1", order.CasterID)

	_, err = f.m.Send(f.ctx, &commands.SubmitAbilityCommand{
		GameID: testGame, ShipID: "scout-1", AbilityKey: "target_painter", TargetObjectID: "frigate-1",
	})
	require.NoError(t, err)

	stored, err := f.stores.TurnOrders.ListAbilityOrders(f.ctx, testGame, 3)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "target_painter", stored[0].AbilityKey)
	assert.Equal(t, "frigate-1", stored[0].TargetObjectID)
}

func TestSubmitAbility_RefusedWhileResolving(t *testing.T) {
	f := newFixture(t)
	f.fx.CreateShip(testGame, "frigate-1", "player-1", "frigate", shared.NewPosition(0, 0))
	claimed, err := f.stores.Games.Claim(f.ctx, testGame, 3)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = f.m.Send(f.ctx, &commands.SubmitAbilityCommand{GameID: testGame, ShipID: "frigate-1", AbilityKey: "evasive_maneuvers"})
	var claimErr *shared.TurnClaimError
	require.ErrorAs(t, err, &claimErr)
	assert.Equal(t, 3, claimErr.Turn)
}

func TestSubmitAbility_RequiresTargetForWeapons(t *testing.T) {
	f := newFixture(t)
	f.fx.CreateShip(testGame, "frigate-1", "player-1", "frigate", shared.NewPosition(0, 0))

	_, err := f.m.Send(f.ctx, &commands.SubmitAbilityCommand{GameID: testGame, ShipID: "frigate-1", AbilityKey: "autocannon"})
	assert.True(t, shared.IsValidation(err))
}
