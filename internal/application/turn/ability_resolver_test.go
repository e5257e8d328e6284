package turn_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/movement"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

func (h *harness) submitReposition(turnNumber int, casterID, abilityKey string, x, y int) {
	h.t.Helper()
	dest := shared.NewPosition(x, y)
	require.NoError(h.t, h.stores.TurnOrders.UpsertAbilityOrder(h.ctx, &orders.AbilityOrder{
		ID:             "ao-" + casterID,
		GameID:         testGame,
		Turn:           turnNumber,
		CasterID:       casterID,
		AbilityKey:     abilityKey,
		TargetPosition: &dest,
		SubmittedAt:    time.Now().UTC(),
	}))
}

func TestResolveTurn_CooldownBlocksReuse(t *testing.T) {
	h := newHarness(t)
	h.ship("cruiser-1", "cruiser", "player-1", 0, 0)
	h.ship("frigate-1", "frigate", "player-2", 8, 0)
	railgun := orders.AbilityPayload{AbilityKey: "railgun", TargetObjectID: "frigate-1"}

	h.fx.Queue(testGame, "cruiser-1", railgun, nil)
	h.resolve(10)
	assert.Equal(t, 13, h.cooldown("cruiser-1", "railgun"))
	require.Len(t, h.logOf(10, combat.EventAttack), 1)

	h.fx.Queue(testGame, "cruiser-1", railgun, nil)
	report := h.resolve(12)
	offense, _ := report.Phase(turn.PhaseAbilityOffense)
	assert.Equal(t, 1, offense.Skipped)
	assert.Zero(t, offense.Processed)
	assert.Empty(t, h.log(12), "a cooling-down ability is skipped without a log entry")
	assert.Equal(t, 13, h.cooldown("cruiser-1", "railgun"))

	h.fx.Queue(testGame, "cruiser-1", railgun, nil)
	h.resolve(13)
	assert.Equal(t, 16, h.cooldown("cruiser-1", "railgun"))
	assert.Len(t, h.logOf(13, combat.EventAttack), 1)
}

func TestResolveTurn_UtilityResolvesBeforeOffense(t *testing.T) {
	h := newHarness(t)
	h.ship("alpha", "frigate", "player-1", 0, 0)
	h.ship("bravo", "frigate", "player-2", 3, 0)
	h.fx.SubmitAbility(testGame, 1, "alpha", "autocannon", "bravo")
	h.fx.SubmitAbility(testGame, 1, "bravo", "evasive_maneuvers", "")

	h.resolve(1)

	entries := h.log(1)
	dodge, attack := -1, -1
	for i, e := range entries {
		switch {
		case e.EventType == combat.EventAbility && e.AttackerID == "bravo":
			dodge = i
		case e.EventType == combat.EventAttack:
			attack = i
		}
	}
	require.NotEqual(t, -1, dodge)
	require.NotEqual(t, -1, attack)
	assert.Less(t, dodge, attack)

	// 20 × (1 − (0.15 + 0.3)) rounds to 11
	assert.Equal(t, float64(11), entries[attack].Data["damage"])
	assert.Equal(t, 89, h.fx.Object("bravo").Stats.HP)
}

func TestResolveTurn_EffectAbilityProjectsOntoShip(t *testing.T) {
	h := newHarness(t)
	h.ship("frigate-1", "frigate", "player-1", 0, 0)
	h.fx.SubmitAbility(testGame, 1, "frigate-1", "evasive_maneuvers", "")

	h.resolve(1)
	ship := h.fx.Object("frigate-1")
	evasion, ok := ship.Projection.Get(effects.KeyEvasion)
	require.True(t, ok)
	assert.InDelta(t, 0.3, evasion, 1e-9)
	// 100 − 10 spent + 10 regenerated
	assert.Equal(t, 100, ship.Stats.Energy)
	assert.Equal(t, 4, h.cooldown("frigate-1", "evasive_maneuvers"))

	active, err := h.stores.Effects.ListActive(h.ctx, "frigate-1", 2)
	require.NoError(t, err)
	assert.Len(t, active, 1, "a one-turn effect is still active on the following turn")

	h.resolve(2)
	ship = h.fx.Object("frigate-1")
	assert.Empty(t, ship.Projection.Values)
	active, err = h.stores.Effects.ListActive(h.ctx, "frigate-1", 2)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestResolveTurn_RepositionFailureStillConsumesCooldown(t *testing.T) {
	h := newHarness(t)
	h.ship("scout-1", "scout", "player-1", 0, 0)
	h.fx.CreateObject(testGame, "station-1", "player-1", "station", shared.NewPosition(1, 0))
	h.submitReposition(1, "scout-1", "micro_warp", 1, 0)

	h.resolve(1)

	failed := h.logOf(1, combat.EventAbilityFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, ability.ReasonOccupied, failed[0].Data["reason"])
	assert.Equal(t, "micro_warp", failed[0].Data["ability"])

	assert.Equal(t, 6, h.cooldown("scout-1", "micro_warp"))
	scout := h.fx.Object("scout-1")
	assert.Equal(t, shared.NewPosition(0, 0), scout.Position)
	assert.Equal(t, 80, scout.Stats.Energy, "energy is only spent on success")
}

func TestResolveTurn_RepositionHaltsMovement(t *testing.T) {
	h := newHarness(t)
	h.ship("scout-1", "scout", "player-1", 0, 0)
	order, err := movement.NewOrder("mv-1", testGame, "scout-1", movement.KindMove,
		shared.TracePath(shared.NewPosition(0, 0), shared.NewPosition(20, 0)), 4, 1)
	require.NoError(t, err)
	require.NoError(t, h.stores.Movement.Save(h.ctx, order))
	h.submitReposition(1, "scout-1", "micro_warp", 4, 3)

	h.resolve(1)

	scout := h.fx.Object("scout-1")
	assert.Equal(t, shared.NewPosition(4, 3), scout.Position)
	// 80 − 15 spent + 10 regenerated
	assert.Equal(t, 75, scout.Stats.Energy)
	assert.Equal(t, 6, h.cooldown("scout-1", "micro_warp"))

	order, err = h.stores.Movement.FindByID(h.ctx, "mv-1")
	require.NoError(t, err)
	assert.Equal(t, movement.StatusBlocked, order.Status)
	assert.Nil(t, order.Blocker)
}

func TestResolveTurn_AbilityPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(h *harness)
		reason string
	}{
		{
			name: "not equipped",
			setup: func(h *harness) {
				h.ship("caster", "shuttle", "player-1", 0, 0)
				h.ship("target", "frigate", "player-2", 2, 0)
				h.fx.SubmitAbility(testGame, 1, "caster", "autocannon", "target")
			},
			reason: ability.ReasonNotEquipped,
		},
		{
			name: "insufficient energy",
			setup: func(h *harness) {
				caster := h.ship("caster", "frigate", "player-1", 0, 0)
				caster.Stats.Energy = 2
				h.fx.Update(caster)
				h.ship("target", "frigate", "player-2", 2, 0)
				h.fx.SubmitAbility(testGame, 1, "caster", "autocannon", "target")
			},
			reason: ability.ReasonNoEnergy,
		},
		{
			name: "target gone",
			setup: func(h *harness) {
				h.ship("caster", "frigate", "player-1", 0, 0)
				h.fx.SubmitAbility(testGame, 1, "caster", "autocannon", "target")
			},
			reason: ability.ReasonNoTarget,
		},
		{
			name: "target out of range",
			setup: func(h *harness) {
				h.ship("caster", "frigate", "player-1", 0, 0)
				h.ship("target", "frigate", "player-2", 10, 0)
				h.fx.SubmitAbility(testGame, 1, "caster", "autocannon", "target")
			},
			reason: ability.ReasonOutOfRange,
		},
		{
			name: "target in another sector",
			setup: func(h *harness) {
				h.ship("caster", "frigate", "player-1", 0, 0)
				target := h.ship("target", "frigate", "player-2", 1, 0)
				target.SectorID = "sector-2"
				h.fx.Update(target)
				h.fx.SubmitAbility(testGame, 1, "caster", "autocannon", "target")
			},
			reason: ability.ReasonDifferentSector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			h.resolve(1)

			failed := h.logOf(1, combat.EventAbilityFailed)
			require.Len(t, failed, 1)
			assert.Equal(t, tt.reason, failed[0].Data["reason"])
			assert.Zero(t, h.cooldown("caster", "autocannon"), "a rejected order starts no cooldown")

			assert.Empty(t, h.logOf(1, combat.EventAttack))
		})
	}
}

func TestResolveTurn_UnknownAbilityCountedOnce(t *testing.T) {
	h := newHarness(t)
	h.ship("frigate-1", "frigate", "player-1", 0, 0)
	h.fx.SubmitAbility(testGame, 1, "frigate-1", "doomsday", "")

	report := h.resolve(1)
	utility, _ := report.Phase(turn.PhaseAbilityUtility)
	offense, _ := report.Phase(turn.PhaseAbilityOffense)
	assert.Equal(t, 1, utility.Skipped)
	assert.Zero(t, offense.Skipped)

	failed := h.logOf(1, combat.EventAbilityFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, ability.ReasonUnknownAbility, failed[0].Data["reason"])
	assert.Equal(t, "doomsday", failed[0].Data["ability"])
}

func TestResolveTurn_TargetPainterLogsEffectOnTarget(t *testing.T) {
	h := newHarness(t)
	h.ship("scout-1", "scout", "player-1", 0, 0)
	h.ship("frigate-2", "frigate", "player-2", 4, 0)
	h.fx.SubmitAbility(testGame, 1, "scout-1", "target_painter", "frigate-2")

	h.resolve(1)

	require.Len(t, h.logOf(1, combat.EventAbility), 1)
	painted := h.logOf(1, combat.EventEffect)
	require.Len(t, painted, 1)
	assert.Equal(t, "scout-1", painted[0].AttackerID)
	assert.Equal(t, "frigate-2", painted[0].TargetID)
	assert.Equal(t, effects.KeyEvasion, painted[0].Data["effect"])
	assert.Equal(t, float64(2), painted[0].Data["expiresTurn"])
}

func TestResolveTurn_SelfEffectHasNoEffectRow(t *testing.T) {
	h := newHarness(t)
	h.ship("frigate-1", "frigate", "player-1", 0, 0)
	h.fx.SubmitAbility(testGame, 1, "frigate-1", "evasive_maneuvers", "")

	h.resolve(1)

	assert.Len(t, h.logOf(1, combat.EventAbility), 1)
	assert.Empty(t, h.logOf(1, combat.EventEffect))
}

func TestResolveTurn_SpeedBoostAppliesNextMovement(t *testing.T) {
	h := newHarness(t)
	h.ship("frigate-1", "frigate", "player-1", 0, 0)
	h.fx.SubmitAbility(testGame, 1, "frigate-1", "overdrive", "")

	h.resolve(1)
	bonus, ok := h.fx.Object("frigate-1").Projection.Get(effects.KeyMovementFlatBonus)
	require.True(t, ok)
	assert.Equal(t, float64(2), bonus)

	h.move("frigate-1", 10, 0)
	h.resolve(2)
	assert.Equal(t, shared.NewPosition(5, 0), h.fx.Object("frigate-1").Position)
}

func TestResolveTurn_JettisonSpawnsCargoCan(t *testing.T) {
	h := newHarness(t)
	h.ship("hauler-1", "hauler", "player-1", 5, 5)
	require.NoError(t, h.stores.Cargo.AddResource(h.ctx, "hauler-1", "ore", 30))
	h.fx.Queue(testGame, "hauler-1", orders.AbilityPayload{
		AbilityKey: "jettison",
		Params:     orders.AbilityParams{Resource: "ore", Quantity: 10},
	}, nil)

	h.resolve(1)

	used := h.logOf(1, combat.EventAbility)
	require.Len(t, used, 1)
	canID, ok := used[0].Data["canId"].(string)
	require.True(t, ok)

	can := h.fx.Object(canID)
	assert.Equal(t, sector.ObjectCargoCan, can.Type)
	assert.Equal(t, "player-1", can.OwnerID)
	assert.InDelta(t, 1.5, can.Position.DistanceTo(shared.NewPosition(5, 5)), 0.5)
	assert.Equal(t, 10, h.fx.Cargo(canID)["ore"])
	assert.Equal(t, 20, h.fx.Cargo("hauler-1")["ore"])
	assert.Equal(t, 2, h.cooldown("hauler-1", "jettison"))
}

func TestResolveTurn_JettisonMoreThanHeldFails(t *testing.T) {
	h := newHarness(t)
	h.ship("hauler-1", "hauler", "player-1", 5, 5)
	require.NoError(t, h.stores.Cargo.AddResource(h.ctx, "hauler-1", "ore", 3))
	h.fx.Queue(testGame, "hauler-1", orders.AbilityPayload{
		AbilityKey: "jettison",
		Params:     orders.AbilityParams{Resource: "ore", Quantity: 10},
	}, nil)

	h.resolve(1)

	failed := h.logOf(1, combat.EventAbilityFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, ability.ReasonInsufficient, failed[0].Data["reason"])
	assert.Equal(t, 3, h.fx.Cargo("hauler-1")["ore"])
	assert.Zero(t, h.cooldown("hauler-1", "jettison"))
}
