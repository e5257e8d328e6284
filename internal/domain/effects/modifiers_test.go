package effects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

func effect(t *testing.T, key string, magnitude float64, applied, duration int) *effects.ShipStatusEffect {
	t.Helper()
	e, err := effects.NewStatusEffect("e-"+key, "game-1", "ship-1", key, magnitude, "src", "ability", applied, duration)
	require.NoError(t, err)
	return e
}

func TestEffectiveSpeed_NoEffectsUsesBase(t *testing.T) {
	var set effects.Set

	assert.Equal(t, 1.0, set.MovementMultiplier())
	assert.Equal(t, 3, set.EffectiveSpeed(3))
}

func TestEffectiveSpeed_SingleMultiplier(t *testing.T) {
	set := effects.Set{effect(t, effects.KeyMovementBonus, 1.5, 1, 2)}

	assert.Equal(t, 1.5, set.MovementMultiplier())
	assert.Equal(t, 4, set.EffectiveSpeed(3), "floor(3 × 1.5)")
}

func TestEffectiveSpeed_MultipliersStackAdditively(t *testing.T) {
	set := effects.Set{
		effect(t, effects.KeyMovementBonus, 1.5, 1, 2),
		effect(t, effects.KeyMovementBonus, 1.25, 1, 2),
	}

	assert.InDelta(t, 1.75, set.MovementMultiplier(), 1e-9)
	assert.Equal(t, 7, set.EffectiveSpeed(4))
}

func TestEffectiveSpeed_FlatBonusTakesStrongest(t *testing.T) {
	set := effects.Set{
		effect(t, effects.KeyMovementFlatBonus, 1, 1, 2),
		effect(t, effects.KeyMovementFlatBonus, 2, 1, 2),
	}

	assert.Equal(t, 2, set.FlatSpeedBonus())
	assert.Equal(t, 4, set.EffectiveSpeed(2))
}

func TestActiveAt_ExcludesExpiredEffects(t *testing.T) {
	e := effect(t, effects.KeyEvasion, 0.3, 5, 2)
	require.Equal(t, 7, e.ExpiresTurn)

	set := effects.Set{e}

	assert.Len(t, set.ActiveAt(5), 1)
	assert.Len(t, set.ActiveAt(7), 1)
	assert.Empty(t, set.ActiveAt(8))
}

func TestClampEvasion(t *testing.T) {
	assert.Equal(t, 0.0, effects.ClampEvasion(-0.4))
	assert.Equal(t, 0.5, effects.ClampEvasion(0.5))
	assert.Equal(t, effects.MaxEvasion, effects.ClampEvasion(1.7))
}

func TestSizePenalty_ReductionIsClamped(t *testing.T) {
	set := effects.Set{
		effect(t, effects.KeySizePenaltyReduction, 1.4, 1, 1),
		effect(t, effects.KeyIgnoreSizePenalty, 1, 1, 1),
	}

	mods := set.SizePenalty()

	assert.True(t, mods.Ignore)
	assert.Equal(t, 1.0, mods.Reduction)
}

func TestProject_MirrorsAggregates(t *testing.T) {
	set := effects.Set{
		effect(t, effects.KeyMovementBonus, 1.5, 1, 2),
		effect(t, effects.KeyEvasion, 0.2, 1, 2),
		effect(t, effects.KeyEvasion, 0.1, 1, 2),
		effect(t, effects.KeyImmobilized, 1, 1, 1),
	}

	projected := set.Project()

	assert.Equal(t, 1.5, projected[effects.KeyMovementBonus])
	assert.InDelta(t, 0.3, projected[effects.KeyEvasion], 1e-9)
	assert.Equal(t, 1.0, projected[effects.KeyImmobilized])
	assert.Nil(t, effects.Set{}.Project())
}

func TestNewStatusEffect_RejectsUnknownKey(t *testing.T) {
	_, err := effects.NewStatusEffect("e", "g", "s", "teleport", 1, "", "", 1, 1)

	assert.True(t, shared.IsValidation(err))
}

func TestCooldown_ReadyAt(t *testing.T) {
	cd := effects.NewCooldown("ship-1", "evasive_maneuvers", 10, 3)

	assert.Equal(t, 13, cd.AvailableTurn)
	assert.False(t, cd.ReadyAt(12))
	assert.True(t, cd.ReadyAt(13))

	var never *effects.AbilityCooldown
	assert.True(t, never.ReadyAt(1))
}
