package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
)

func TestRules_LootFractionStaysInBand(t *testing.T) {
	rules := combat.DefaultRules()

	assert.Equal(t, 0.6, rules.LootFraction(0))
	assert.InDelta(t, 0.7, rules.LootFraction(0.5), 1e-9)
	assert.Equal(t, 0.8, rules.LootFraction(1))
	assert.Equal(t, 0.6, rules.LootFraction(-3))
}

func TestRules_SalvageFromBlueprint(t *testing.T) {
	bp, ok := sector.LookupBlueprint("destroyer")
	require.True(t, ok)

	salvage := combat.DefaultRules().Salvage(bp)

	// core: alloy 80, polymer 30 at 30%; specialized: weapon_core 10, reactor 5 at 20%
	assert.Equal(t, map[string]int{
		"alloy":       24,
		"polymer":     9,
		"weapon_core": 2,
		"reactor":     1,
	}, salvage)
}

func TestLootLoss_KeepsFlooredFraction(t *testing.T) {
	loss := combat.LootLoss(map[string]int{"ore": 10, "gas": 3, "empty": 0}, 0.7)

	assert.Equal(t, map[string]int{"ore": 3, "gas": 1}, loss)
}
