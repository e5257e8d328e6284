package combat

import (
	"math"

	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
)

// Rules holds the tunable constants of destruction
type Rules struct {
	RespawnDelayTurns      int
	WreckDecayTurns        int
	LootMin                float64
	LootMax                float64
	CoreSalvageRate        float64
	SpecializedSalvageRate float64
}

func DefaultRules() Rules {
	return Rules{
		RespawnDelayTurns:      10,
		WreckDecayTurns:        30,
		LootMin:                0.6,
		LootMax:                0.8,
		CoreSalvageRate:        0.3,
		SpecializedSalvageRate: 0.2,
	}
}

// LootFraction maps a roll in [0,1) onto [LootMin, LootMax]
func (r Rules) LootFraction(roll float64) float64 {
	roll = math.Min(1, math.Max(0, roll))
	return r.LootMin + roll*(r.LootMax-r.LootMin)
}

// Salvage is the material a wreck yields from its blueprint's build cost
func (r Rules) Salvage(bp sector.Blueprint) map[string]int {
	out := make(map[string]int)
	for res, qty := range bp.CoreCost {
		if n := int(math.Floor(float64(qty) * r.CoreSalvageRate)); n > 0 {
			out[res] += n
		}
	}
	for res, qty := range bp.SpecializedCost {
		if n := int(math.Floor(float64(qty) * r.SpecializedSalvageRate)); n > 0 {
			out[res] += n
		}
	}
	return out
}

// LootLoss returns, per resource, how much cargo is destroyed so that
// floor(qty × fraction) remains aboard the wreck
func LootLoss(cargo map[string]int, fraction float64) map[string]int {
	loss := make(map[string]int)
	for res, qty := range cargo {
		if qty <= 0 {
			continue
		}
		kept := int(math.Floor(float64(qty) * fraction))
		if lost := qty - kept; lost > 0 {
			loss[res] = lost
		}
	}
	return loss
}

// RollSource yields deterministic pseudo-random values in [0,1) per subject
type RollSource interface {
	Roll(gameID string, turn int, subject string) float64
}
