package effects

import (
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// Effect keys understood by the resolvers
const (
	KeyMovementBonus        = "movement_bonus"
	KeyMovementFlatBonus    = "movement_flat_bonus"
	KeyEvasion              = "evasion"
	KeyScanMultiplier       = "scan_multiplier"
	KeyEnergyRegen          = "energy_regen"
	KeyHullRegen            = "hull_regen"
	KeyImmobilized          = "immobilized"
	KeyIgnoreSizePenalty    = "ignore_size_penalty"
	KeySizePenaltyReduction = "size_penalty_reduction"
)

var knownKeys = map[string]bool{
	KeyMovementBonus:        true,
	KeyMovementFlatBonus:    true,
	KeyEvasion:              true,
	KeyScanMultiplier:       true,
	KeyEnergyRegen:          true,
	KeyHullRegen:            true,
	KeyImmobilized:          true,
	KeyIgnoreSizePenalty:    true,
	KeySizePenaltyReduction: true,
}

// ShipStatusEffect is a timed modifier on one ship.
// It is active while ExpiresTurn >= the current turn.
type ShipStatusEffect struct {
	ID             string
	GameID         string
	ShipID         string
	EffectKey      string
	Magnitude      float64
	Data           map[string]any
	SourceObjectID string
	SourceAbility  string
	AppliedTurn    int
	ExpiresTurn    int
}

// NewStatusEffect builds an effect lasting duration turns after appliedTurn
func NewStatusEffect(id, gameID, shipID, key string, magnitude float64, sourceObjectID, sourceAbility string, appliedTurn, duration int) (*ShipStatusEffect, error) {
	if !knownKeys[key] {
		return nil, shared.NewValidationError("effectKey", fmt.Sprintf("unknown effect %q", key))
	}
	if duration < 0 {
		return nil, shared.NewValidationError("duration", "must not be negative")
	}
	return &ShipStatusEffect{
		ID:             id,
		GameID:         gameID,
		ShipID:         shipID,
		EffectKey:      key,
		Magnitude:      magnitude,
		SourceObjectID: sourceObjectID,
		SourceAbility:  sourceAbility,
		AppliedTurn:    appliedTurn,
		ExpiresTurn:    appliedTurn + duration,
	}, nil
}

func (e *ShipStatusEffect) ActiveAt(turn int) bool {
	return e.ExpiresTurn >= turn
}
