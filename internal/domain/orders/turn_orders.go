package orders

import (
	"time"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// AbilityOrder is a concrete ability use for one turn. A caster has at most one
// per turn; a later submission replaces the earlier one.
type AbilityOrder struct {
	ID             string
	GameID         string
	Turn           int
	CasterID       string
	AbilityKey     string
	TargetObjectID string
	TargetPosition *shared.Position
	Params         AbilityParams
	SubmittedAt    time.Time
}

func (o *AbilityOrder) HasTarget() bool {
	return o.TargetObjectID != ""
}

// CombatOrder is a weapon discharge queued by the offense phase. An attacker
// has at most one per turn.
type CombatOrder struct {
	ID         string
	GameID     string
	Turn       int
	AttackerID string
	TargetID   string
	AbilityKey string
}
