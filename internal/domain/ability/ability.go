package ability

import (
	"context"

	"github.com/andrescamacho/voidfleet-go/internal/domain/cargo"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// Kind decides the resolution phase. Utility abilities resolve before offense.
type Kind string

const (
	KindUtility Kind = "utility"
	KindOffense Kind = "offense"
)

// TargetKind describes what an ability order must point at
type TargetKind string

const (
	TargetSelf     TargetKind = "self"
	TargetObject   TargetKind = "object"
	TargetPosition TargetKind = "position"
)

// Definition is the static description shared by every ability variant
type Definition struct {
	Key        string
	Name       string
	Kind       Kind
	Target     TargetKind
	Range      float64
	Cooldown   int
	EnergyCost int
}

// Ability is one entry of the dispatch table. Resolve runs after the generic
// preconditions (cooldown, energy, target validity, range) have passed.
type Ability interface {
	Definition() Definition
	Resolve(ctx context.Context, env Env, use Use) (Result, error)
}

// Use is a single validated invocation
type Use struct {
	GameID         string
	Turn           int
	Caster         *sector.SectorObject
	Target         *sector.SectorObject
	TargetPosition *shared.Position
	Params         orders.AbilityParams
}

// Result is what an ability reports back to the resolver. Energy is only
// spent on success; a failed attempt burns the cooldown when ConsumeCooldown is set.
type Result struct {
	Succeeded       bool
	ConsumeCooldown bool
	Summary         string
	Data            map[string]any
}

func Succeeded(summary string, data map[string]any) Result {
	return Result{Succeeded: true, ConsumeCooldown: true, Summary: summary, Data: data}
}

func Failed(summary, reason string) Result {
	return Result{Summary: summary, Data: map[string]any{"reason": reason}}
}

// Env is the slice of engine state an ability may read or mutate. Every call
// participates in the caller's transaction.
type Env interface {
	QueueCombat(ctx context.Context, order *orders.CombatOrder) error
	ApplyEffect(ctx context.Context, ship *sector.SectorObject, effect *effects.ShipStatusEffect) error
	ActiveEffects(ctx context.Context, shipID string, turn int) (effects.Set, error)
	Occupants(ctx context.Context, gameID, sectorID string, pos shared.Position) ([]*sector.SectorObject, error)
	Relocate(ctx context.Context, obj *sector.SectorObject, to shared.Position) error
	Spawn(ctx context.Context, obj *sector.SectorObject) error
	Cargo() cargo.Store
	NewID() string
}

// Reasons reported in failed results
const (
	ReasonOutOfRange      = "out_of_range"
	ReasonImmobilized     = "immobilized"
	ReasonOccupied        = "destination_occupied"
	ReasonNoDestination   = "no_destination"
	ReasonNoTarget        = "no_target"
	ReasonInvalidTarget   = "invalid_target"
	ReasonInsufficient    = "insufficient_cargo"
	ReasonInvalidParams   = "invalid_params"
	ReasonNoFreeTile      = "no_free_tile"
	ReasonOnCooldown      = "on_cooldown"
	ReasonNoEnergy        = "insufficient_energy"
	ReasonDifferentSector = "different_sector"
	ReasonUnknownAbility  = "unknown_ability"
	ReasonNotEquipped     = "not_equipped"
)
