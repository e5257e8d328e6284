package turn

import (
	"context"

	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/cargo"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// abilityEnv exposes engine state to ability variants for one resolution
type abilityEnv struct {
	stores Stores
	turn   int
	newID  func() string
}

var _ ability.Env = (*abilityEnv)(nil)

func (e *abilityEnv) QueueCombat(ctx context.Context, order *orders.CombatOrder) error {
	return e.stores.TurnOrders.UpsertCombatOrder(ctx, order)
}

func (e *abilityEnv) ApplyEffect(ctx context.Context, ship *sector.SectorObject, effect *effects.ShipStatusEffect) error {
	return e.stores.applyEffect(ctx, ship, effect)
}

func (e *abilityEnv) ActiveEffects(ctx context.Context, shipID string, turn int) (effects.Set, error) {
	return e.stores.Effects.ListActive(ctx, shipID, turn)
}

func (e *abilityEnv) Occupants(ctx context.Context, gameID, sectorID string, pos shared.Position) ([]*sector.SectorObject, error) {
	return e.stores.Objects.FindAt(ctx, gameID, sectorID, pos)
}

// Relocate moves the object and halts any movement order it was following,
// since the order's path no longer starts where the ship stands
func (e *abilityEnv) Relocate(ctx context.Context, obj *sector.SectorObject, to shared.Position) error {
	obj.Position = to
	if err := e.stores.Objects.Save(ctx, obj); err != nil {
		return err
	}
	order, err := e.stores.Movement.FindInProgressByShip(ctx, obj.ID)
	if err != nil || order == nil {
		return err
	}
	order.Block(nil, e.turn)
	return e.stores.Movement.Save(ctx, order)
}

func (e *abilityEnv) Spawn(ctx context.Context, obj *sector.SectorObject) error {
	return e.stores.Objects.Save(ctx, obj)
}

func (e *abilityEnv) Cargo() cargo.Store {
	return e.stores.Cargo
}

func (e *abilityEnv) NewID() string {
	return e.newID()
}
