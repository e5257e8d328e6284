package ability

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// JettisonAbility dumps cargo into a new cargo can on a free neighbouring tile
type JettisonAbility struct {
	def Definition
}

func NewJettison(def Definition) *JettisonAbility {
	def.Kind = KindUtility
	def.Target = TargetSelf
	return &JettisonAbility{def: def}
}

func (a *JettisonAbility) Definition() Definition {
	return a.def
}

func (a *JettisonAbility) Resolve(ctx context.Context, env Env, use Use) (Result, error) {
	res, qty := use.Params.Resource, use.Params.Quantity
	if res == "" || qty <= 0 {
		return Failed("nothing to jettison", ReasonInvalidParams), nil
	}

	held, err := env.Cargo().GetCargo(ctx, use.Caster.ID)
	if err != nil {
		return Result{}, err
	}
	if held[res] < qty {
		r := Failed(fmt.Sprintf("%s holds only %d %s", use.Caster.Name, held[res], res), ReasonInsufficient)
		r.Data["available"] = held[res]
		return r, nil
	}

	var at shared.Position
	found := false
	for _, p := range use.Caster.Position.Adjacent() {
		occupants, err := env.Occupants(ctx, use.GameID, use.Caster.SectorID, p)
		if err != nil {
			return Result{}, err
		}
		if len(occupants) == 0 {
			at, found = p, true
			break
		}
	}
	if !found {
		return Failed(fmt.Sprintf("no free tile around %s", use.Caster.Name), ReasonNoFreeTile), nil
	}

	can := &sector.SectorObject{
		ID:       env.NewID(),
		GameID:   use.GameID,
		SectorID: use.Caster.SectorID,
		OwnerID:  use.Caster.OwnerID,
		Type:     sector.ObjectCargoCan,
		Name:     "cargo can",
		Position: at,
		Stats:    sector.ShipStats{CargoCapacity: qty},
	}
	if err := env.Spawn(ctx, can); err != nil {
		return Result{}, fmt.Errorf("failed to spawn cargo can: %w", err)
	}
	if err := env.Cargo().RemoveResource(ctx, use.Caster.ID, res, qty); err != nil {
		return Result{}, err
	}
	if err := env.Cargo().AddResource(ctx, can.ID, res, qty); err != nil {
		return Result{}, err
	}
	return Succeeded(
		fmt.Sprintf("%s jettisons %d %s", use.Caster.Name, qty, res),
		map[string]any{"canId": can.ID, "resource": res, "quantity": qty, "at": posData(at)},
	), nil
}
