package ability

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// RepositionAbility jumps the caster onto a free tile within range.
// Every attempt consumes the cooldown, successful or not.
type RepositionAbility struct {
	def Definition
}

func NewReposition(def Definition) *RepositionAbility {
	def.Kind = KindUtility
	def.Target = TargetPosition
	return &RepositionAbility{def: def}
}

func (a *RepositionAbility) Definition() Definition {
	return a.def
}

func (a *RepositionAbility) Resolve(ctx context.Context, env Env, use Use) (Result, error) {
	res, err := a.resolve(ctx, env, use)
	res.ConsumeCooldown = true
	return res, err
}

func (a *RepositionAbility) resolve(ctx context.Context, env Env, use Use) (Result, error) {
	if use.TargetPosition == nil {
		return Failed(fmt.Sprintf("%s has no destination", a.def.Name), ReasonNoDestination), nil
	}
	dest := *use.TargetPosition
	from := use.Caster.Position

	active, err := env.ActiveEffects(ctx, use.Caster.ID, use.Turn)
	if err != nil {
		return Result{}, err
	}
	if active.Immobilized() {
		return Failed(fmt.Sprintf("%s is immobilized", use.Caster.Name), ReasonImmobilized), nil
	}

	if d := from.DistanceTo(dest); d > a.def.Range {
		r := Failed(fmt.Sprintf("%s cannot reach %s", use.Caster.Name, dest), ReasonOutOfRange)
		r.Data["distance"] = d
		return r, nil
	}

	occupants, err := env.Occupants(ctx, use.GameID, use.Caster.SectorID, dest)
	if err != nil {
		return Result{}, err
	}
	for _, o := range occupants {
		if o.ID != use.Caster.ID {
			r := Failed(fmt.Sprintf("%s is occupied", dest), ReasonOccupied)
			r.Data["occupantId"] = o.ID
			return r, nil
		}
	}

	if err := env.Relocate(ctx, use.Caster, dest); err != nil {
		return Result{}, fmt.Errorf("failed to relocate %s: %w", use.Caster.ID, err)
	}
	return Succeeded(
		fmt.Sprintf("%s jumps to %s", use.Caster.Name, dest),
		map[string]any{"from": posData(from), "to": posData(dest)},
	), nil
}

func posData(p shared.Position) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}
