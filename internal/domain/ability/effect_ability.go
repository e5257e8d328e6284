package ability

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
)

// EffectAbility applies one or more status effects to the caster or its target.
// A failed attempt does not consume the cooldown.
type EffectAbility struct {
	def     Definition
	Effects []EffectSpec
}

func NewEffectAbility(def Definition, specs ...EffectSpec) *EffectAbility {
	def.Kind = KindUtility
	if def.Target == "" {
		def.Target = TargetSelf
	}
	return &EffectAbility{def: def, Effects: specs}
}

func (a *EffectAbility) Definition() Definition {
	return a.def
}

func (a *EffectAbility) Resolve(ctx context.Context, env Env, use Use) (Result, error) {
	applied := make([]string, 0, len(a.Effects))
	for _, spec := range a.Effects {
		recipient := use.Caster
		if spec.OnTarget {
			recipient = use.Target
		}
		if recipient == nil {
			return Failed(fmt.Sprintf("%s has no target", a.def.Name), ReasonNoTarget), nil
		}
		if !recipient.IsShip() {
			return Failed(fmt.Sprintf("%s cannot affect %s", a.def.Name, recipient.Name), ReasonInvalidTarget), nil
		}
		if err := apply(ctx, env, use, recipient, a.def.Key, spec); err != nil {
			return Result{}, err
		}
		applied = append(applied, spec.Key)
	}
	return Succeeded(
		fmt.Sprintf("%s activates %s", use.Caster.Name, a.def.Name),
		map[string]any{"effects": applied},
	), nil
}

func apply(ctx context.Context, env Env, use Use, recipient *sector.SectorObject, abilityKey string, spec EffectSpec) error {
	effect, err := effects.NewStatusEffect(
		env.NewID(), use.GameID, recipient.ID, spec.Key, spec.Magnitude,
		use.Caster.ID, abilityKey, use.Turn, spec.Duration,
	)
	if err != nil {
		return err
	}
	if err := env.ApplyEffect(ctx, recipient, effect); err != nil {
		return fmt.Errorf("failed to apply %s to %s: %w", spec.Key, recipient.ID, err)
	}
	return nil
}

// SpeedBoostAbility grants a flat movement bonus that is mirrored onto the ship
// so clients see the boosted speed before the next movement pass.
type SpeedBoostAbility struct {
	def      Definition
	Bonus    int
	Duration int
}

func NewSpeedBoost(def Definition, bonus, duration int) *SpeedBoostAbility {
	def.Kind = KindUtility
	def.Target = TargetSelf
	return &SpeedBoostAbility{def: def, Bonus: bonus, Duration: duration}
}

func (a *SpeedBoostAbility) Definition() Definition {
	return a.def
}

func (a *SpeedBoostAbility) Resolve(ctx context.Context, env Env, use Use) (Result, error) {
	spec := EffectSpec{Key: effects.KeyMovementFlatBonus, Magnitude: float64(a.Bonus), Duration: a.Duration}
	if err := apply(ctx, env, use, use.Caster, a.def.Key, spec); err != nil {
		return Result{}, err
	}
	set, err := env.ActiveEffects(ctx, use.Caster.ID, use.Turn)
	if err != nil {
		return Result{}, err
	}
	speed := set.EffectiveSpeed(use.Caster.Stats.MovementSpeed)
	return Succeeded(
		fmt.Sprintf("%s engages %s (+%d speed)", use.Caster.Name, a.def.Name, a.Bonus),
		map[string]any{"bonus": a.Bonus, "effectiveSpeed": speed, "expiresTurn": use.Turn + a.Duration},
	), nil
}
