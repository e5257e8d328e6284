package ability

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
)

// EffectSpec is a status effect an ability or weapon hands out
type EffectSpec struct {
	Key       string
	Magnitude float64
	Duration  int
	OnTarget  bool
}

// WeaponAbility does not deal damage itself; it queues a combat order that
// the combat phase resolves after every offense ability has been processed.
type WeaponAbility struct {
	def     Definition
	Profile combat.WeaponProfile
	OnHit   *EffectSpec
}

func NewWeapon(def Definition, profile combat.WeaponProfile, onHit *EffectSpec) *WeaponAbility {
	def.Kind = KindOffense
	def.Target = TargetObject
	if def.Range == 0 {
		def.Range = profile.HardRange
	}
	return &WeaponAbility{def: def, Profile: profile, OnHit: onHit}
}

func (w *WeaponAbility) Definition() Definition {
	return w.def
}

func (w *WeaponAbility) Resolve(ctx context.Context, env Env, use Use) (Result, error) {
	if use.Target == nil {
		return Failed("no target", ReasonNoTarget), nil
	}
	order := &orders.CombatOrder{
		ID:         env.NewID(),
		GameID:     use.GameID,
		Turn:       use.Turn,
		AttackerID: use.Caster.ID,
		TargetID:   use.Target.ID,
		AbilityKey: w.def.Key,
	}
	if err := env.QueueCombat(ctx, order); err != nil {
		return Result{}, fmt.Errorf("failed to queue combat order: %w", err)
	}
	return Succeeded(
		fmt.Sprintf("%s locks %s on %s", use.Caster.Name, w.def.Name, use.Target.Name),
		map[string]any{"combatOrderId": order.ID},
	), nil
}
