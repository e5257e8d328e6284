package turn

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
)

// AbilityResolver runs the turn's ability orders one phase at a time.
// The pipeline calls it for utility abilities first and offense second.
type AbilityResolver struct {
	stores   Stores
	registry *ability.Registry
	newID    func() string
}

func NewAbilityResolver(stores Stores, registry *ability.Registry, newID func() string) *AbilityResolver {
	return &AbilityResolver{stores: stores, registry: registry, newID: newID}
}

// ResolvePhase handles the orders whose ability is of the given kind, by caster id.
// Orders naming an unknown ability are counted once, in the utility phase.
func (r *AbilityResolver) ResolvePhase(ctx context.Context, gameID string, turn int, kind ability.Kind) (PhaseReport, error) {
	report := PhaseReport{Phase: PhaseAbilityUtility}
	if kind == ability.KindOffense {
		report.Phase = PhaseAbilityOffense
	}
	logger := logging.LoggerFromContext(ctx)

	list, err := r.stores.TurnOrders.ListAbilityOrders(ctx, gameID, turn)
	if err != nil {
		return report, err
	}

	for _, order := range list {
		a, known := r.registry.Lookup(order.AbilityKey)
		if !known {
			if kind == ability.KindUtility {
				report.Skipped++
				logger.WithFields(logrus.Fields{
					"caster_id": order.CasterID,
					"ability":   order.AbilityKey,
				}).Info("unknown ability")
				if err := r.rejectUnknown(ctx, order); err != nil {
					logger.WithError(err).Warn("failed to log unknown ability")
				}
			}
			continue
		}
		if a.Definition().Kind != kind {
			continue
		}

		var result outcome
		err := r.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			var err error
			result, err = r.resolveOrder(txCtx, order, a, turn)
			return err
		})
		if err != nil {
			report.Failed++
			logger.WithError(err).WithFields(logrus.Fields{
				"caster_id": order.CasterID,
				"ability":   order.AbilityKey,
			}).Warn("ability resolution failed")
			continue
		}
		report.count(result)
	}
	return report, nil
}

func (r *AbilityResolver) resolveOrder(ctx context.Context, order *orders.AbilityOrder, a ability.Ability, turn int) (outcome, error) {
	def := a.Definition()

	caster, err := r.stores.findObject(ctx, order.CasterID)
	if err != nil {
		return outcomeIdle, err
	}
	if caster == nil || !caster.IsShip() {
		return outcomeSkipped, nil
	}

	if !caster.HasAbility(def.Key) {
		return r.reject(ctx, order, caster, def, ability.ReasonNotEquipped, nil)
	}

	cooldown, err := r.stores.Cooldowns.Get(ctx, caster.ID, def.Key)
	if err != nil {
		return outcomeIdle, err
	}
	if !cooldown.ReadyAt(turn) {
		logging.LoggerFromContext(ctx).WithFields(logrus.Fields{
			"caster_id":      caster.ID,
			"ability":        def.Key,
			"available_turn": cooldown.AvailableTurn,
			"reason":         ability.ReasonOnCooldown,
		}).Debug("ability skipped")
		return outcomeSkipped, nil
	}

	if caster.Stats.Energy < def.EnergyCost {
		return r.reject(ctx, order, caster, def, ability.ReasonNoEnergy, map[string]any{
			"energy": caster.Stats.Energy,
			"cost":   def.EnergyCost,
		})
	}

	var target *sector.SectorObject
	if def.Target == ability.TargetObject {
		var reason string
		var data map[string]any
		target, reason, data, err = r.resolveTarget(ctx, order, caster, def)
		if err != nil {
			return outcomeIdle, err
		}
		if reason != "" {
			return r.reject(ctx, order, caster, def, reason, data)
		}
		if target.ID == caster.ID {
			target = caster
		}
	}

	env := &abilityEnv{stores: r.stores, turn: turn, newID: r.newID}
	res, err := a.Resolve(ctx, env, ability.Use{
		GameID:         order.GameID,
		Turn:           turn,
		Caster:         caster,
		Target:         target,
		TargetPosition: order.TargetPosition,
		Params:         order.Params,
	})
	if err != nil {
		return outcomeIdle, err
	}

	if res.Succeeded {
		if err := caster.SpendEnergy(def.EnergyCost); err != nil {
			return outcomeIdle, err
		}
		if err := r.stores.Objects.Save(ctx, caster); err != nil {
			return outcomeIdle, err
		}
	}
	if res.ConsumeCooldown && def.Cooldown > 0 {
		if err := r.stores.Cooldowns.Set(ctx, effects.NewCooldown(caster.ID, def.Key, turn, def.Cooldown)); err != nil {
			return outcomeIdle, err
		}
	}

	eventType := combat.EventAbility
	if !res.Succeeded {
		eventType = combat.EventAbilityFailed
	}
	data := withAbility(res.Data, def.Key)
	if err := r.stores.appendLog(ctx, combat.NewLogEntry(
		order.GameID, turn, eventType, caster.ID, targetID(target, order), res.Summary, data,
	)); err != nil {
		return outcomeIdle, err
	}

	if !res.Succeeded {
		return outcomeSkipped, nil
	}
	if err := r.logTargetEffects(ctx, a, turn, order.GameID, caster, target); err != nil {
		return outcomeIdle, err
	}
	return outcomeProcessed, nil
}

// logTargetEffects adds an effect row for every status an effect ability
// placed on a ship other than its caster
func (r *AbilityResolver) logTargetEffects(ctx context.Context, a ability.Ability, turn int, gameID string, caster, target *sector.SectorObject) error {
	ea, ok := a.(*ability.EffectAbility)
	if !ok || target == nil || target.ID == caster.ID {
		return nil
	}
	for _, spec := range ea.Effects {
		if !spec.OnTarget {
			continue
		}
		if err := r.stores.appendLog(ctx, combat.NewLogEntry(
			gameID, turn, combat.EventEffect, caster.ID, target.ID,
			fmt.Sprintf("%s is affected by %s", target.Name, spec.Key),
			map[string]any{"ability": ea.Definition().Key, "effect": spec.Key, "magnitude": spec.Magnitude, "expiresTurn": turn + spec.Duration},
		)); err != nil {
			return err
		}
	}
	return nil
}

// resolveTarget returns the target or the reason it cannot be used
func (r *AbilityResolver) resolveTarget(ctx context.Context, order *orders.AbilityOrder, caster *sector.SectorObject, def ability.Definition) (*sector.SectorObject, string, map[string]any, error) {
	if !order.HasTarget() {
		return nil, ability.ReasonNoTarget, nil, nil
	}
	target, err := r.stores.findObject(ctx, order.TargetObjectID)
	if err != nil {
		return nil, "", nil, err
	}
	switch {
	case target == nil:
		return nil, ability.ReasonNoTarget, nil, nil
	case !target.IsTargetable():
		return nil, ability.ReasonInvalidTarget, map[string]any{"targetType": string(target.Type)}, nil
	case target.SectorID != caster.SectorID:
		return nil, ability.ReasonDifferentSector, nil, nil
	}
	if d := caster.Position.DistanceTo(target.Position); def.Range > 0 && d > def.Range {
		return nil, ability.ReasonOutOfRange, map[string]any{"distance": d, "range": def.Range}, nil
	}
	return target, "", nil, nil
}

// reject logs a precondition failure. Nothing is spent and no cooldown starts.
func (r *AbilityResolver) reject(ctx context.Context, order *orders.AbilityOrder, caster *sector.SectorObject, def ability.Definition, reason string, data map[string]any) (outcome, error) {
	if data == nil {
		data = map[string]any{}
	}
	data["reason"] = reason
	data["ability"] = def.Key
	summary := fmt.Sprintf("%s cannot use %s: %s", caster.Name, def.Name, reason)
	entry := combat.NewLogEntry(order.GameID, order.Turn, combat.EventAbilityFailed, caster.ID, order.TargetObjectID, summary, data)
	if err := r.stores.appendLog(ctx, entry); err != nil {
		return outcomeIdle, err
	}
	return outcomeSkipped, nil
}

// rejectUnknown records an order naming an ability the catalog does not know
func (r *AbilityResolver) rejectUnknown(ctx context.Context, order *orders.AbilityOrder) error {
	return r.stores.appendLog(ctx, combat.NewLogEntry(
		order.GameID, order.Turn, combat.EventAbilityFailed, order.CasterID, order.TargetObjectID,
		fmt.Sprintf("%s cannot use %s: %s", order.CasterID, order.AbilityKey, ability.ReasonUnknownAbility),
		map[string]any{"reason": ability.ReasonUnknownAbility, "ability": order.AbilityKey},
	))
}

func withAbility(data map[string]any, key string) map[string]any {
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["ability"] = key
	return out
}

func targetID(target *sector.SectorObject, order *orders.AbilityOrder) string {
	if target != nil {
		return target.ID
	}
	return order.TargetObjectID
}
