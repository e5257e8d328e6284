package turn

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
)

// CombatResolver discharges the combat orders queued by the offense phase
type CombatResolver struct {
	stores   Stores
	registry *ability.Registry
	rules    combat.Rules
	roll     combat.RollSource
	newID    func() string
}

func NewCombatResolver(stores Stores, registry *ability.Registry, rules combat.Rules, roll combat.RollSource, newID func() string) *CombatResolver {
	return &CombatResolver{stores: stores, registry: registry, rules: rules, roll: roll, newID: newID}
}

// Resolve fires orders by attacker id. A target destroyed by an earlier order
// is a wreck by the time later orders reach it and they are skipped.
func (r *CombatResolver) Resolve(ctx context.Context, gameID string, turn int) (PhaseReport, error) {
	report := PhaseReport{Phase: PhaseCombat}
	logger := logging.LoggerFromContext(ctx)

	list, err := r.stores.TurnOrders.ListCombatOrders(ctx, gameID, turn)
	if err != nil {
		return report, err
	}

	for _, order := range list {
		var result outcome
		err := r.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			var err error
			result, err = r.resolveOrder(txCtx, order, turn)
			return err
		})
		if err != nil {
			report.Failed++
			logger.WithError(err).WithFields(logrus.Fields{
				"attacker_id": order.AttackerID,
				"target_id":   order.TargetID,
			}).Warn("combat resolution failed")
			continue
		}
		report.count(result)
	}
	return report, nil
}

func (r *CombatResolver) resolveOrder(ctx context.Context, order *orders.CombatOrder, turn int) (outcome, error) {
	weapon, ok := r.registry.Weapon(order.AbilityKey)
	if !ok {
		return outcomeSkipped, nil
	}

	attacker, err := r.stores.findObject(ctx, order.AttackerID)
	if err != nil {
		return outcomeIdle, err
	}
	target, err := r.stores.findObject(ctx, order.TargetID)
	if err != nil {
		return outcomeIdle, err
	}
	if attacker == nil || target == nil || !attacker.IsShip() || target.IsWreck() || !target.IsTargetable() {
		return outcomeSkipped, nil
	}
	if !target.IsShip() && target.Stats.HP <= 0 {
		return outcomeSkipped, nil
	}

	def := weapon.Definition()
	distance := attacker.Position.DistanceTo(target.Position)
	if attacker.SectorID != target.SectorID {
		return outcomeProcessed, r.miss(ctx, order, turn, attacker, target, def, map[string]any{
			"reason": ability.ReasonDifferentSector,
		})
	}
	if !weapon.Profile.InRange(distance) {
		return outcomeProcessed, r.miss(ctx, order, turn, attacker, target, def, map[string]any{
			"reason":   ability.ReasonOutOfRange,
			"distance": distance,
			"range":    weapon.Profile.HardRange,
		})
	}

	attackerEffects, err := r.stores.Effects.ListActive(ctx, attacker.ID, turn)
	if err != nil {
		return outcomeIdle, err
	}
	targetEffects, err := r.stores.Effects.ListActive(ctx, target.ID, turn)
	if err != nil {
		return outcomeIdle, err
	}

	breakdown := combat.ComputeDamage(combat.DamageInput{
		Weapon:        weapon.Profile,
		Distance:      distance,
		AttackerHull:  attacker.Stats.Hull,
		TargetHull:    target.Stats.Hull,
		SizeModifiers: attackerEffects.SizePenalty(),
		Evasion:       target.Stats.BaseEvasion + targetEffects.EvasionBonus(),
	})
	data := map[string]any{
		"ability":   def.Key,
		"breakdown": breakdown,
	}

	damage := breakdown.Damage
	if damage > 0 && target.AtFullHealth() && target.PassiveAvailable(sector.PassiveHardenedPlating) {
		damage = combat.AbsorbFirstHit(damage)
		target.ConsumePassive(sector.PassiveHardenedPlating)
		data["absorbedBy"] = sector.PassiveHardenedPlating
	}

	if damage <= 0 {
		data["reason"] = "ineffective"
		return outcomeProcessed, r.miss(ctx, order, turn, attacker, target, def, data)
	}

	destroyed := target.TakeDamage(damage)
	if destroyed && !target.IsShip() {
		target.Stats.HP = 0
	}
	data["damage"] = damage
	data["hp"] = max(0, target.Stats.HP)
	if err := r.stores.Objects.Save(ctx, target); err != nil {
		return outcomeIdle, err
	}
	if err := r.stores.appendLog(ctx, combat.NewLogEntry(
		order.GameID, turn, combat.EventAttack, attacker.ID, target.ID,
		fmt.Sprintf("%s hits %s with %s for %d", attacker.Name, target.Name, def.Name, damage),
		data,
	)); err != nil {
		return outcomeIdle, err
	}

	if destroyed && !target.IsShip() {
		return outcomeProcessed, r.disable(ctx, order.GameID, turn, attacker, target)
	}
	if destroyed {
		return outcomeProcessed, r.destroy(ctx, order.GameID, turn, attacker, target)
	}
	if weapon.OnHit != nil && target.IsShip() {
		if err := r.applyOnHit(ctx, order.GameID, turn, attacker, target, def, *weapon.OnHit); err != nil {
			return outcomeIdle, err
		}
	}
	return outcomeProcessed, nil
}

func (r *CombatResolver) miss(ctx context.Context, order *orders.CombatOrder, turn int, attacker, target *sector.SectorObject, def ability.Definition, data map[string]any) error {
	data["ability"] = def.Key
	return r.stores.appendLog(ctx, combat.NewLogEntry(
		order.GameID, turn, combat.EventMiss, attacker.ID, target.ID,
		fmt.Sprintf("%s misses %s with %s", attacker.Name, target.Name, def.Name),
		data,
	))
}

func (r *CombatResolver) applyOnHit(ctx context.Context, gameID string, turn int, attacker, target *sector.SectorObject, def ability.Definition, spec ability.EffectSpec) error {
	effect, err := effects.NewStatusEffect(r.newID(), gameID, target.ID, spec.Key, spec.Magnitude, attacker.ID, def.Key, turn, spec.Duration)
	if err != nil {
		return err
	}
	if err := r.stores.applyEffect(ctx, target, effect); err != nil {
		return err
	}
	return r.stores.appendLog(ctx, combat.NewLogEntry(
		gameID, turn, combat.EventStatus, attacker.ID, target.ID,
		fmt.Sprintf("%s is afflicted with %s", target.Name, spec.Key),
		map[string]any{"effect": spec.Key, "magnitude": spec.Magnitude, "expiresTurn": effect.ExpiresTurn},
	))
}

// destroy turns the target into a wreck that keeps a rolled share of its cargo
// plus salvage from its blueprint, and schedules the pilot's return
func (r *CombatResolver) destroy(ctx context.Context, gameID string, turn int, attacker, target *sector.SectorObject) error {
	if err := r.stores.Effects.ClearShip(ctx, target.ID); err != nil {
		return err
	}
	if err := r.haltShip(ctx, target.ID, turn); err != nil {
		return err
	}

	held, err := r.stores.Cargo.GetCargo(ctx, target.ID)
	if err != nil {
		return err
	}
	fraction := r.rules.LootFraction(r.roll.Roll(gameID, turn, target.ID))
	lost := combat.LootLoss(held, fraction)
	for _, res := range sortedKeys(lost) {
		if err := r.stores.Cargo.RemoveResource(ctx, target.ID, res, lost[res]); err != nil {
			return err
		}
	}

	var salvage map[string]int
	if bp, ok := sector.LookupBlueprint(target.Blueprint); ok {
		salvage = r.rules.Salvage(bp)
		for _, res := range sortedKeys(salvage) {
			if err := r.stores.Cargo.AddResource(ctx, target.ID, res, salvage[res]); err != nil {
				return err
			}
		}
	}

	target.BecomeWreck(sector.WreckInfo{
		DestroyedTurn: turn,
		DecayTurn:     turn + r.rules.WreckDecayTurns,
		DestroyedBy:   attacker.ID,
		LootFraction:  fraction,
	})
	if err := r.stores.Objects.Save(ctx, target); err != nil {
		return err
	}

	data := map[string]any{
		"lootFraction": fraction,
		"cargoLost":    lost,
		"salvage":      salvage,
		"decayTurn":    target.Wreck.DecayTurn,
	}
	if target.OwnerID != "" {
		respawn := &combat.PilotRespawn{
			ID:          r.newID(),
			GameID:      gameID,
			PlayerID:    target.OwnerID,
			LostShipID:  target.ID,
			RespawnTurn: turn + r.rules.RespawnDelayTurns,
			Status:      combat.RespawnPending,
		}
		if err := r.stores.Respawns.Enqueue(ctx, respawn); err != nil {
			return err
		}
		data["respawnTurn"] = respawn.RespawnTurn
	}

	return r.stores.appendLog(ctx, combat.NewLogEntry(
		gameID, turn, combat.EventKill, attacker.ID, target.ID,
		fmt.Sprintf("%s destroys %s", attacker.Name, target.Name),
		data,
	))
}

// disable records a station or structure knocked out at 0 HP. It has no
// pilot to return and stays in place.
func (r *CombatResolver) disable(ctx context.Context, gameID string, turn int, attacker, target *sector.SectorObject) error {
	return r.stores.appendLog(ctx, combat.NewLogEntry(
		gameID, turn, combat.EventKill, attacker.ID, target.ID,
		fmt.Sprintf("%s disables %s", attacker.Name, target.Name),
		map[string]any{"objectType": string(target.Type)},
	))
}

// haltShip stops everything a destroyed ship was doing or planning
func (r *CombatResolver) haltShip(ctx context.Context, shipID string, turn int) error {
	order, err := r.stores.Movement.FindInProgressByShip(ctx, shipID)
	if err != nil {
		return err
	}
	if order != nil {
		order.Block(nil, turn)
		if err := r.stores.Movement.Save(ctx, order); err != nil {
			return err
		}
	}

	harvesting, err := r.stores.Harvesting.HasActiveTask(ctx, shipID)
	if err != nil {
		return err
	}
	if harvesting {
		if err := r.stores.Harvesting.Stop(ctx, shipID, turn); err != nil {
			return err
		}
	}

	_, err = r.stores.Queue.CancelAll(ctx, shipID, turn)
	return err
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
