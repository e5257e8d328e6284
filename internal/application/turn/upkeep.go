package turn

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/pkg/utils"
)

// respawnSearchRadius bounds how far from a station a returning pilot may be placed
const respawnSearchRadius = 5

// Upkeep closes a turn: regeneration, effect expiry, wreck decay, pilot
// respawns and removal of the turn-scoped orders
type Upkeep struct {
	stores Stores
	newID  func() string
}

func NewUpkeep(stores Stores, newID func() string) *Upkeep {
	return &Upkeep{stores: stores, newID: newID}
}

func (u *Upkeep) Run(ctx context.Context, gameID string, turn int) (PhaseReport, error) {
	report := PhaseReport{Phase: PhaseUpkeep}

	steps := []func(context.Context, string, int, *PhaseReport) error{
		u.regenerate,
		u.expireEffects,
		u.decayWrecks,
		u.respawnPilots,
	}
	for _, step := range steps {
		if err := step(ctx, gameID, turn, &report); err != nil {
			return report, err
		}
	}

	if err := u.stores.TurnOrders.PurgeThrough(ctx, gameID, turn); err != nil {
		report.Failed++
		logging.LoggerFromContext(ctx).WithError(err).Warn("failed to purge turn orders")
	}
	return report, nil
}

// isolate runs fn in its own transaction and folds the result into the report
func (u *Upkeep) isolate(ctx context.Context, report *PhaseReport, fields logrus.Fields, fn func(context.Context) (outcome, error)) {
	var result outcome
	err := u.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		result, err = fn(txCtx)
		return err
	})
	if err != nil {
		report.Failed++
		logging.LoggerFromContext(ctx).WithError(err).WithFields(fields).Warn("upkeep step failed")
		return
	}
	report.count(result)
}

func (u *Upkeep) regenerate(ctx context.Context, gameID string, turn int, report *PhaseReport) error {
	ships, err := u.stores.Objects.ListShips(ctx, gameID)
	if err != nil {
		return err
	}
	for _, ship := range ships {
		u.isolate(ctx, report, logrus.Fields{"ship_id": ship.ID, "step": "regen"}, func(txCtx context.Context) (outcome, error) {
			active, err := u.stores.Effects.ListActive(txCtx, ship.ID, turn)
			if err != nil {
				return outcomeIdle, err
			}
			energy := ship.RestoreEnergy(ship.Stats.EnergyRegen + active.EnergyRegenBonus())
			hull := ship.Repair(active.HullRegen())
			if energy == 0 && hull == 0 {
				return outcomeIdle, nil
			}
			return outcomeProcessed, u.stores.Objects.Save(txCtx, ship)
		})
	}
	return nil
}

// expireEffects drops effects that will not be active next turn and refreshes
// the projections of the ships that carried them, all in one transaction
func (u *Upkeep) expireEffects(ctx context.Context, gameID string, turn int, report *PhaseReport) error {
	u.isolate(ctx, report, logrus.Fields{"step": "expire"}, func(txCtx context.Context) (outcome, error) {
		shipIDs, err := u.stores.Effects.PurgeExpired(txCtx, gameID, turn+1)
		if err != nil || len(shipIDs) == 0 {
			return outcomeIdle, err
		}
		for _, id := range shipIDs {
			ship, err := u.stores.findObject(txCtx, id)
			if err != nil {
				return outcomeIdle, err
			}
			if ship == nil {
				continue
			}
			if err := u.stores.reproject(txCtx, ship, turn+1); err != nil {
				return outcomeIdle, err
			}
		}
		return outcomeProcessed, nil
	})
	return nil
}

func (u *Upkeep) decayWrecks(ctx context.Context, gameID string, turn int, report *PhaseReport) error {
	wrecks, err := u.stores.Objects.FindDecayedWrecks(ctx, gameID, turn)
	if err != nil {
		return err
	}
	for _, wreck := range wrecks {
		u.isolate(ctx, report, logrus.Fields{"object_id": wreck.ID, "step": "decay"}, func(txCtx context.Context) (outcome, error) {
			if err := u.stores.Cargo.Clear(txCtx, wreck.ID); err != nil {
				return outcomeIdle, err
			}
			return outcomeProcessed, u.stores.Objects.Delete(txCtx, wreck.ID)
		})
	}
	return nil
}

// respawnPilots issues a shuttle next to the player's first station. A player
// without a station, or whose station is boxed in, keeps waiting.
func (u *Upkeep) respawnPilots(ctx context.Context, gameID string, turn int, report *PhaseReport) error {
	due, err := u.stores.Respawns.ListDue(ctx, gameID, turn)
	if err != nil {
		return err
	}
	for _, respawn := range due {
		u.isolate(ctx, report, logrus.Fields{"player_id": respawn.PlayerID, "step": "respawn"}, func(txCtx context.Context) (outcome, error) {
			return u.respawn(txCtx, respawn, turn)
		})
	}
	return nil
}

func (u *Upkeep) respawn(ctx context.Context, respawn *combat.PilotRespawn, turn int) (outcome, error) {
	stations, err := u.stores.Objects.FindOwnedByType(ctx, respawn.GameID, respawn.PlayerID, sector.ObjectStation)
	if err != nil {
		return outcomeIdle, err
	}
	if len(stations) == 0 {
		return outcomeSkipped, nil
	}
	home := stations[0]

	bp, ok := sector.LookupBlueprint(sector.RespawnBlueprint)
	if !ok {
		return outcomeIdle, fmt.Errorf("respawn blueprint %q is not registered", sector.RespawnBlueprint)
	}

	for r := 1; r <= respawnSearchRadius; r++ {
		for _, tile := range home.Position.Ring(r) {
			occupants, err := u.stores.Objects.FindAt(ctx, respawn.GameID, home.SectorID, tile)
			if err != nil {
				return outcomeIdle, err
			}
			if len(occupants) > 0 {
				continue
			}

			ship := bp.NewShip(u.newID(), respawn.GameID, home.SectorID, respawn.PlayerID, tile)
			ship.Name = utils.GenerateObjectName(bp.Key)
			if err := u.stores.Objects.Save(ctx, ship); err != nil {
				return outcomeIdle, err
			}
			respawn.Complete(ship.ID)
			if err := u.stores.Respawns.Save(ctx, respawn); err != nil {
				return outcomeIdle, err
			}
			return outcomeProcessed, u.stores.appendLog(ctx, combat.NewLogEntry(
				respawn.GameID, turn, combat.EventStatus, "", ship.ID,
				fmt.Sprintf("pilot of %s returns in %s", respawn.LostShipID, ship.Name),
				map[string]any{"playerId": respawn.PlayerID, "lostShipId": respawn.LostShipID, "stationId": home.ID},
			))
		}
	}
	return outcomeSkipped, nil
}
