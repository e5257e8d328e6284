package turn

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/domain/movement"
)

// MovementResolver advances every in-progress movement order of a game
type MovementResolver struct {
	stores Stores
}

func NewMovementResolver(stores Stores) *MovementResolver {
	return &MovementResolver{stores: stores}
}

// Resolve processes orders in ship id order so collisions resolve deterministically:
// a ship that already moved this turn blocks the ones processed after it.
func (r *MovementResolver) Resolve(ctx context.Context, gameID string, turn int) (PhaseReport, error) {
	report := PhaseReport{Phase: PhaseMovement}
	logger := logging.LoggerFromContext(ctx)

	inProgress, err := r.stores.Movement.ListInProgress(ctx, gameID)
	if err != nil {
		return report, err
	}

	for _, order := range inProgress {
		var result outcome
		err := r.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			var err error
			result, err = r.resolveOrder(txCtx, order, turn)
			return err
		})
		if err != nil {
			report.Failed++
			logger.WithError(err).WithFields(logrus.Fields{
				"ship_id":  order.ShipID,
				"order_id": order.ID,
			}).Warn("movement failed")
			continue
		}
		report.count(result)
	}
	return report, nil
}

func (r *MovementResolver) resolveOrder(ctx context.Context, order *movement.Order, turn int) (outcome, error) {
	logger := logging.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"ship_id":  order.ShipID,
		"order_id": order.ID,
	})

	ship, err := r.stores.findObject(ctx, order.ShipID)
	if err != nil {
		return outcomeIdle, err
	}
	if ship == nil || !ship.IsShip() {
		order.Block(nil, turn)
		return outcomeSkipped, r.stores.Movement.Save(ctx, order)
	}

	if order.Status == movement.StatusWarpPreparing {
		if err := order.EngageWarp(turn); err != nil {
			return outcomeIdle, err
		}
		logger.Debug("warp drive spooled")
		return outcomeProcessed, r.stores.Movement.Save(ctx, order)
	}

	active, err := r.stores.Effects.ListActive(ctx, ship.ID, turn)
	if err != nil {
		return outcomeIdle, err
	}
	if active.Immobilized() {
		logger.Debug("ship immobilized")
		return outcomeSkipped, nil
	}

	if order.RemainingSteps() == 0 {
		order.Complete(turn)
		return outcomeProcessed, r.stores.Movement.Save(ctx, order)
	}

	speed := active.EffectiveSpeed(order.Speed)
	steps := order.StepsToTake(speed)
	if steps <= 0 {
		// speed debuffed to zero: the order waits with its path intact
		return outcomeSkipped, nil
	}

	target := order.TargetTile(steps)
	occupants, err := r.stores.Objects.FindAt(ctx, ship.GameID, ship.SectorID, target)
	if err != nil {
		return outcomeIdle, err
	}
	for _, o := range occupants {
		if o.ID == ship.ID {
			continue
		}
		order.Block(&movement.Blocker{
			ObjectID:   o.ID,
			ObjectType: string(o.Type),
			OwnerID:    o.OwnerID,
			Tile:       target,
		}, turn)
		logger.WithFields(logrus.Fields{
			"blocker_id": o.ID,
			"tile":       target.String(),
		}).Info("movement blocked")
		return outcomeProcessed, r.stores.Movement.Save(ctx, order)
	}

	from, to, err := order.Advance(steps, speed, turn)
	if err != nil {
		return outcomeIdle, err
	}
	ship.Position = to
	if err := r.stores.Objects.Save(ctx, ship); err != nil {
		return outcomeIdle, err
	}
	if err := r.stores.Movement.Save(ctx, order); err != nil {
		return outcomeIdle, err
	}
	return outcomeProcessed, r.stores.Movement.AppendRecord(ctx, movement.Record{
		GameID: ship.GameID,
		ShipID: ship.ID,
		Turn:   turn,
		From:   from,
		To:     to,
		Speed:  speed,
	})
}
