package turn

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/movement"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// OrderMaterializer turns the head of each idle ship's intent queue into a
// concrete movement or ability order for the turn being resolved
type OrderMaterializer struct {
	stores   Stores
	registry *ability.Registry
	clock    shared.Clock
	newID    func() string
}

func NewOrderMaterializer(stores Stores, registry *ability.Registry, clock shared.Clock, newID func() string) *OrderMaterializer {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &OrderMaterializer{stores: stores, registry: registry, clock: clock, newID: newID}
}

// Materialize visits every ship of the game once. Each ship runs in its own
// transaction and a failing ship is logged and counted without affecting the others.
func (m *OrderMaterializer) Materialize(ctx context.Context, gameID string, turn int) (PhaseReport, error) {
	report := PhaseReport{Phase: PhaseMaterialize}
	logger := logging.LoggerFromContext(ctx)

	ships, err := m.stores.Objects.ListShips(ctx, gameID)
	if err != nil {
		return report, err
	}
	existing, err := m.stores.TurnOrders.ListAbilityOrders(ctx, gameID, turn)
	if err != nil {
		return report, err
	}
	hasAbilityOrder := make(map[string]bool, len(existing))
	for _, o := range existing {
		hasAbilityOrder[o.CasterID] = true
	}

	for _, ship := range ships {
		if hasAbilityOrder[ship.ID] {
			continue
		}

		var result outcome
		err := m.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			var err error
			result, err = m.materializeShip(txCtx, ship, turn)
			return err
		})
		if err != nil {
			report.Failed++
			logger.WithError(err).WithField("ship_id", ship.ID).Warn("materialization failed")
			continue
		}
		report.count(result)
	}
	return report, nil
}

func (m *OrderMaterializer) materializeShip(ctx context.Context, ship *sector.SectorObject, turn int) (outcome, error) {
	active, err := m.stores.Movement.FindInProgressByShip(ctx, ship.ID)
	if err != nil {
		return outcomeIdle, err
	}
	if active != nil {
		return outcomeIdle, nil
	}

	harvesting, err := m.stores.Harvesting.HasActiveTask(ctx, ship.ID)
	if err != nil {
		return outcomeIdle, err
	}
	if harvesting {
		return outcomeIdle, nil
	}

	queued, err := m.stores.Queue.NextEligible(ctx, ship.ID, turn)
	if err != nil || queued == nil {
		return outcomeIdle, err
	}

	logger := logging.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"ship_id":    ship.ID,
		"order_id":   queued.ID,
		"order_type": queued.Type(),
	})

	switch p := queued.Payload.(type) {
	case orders.MovePayload:
		return m.materializeMovement(ctx, ship, queued, movement.KindMove, p.Destination, turn)
	case orders.WarpPayload:
		return m.materializeMovement(ctx, ship, queued, movement.KindWarp, p.Destination, turn)
	case orders.HarvestStartPayload:
		return m.delegateHarvest(ctx, queued, turn, func() error {
			return m.stores.Harvesting.Start(ctx, ship.ID, p.NodeID, turn)
		}, logger)
	case orders.HarvestStopPayload:
		return m.delegateHarvest(ctx, queued, turn, func() error {
			return m.stores.Harvesting.Stop(ctx, ship.ID, turn)
		}, logger)
	case orders.AbilityPayload:
		return m.materializeAbility(ctx, ship, queued, p, turn, logger)
	}

	logger.Warn("queued order has no handler")
	return m.skip(ctx, queued, turn)
}

func (m *OrderMaterializer) materializeMovement(ctx context.Context, ship *sector.SectorObject, queued *orders.QueuedOrder, kind movement.Kind, dest shared.Position, turn int) (outcome, error) {
	path := shared.TracePath(ship.Position, dest)
	if len(path) < 2 || ship.Stats.MovementSpeed <= 0 {
		return m.skip(ctx, queued, turn)
	}

	order, err := movement.NewOrder(m.newID(), ship.GameID, ship.ID, kind, path, ship.Stats.MovementSpeed, turn)
	if err != nil {
		return outcomeIdle, err
	}
	if err := m.stores.Movement.Save(ctx, order); err != nil {
		return outcomeIdle, err
	}
	return m.consume(ctx, queued, turn)
}

func (m *OrderMaterializer) delegateHarvest(ctx context.Context, queued *orders.QueuedOrder, turn int, call func() error, logger *logrus.Entry) (outcome, error) {
	if err := call(); err != nil {
		if !isRejection(err) {
			return outcomeIdle, err
		}
		logger.WithError(err).Info("harvesting refused")
		return m.skip(ctx, queued, turn)
	}
	return m.consume(ctx, queued, turn)
}

func (m *OrderMaterializer) materializeAbility(ctx context.Context, ship *sector.SectorObject, queued *orders.QueuedOrder, p orders.AbilityPayload, turn int, logger *logrus.Entry) (outcome, error) {
	a, ok := m.registry.Lookup(p.AbilityKey)
	if !ok {
		logger.WithField("ability", p.AbilityKey).Info("unknown ability")
		return m.skip(ctx, queued, turn)
	}
	def := a.Definition()

	if p.TargetObjectID != "" {
		target, err := m.stores.findObject(ctx, p.TargetObjectID)
		if err != nil {
			return outcomeIdle, err
		}
		if target == nil || !target.IsTargetable() || target.SectorID != ship.SectorID {
			cancelled, err := m.stores.Queue.CancelAfter(ctx, ship.ID, queued.Sequence, turn)
			if err != nil {
				return outcomeIdle, err
			}
			logger.WithFields(logrus.Fields{
				"target_id": p.TargetObjectID,
				"cancelled": cancelled,
			}).Info("ability target vanished, dropping the rest of the queue")
			return m.skip(ctx, queued, turn)
		}
		if def.Range > 0 && ship.Position.DistanceTo(target.Position) > def.Range {
			// stays queued until the target comes into range
			return outcomeIdle, nil
		}
	}

	order := &orders.AbilityOrder{
		ID:             m.newID(),
		GameID:         ship.GameID,
		Turn:           turn,
		CasterID:       ship.ID,
		AbilityKey:     p.AbilityKey,
		TargetObjectID: p.TargetObjectID,
		TargetPosition: p.TargetPosition,
		Params:         p.Params,
		SubmittedAt:    m.clock.Now(),
	}
	if err := m.stores.TurnOrders.UpsertAbilityOrder(ctx, order); err != nil {
		return outcomeIdle, err
	}
	return m.consume(ctx, queued, turn)
}

func (m *OrderMaterializer) consume(ctx context.Context, queued *orders.QueuedOrder, turn int) (outcome, error) {
	if err := queued.Consume(turn); err != nil {
		return outcomeIdle, err
	}
	if err := m.stores.Queue.Update(ctx, queued); err != nil {
		return outcomeIdle, err
	}
	return outcomeProcessed, nil
}

func (m *OrderMaterializer) skip(ctx context.Context, queued *orders.QueuedOrder, turn int) (outcome, error) {
	if err := queued.Skip(turn); err != nil {
		return outcomeIdle, err
	}
	if err := m.stores.Queue.Update(ctx, queued); err != nil {
		return outcomeIdle, err
	}
	return outcomeSkipped, nil
}
