package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/dtos"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/pkg/utils"
)

// QueueOrderCommand appends an intent to the end of a ship's queue
type QueueOrderCommand struct {
	GameID        string
	ShipID        string
	OrderType     string
	Payload       json.RawMessage
	NotBeforeTurn *int
}

type QueueOrderResponse struct {
	Order dtos.QueuedOrderDTO `json:"order"`
}

type QueueOrderHandler struct {
	games    game.Repository
	objects  sector.ObjectRepository
	queue    orders.QueueRepository
	registry *ability.Registry
	clock    shared.Clock
	newID    func() string
}

func NewQueueOrderHandler(
	games game.Repository,
	objects sector.ObjectRepository,
	queue orders.QueueRepository,
	registry *ability.Registry,
	clock shared.Clock,
) *QueueOrderHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if registry == nil {
		registry = ability.DefaultRegistry()
	}
	return &QueueOrderHandler{
		games:    games,
		objects:  objects,
		queue:    queue,
		registry: registry,
		clock:    clock,
		newID:    utils.NewID,
	}
}

func (h *QueueOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*QueueOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *QueueOrderCommand")
	}

	if _, err := openGame(ctx, h.games, cmd.GameID); err != nil {
		return nil, err
	}
	ship, err := commandableShip(ctx, h.objects, cmd.GameID, cmd.ShipID)
	if err != nil {
		return nil, err
	}

	payload, err := orders.DecodePayload(orders.OrderType(cmd.OrderType), cmd.Payload)
	if err != nil {
		return nil, err
	}
	if ap, ok := payload.(orders.AbilityPayload); ok {
		if err := checkAbility(h.registry, ship, ap.AbilityKey); err != nil {
			return nil, err
		}
		if err := checkTarget(h.registry, ap); err != nil {
			return nil, err
		}
	}

	order, err := orders.NewQueuedOrder(h.newID(), cmd.GameID, ship.ID, payload, cmd.NotBeforeTurn, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.queue.Enqueue(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to enqueue order: %w", err)
	}

	_, logger := logging.WithFields(ctx, logrus.Fields{
		"game_id":  cmd.GameID,
		"ship_id":  ship.ID,
		"order_id": order.ID,
	})
	logger.WithFields(logrus.Fields{
		"order_type": order.Type(),
		"sequence":   order.Sequence,
	}).Debug("order queued")

	return &QueueOrderResponse{Order: dtos.ToQueuedOrderDTO(order)}, nil
}

// checkAbility rejects abilities that are unknown or not fitted to the ship
func checkAbility(registry *ability.Registry, ship *sector.SectorObject, key string) error {
	if _, ok := registry.Lookup(key); !ok {
		return shared.NewValidationError("abilityKey", fmt.Sprintf("unknown ability %q", key))
	}
	if !ship.HasAbility(key) {
		return shared.NewValidationError("abilityKey", fmt.Sprintf("%s is not equipped with %s", ship.ID, key))
	}
	return nil
}
