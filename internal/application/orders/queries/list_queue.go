package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/dtos"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// ListQueueQuery returns a ship's queue in sequence order
type ListQueueQuery struct {
	GameID        string
	ShipID        string
	IncludeClosed bool
}

type ListQueueResponse struct {
	Orders []dtos.QueuedOrderDTO `json:"orders"`
}

type ListQueueHandler struct {
	objects sector.ObjectRepository
	queue   orders.QueueRepository
}

func NewListQueueHandler(objects sector.ObjectRepository, queue orders.QueueRepository) *ListQueueHandler {
	return &ListQueueHandler{objects: objects, queue: queue}
}

func (h *ListQueueHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListQueueQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListQueueQuery")
	}

	if err := belongsToGame(ctx, h.objects, query.GameID, query.ShipID); err != nil {
		return nil, err
	}

	list, err := h.queue.ListByShip(ctx, query.ShipID, query.IncludeClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	return &ListQueueResponse{Orders: dtos.ToQueuedOrderDTOs(list)}, nil
}

// belongsToGame accepts ships and wrecks alike so history stays readable after destruction
func belongsToGame(ctx context.Context, objects sector.ObjectRepository, gameID, objectID string) error {
	obj, err := objects.FindByID(ctx, objectID)
	if err != nil {
		return err
	}
	if obj.GameID != gameID {
		return shared.NewNotFoundError("ship", objectID)
	}
	return nil
}
