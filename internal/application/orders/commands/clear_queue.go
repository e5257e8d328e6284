package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// ClearQueueCommand cancels every still-queued entry of a ship.
// Orders already materialized into movement or ability orders are untouched.
type ClearQueueCommand struct {
	GameID string
	ShipID string
}

type ClearQueueResponse struct {
	Cancelled int `json:"cancelled"`
}

type ClearQueueHandler struct {
	games   game.Repository
	objects sector.ObjectRepository
	queue   orders.QueueRepository
}

func NewClearQueueHandler(games game.Repository, objects sector.ObjectRepository, queue orders.QueueRepository) *ClearQueueHandler {
	return &ClearQueueHandler{games: games, objects: objects, queue: queue}
}

func (h *ClearQueueHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ClearQueueCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ClearQueueCommand")
	}

	g, err := openGame(ctx, h.games, cmd.GameID)
	if err != nil {
		return nil, err
	}
	// a wreck's leftover queue may still be cleared
	obj, err := h.objects.FindByID(ctx, cmd.ShipID)
	if err != nil {
		return nil, err
	}
	if obj.GameID != cmd.GameID {
		return nil, shared.NewNotFoundError("ship", cmd.ShipID)
	}

	n, err := h.queue.CancelAll(ctx, obj.ID, g.CurrentTurn)
	if err != nil {
		return nil, fmt.Errorf("failed to clear queue: %w", err)
	}
	return &ClearQueueResponse{Cancelled: n}, nil
}
