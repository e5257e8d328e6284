package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/dtos"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// RemoveQueuedOrderCommand cancels one still-queued entry
type RemoveQueuedOrderCommand struct {
	GameID  string
	ShipID  string
	OrderID string
}

type RemoveQueuedOrderResponse struct {
	Order dtos.QueuedOrderDTO `json:"order"`
}

type RemoveQueuedOrderHandler struct {
	games game.Repository
	queue orders.QueueRepository
	tx    shared.Transactor
}

func NewRemoveQueuedOrderHandler(games game.Repository, queue orders.QueueRepository, tx shared.Transactor) *RemoveQueuedOrderHandler {
	return &RemoveQueuedOrderHandler{games: games, queue: queue, tx: tx}
}

func (h *RemoveQueuedOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RemoveQueuedOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RemoveQueuedOrderCommand")
	}

	g, err := openGame(ctx, h.games, cmd.GameID)
	if err != nil {
		return nil, err
	}

	var removed *orders.QueuedOrder
	err = h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := h.queue.FindByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.GameID != cmd.GameID || order.ShipID != cmd.ShipID {
			return shared.NewNotFoundError("queued order", cmd.OrderID)
		}
		if err := order.Cancel(g.CurrentTurn); err != nil {
			return err
		}
		if err := h.queue.Update(ctx, order); err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		removed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RemoveQueuedOrderResponse{Order: dtos.ToQueuedOrderDTO(removed)}, nil
}
