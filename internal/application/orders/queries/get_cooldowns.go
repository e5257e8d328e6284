package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/dtos"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
)

// GetCooldownsQuery reports every ability the ship has used, relative to the open turn
type GetCooldownsQuery struct {
	GameID string
	ShipID string
}

type GetCooldownsResponse struct {
	CurrentTurn int                `json:"currentTurn"`
	Cooldowns   []dtos.CooldownDTO `json:"cooldowns"`
}

type GetCooldownsHandler struct {
	games     game.Repository
	objects   sector.ObjectRepository
	cooldowns effects.CooldownStore
}

func NewGetCooldownsHandler(games game.Repository, objects sector.ObjectRepository, cooldowns effects.CooldownStore) *GetCooldownsHandler {
	return &GetCooldownsHandler{games: games, objects: objects, cooldowns: cooldowns}
}

func (h *GetCooldownsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetCooldownsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetCooldownsQuery")
	}

	g, err := h.games.FindByID(ctx, query.GameID)
	if err != nil {
		return nil, err
	}
	if err := belongsToGame(ctx, h.objects, query.GameID, query.ShipID); err != nil {
		return nil, err
	}

	list, err := h.cooldowns.ListByShip(ctx, query.ShipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cooldowns: %w", err)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AbilityKey < list[j].AbilityKey })

	out := make([]dtos.CooldownDTO, 0, len(list))
	for _, c := range list {
		out = append(out, dtos.ToCooldownDTO(c, g.CurrentTurn))
	}
	return &GetCooldownsResponse{CurrentTurn: g.CurrentTurn, Cooldowns: out}, nil
}
