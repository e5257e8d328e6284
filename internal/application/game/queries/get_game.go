package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
)

type GetGameQuery struct {
	GameID string
}

type GetGameResponse struct {
	Game GameDTO `json:"game"`
}

// GameDTO is the public turn clock of a match
type GameDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	CurrentTurn    int        `json:"currentTurn"`
	TurnDurationMs int64      `json:"turnDurationMs"`
	TurnDeadline   time.Time  `json:"turnDeadline"`
	Resolving      bool       `json:"resolving"`
	LastResolvedAt *time.Time `json:"lastResolvedAt,omitempty"`
}

func ToGameDTO(g *game.Game) GameDTO {
	return GameDTO{
		ID:             g.ID,
		Name:           g.Name,
		Status:         string(g.Status),
		CurrentTurn:    g.CurrentTurn,
		TurnDurationMs: g.TurnDuration.Milliseconds(),
		TurnDeadline:   g.TurnDeadline,
		Resolving:      g.Resolving,
		LastResolvedAt: g.LastResolvedAt,
	}
}

type GetGameHandler struct {
	games game.Repository
}

func NewGetGameHandler(games game.Repository) *GetGameHandler {
	return &GetGameHandler{games: games}
}

func (h *GetGameHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetGameQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetGameQuery")
	}

	g, err := h.games.FindByID(ctx, query.GameID)
	if err != nil {
		return nil, err
	}
	return &GetGameResponse{Game: ToGameDTO(g)}, nil
}
