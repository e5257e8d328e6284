package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/dtos"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// GetCombatLogQuery returns a resolved turn's narration in append order.
// EventType optionally narrows the result to one kind of entry.
type GetCombatLogQuery struct {
	GameID    string
	Turn      int
	EventType string
}

type GetCombatLogResponse struct {
	Entries []dtos.CombatLogEntryDTO `json:"entries"`
}

type GetCombatLogHandler struct {
	log combat.LogRepository
}

func NewGetCombatLogHandler(log combat.LogRepository) *GetCombatLogHandler {
	return &GetCombatLogHandler{log: log}
}

func (h *GetCombatLogHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetCombatLogQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetCombatLogQuery")
	}
	if query.Turn < 1 {
		return nil, shared.NewValidationError("turn", "must be at least 1")
	}

	entries, err := h.log.ListByTurn(ctx, query.GameID, query.Turn)
	if err != nil {
		return nil, fmt.Errorf("failed to read combat log: %w", err)
	}

	out := make([]dtos.CombatLogEntryDTO, 0, len(entries))
	for _, e := range entries {
		if query.EventType != "" && string(e.EventType) != query.EventType {
			continue
		}
		out = append(out, dtos.ToCombatLogEntryDTO(e))
	}
	return &GetCombatLogResponse{Entries: out}, nil
}
