package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
)

// TurnResolver runs the pipeline for a game's open turn immediately
type TurnResolver interface {
	ResolveNow(ctx context.Context, gameID string) (*turn.TurnReport, error)
}

// ResolveTurnCommand forces resolution of the open turn regardless of its deadline
type ResolveTurnCommand struct {
	GameID string
}

type PhaseDTO struct {
	Phase      string `json:"phase"`
	Processed  int    `json:"processed"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	DurationMs int64  `json:"durationMs"`
}

type ResolveTurnResponse struct {
	GameID       string     `json:"gameId"`
	ResolvedTurn int        `json:"resolvedTurn"`
	Phases       []PhaseDTO `json:"phases"`
	DurationMs   int64      `json:"durationMs"`
}

type ResolveTurnHandler struct {
	resolver TurnResolver
}

func NewResolveTurnHandler(resolver TurnResolver) *ResolveTurnHandler {
	return &ResolveTurnHandler{resolver: resolver}
}

func (h *ResolveTurnHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ResolveTurnCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ResolveTurnCommand")
	}

	report, err := h.resolver.ResolveNow(ctx, cmd.GameID)
	if err != nil {
		return nil, err
	}
	return ToResolveTurnResponse(report), nil
}

func ToResolveTurnResponse(report *turn.TurnReport) *ResolveTurnResponse {
	resp := &ResolveTurnResponse{
		GameID:       report.GameID,
		ResolvedTurn: report.Turn,
		DurationMs:   report.Duration.Milliseconds(),
	}
	for _, p := range report.Phases {
		resp.Phases = append(resp.Phases, PhaseDTO{
			Phase:      p.Phase,
			Processed:  p.Processed,
			Skipped:    p.Skipped,
			Failed:     p.Failed,
			DurationMs: p.Duration.Milliseconds(),
		})
	}
	return resp
}
