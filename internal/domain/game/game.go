package game

import (
	"time"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// Game holds the turn clock of one match. CurrentTurn is the open turn:
// intents submitted now are resolved when its deadline passes.
type Game struct {
	ID             string
	Name           string
	Status         Status
	CurrentTurn    int
	TurnDuration   time.Duration
	TurnDeadline   time.Time
	Resolving      bool
	LastResolvedAt *time.Time
}

func NewGame(id, name string, turnDuration time.Duration, now time.Time) (*Game, error) {
	if turnDuration <= 0 {
		return nil, shared.NewValidationError("turnDuration", "must be positive")
	}
	return &Game{
		ID:           id,
		Name:         name,
		Status:       StatusActive,
		CurrentTurn:  1,
		TurnDuration: turnDuration,
		TurnDeadline: now.Add(turnDuration),
	}, nil
}

// Due reports whether the game's open turn should be resolved at now
func (g *Game) Due(now time.Time) bool {
	return g.Status == StatusActive && !g.Resolving && !now.Before(g.TurnDeadline)
}

// AdvanceTurn opens the next turn window after a successful resolution
func (g *Game) AdvanceTurn(now time.Time) {
	g.CurrentTurn++
	g.TurnDeadline = now.Add(g.TurnDuration)
	g.Resolving = false
	g.LastResolvedAt = &now
}
