package game

import (
	"context"
	"time"
)

// Repository persists games and arbitrates the resolution claim
type Repository interface {
	FindByID(ctx context.Context, id string) (*Game, error)
	Save(ctx context.Context, g *Game) error

	// ListDue returns active, unclaimed games whose deadline is at or before now
	ListDue(ctx context.Context, now time.Time) ([]*Game, error)

	// Claim marks the game as resolving if it is still on turn and unclaimed.
	// It returns false when another worker got there first.
	Claim(ctx context.Context, id string, turn int) (bool, error)

	// Release clears the claim without advancing the turn
	Release(ctx context.Context, id string) error
}

// EventPublisher fans turn events out to subscribers without blocking
type EventPublisher interface {
	Publish(event TurnEvent)
}
