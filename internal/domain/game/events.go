package game

import "time"

type EventType string

const (
	EventTurnResolving EventType = "turn-resolving"
	EventTurnResolved  EventType = "turn-resolved"
)

// TurnEvent is pushed to clients around a resolution. For turn-resolved,
// Turn is the newly opened turn.
type TurnEvent struct {
	Type       EventType `json:"type"`
	GameID     string    `json:"gameId"`
	Turn       int       `json:"turn"`
	OccurredAt time.Time `json:"occurredAt"`
}
