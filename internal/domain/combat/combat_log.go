package combat

import "time"

// EventType classifies combat log rows
type EventType string

const (
	EventAttack        EventType = "attack"
	EventMiss          EventType = "miss"
	EventKill          EventType = "kill"
	EventStatus        EventType = "status"
	EventEffect        EventType = "effect"
	EventAbility       EventType = "ability"
	EventAbilityFailed EventType = "ability_failed"
)

// LogEntry is one player-visible line of turn narration. Entries of a turn
// are read back in the order they were appended.
type LogEntry struct {
	Sequence   int64
	GameID     string
	Turn       int
	EventType  EventType
	AttackerID string
	TargetID   string
	Summary    string
	Data       map[string]any
	CreatedAt  time.Time
}

func NewLogEntry(gameID string, turn int, eventType EventType, attackerID, targetID, summary string, data map[string]any) *LogEntry {
	return &LogEntry{
		GameID:     gameID,
		Turn:       turn,
		EventType:  eventType,
		AttackerID: attackerID,
		TargetID:   targetID,
		Summary:    summary,
		Data:       data,
	}
}
