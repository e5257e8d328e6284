package combat

import "context"

// LogRepository persists the append-only combat log
type LogRepository interface {
	Append(ctx context.Context, entry *LogEntry) error
	ListByTurn(ctx context.Context, gameID string, turn int) ([]*LogEntry, error)
}

// RespawnRepository persists pending pilot respawns
type RespawnRepository interface {
	Enqueue(ctx context.Context, respawn *PilotRespawn) error
	ListDue(ctx context.Context, gameID string, turn int) ([]*PilotRespawn, error)
	Save(ctx context.Context, respawn *PilotRespawn) error
}
