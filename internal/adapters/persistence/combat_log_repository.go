package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
)

// GormCombatLogRepository implements combat.LogRepository using GORM.
// Rows are append-only; the autoincrement id preserves insertion order.
type GormCombatLogRepository struct {
	db *gorm.DB
}

func NewGormCombatLogRepository(db *gorm.DB) *GormCombatLogRepository {
	return &GormCombatLogRepository{db: db}
}

func (r *GormCombatLogRepository) Append(ctx context.Context, entry *combat.LogEntry) error {
	data, err := marshalText(entry.Data)
	if err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	model := &CombatLogModel{
		GameID:     entry.GameID,
		Turn:       entry.Turn,
		EventType:  string(entry.EventType),
		AttackerID: entry.AttackerID,
		TargetID:   entry.TargetID,
		Summary:    entry.Summary,
		Data:       data,
		CreatedAt:  entry.CreatedAt.UTC(),
	}
	if result := conn(ctx, r.db).Create(model); result.Error != nil {
		return fmt.Errorf("failed to append combat log entry: %w", result.Error)
	}
	entry.Sequence = model.ID
	return nil
}

// ListByTurn returns the turn's entries in the order they were appended
func (r *GormCombatLogRepository) ListByTurn(ctx context.Context, gameID string, turn int) ([]*combat.LogEntry, error) {
	var models []CombatLogModel
	result := conn(ctx, r.db).
		Where("game_id = ? AND turn = ?", gameID, turn).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list combat log: %w", result.Error)
	}

	entries := make([]*combat.LogEntry, 0, len(models))
	for _, m := range models {
		e := &combat.LogEntry{
			Sequence:   m.ID,
			GameID:     m.GameID,
			Turn:       m.Turn,
			EventType:  combat.EventType(m.EventType),
			AttackerID: m.AttackerID,
			TargetID:   m.TargetID,
			Summary:    m.Summary,
			CreatedAt:  m.CreatedAt,
		}
		if err := unmarshalText(m.Data, &e.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal combat log data: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
