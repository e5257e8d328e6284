package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
)

// GormRespawnRepository implements combat.RespawnRepository using GORM
type GormRespawnRepository struct {
	db *gorm.DB
}

func NewGormRespawnRepository(db *gorm.DB) *GormRespawnRepository {
	return &GormRespawnRepository{db: db}
}

func (r *GormRespawnRepository) Enqueue(ctx context.Context, respawn *combat.PilotRespawn) error {
	if result := conn(ctx, r.db).Create(respawnToModel(respawn)); result.Error != nil {
		return fmt.Errorf("failed to enqueue respawn: %w", result.Error)
	}
	return nil
}

// ListDue returns pending respawns whose turn has come, oldest first
func (r *GormRespawnRepository) ListDue(ctx context.Context, gameID string, turn int) ([]*combat.PilotRespawn, error) {
	var models []PilotRespawnModel
	result := conn(ctx, r.db).
		Where("game_id = ? AND status = ? AND respawn_turn <= ?", gameID, string(combat.RespawnPending), turn).
		Order("respawn_turn, id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list due respawns: %w", result.Error)
	}

	list := make([]*combat.PilotRespawn, 0, len(models))
	for _, m := range models {
		list = append(list, &combat.PilotRespawn{
			ID:          m.ID,
			GameID:      m.GameID,
			PlayerID:    m.PlayerID,
			LostShipID:  m.LostShipID,
			RespawnTurn: m.RespawnTurn,
			Status:      combat.RespawnStatus(m.Status),
			NewShipID:   m.NewShipID,
		})
	}
	return list, nil
}

func (r *GormRespawnRepository) Save(ctx context.Context, respawn *combat.PilotRespawn) error {
	if result := conn(ctx, r.db).Save(respawnToModel(respawn)); result.Error != nil {
		return fmt.Errorf("failed to save respawn: %w", result.Error)
	}
	return nil
}

func respawnToModel(p *combat.PilotRespawn) *PilotRespawnModel {
	return &PilotRespawnModel{
		ID:          p.ID,
		GameID:      p.GameID,
		PlayerID:    p.PlayerID,
		LostShipID:  p.LostShipID,
		RespawnTurn: p.RespawnTurn,
		Status:      string(p.Status),
		NewShipID:   p.NewShipID,
	}
}
