package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// GormHarvestService implements harvesting.Service on the harvest_tasks table.
// Extraction yields are outside the turn engine; this only tracks which ships
// are busy harvesting.
type GormHarvestService struct {
	db *gorm.DB
}

func NewGormHarvestService(db *gorm.DB) *GormHarvestService {
	return &GormHarvestService{db: db}
}

func (s *GormHarvestService) HasActiveTask(ctx context.Context, shipID string) (bool, error) {
	var count int64
	result := conn(ctx, s.db).Model(&HarvestTaskModel{}).
		Where("ship_id = ? AND active = ?", shipID, true).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check harvest task: %w", result.Error)
	}
	return count > 0, nil
}

func (s *GormHarvestService) Start(ctx context.Context, shipID, nodeID string, turn int) error {
	active, err := s.HasActiveTask(ctx, shipID)
	if err != nil {
		return err
	}
	if active {
		return shared.NewOrderError(shipID, "already harvesting")
	}

	model := &HarvestTaskModel{ShipID: shipID, NodeID: nodeID, StartedTurn: turn, Active: true}
	if result := conn(ctx, s.db).Save(model); result.Error != nil {
		return fmt.Errorf("failed to start harvest: %w", result.Error)
	}
	return nil
}

func (s *GormHarvestService) Stop(ctx context.Context, shipID string, turn int) error {
	result := conn(ctx, s.db).Model(&HarvestTaskModel{}).
		Where("ship_id = ? AND active = ?", shipID, true).
		Updates(map[string]interface{}{"active": false, "stopped_turn": turn})
	if result.Error != nil {
		return fmt.Errorf("failed to stop harvest: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewOrderError(shipID, "not harvesting")
	}
	return nil
}
