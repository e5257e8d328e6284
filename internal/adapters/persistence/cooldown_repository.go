package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
)

// GormCooldownStore implements effects.CooldownStore using GORM
type GormCooldownStore struct {
	db *gorm.DB
}

func NewGormCooldownStore(db *gorm.DB) *GormCooldownStore {
	return &GormCooldownStore{db: db}
}

// Get returns nil when the ability has never been used by the ship
func (s *GormCooldownStore) Get(ctx context.Context, shipID, abilityKey string) (*effects.AbilityCooldown, error) {
	var model AbilityCooldownModel
	result := conn(ctx, s.db).Where("ship_id = ? AND ability_key = ?", shipID, abilityKey).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find cooldown: %w", result.Error)
	}
	return &effects.AbilityCooldown{ShipID: model.ShipID, AbilityKey: model.AbilityKey, AvailableTurn: model.AvailableTurn}, nil
}

func (s *GormCooldownStore) Set(ctx context.Context, cooldown *effects.AbilityCooldown) error {
	model := &AbilityCooldownModel{
		ShipID:        cooldown.ShipID,
		AbilityKey:    cooldown.AbilityKey,
		AvailableTurn: cooldown.AvailableTurn,
	}
	result := conn(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ship_id"}, {Name: "ability_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"available_turn"}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to set cooldown: %w", result.Error)
	}
	return nil
}

func (s *GormCooldownStore) ListByShip(ctx context.Context, shipID string) ([]*effects.AbilityCooldown, error) {
	var models []AbilityCooldownModel
	if result := conn(ctx, s.db).Where("ship_id = ?", shipID).Order("ability_key").Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list cooldowns: %w", result.Error)
	}

	list := make([]*effects.AbilityCooldown, 0, len(models))
	for _, m := range models {
		list = append(list, &effects.AbilityCooldown{ShipID: m.ShipID, AbilityKey: m.AbilityKey, AvailableTurn: m.AvailableTurn})
	}
	return list, nil
}
