package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
)

// GormStatusEffectStore implements effects.StatusEffectStore using GORM
type GormStatusEffectStore struct {
	db *gorm.DB
}

func NewGormStatusEffectStore(db *gorm.DB) *GormStatusEffectStore {
	return &GormStatusEffectStore{db: db}
}

// Apply inserts the effect, replacing an earlier application of the same key
// from the same source on the same ship
func (s *GormStatusEffectStore) Apply(ctx context.Context, effect *effects.ShipStatusEffect) error {
	data, err := marshalText(effect.Data)
	if err != nil {
		return err
	}

	db := conn(ctx, s.db)
	var existing ShipStatusEffectModel
	result := db.
		Where("ship_id = ? AND effect_key = ? AND source_object_id = ? AND source_ability = ?",
			effect.ShipID, effect.EffectKey, effect.SourceObjectID, effect.SourceAbility).
		Limit(1).
		Find(&existing)
	if result.Error != nil {
		return fmt.Errorf("failed to look up status effect: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		effect.ID = existing.ID
		update := db.Model(&ShipStatusEffectModel{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"magnitude":    effect.Magnitude,
			"data":         data,
			"applied_turn": effect.AppliedTurn,
			"expires_turn": effect.ExpiresTurn,
		})
		if update.Error != nil {
			return fmt.Errorf("failed to refresh status effect: %w", update.Error)
		}
		return nil
	}

	model := &ShipStatusEffectModel{
		ID:             effect.ID,
		GameID:         effect.GameID,
		ShipID:         effect.ShipID,
		EffectKey:      effect.EffectKey,
		Magnitude:      effect.Magnitude,
		Data:           data,
		SourceObjectID: effect.SourceObjectID,
		SourceAbility:  effect.SourceAbility,
		AppliedTurn:    effect.AppliedTurn,
		ExpiresTurn:    effect.ExpiresTurn,
	}
	if result := db.Create(model); result.Error != nil {
		return fmt.Errorf("failed to apply status effect: %w", result.Error)
	}
	return nil
}

func (s *GormStatusEffectStore) ListActive(ctx context.Context, shipID string, turn int) (effects.Set, error) {
	var models []ShipStatusEffectModel
	result := conn(ctx, s.db).
		Where("ship_id = ? AND expires_turn >= ?", shipID, turn).
		Order("applied_turn, id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list status effects: %w", result.Error)
	}

	set := make(effects.Set, 0, len(models))
	for _, m := range models {
		e := &effects.ShipStatusEffect{
			ID:             m.ID,
			GameID:         m.GameID,
			ShipID:         m.ShipID,
			EffectKey:      m.EffectKey,
			Magnitude:      m.Magnitude,
			SourceObjectID: m.SourceObjectID,
			SourceAbility:  m.SourceAbility,
			AppliedTurn:    m.AppliedTurn,
			ExpiresTurn:    m.ExpiresTurn,
		}
		if err := unmarshalText(m.Data, &e.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal effect data of %s: %w", m.ID, err)
		}
		set = append(set, e)
	}
	return set, nil
}

func (s *GormStatusEffectStore) ClearShip(ctx context.Context, shipID string) error {
	if result := conn(ctx, s.db).Where("ship_id = ?", shipID).Delete(&ShipStatusEffectModel{}); result.Error != nil {
		return fmt.Errorf("failed to clear status effects: %w", result.Error)
	}
	return nil
}

// PurgeExpired deletes effects that ended before beforeTurn and reports the ships they belonged to
func (s *GormStatusEffectStore) PurgeExpired(ctx context.Context, gameID string, beforeTurn int) ([]string, error) {
	db := conn(ctx, s.db)

	var expired []ShipStatusEffectModel
	if result := db.Select("ship_id").
		Where("game_id = ? AND expires_turn < ?", gameID, beforeTurn).
		Order("ship_id").
		Find(&expired); result.Error != nil {
		return nil, fmt.Errorf("failed to list expired status effects: %w", result.Error)
	}
	if len(expired) == 0 {
		return nil, nil
	}

	if result := db.Where("game_id = ? AND expires_turn < ?", gameID, beforeTurn).
		Delete(&ShipStatusEffectModel{}); result.Error != nil {
		return nil, fmt.Errorf("failed to purge status effects: %w", result.Error)
	}

	seen := make(map[string]bool, len(expired))
	ships := make([]string, 0, len(expired))
	for _, m := range expired {
		if !seen[m.ShipID] {
			seen[m.ShipID] = true
			ships = append(ships, m.ShipID)
		}
	}
	return ships, nil
}
