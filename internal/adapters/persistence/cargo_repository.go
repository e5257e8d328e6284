package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// GormCargoStore implements cargo.Store using GORM. Quantities live in one row
// per object and resource; rows that reach zero are removed.
type GormCargoStore struct {
	db *gorm.DB
}

func NewGormCargoStore(db *gorm.DB) *GormCargoStore {
	return &GormCargoStore{db: db}
}

func (s *GormCargoStore) GetCargo(ctx context.Context, objectID string) (map[string]int, error) {
	var models []CargoItemModel
	if result := conn(ctx, s.db).Where("object_id = ? AND quantity > 0", objectID).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to load cargo: %w", result.Error)
	}

	hold := make(map[string]int, len(models))
	for _, m := range models {
		hold[m.Resource] = m.Quantity
	}
	return hold, nil
}

func (s *GormCargoStore) AddResource(ctx context.Context, objectID, resource string, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	result := conn(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "object_id"}, {Name: "resource"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("cargo_items.quantity + ?", quantity)}),
	}).Create(&CargoItemModel{ObjectID: objectID, Resource: resource, Quantity: quantity})
	if result.Error != nil {
		return fmt.Errorf("failed to add cargo: %w", result.Error)
	}
	return nil
}

func (s *GormCargoStore) RemoveResource(ctx context.Context, objectID, resource string, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}

	db := conn(ctx, s.db)
	var item CargoItemModel
	result := db.Where("object_id = ? AND resource = ?", objectID, resource).First(&item)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load cargo: %w", result.Error)
	}
	if item.Quantity < quantity {
		return shared.NewInsufficientCargoError(resource, quantity, item.Quantity)
	}

	if item.Quantity == quantity {
		result = db.Where("object_id = ? AND resource = ?", objectID, resource).Delete(&CargoItemModel{})
	} else {
		result = db.Model(&CargoItemModel{}).
			Where("object_id = ? AND resource = ?", objectID, resource).
			Update("quantity", item.Quantity-quantity)
	}
	if result.Error != nil {
		return fmt.Errorf("failed to remove cargo: %w", result.Error)
	}
	return nil
}

func (s *GormCargoStore) Clear(ctx context.Context, objectID string) error {
	if result := conn(ctx, s.db).Where("object_id = ?", objectID).Delete(&CargoItemModel{}); result.Error != nil {
		return fmt.Errorf("failed to clear cargo: %w", result.Error)
	}
	return nil
}
