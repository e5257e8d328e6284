package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// GormObjectRepository implements sector.ObjectRepository using GORM
type GormObjectRepository struct {
	db *gorm.DB
}

// NewGormObjectRepository creates a new GORM sector object repository
func NewGormObjectRepository(db *gorm.DB) *GormObjectRepository {
	return &GormObjectRepository{db: db}
}

// FindByID retrieves an object by ID
func (r *GormObjectRepository) FindByID(ctx context.Context, id string) (*sector.SectorObject, error) {
	var model SectorObjectModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("sector object", id)
		}
		return nil, fmt.Errorf("failed to find sector object: %w", result.Error)
	}
	return r.modelToObject(&model)
}

// ListByGame retrieves every object of a game
func (r *GormObjectRepository) ListByGame(ctx context.Context, gameID string) ([]*sector.SectorObject, error) {
	return r.list(conn(ctx, r.db).Where("game_id = ?", gameID).Order("id"))
}

// ListShips retrieves the game's ships ordered by id
func (r *GormObjectRepository) ListShips(ctx context.Context, gameID string) ([]*sector.SectorObject, error) {
	return r.list(conn(ctx, r.db).
		Where("game_id = ? AND type = ?", gameID, string(sector.ObjectShip)).
		Order("id"))
}

// FindAt retrieves every object on a tile
func (r *GormObjectRepository) FindAt(ctx context.Context, gameID, sectorID string, pos shared.Position) ([]*sector.SectorObject, error) {
	return r.list(conn(ctx, r.db).
		Where("game_id = ? AND sector_id = ? AND x = ? AND y = ?", gameID, sectorID, pos.X, pos.Y).
		Order("id"))
}

// FindOwnedByType retrieves a player's objects of one type
func (r *GormObjectRepository) FindOwnedByType(ctx context.Context, gameID, ownerID string, objectType sector.ObjectType) ([]*sector.SectorObject, error) {
	return r.list(conn(ctx, r.db).
		Where("game_id = ? AND owner_id = ? AND type = ?", gameID, ownerID, string(objectType)).
		Order("id"))
}

// FindDecayedWrecks retrieves wrecks whose decay turn has been reached
func (r *GormObjectRepository) FindDecayedWrecks(ctx context.Context, gameID string, turn int) ([]*sector.SectorObject, error) {
	return r.list(conn(ctx, r.db).
		Where("game_id = ? AND type = ? AND wreck_decay_turn <= ?", gameID, string(sector.ObjectWreck), turn).
		Order("id"))
}

// Save upserts an object
func (r *GormObjectRepository) Save(ctx context.Context, obj *sector.SectorObject) error {
	model, err := r.objectToModel(obj)
	if err != nil {
		return fmt.Errorf("failed to convert sector object to model: %w", err)
	}
	if result := conn(ctx, r.db).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save sector object: %w", result.Error)
	}
	return nil
}

// Delete removes an object
func (r *GormObjectRepository) Delete(ctx context.Context, id string) error {
	if result := conn(ctx, r.db).Where("id = ?", id).Delete(&SectorObjectModel{}); result.Error != nil {
		return fmt.Errorf("failed to delete sector object: %w", result.Error)
	}
	return nil
}

func (r *GormObjectRepository) list(query *gorm.DB) ([]*sector.SectorObject, error) {
	var models []SectorObjectModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list sector objects: %w", result.Error)
	}

	objects := make([]*sector.SectorObject, 0, len(models))
	for i := range models {
		obj, err := r.modelToObject(&models[i])
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (r *GormObjectRepository) modelToObject(model *SectorObjectModel) (*sector.SectorObject, error) {
	obj := &sector.SectorObject{
		ID:        model.ID,
		GameID:    model.GameID,
		SectorID:  model.SectorID,
		OwnerID:   model.OwnerID,
		Type:      sector.ObjectType(model.Type),
		Blueprint: model.Blueprint,
		Name:      model.Name,
		Position:  shared.NewPosition(model.X, model.Y),
		Stats: sector.ShipStats{
			HP:            model.HP,
			MaxHP:         model.MaxHP,
			Energy:        model.Energy,
			MaxEnergy:     model.MaxEnergy,
			EnergyRegen:   model.EnergyRegen,
			MovementSpeed: model.MovementSpeed,
			ScanRange:     model.ScanRange,
			CargoCapacity: model.CargoCapacity,
			BaseEvasion:   model.BaseEvasion,
		},
		Projection: sector.Projection{Version: model.ProjectionVersion},
	}

	if model.HullSize != "" {
		hull, err := sector.ParseHullSize(model.HullSize)
		if err != nil {
			return nil, fmt.Errorf("invalid hull size for %s: %w", model.ID, err)
		}
		obj.Stats.Hull = hull
	}

	if err := unmarshalText(model.Abilities, &obj.Stats.Abilities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal abilities: %w", err)
	}
	if err := unmarshalText(model.Passives, &obj.Stats.Passives); err != nil {
		return nil, fmt.Errorf("failed to unmarshal passives: %w", err)
	}
	if err := unmarshalText(model.Consumed, &obj.ConsumedPassives); err != nil {
		return nil, fmt.Errorf("failed to unmarshal consumed passives: %w", err)
	}
	if err := unmarshalText(model.Projection, &obj.Projection.Values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal projection: %w", err)
	}

	if model.WreckDecayTurn != nil {
		obj.Wreck = &sector.WreckInfo{
			DecayTurn:       *model.WreckDecayTurn,
			DestroyedBy:     model.WreckDestroyedBy,
			SourceBlueprint: model.WreckSourceBlueprint,
			LootFraction:    model.WreckLootFraction,
		}
		if model.WreckDestroyedTurn != nil {
			obj.Wreck.DestroyedTurn = *model.WreckDestroyedTurn
		}
	}

	return obj, nil
}

func (r *GormObjectRepository) objectToModel(obj *sector.SectorObject) (*SectorObjectModel, error) {
	model := &SectorObjectModel{
		ID:                obj.ID,
		GameID:            obj.GameID,
		SectorID:          obj.SectorID,
		X:                 obj.Position.X,
		Y:                 obj.Position.Y,
		OwnerID:           obj.OwnerID,
		Type:              string(obj.Type),
		Blueprint:         obj.Blueprint,
		Name:              obj.Name,
		HP:                obj.Stats.HP,
		MaxHP:             obj.Stats.MaxHP,
		Energy:            obj.Stats.Energy,
		MaxEnergy:         obj.Stats.MaxEnergy,
		EnergyRegen:       obj.Stats.EnergyRegen,
		MovementSpeed:     obj.Stats.MovementSpeed,
		ScanRange:         obj.Stats.ScanRange,
		CargoCapacity:     obj.Stats.CargoCapacity,
		BaseEvasion:       obj.Stats.BaseEvasion,
		ProjectionVersion: obj.Projection.Version,
		UpdatedAt:         time.Now().UTC(),
	}
	if obj.Stats.Hull != 0 {
		model.HullSize = obj.Stats.Hull.String()
	}

	var err error
	if model.Abilities, err = marshalText(obj.Stats.Abilities); err != nil {
		return nil, err
	}
	if model.Passives, err = marshalText(obj.Stats.Passives); err != nil {
		return nil, err
	}
	if model.Consumed, err = marshalText(obj.ConsumedPassives); err != nil {
		return nil, err
	}
	if model.Projection, err = marshalText(obj.Projection.Values); err != nil {
		return nil, err
	}

	if w := obj.Wreck; w != nil {
		destroyed, decay := w.DestroyedTurn, w.DecayTurn
		model.WreckDestroyedTurn = &destroyed
		model.WreckDecayTurn = &decay
		model.WreckDestroyedBy = w.DestroyedBy
		model.WreckSourceBlueprint = w.SourceBlueprint
		model.WreckLootFraction = w.LootFraction
	}

	return model, nil
}

// marshalText encodes v as JSON text, storing empty collections as ""
func marshalText(v any) (string, error) {
	switch x := v.(type) {
	case []string:
		if len(x) == 0 {
			return "", nil
		}
	case map[string]float64:
		if len(x) == 0 {
			return "", nil
		}
	case map[string]any:
		if len(x) == 0 {
			return "", nil
		}
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return string(bytes), nil
}

func unmarshalText(text string, v any) error {
	if text == "" {
		return nil
	}
	return json.Unmarshal([]byte(text), v)
}
