package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/domain/movement"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

var inProgressStatuses = []string{string(movement.StatusActive), string(movement.StatusWarpPreparing)}

// GormMovementRepository implements movement.Repository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// FindInProgressByShip returns the ship's open order or nil
func (r *GormMovementRepository) FindInProgressByShip(ctx context.Context, shipID string) (*movement.Order, error) {
	var model MovementOrderModel
	result := conn(ctx, r.db).
		Where("ship_id = ? AND status IN ?", shipID, inProgressStatuses).
		Order("created_turn DESC, id DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find movement order: %w", result.Error)
	}
	return r.modelToOrder(&model)
}

func (r *GormMovementRepository) ListInProgress(ctx context.Context, gameID string) ([]*movement.Order, error) {
	var models []MovementOrderModel
	result := conn(ctx, r.db).
		Where("game_id = ? AND status IN ?", gameID, inProgressStatuses).
		Order("ship_id, id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list movement orders: %w", result.Error)
	}

	orders := make([]*movement.Order, 0, len(models))
	for i := range models {
		o, err := r.modelToOrder(&models[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormMovementRepository) FindByID(ctx context.Context, id string) (*movement.Order, error) {
	var model MovementOrderModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("movement order", id)
		}
		return nil, fmt.Errorf("failed to find movement order: %w", result.Error)
	}
	return r.modelToOrder(&model)
}

func (r *GormMovementRepository) Save(ctx context.Context, order *movement.Order) error {
	model, err := r.orderToModel(order)
	if err != nil {
		return err
	}
	if result := conn(ctx, r.db).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save movement order: %w", result.Error)
	}
	return nil
}

func (r *GormMovementRepository) AppendRecord(ctx context.Context, record movement.Record) error {
	model := &MovementRecordModel{
		GameID: record.GameID,
		ShipID: record.ShipID,
		Turn:   record.Turn,
		FromX:  record.From.X,
		FromY:  record.From.Y,
		ToX:    record.To.X,
		ToY:    record.To.Y,
		Speed:  record.Speed,
	}
	if result := conn(ctx, r.db).Create(model); result.Error != nil {
		return fmt.Errorf("failed to append movement record: %w", result.Error)
	}
	return nil
}

func (r *GormMovementRepository) ListRecords(ctx context.Context, shipID string) ([]movement.Record, error) {
	var models []MovementRecordModel
	if result := conn(ctx, r.db).Where("ship_id = ?", shipID).Order("id").Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list movement records: %w", result.Error)
	}

	records := make([]movement.Record, 0, len(models))
	for _, m := range models {
		records = append(records, movement.Record{
			GameID: m.GameID,
			ShipID: m.ShipID,
			Turn:   m.Turn,
			From:   shared.NewPosition(m.FromX, m.FromY),
			To:     shared.NewPosition(m.ToX, m.ToY),
			Speed:  m.Speed,
		})
	}
	return records, nil
}

func (r *GormMovementRepository) modelToOrder(model *MovementOrderModel) (*movement.Order, error) {
	var path []shared.Position
	if err := unmarshalText(model.Path, &path); err != nil {
		return nil, fmt.Errorf("failed to unmarshal path of %s: %w", model.ID, err)
	}

	order := &movement.Order{
		ID:          model.ID,
		GameID:      model.GameID,
		ShipID:      model.ShipID,
		Kind:        movement.Kind(model.Kind),
		Destination: shared.NewPosition(model.DestX, model.DestY),
		Path:        path,
		CurrentStep: model.CurrentStep,
		Speed:       model.Speed,
		Status:      movement.Status(model.Status),
		ETATurns:    model.ETATurns,
		CreatedTurn: model.CreatedTurn,
		UpdatedTurn: model.UpdatedTurn,
	}

	if model.Status == string(movement.StatusBlocked) && (model.BlockerObjectID != "" || model.BlockerX != nil) {
		order.Blocker = &movement.Blocker{
			ObjectID:   model.BlockerObjectID,
			ObjectType: model.BlockerObjectType,
			OwnerID:    model.BlockerOwnerID,
		}
		if model.BlockerX != nil && model.BlockerY != nil {
			order.Blocker.Tile = shared.NewPosition(*model.BlockerX, *model.BlockerY)
		}
	}
	return order, nil
}

func (r *GormMovementRepository) orderToModel(order *movement.Order) (*MovementOrderModel, error) {
	path, err := marshalText(order.Path)
	if err != nil {
		return nil, err
	}

	model := &MovementOrderModel{
		ID:          order.ID,
		GameID:      order.GameID,
		ShipID:      order.ShipID,
		Kind:        string(order.Kind),
		DestX:       order.Destination.X,
		DestY:       order.Destination.Y,
		Path:        path,
		CurrentStep: order.CurrentStep,
		Speed:       order.Speed,
		Status:      string(order.Status),
		ETATurns:    order.ETATurns,
		CreatedTurn: order.CreatedTurn,
		UpdatedTurn: order.UpdatedTurn,
	}
	if b := order.Blocker; b != nil {
		x, y := b.Tile.X, b.Tile.Y
		model.BlockerObjectID = b.ObjectID
		model.BlockerObjectType = b.ObjectType
		model.BlockerOwnerID = b.OwnerID
		model.BlockerX = &x
		model.BlockerY = &y
	}
	return model, nil
}
