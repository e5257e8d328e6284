package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// GormQueueRepository implements orders.QueueRepository using GORM
type GormQueueRepository struct {
	db *gorm.DB
}

func NewGormQueueRepository(db *gorm.DB) *GormQueueRepository {
	return &GormQueueRepository{db: db}
}

// Enqueue assigns the ship's next sequence index and inserts the entry
func (r *GormQueueRepository) Enqueue(ctx context.Context, order *orders.QueuedOrder) error {
	db := conn(ctx, r.db)

	var last struct{ Max *int }
	if result := db.Model(&QueuedOrderModel{}).
		Select("MAX(sequence) AS max").
		Where("ship_id = ?", order.ShipID).
		Scan(&last); result.Error != nil {
		return fmt.Errorf("failed to read queue tail: %w", result.Error)
	}
	order.Sequence = 1
	if last.Max != nil {
		order.Sequence = *last.Max + 1
	}

	model, err := r.orderToModel(order)
	if err != nil {
		return err
	}
	if result := db.Create(model); result.Error != nil {
		return fmt.Errorf("failed to enqueue order: %w", result.Error)
	}
	return nil
}

func (r *GormQueueRepository) FindByID(ctx context.Context, id string) (*orders.QueuedOrder, error) {
	var model QueuedOrderModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("queued order", id)
		}
		return nil, fmt.Errorf("failed to find queued order: %w", result.Error)
	}
	return r.modelToOrder(&model)
}

// NextEligible returns the ship's lowest-sequence queued entry that may run at turn
func (r *GormQueueRepository) NextEligible(ctx context.Context, shipID string, turn int) (*orders.QueuedOrder, error) {
	var model QueuedOrderModel
	result := conn(ctx, r.db).
		Where("ship_id = ? AND status = ?", shipID, string(orders.QueueQueued)).
		Where("not_before_turn IS NULL OR not_before_turn <= ?", turn).
		Order("sequence").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find next queued order: %w", result.Error)
	}
	return r.modelToOrder(&model)
}

func (r *GormQueueRepository) ListByShip(ctx context.Context, shipID string, includeClosed bool) ([]*orders.QueuedOrder, error) {
	query := conn(ctx, r.db).Where("ship_id = ?", shipID)
	if !includeClosed {
		query = query.Where("status = ?", string(orders.QueueQueued))
	}

	var models []QueuedOrderModel
	if result := query.Order("sequence").Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list queued orders: %w", result.Error)
	}

	list := make([]*orders.QueuedOrder, 0, len(models))
	for i := range models {
		o, err := r.modelToOrder(&models[i])
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, nil
}

func (r *GormQueueRepository) Update(ctx context.Context, order *orders.QueuedOrder) error {
	result := conn(ctx, r.db).Model(&QueuedOrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":        string(order.Status),
			"resolved_turn": order.ResolvedTurn,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update queued order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("queued order", order.ID)
	}
	return nil
}

func (r *GormQueueRepository) CancelAfter(ctx context.Context, shipID string, sequence, turn int) (int, error) {
	result := conn(ctx, r.db).Model(&QueuedOrderModel{}).
		Where("ship_id = ? AND status = ? AND sequence > ?", shipID, string(orders.QueueQueued), sequence).
		Updates(map[string]interface{}{
			"status":        string(orders.QueueCancelled),
			"resolved_turn": turn,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cancel queued orders: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

func (r *GormQueueRepository) CancelAll(ctx context.Context, shipID string, turn int) (int, error) {
	return r.CancelAfter(ctx, shipID, 0, turn)
}

func (r *GormQueueRepository) modelToOrder(model *QueuedOrderModel) (*orders.QueuedOrder, error) {
	payload, err := orders.DecodePayload(orders.OrderType(model.OrderType), []byte(model.Payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload of %s: %w", model.ID, err)
	}
	return &orders.QueuedOrder{
		ID:            model.ID,
		GameID:        model.GameID,
		ShipID:        model.ShipID,
		Sequence:      model.Sequence,
		Payload:       payload,
		NotBeforeTurn: model.NotBeforeTurn,
		Status:        orders.QueueStatus(model.Status),
		CreatedAt:     model.CreatedAt,
		ResolvedTurn:  model.ResolvedTurn,
	}, nil
}

func (r *GormQueueRepository) orderToModel(order *orders.QueuedOrder) (*QueuedOrderModel, error) {
	payload, err := orders.EncodePayload(order.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return &QueuedOrderModel{
		ID:            order.ID,
		GameID:        order.GameID,
		ShipID:        order.ShipID,
		Sequence:      order.Sequence,
		OrderType:     string(order.Type()),
		Payload:       string(payload),
		NotBeforeTurn: order.NotBeforeTurn,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt.UTC(),
		ResolvedTurn:  order.ResolvedTurn,
	}, nil
}
