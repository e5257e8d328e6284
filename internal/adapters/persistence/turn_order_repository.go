package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// GormTurnOrderRepository implements orders.TurnOrderRepository using GORM
type GormTurnOrderRepository struct {
	db *gorm.DB
}

func NewGormTurnOrderRepository(db *gorm.DB) *GormTurnOrderRepository {
	return &GormTurnOrderRepository{db: db}
}

// UpsertAbilityOrder keeps one ability order per caster and turn; the latest wins
func (r *GormTurnOrderRepository) UpsertAbilityOrder(ctx context.Context, order *orders.AbilityOrder) error {
	params, err := marshalText(order.Params)
	if err != nil {
		return err
	}
	model := &AbilityOrderModel{
		ID:             order.ID,
		GameID:         order.GameID,
		Turn:           order.Turn,
		CasterID:       order.CasterID,
		AbilityKey:     order.AbilityKey,
		TargetObjectID: order.TargetObjectID,
		Params:         params,
		SubmittedAt:    order.SubmittedAt.UTC(),
	}
	if p := order.TargetPosition; p != nil {
		x, y := p.X, p.Y
		model.TargetX, model.TargetY = &x, &y
	}

	result := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game_id"}, {Name: "turn"}, {Name: "caster_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ability_key", "target_object_id", "target_x", "target_y", "params", "submitted_at",
		}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert ability order: %w", result.Error)
	}
	return nil
}

// ListAbilityOrders returns the turn's ability orders ordered by caster id
func (r *GormTurnOrderRepository) ListAbilityOrders(ctx context.Context, gameID string, turn int) ([]*orders.AbilityOrder, error) {
	var models []AbilityOrderModel
	result := conn(ctx, r.db).
		Where("game_id = ? AND turn = ?", gameID, turn).
		Order("caster_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list ability orders: %w", result.Error)
	}

	list := make([]*orders.AbilityOrder, 0, len(models))
	for _, m := range models {
		o := &orders.AbilityOrder{
			ID:             m.ID,
			GameID:         m.GameID,
			Turn:           m.Turn,
			CasterID:       m.CasterID,
			AbilityKey:     m.AbilityKey,
			TargetObjectID: m.TargetObjectID,
			SubmittedAt:    m.SubmittedAt,
		}
		if m.TargetX != nil && m.TargetY != nil {
			pos := shared.NewPosition(*m.TargetX, *m.TargetY)
			o.TargetPosition = &pos
		}
		if err := unmarshalText(m.Params, &o.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ability params of %s: %w", m.ID, err)
		}
		list = append(list, o)
	}
	return list, nil
}

// UpsertCombatOrder keeps one combat order per attacker and turn
func (r *GormTurnOrderRepository) UpsertCombatOrder(ctx context.Context, order *orders.CombatOrder) error {
	model := &CombatOrderModel{
		ID:         order.ID,
		GameID:     order.GameID,
		Turn:       order.Turn,
		AttackerID: order.AttackerID,
		TargetID:   order.TargetID,
		AbilityKey: order.AbilityKey,
	}
	result := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "turn"}, {Name: "attacker_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_id", "ability_key"}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert combat order: %w", result.Error)
	}
	return nil
}

// ListCombatOrders returns the turn's combat orders ordered by attacker id
func (r *GormTurnOrderRepository) ListCombatOrders(ctx context.Context, gameID string, turn int) ([]*orders.CombatOrder, error) {
	var models []CombatOrderModel
	result := conn(ctx, r.db).
		Where("game_id = ? AND turn = ?", gameID, turn).
		Order("attacker_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list combat orders: %w", result.Error)
	}

	list := make([]*orders.CombatOrder, 0, len(models))
	for _, m := range models {
		list = append(list, &orders.CombatOrder{
			ID:         m.ID,
			GameID:     m.GameID,
			Turn:       m.Turn,
			AttackerID: m.AttackerID,
			TargetID:   m.TargetID,
			AbilityKey: m.AbilityKey,
		})
	}
	return list, nil
}

func (r *GormTurnOrderRepository) PurgeThrough(ctx context.Context, gameID string, turn int) error {
	db := conn(ctx, r.db)
	if result := db.Where("game_id = ? AND turn <= ?", gameID, turn).Delete(&AbilityOrderModel{}); result.Error != nil {
		return fmt.Errorf("failed to purge ability orders: %w", result.Error)
	}
	if result := db.Where("game_id = ? AND turn <= ?", gameID, turn).Delete(&CombatOrderModel{}); result.Error != nil {
		return fmt.Errorf("failed to purge combat orders: %w", result.Error)
	}
	return nil
}
