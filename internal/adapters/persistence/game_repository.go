package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// GormGameRepository implements game.Repository using GORM
type GormGameRepository struct {
	db *gorm.DB
}

func NewGormGameRepository(db *gorm.DB) *GormGameRepository {
	return &GormGameRepository{db: db}
}

func (r *GormGameRepository) FindByID(ctx context.Context, id string) (*game.Game, error) {
	var model GameModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("game", id)
		}
		return nil, fmt.Errorf("failed to find game: %w", result.Error)
	}
	return modelToGame(&model), nil
}

func (r *GormGameRepository) Save(ctx context.Context, g *game.Game) error {
	model := &GameModel{
		ID:             g.ID,
		Name:           g.Name,
		Status:         string(g.Status),
		CurrentTurn:    g.CurrentTurn,
		TurnDurationMS: g.TurnDuration.Milliseconds(),
		TurnDeadline:   g.TurnDeadline.UTC(),
		Resolving:      g.Resolving,
	}
	if g.LastResolvedAt != nil {
		t := g.LastResolvedAt.UTC()
		model.LastResolvedAt = &t
	}
	if result := conn(ctx, r.db).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save game: %w", result.Error)
	}
	return nil
}

// ListDue returns active unclaimed games whose deadline has passed.
// The deadline comparison happens on decoded times so it does not depend on
// how the driver formats timestamps.
func (r *GormGameRepository) ListDue(ctx context.Context, now time.Time) ([]*game.Game, error) {
	var models []GameModel
	result := conn(ctx, r.db).
		Where("status = ? AND resolving = ?", string(game.StatusActive), false).
		Order("turn_deadline, id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list games: %w", result.Error)
	}

	due := make([]*game.Game, 0, len(models))
	for i := range models {
		if g := modelToGame(&models[i]); g.Due(now) {
			due = append(due, g)
		}
	}
	return due, nil
}

// Claim is a conditional update: only one worker can flip resolving for a given turn
func (r *GormGameRepository) Claim(ctx context.Context, id string, turn int) (bool, error) {
	result := conn(ctx, r.db).Model(&GameModel{}).
		Where("id = ? AND current_turn = ? AND resolving = ? AND status = ?", id, turn, false, string(game.StatusActive)).
		Update("resolving", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim game %s: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *GormGameRepository) Release(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Model(&GameModel{}).Where("id = ?", id).Update("resolving", false)
	if result.Error != nil {
		return fmt.Errorf("failed to release game %s: %w", id, result.Error)
	}
	return nil
}

func modelToGame(model *GameModel) *game.Game {
	return &game.Game{
		ID:             model.ID,
		Name:           model.Name,
		Status:         game.Status(model.Status),
		CurrentTurn:    model.CurrentTurn,
		TurnDuration:   time.Duration(model.TurnDurationMS) * time.Millisecond,
		TurnDeadline:   model.TurnDeadline,
		Resolving:      model.Resolving,
		LastResolvedAt: model.LastResolvedAt,
	}
}
