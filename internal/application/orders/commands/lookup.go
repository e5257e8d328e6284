package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// openGame loads a game that still accepts orders
func openGame(ctx context.Context, games game.Repository, gameID string) (*game.Game, error) {
	g, err := games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status == game.StatusFinished {
		return nil, shared.NewDomainError(fmt.Sprintf("game %s is finished", gameID))
	}
	return g, nil
}

// commandableShip loads an intact ship belonging to the game
func commandableShip(ctx context.Context, objects sector.ObjectRepository, gameID, shipID string) (*sector.SectorObject, error) {
	if shipID == "" {
		return nil, shared.NewValidationError("shipId", "required")
	}
	obj, err := objects.FindByID(ctx, shipID)
	if err != nil {
		return nil, err
	}
	if obj.GameID != gameID {
		return nil, shared.NewNotFoundError("ship", shipID)
	}
	if !obj.IsShip() {
		return nil, shared.NewDomainError(fmt.Sprintf("%s is a %s and cannot take orders", shipID, obj.Type))
	}
	return obj, nil
}
