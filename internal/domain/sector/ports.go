package sector

import (
	"context"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// ObjectRepository persists sector objects.
// FindByID returns a *shared.NotFoundError when the object does not exist.
type ObjectRepository interface {
	FindByID(ctx context.Context, id string) (*SectorObject, error)
	ListByGame(ctx context.Context, gameID string) ([]*SectorObject, error)

	// ListShips returns the game's ships ordered by id
	ListShips(ctx context.Context, gameID string) ([]*SectorObject, error)

	// FindAt returns every object occupying the tile
	FindAt(ctx context.Context, gameID, sectorID string, pos shared.Position) ([]*SectorObject, error)

	FindOwnedByType(ctx context.Context, gameID, ownerID string, objectType ObjectType) ([]*SectorObject, error)

	// FindDecayedWrecks returns wrecks whose decay turn is at or before turn
	FindDecayedWrecks(ctx context.Context, gameID string, turn int) ([]*SectorObject, error)

	Save(ctx context.Context, obj *SectorObject) error
	Delete(ctx context.Context, id string) error
}
