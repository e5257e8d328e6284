package movement

import "context"

// Repository persists movement orders and the movement history
type Repository interface {
	// FindInProgressByShip returns the ship's active or warp_preparing order, or nil
	FindInProgressByShip(ctx context.Context, shipID string) (*Order, error)

	// ListInProgress returns every active or warp_preparing order of a game ordered by ship id
	ListInProgress(ctx context.Context, gameID string) ([]*Order, error)

	FindByID(ctx context.Context, id string) (*Order, error)
	Save(ctx context.Context, order *Order) error

	AppendRecord(ctx context.Context, record Record) error
	ListRecords(ctx context.Context, shipID string) ([]Record, error)
}
