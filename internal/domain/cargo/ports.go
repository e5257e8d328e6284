package cargo

import "context"

// Store is the inventory primitive the engine relies on. Quantities are per
// object and resource; removing more than is held fails with
// *shared.InsufficientCargoError.
type Store interface {
	GetCargo(ctx context.Context, objectID string) (map[string]int, error)
	AddResource(ctx context.Context, objectID, resource string, quantity int) error
	RemoveResource(ctx context.Context, objectID, resource string, quantity int) error
	Clear(ctx context.Context, objectID string) error
}
