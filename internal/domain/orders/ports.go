package orders

import "context"

// QueueRepository persists per-ship intent backlogs
type QueueRepository interface {
	// Enqueue assigns the next sequence index for the ship and stores the entry
	Enqueue(ctx context.Context, order *QueuedOrder) error

	FindByID(ctx context.Context, id string) (*QueuedOrder, error)

	// NextEligible returns the oldest queued entry whose not-before turn has passed, or nil
	NextEligible(ctx context.Context, shipID string, turn int) (*QueuedOrder, error)

	// ListByShip returns the ship's entries in sequence order; closed entries only when includeClosed
	ListByShip(ctx context.Context, shipID string, includeClosed bool) ([]*QueuedOrder, error)

	// Update persists a status change
	Update(ctx context.Context, order *QueuedOrder) error

	// CancelAfter cancels every still-queued entry of the ship with a higher sequence
	CancelAfter(ctx context.Context, shipID string, sequence, turn int) (int, error)

	// CancelAll cancels every still-queued entry of the ship
	CancelAll(ctx context.Context, shipID string, turn int) (int, error)
}

// TurnOrderRepository persists the per-turn ability and combat orders
type TurnOrderRepository interface {
	// UpsertAbilityOrder replaces any existing order of the caster for the same turn
	UpsertAbilityOrder(ctx context.Context, order *AbilityOrder) error
	ListAbilityOrders(ctx context.Context, gameID string, turn int) ([]*AbilityOrder, error)

	// UpsertCombatOrder replaces any existing order of the attacker for the same turn
	UpsertCombatOrder(ctx context.Context, order *CombatOrder) error
	ListCombatOrders(ctx context.Context, gameID string, turn int) ([]*CombatOrder, error)

	// PurgeThrough deletes ability and combat orders of turns up to and including turn
	PurgeThrough(ctx context.Context, gameID string, turn int) error
}
