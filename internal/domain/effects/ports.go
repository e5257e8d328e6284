package effects

import "context"

// StatusEffectStore persists timed ship modifiers
type StatusEffectStore interface {
	// Apply stores the effect. Re-applying the same key from the same source to the
	// same ship refreshes magnitude and expiry instead of stacking.
	Apply(ctx context.Context, effect *ShipStatusEffect) error

	// ListActive returns effects on the ship with ExpiresTurn >= turn
	ListActive(ctx context.Context, shipID string, turn int) (Set, error)

	ClearShip(ctx context.Context, shipID string) error

	// PurgeExpired deletes effects with ExpiresTurn < beforeTurn and returns the affected ship ids
	PurgeExpired(ctx context.Context, gameID string, beforeTurn int) ([]string, error)
}

// CooldownStore persists per-ship ability cooldowns
type CooldownStore interface {
	// Get returns the cooldown or nil when the ability was never used
	Get(ctx context.Context, shipID, abilityKey string) (*AbilityCooldown, error)
	Set(ctx context.Context, cooldown *AbilityCooldown) error
	ListByShip(ctx context.Context, shipID string) ([]*AbilityCooldown, error)
}
