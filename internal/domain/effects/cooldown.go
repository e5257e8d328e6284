package effects

// AbilityCooldown gates reuse of one ability on one ship
type AbilityCooldown struct {
	ShipID        string
	AbilityKey    string
	AvailableTurn int
}

func NewCooldown(shipID, abilityKey string, usedTurn, cooldown int) *AbilityCooldown {
	return &AbilityCooldown{
		ShipID:        shipID,
		AbilityKey:    abilityKey,
		AvailableTurn: usedTurn + cooldown,
	}
}

// ReadyAt reports whether the ability may be used on turn
func (c *AbilityCooldown) ReadyAt(turn int) bool {
	return c == nil || c.AvailableTurn <= turn
}
