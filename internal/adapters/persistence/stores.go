package persistence

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
)

// NewStores wires every GORM repository the turn engine needs against db
func NewStores(db *gorm.DB) turn.Stores {
	return turn.Stores{
		Games:      NewGormGameRepository(db),
		Objects:    NewGormObjectRepository(db),
		Movement:   NewGormMovementRepository(db),
		Queue:      NewGormQueueRepository(db),
		TurnOrders: NewGormTurnOrderRepository(db),
		Effects:    NewGormStatusEffectStore(db),
		Cooldowns:  NewGormCooldownStore(db),
		CombatLog:  NewGormCombatLogRepository(db),
		Respawns:   NewGormRespawnRepository(db),
		Cargo:      NewGormCargoStore(db),
		Harvesting: NewGormHarvestService(db),
		Tx:         NewGormTransactor(db),
	}
}
