package turn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/voidfleet-go/internal/adapters/metrics"
	"github.com/andrescamacho/voidfleet-go/internal/domain/cargo"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/harvesting"
	"github.com/andrescamacho/voidfleet-go/internal/domain/movement"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// Stores bundles the ports the engine reads and writes. Every repository must
// join the transaction that Tx places in the context.
type Stores struct {
	Games      game.Repository
	Objects    sector.ObjectRepository
	Movement   movement.Repository
	Queue      orders.QueueRepository
	TurnOrders orders.TurnOrderRepository
	Effects    effects.StatusEffectStore
	Cooldowns  effects.CooldownStore
	CombatLog  combat.LogRepository
	Respawns   combat.RespawnRepository
	Cargo      cargo.Store
	Harvesting harvesting.Service
	Tx         shared.Transactor
}

// Phase names, also used as metric labels
const (
	PhaseMaterialize    = "materialize"
	PhaseMovement       = "movement"
	PhaseAbilityUtility = "ability_utility"
	PhaseAbilityOffense = "ability_offense"
	PhaseCombat         = "combat"
	PhaseUpkeep         = "upkeep"
)

// PhaseReport counts what a phase did with the entities it looked at.
// Failed entities were rolled back individually and did not stop the phase.
type PhaseReport struct {
	Phase     string
	Processed int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

// TurnReport summarizes one full pipeline run
type TurnReport struct {
	GameID   string
	Turn     int
	Phases   []PhaseReport
	Duration time.Duration
}

// Failed sums entity failures over all phases
func (r *TurnReport) Failed() int {
	total := 0
	for _, p := range r.Phases {
		total += p.Failed
	}
	return total
}

func (r *TurnReport) Phase(name string) (PhaseReport, bool) {
	for _, p := range r.Phases {
		if p.Phase == name {
			return p, true
		}
	}
	return PhaseReport{}, false
}

// outcome is what happened to a single entity inside a phase
type outcome int

const (
	outcomeIdle outcome = iota
	outcomeProcessed
	outcomeSkipped
)

func (p *PhaseReport) count(o outcome) {
	switch o {
	case outcomeProcessed:
		p.Processed++
	case outcomeSkipped:
		p.Skipped++
	}
}

// findObject returns nil without error when the object is gone
func (s Stores) findObject(ctx context.Context, id string) (*sector.SectorObject, error) {
	obj, err := s.Objects.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// applyEffect stores the effect and refreshes the ship's projection in the same transaction
func (s Stores) applyEffect(ctx context.Context, ship *sector.SectorObject, effect *effects.ShipStatusEffect) error {
	if err := s.Effects.Apply(ctx, effect); err != nil {
		return err
	}
	return s.reproject(ctx, ship, effect.AppliedTurn)
}

// reproject mirrors the ship's effects active at turn onto its projection
func (s Stores) reproject(ctx context.Context, ship *sector.SectorObject, turn int) error {
	set, err := s.Effects.ListActive(ctx, ship.ID, turn)
	if err != nil {
		return err
	}
	if !ship.Projection.Replace(set.Project()) {
		return nil
	}
	if err := s.Objects.Save(ctx, ship); err != nil {
		return fmt.Errorf("failed to save projection of %s: %w", ship.ID, err)
	}
	return nil
}

func (s Stores) appendLog(ctx context.Context, entry *combat.LogEntry) error {
	if err := s.CombatLog.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append %s log entry: %w", entry.EventType, err)
	}
	damage, _ := entry.Data["damage"].(int)
	metrics.RecordCombatEvent(string(entry.EventType), damage)
	return nil
}

// isRejection reports whether err is a domain refusal rather than an infrastructure failure
func isRejection(err error) bool {
	var orderErr *shared.OrderError
	var domainErr *shared.DomainError
	return errors.As(err, &orderErr) || errors.As(err, &domainErr) || shared.IsValidation(err)
}
