package turn

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/adapters/metrics"
	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/pkg/utils"
)

// Resolver runs the resolution pipeline of one game turn
type Resolver struct {
	materializer *OrderMaterializer
	movement     *MovementResolver
	abilities    *AbilityResolver
	combat       *CombatResolver
	upkeep       *Upkeep
}

// ResolverOptions carries the optional collaborators of a Resolver
type ResolverOptions struct {
	Registry *ability.Registry
	Rules    combat.Rules
	Roll     combat.RollSource
	Clock    shared.Clock
	NewID    func() string
}

func NewResolver(stores Stores, opts ResolverOptions) *Resolver {
	if opts.Registry == nil {
		opts.Registry = ability.DefaultRegistry()
	}
	if opts.Rules == (combat.Rules{}) {
		opts.Rules = combat.DefaultRules()
	}
	if opts.Roll == nil {
		opts.Roll = utils.Blake3Roll{}
	}
	if opts.Clock == nil {
		opts.Clock = shared.NewRealClock()
	}
	if opts.NewID == nil {
		opts.NewID = utils.NewID
	}

	return &Resolver{
		materializer: NewOrderMaterializer(stores, opts.Registry, opts.Clock, opts.NewID),
		movement:     NewMovementResolver(stores),
		abilities:    NewAbilityResolver(stores, opts.Registry, opts.NewID),
		combat:       NewCombatResolver(stores, opts.Registry, opts.Rules, opts.Roll, opts.NewID),
		upkeep:       NewUpkeep(stores, opts.NewID),
	}
}

// ResolveTurn runs every phase in order. An error means a phase could not
// even list its work; entity failures are only counted in the report.
func (r *Resolver) ResolveTurn(ctx context.Context, gameID string, turn int) (*TurnReport, error) {
	ctx, logger := logging.WithFields(ctx, logrus.Fields{
		"component": "turn_resolver",
		"game_id":   gameID,
		"turn":      turn,
	})
	report := &TurnReport{GameID: gameID, Turn: turn}
	start := time.Now()

	phases := []struct {
		name string
		run  func(context.Context, string, int) (PhaseReport, error)
	}{
		{PhaseMaterialize, r.materializer.Materialize},
		{PhaseMovement, r.movement.Resolve},
		{PhaseAbilityUtility, func(ctx context.Context, gameID string, turn int) (PhaseReport, error) {
			return r.abilities.ResolvePhase(ctx, gameID, turn, ability.KindUtility)
		}},
		{PhaseAbilityOffense, func(ctx context.Context, gameID string, turn int) (PhaseReport, error) {
			return r.abilities.ResolvePhase(ctx, gameID, turn, ability.KindOffense)
		}},
		{PhaseCombat, r.combat.Resolve},
		{PhaseUpkeep, r.upkeep.Run},
	}

	for _, phase := range phases {
		phaseCtx, phaseLogger := logging.WithFields(ctx, logrus.Fields{"phase": phase.name})
		phaseStart := time.Now()

		result, err := phase.run(phaseCtx, gameID, turn)
		result.Phase = phase.name
		result.Duration = time.Since(phaseStart)
		report.Phases = append(report.Phases, result)
		metrics.RecordPhase(phase.name, result.Processed, result.Skipped, result.Failed, result.Duration)

		if err != nil {
			phaseLogger.WithError(err).Error("phase aborted")
			return report, fmt.Errorf("%s phase of turn %d: %w", phase.name, turn, err)
		}
		phaseLogger.WithFields(logrus.Fields{
			"processed": result.Processed,
			"skipped":   result.Skipped,
			"failed":    result.Failed,
		}).Debug("phase complete")
	}

	report.Duration = time.Since(start)
	logger.WithFields(logrus.Fields{
		"failed":      report.Failed(),
		"duration_ms": report.Duration.Milliseconds(),
	}).Info("turn resolved")
	return report, nil
}
