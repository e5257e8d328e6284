package turn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/voidfleet-go/internal/adapters/metrics"
	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// SchedulerConfig tunes the scheduling loop
type SchedulerConfig struct {
	TickInterval       time.Duration
	MaxConcurrentGames int
}

// Scheduler resolves every game whose turn window has elapsed. Games run
// concurrently up to the configured bound; a single game is never resolved
// by two workers thanks to the claim on the game row.
type Scheduler struct {
	games     game.Repository
	resolver  *Resolver
	publisher game.EventPublisher
	clock     shared.Clock
	cfg       SchedulerConfig
}

// NewScheduler creates a scheduler. publisher may be nil.
func NewScheduler(games game.Repository, resolver *Resolver, publisher game.EventPublisher, clock shared.Clock, cfg SchedulerConfig) *Scheduler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.MaxConcurrentGames <= 0 {
		cfg.MaxConcurrentGames = 1
	}
	return &Scheduler{
		games:     games,
		resolver:  resolver,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
	}
}

// Run ticks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, logger := logging.WithFields(ctx, logrus.Fields{"component": "turn_scheduler"})
	logger.WithField("tick", s.cfg.TickInterval).Info("turn scheduler started")

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("turn scheduler stopped")
			return nil
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				logger.WithError(err).Warn("tick failed")
			}
		}
	}
}

// Tick resolves all due games once and returns how many turns advanced
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	due, err := s.games.ListDue(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list due games: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	results := make([]bool, len(due))
	var group errgroup.Group
	group.SetLimit(s.cfg.MaxConcurrentGames)
	for i, g := range due {
		i, g := i, g
		group.Go(func() error {
			if _, err := s.ResolveGame(ctx, g.ID); err != nil {
				var claimErr *shared.TurnClaimError
				entry := logging.LoggerFromContext(ctx).WithError(err).WithField("game_id", g.ID)
				if errors.As(err, &claimErr) {
					entry.Debug("turn already claimed")
				} else {
					entry.Warn("turn resolution failed")
				}
				return nil
			}
			results[i] = true
			return nil
		})
	}
	_ = group.Wait()

	advanced := 0
	for _, ok := range results {
		if ok {
			advanced++
		}
	}
	return advanced, nil
}

// ResolveGame claims the game's open turn, resolves it, and opens the next one.
// It returns *shared.TurnClaimError when another worker holds the claim.
func (s *Scheduler) ResolveGame(ctx context.Context, gameID string) (*TurnReport, error) {
	g, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != game.StatusActive {
		return nil, shared.NewDomainError(fmt.Sprintf("game %s is %s", g.ID, g.Status))
	}

	claimed, err := s.games.Claim(ctx, g.ID, g.CurrentTurn)
	if err != nil {
		return nil, fmt.Errorf("failed to claim game %s: %w", g.ID, err)
	}
	if !claimed {
		return nil, shared.NewTurnClaimError(g.ID, g.CurrentTurn)
	}

	start := time.Now()
	s.publish(game.EventTurnResolving, g.ID, g.CurrentTurn)

	report, err := s.resolver.ResolveTurn(ctx, g.ID, g.CurrentTurn)
	if err != nil {
		s.release(ctx, g.ID)
		metrics.RecordTurnResolution("failed", time.Since(start))
		return report, err
	}

	// reload so the claim flag and anything written during resolution is current
	g, err = s.games.FindByID(ctx, gameID)
	if err != nil {
		s.release(ctx, gameID)
		metrics.RecordTurnResolution("failed", time.Since(start))
		return report, err
	}
	g.AdvanceTurn(s.clock.Now())
	if err := s.games.Save(ctx, g); err != nil {
		s.release(ctx, g.ID)
		metrics.RecordTurnResolution("failed", time.Since(start))
		return report, fmt.Errorf("failed to advance game %s: %w", g.ID, err)
	}

	metrics.RecordTurnResolution("resolved", time.Since(start))
	s.publish(game.EventTurnResolved, g.ID, g.CurrentTurn)
	return report, nil
}

// ResolveNow forces resolution of the game's open turn regardless of its deadline
func (s *Scheduler) ResolveNow(ctx context.Context, gameID string) (*TurnReport, error) {
	return s.ResolveGame(ctx, gameID)
}

func (s *Scheduler) release(ctx context.Context, gameID string) {
	if err := s.games.Release(context.WithoutCancel(ctx), gameID); err != nil {
		logging.LoggerFromContext(ctx).WithError(err).WithField("game_id", gameID).Error("failed to release turn claim")
	}
}

func (s *Scheduler) publish(eventType game.EventType, gameID string, turn int) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(game.TurnEvent{
		Type:       eventType,
		GameID:     gameID,
		Turn:       turn,
		OccurredAt: s.clock.Now(),
	})
}
