package turn_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/test/helpers"
)

type schedulerHarness struct {
	*harness
	clock     *shared.MockClock
	bus       *turn.TurnEventBus
	scheduler *turn.Scheduler
}

func newSchedulerHarness(t *testing.T, maxConcurrent int) *schedulerHarness {
	h := newHarness(t)
	clock := shared.NewMockClock(epoch)
	bus := turn.NewTurnEventBus()
	return &schedulerHarness{
		harness: h,
		clock:   clock,
		bus:     bus,
		scheduler: turn.NewScheduler(h.stores.Games, h.resolver, bus, clock, turn.SchedulerConfig{
			MaxConcurrentGames: maxConcurrent,
		}),
	}
}

func (s *schedulerHarness) game(id string) *game.Game {
	s.t.Helper()
	g, err := s.stores.Games.FindByID(s.ctx, id)
	require.NoError(s.t, err)
	return g
}

func TestScheduler_TickResolvesOnlyDueGames(t *testing.T) {
	s := newSchedulerHarness(t, 1)
	s.fx.CreateGame(testGame, 1, time.Minute, epoch)

	advanced, err := s.scheduler.Tick(s.ctx)
	require.NoError(t, err)
	assert.Zero(t, advanced)
	assert.Equal(t, 1, s.game(testGame).CurrentTurn)

	s.clock.Advance(time.Minute)
	advanced, err = s.scheduler.Tick(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)

	g := s.game(testGame)
	assert.Equal(t, 2, g.CurrentTurn)
	assert.False(t, g.Resolving)
	assert.WithinDuration(t, epoch.Add(2*time.Minute), g.TurnDeadline, time.Second)
	require.NotNil(t, g.LastResolvedAt)

	advanced, err = s.scheduler.Tick(s.ctx)
	require.NoError(t, err)
	assert.Zero(t, advanced, "the next window has not elapsed yet")
}

func TestScheduler_ResolvesTheOpenTurn(t *testing.T) {
	s := newSchedulerHarness(t, 1)
	s.fx.CreateGame(testGame, 1, time.Minute, epoch)
	s.ship("shuttle-1", "shuttle", "player-1", 0, 0)
	s.move("shuttle-1", 5, 0)

	report, err := s.scheduler.ResolveNow(s.ctx, testGame)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Turn)
	assert.Equal(t, shared.NewPosition(2, 0), s.fx.Object("shuttle-1").Position)
	assert.Equal(t, 2, s.game(testGame).CurrentTurn)
}

func TestScheduler_PublishesTurnEvents(t *testing.T) {
	s := newSchedulerHarness(t, 1)
	s.fx.CreateGame(testGame, 1, time.Minute, epoch)
	events := s.bus.Subscribe(testGame)
	defer s.bus.Unsubscribe(testGame, events)

	s.clock.Advance(time.Minute)
	_, err := s.scheduler.Tick(s.ctx)
	require.NoError(t, err)

	require.Len(t, events, 2)
	resolving := <-events
	resolved := <-events
	assert.Equal(t, game.EventTurnResolving, resolving.Type)
	assert.Equal(t, 1, resolving.Turn)
	assert.Equal(t, game.EventTurnResolved, resolved.Type)
	assert.Equal(t, 2, resolved.Turn)
	assert.Equal(t, testGame, resolved.GameID)
}

func TestScheduler_ClaimedGameIsNotResolvedTwice(t *testing.T) {
	s := newSchedulerHarness(t, 1)
	s.fx.CreateGame(testGame, 1, time.Minute, epoch)

	claimed, err := s.stores.Games.Claim(s.ctx, testGame, 1)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = s.scheduler.ResolveNow(s.ctx, testGame)
	var claimErr *shared.TurnClaimError
	require.ErrorAs(t, err, &claimErr)
	assert.Equal(t, 1, claimErr.Turn)

	s.clock.Advance(time.Hour)
	advanced, err := s.scheduler.Tick(s.ctx)
	require.NoError(t, err)
	assert.Zero(t, advanced)
	assert.Equal(t, 1, s.game(testGame).CurrentTurn)
}

func TestScheduler_InactiveGameIsRefused(t *testing.T) {
	s := newSchedulerHarness(t, 1)
	g := s.fx.CreateGame(testGame, 1, time.Minute, epoch)
	g.Status = game.StatusPaused
	require.NoError(t, s.stores.Games.Save(s.ctx, g))

	_, err := s.scheduler.ResolveNow(s.ctx, testGame)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)

	s.clock.Advance(time.Hour)
	advanced, err := s.scheduler.Tick(s.ctx)
	require.NoError(t, err)
	assert.Zero(t, advanced)
}

// brokenObjects fails every listing so a phase cannot start
type brokenObjects struct {
	sector.ObjectRepository
}

func (brokenObjects) ListShips(context.Context, string) ([]*sector.SectorObject, error) {
	return nil, errors.New("connection reset")
}

func TestScheduler_FailedResolutionReleasesClaim(t *testing.T) {
	s := newSchedulerHarness(t, 1)
	s.fx.CreateGame(testGame, 1, time.Minute, epoch)

	stores := s.stores
	stores.Objects = brokenObjects{ObjectRepository: s.stores.Objects}
	resolver := turn.NewResolver(stores, turn.ResolverOptions{NewID: helpers.IDSequence("id")})
	scheduler := turn.NewScheduler(s.stores.Games, resolver, s.bus, s.clock, turn.SchedulerConfig{})

	report, err := scheduler.ResolveNow(s.ctx, testGame)
	require.Error(t, err)
	assert.Contains(t, err.Error(), turn.PhaseMaterialize)
	require.NotNil(t, report)
	assert.Len(t, report.Phases, 1)

	g := s.game(testGame)
	assert.False(t, g.Resolving)
	assert.Equal(t, 1, g.CurrentTurn)
}

func TestScheduler_ResolvesGamesConcurrently(t *testing.T) {
	s := newSchedulerHarness(t, 2)
	for _, id := range []string{"game-a", "game-b", "game-c"} {
		s.fx.CreateGame(id, 1, time.Minute, epoch)
	}

	s.clock.Advance(time.Minute)
	advanced, err := s.scheduler.Tick(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, advanced)

	for _, id := range []string{"game-a", "game-b", "game-c"} {
		assert.Equal(t, 2, s.game(id).CurrentTurn, id)
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s := newSchedulerHarness(t, 1)
	scheduler := turn.NewScheduler(s.stores.Games, s.resolver, nil, s.clock, turn.SchedulerConfig{TickInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
