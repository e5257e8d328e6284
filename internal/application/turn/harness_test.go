package turn_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/test/helpers"
)

const testGame = "game-1"

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	t        *testing.T
	ctx      context.Context
	stores   turn.Stores
	fx       *helpers.Fixtures
	resolver *turn.Resolver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := helpers.NewTestDB(t)
	stores := helpers.NewTestStores(db)
	return &harness{
		t:        t,
		ctx:      context.Background(),
		stores:   stores,
		fx:       helpers.NewFixtures(t, stores),
		resolver: turn.NewResolver(stores, turn.ResolverOptions{NewID: helpers.IDSequence("id")}),
	}
}

func (h *harness) resolve(turnNumber int) *turn.TurnReport {
	h.t.Helper()
	report, err := h.resolver.ResolveTurn(h.ctx, testGame, turnNumber)
	require.NoError(h.t, err)
	require.Zero(h.t, report.Failed(), "no entity should fail")
	return report
}

func (h *harness) ship(id, blueprint, owner string, x, y int) *sector.SectorObject {
	return h.fx.CreateShip(testGame, id, owner, blueprint, shared.NewPosition(x, y))
}

func (h *harness) move(shipID string, x, y int) *orders.QueuedOrder {
	return h.fx.Queue(testGame, shipID, orders.MovePayload{Destination: shared.NewPosition(x, y)}, nil)
}

func (h *harness) log(turnNumber int) []*combat.LogEntry {
	h.t.Helper()
	entries, err := h.stores.CombatLog.ListByTurn(h.ctx, testGame, turnNumber)
	require.NoError(h.t, err)
	return entries
}

// logOf returns the turn's entries of one event type
func (h *harness) logOf(turnNumber int, eventType combat.EventType) []*combat.LogEntry {
	var out []*combat.LogEntry
	for _, e := range h.log(turnNumber) {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (h *harness) queueStatuses(shipID string) []orders.QueueStatus {
	h.t.Helper()
	list, err := h.stores.Queue.ListByShip(h.ctx, shipID, true)
	require.NoError(h.t, err)
	statuses := make([]orders.QueueStatus, 0, len(list))
	for _, q := range list {
		statuses = append(statuses, q.Status)
	}
	return statuses
}

func (h *harness) cooldown(shipID, abilityKey string) int {
	h.t.Helper()
	cd, err := h.stores.Cooldowns.Get(h.ctx, shipID, abilityKey)
	require.NoError(h.t, err)
	if cd == nil {
		return 0
	}
	return cd.AvailableTurn
}
