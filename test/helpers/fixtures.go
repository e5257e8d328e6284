package helpers

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// DefaultSector is the sector fixtures are placed in unless stated otherwise
const DefaultSector = "sector-1"

// Fixtures creates engine state through the real repositories
type Fixtures struct {
	t      testing.TB
	ctx    context.Context
	Stores turn.Stores
	seq    int
}

func NewFixtures(t testing.TB, stores turn.Stores) *Fixtures {
	return &Fixtures{t: t, ctx: context.Background(), Stores: stores}
}

// CreateGame stores an active game on turn whose deadline is start+duration
func (f *Fixtures) CreateGame(id string, turnNumber int, duration time.Duration, start time.Time) *game.Game {
	f.t.Helper()
	g, err := game.NewGame(id, "game "+id, duration, start)
	require.NoError(f.t, err)
	g.CurrentTurn = turnNumber
	require.NoError(f.t, f.Stores.Games.Save(f.ctx, g))
	return g
}

// CreateShip stores a ship built from the blueprint
func (f *Fixtures) CreateShip(gameID, id, owner, blueprint string, pos shared.Position) *sector.SectorObject {
	f.t.Helper()
	bp, ok := sector.LookupBlueprint(blueprint)
	require.True(f.t, ok, "unknown blueprint %s", blueprint)
	ship := bp.NewShip(id, gameID, DefaultSector, owner, pos)
	ship.Name = id
	require.NoError(f.t, f.Stores.Objects.Save(f.ctx, ship))
	return ship
}

// CreateObject stores a non-ship object such as a station
func (f *Fixtures) CreateObject(gameID, id, owner string, objectType sector.ObjectType, pos shared.Position) *sector.SectorObject {
	f.t.Helper()
	obj := &sector.SectorObject{
		ID:       id,
		GameID:   gameID,
		SectorID: DefaultSector,
		OwnerID:  owner,
		Type:     objectType,
		Name:     id,
		Position: pos,
		Stats:    sector.ShipStats{HP: 500, MaxHP: 500, Hull: sector.HullCapital},
	}
	require.NoError(f.t, f.Stores.Objects.Save(f.ctx, obj))
	return obj
}

// Update persists changes made to an object after creation
func (f *Fixtures) Update(obj *sector.SectorObject) {
	f.t.Helper()
	require.NoError(f.t, f.Stores.Objects.Save(f.ctx, obj))
}

// Queue appends an intent to the ship's backlog
func (f *Fixtures) Queue(gameID, shipID string, payload orders.Payload, notBefore *int) *orders.QueuedOrder {
	f.t.Helper()
	f.seq++
	q, err := orders.NewQueuedOrder(fmt.Sprintf("q-%s-%d", shipID, f.seq), gameID, shipID, payload, notBefore, time.Now().UTC())
	require.NoError(f.t, err)
	require.NoError(f.t, f.Stores.Queue.Enqueue(f.ctx, q))
	return q
}

// SubmitAbility writes an ability order for the turn directly
func (f *Fixtures) SubmitAbility(gameID string, turnNumber int, casterID, abilityKey, targetID string) *orders.AbilityOrder {
	f.t.Helper()
	f.seq++
	o := &orders.AbilityOrder{
		ID:             fmt.Sprintf("ao-%s-%d", casterID, f.seq),
		GameID:         gameID,
		Turn:           turnNumber,
		CasterID:       casterID,
		AbilityKey:     abilityKey,
		TargetObjectID: targetID,
		SubmittedAt:    time.Now().UTC(),
	}
	require.NoError(f.t, f.Stores.TurnOrders.UpsertAbilityOrder(f.ctx, o))
	return o
}

// Object reloads an object, failing the test if it is gone
func (f *Fixtures) Object(id string) *sector.SectorObject {
	f.t.Helper()
	obj, err := f.Stores.Objects.FindByID(f.ctx, id)
	require.NoError(f.t, err)
	return obj
}

// Cargo returns the object's current holdings
func (f *Fixtures) Cargo(id string) map[string]int {
	f.t.Helper()
	held, err := f.Stores.Cargo.GetCargo(f.ctx, id)
	require.NoError(f.t, err)
	return held
}

// IDSequence returns a deterministic id generator for resolvers under test
func IDSequence(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}
