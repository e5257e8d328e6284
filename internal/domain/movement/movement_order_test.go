package movement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/domain/movement"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

func newOrder(t *testing.T, kind movement.Kind, to shared.Position, speed int) *movement.Order {
	t.Helper()
	path := shared.TracePath(shared.NewPosition(0, 0), to)
	o, err := movement.NewOrder("mo-1", "game-1", "ship-1", kind, path, speed, 1)
	require.NoError(t, err)
	return o
}

func TestNewOrder_ComputesInitialETA(t *testing.T) {
	o := newOrder(t, movement.KindMove, shared.NewPosition(5, 0), 2)

	assert.Equal(t, movement.StatusActive, o.Status)
	assert.Equal(t, 3, o.ETATurns)
	assert.Equal(t, 0, o.CurrentStep)
	assert.Equal(t, shared.NewPosition(5, 0), o.Destination)
}

func TestNewOrder_RejectsDegeneratePath(t *testing.T) {
	_, err := movement.NewOrder("mo-1", "g", "s", movement.KindMove, []shared.Position{{X: 1, Y: 1}}, 2, 1)

	assert.True(t, shared.IsValidation(err))
}

func TestNewOrder_WarpStartsPreparing(t *testing.T) {
	o := newOrder(t, movement.KindWarp, shared.NewPosition(3, 0), 3)

	assert.Equal(t, movement.StatusWarpPreparing, o.Status)
	assert.True(t, o.InProgress())

	_, _, err := o.Advance(1, 3, 1)
	assert.Error(t, err, "a spooling warp cannot move")

	require.NoError(t, o.EngageWarp(2))
	assert.Equal(t, movement.StatusActive, o.Status)
}

func TestAdvance_ProgressesAcrossTurnsUntilCompleted(t *testing.T) {
	o := newOrder(t, movement.KindMove, shared.NewPosition(5, 0), 2)
	lastStep := o.CurrentStep

	expected := []struct {
		tile shared.Position
		eta  int
	}{
		{shared.NewPosition(2, 0), 2},
		{shared.NewPosition(4, 0), 1},
		{shared.NewPosition(5, 0), 0},
	}

	for turn, want := range expected {
		steps := o.StepsToTake(2)
		_, to, err := o.Advance(steps, 2, turn+1)
		require.NoError(t, err)

		assert.Equal(t, want.tile, to)
		assert.Equal(t, want.eta, o.ETATurns)
		assert.GreaterOrEqual(t, o.CurrentStep, lastStep)
		assert.LessOrEqual(t, o.CurrentStep, len(o.Path)-1)
		lastStep = o.CurrentStep
	}

	assert.Equal(t, movement.StatusCompleted, o.Status)
	assert.Equal(t, len(o.Path)-1, o.CurrentStep)
	assert.Equal(t, 0, o.StepsToTake(2))
}

func TestAdvance_RejectsOvershoot(t *testing.T) {
	o := newOrder(t, movement.KindMove, shared.NewPosition(2, 0), 5)

	_, _, err := o.Advance(3, 5, 1)

	assert.Error(t, err)
	assert.Equal(t, 0, o.CurrentStep)
}

func TestBlock_IsTerminalAndKeepsPosition(t *testing.T) {
	o := newOrder(t, movement.KindMove, shared.NewPosition(5, 0), 2)
	blocker := &movement.Blocker{ObjectID: "rock", ObjectType: "structure", Tile: o.TargetTile(2)}

	o.Block(blocker, 1)

	assert.True(t, o.Status.Terminal())
	assert.False(t, o.InProgress())
	assert.Equal(t, 0, o.CurrentStep)
	assert.Equal(t, shared.NewPosition(2, 0), o.Blocker.Tile)
}

func TestETA(t *testing.T) {
	assert.Equal(t, 0, movement.ETA(0, 3))
	assert.Equal(t, 1, movement.ETA(3, 3))
	assert.Equal(t, 2, movement.ETA(4, 3))
	assert.Greater(t, movement.ETA(4, 0), 1000)
}
