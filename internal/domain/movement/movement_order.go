package movement

import (
	"fmt"
	"math"
	"slices"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// Kind distinguishes sublight moves from warps
type Kind string

const (
	KindMove Kind = "move"
	KindWarp Kind = "warp"
)

// Status of a movement order. Completed and Blocked are terminal.
type Status string

const (
	StatusActive        Status = "active"
	StatusWarpPreparing Status = "warp_preparing"
	StatusBlocked       Status = "blocked"
	StatusCompleted     Status = "completed"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusBlocked
}

// Blocker records what stopped a ship
type Blocker struct {
	ObjectID   string
	ObjectType string
	OwnerID    string
	Tile       shared.Position
}

// Order moves one ship along a precomputed tile path over several turns.
//
// Invariants:
//   - 0 <= CurrentStep <= len(Path)-1
//   - Status == completed implies CurrentStep == len(Path)-1
//   - CurrentStep never decreases
type Order struct {
	ID          string
	GameID      string
	ShipID      string
	Kind        Kind
	Destination shared.Position
	Path        []shared.Position
	CurrentStep int
	Speed       int
	Status      Status
	ETATurns    int
	CreatedTurn int
	UpdatedTurn int
	Blocker     *Blocker
}

// NewOrder creates an order for a path of at least two tiles.
// Warps start in warp_preparing and spend their first movement pass spooling up.
func NewOrder(id, gameID, shipID string, kind Kind, path []shared.Position, speed, turn int) (*Order, error) {
	if len(path) < 2 {
		return nil, shared.NewValidationError("path", "must contain at least two tiles")
	}
	if speed <= 0 {
		return nil, shared.NewValidationError("speed", fmt.Sprintf("must be positive, got %d", speed))
	}

	status := StatusActive
	switch kind {
	case KindMove:
	case KindWarp:
		status = StatusWarpPreparing
	default:
		return nil, shared.NewValidationError("kind", fmt.Sprintf("unknown movement kind %q", kind))
	}

	o := &Order{
		ID:          id,
		GameID:      gameID,
		ShipID:      shipID,
		Kind:        kind,
		Destination: path[len(path)-1],
		Path:        slices.Clone(path),
		Speed:       speed,
		Status:      status,
		CreatedTurn: turn,
		UpdatedTurn: turn,
	}
	o.ETATurns = ETA(o.RemainingSteps(), speed)
	return o, nil
}

// ETA is the number of turns needed to cover remaining tiles at speed
func ETA(remaining, speed int) int {
	if remaining <= 0 {
		return 0
	}
	if speed <= 0 {
		return math.MaxInt32
	}
	return int(math.Ceil(float64(remaining) / float64(speed)))
}

func (o *Order) Current() shared.Position {
	return o.Path[o.CurrentStep]
}

func (o *Order) RemainingSteps() int {
	return len(o.Path) - 1 - o.CurrentStep
}

// InProgress reports whether the resolver should still look at this order
func (o *Order) InProgress() bool {
	return o.Status == StatusActive || o.Status == StatusWarpPreparing
}

// StepsToTake caps the effective speed by the tiles left on the path
func (o *Order) StepsToTake(effectiveSpeed int) int {
	return min(effectiveSpeed, o.RemainingSteps())
}

// TargetTile is the tile the ship would land on after taking steps
func (o *Order) TargetTile(steps int) shared.Position {
	idx := min(o.CurrentStep+max(0, steps), len(o.Path)-1)
	return o.Path[idx]
}

// EngageWarp finishes the spool-up turn of a warp
func (o *Order) EngageWarp(turn int) error {
	if o.Status != StatusWarpPreparing {
		return shared.NewInvalidTransitionError("movement", string(o.Status), string(StatusActive))
	}
	o.Status = StatusActive
	o.UpdatedTurn = turn
	return nil
}

// Advance moves the order forward and returns the tile the ship left and the tile it reached
func (o *Order) Advance(steps, effectiveSpeed, turn int) (from, to shared.Position, err error) {
	if o.Status != StatusActive {
		return from, to, shared.NewInvalidTransitionError("movement", string(o.Status), "advance")
	}
	if steps <= 0 || steps > o.RemainingSteps() {
		return from, to, shared.NewValidationError("steps", fmt.Sprintf("%d outside 1..%d", steps, o.RemainingSteps()))
	}

	from = o.Current()
	o.CurrentStep += steps
	to = o.Current()
	o.UpdatedTurn = turn

	if o.RemainingSteps() == 0 {
		o.Status = StatusCompleted
		o.ETATurns = 0
	} else {
		o.ETATurns = ETA(o.RemainingSteps(), effectiveSpeed)
	}
	return from, to, nil
}

// Complete closes an order that has nothing left to traverse
func (o *Order) Complete(turn int) {
	o.Status = StatusCompleted
	o.CurrentStep = len(o.Path) - 1
	o.ETATurns = 0
	o.UpdatedTurn = turn
}

// Block halts the order at its current tile. A nil blocker means the order
// was halted by something other than a collision, such as the ship's destruction.
func (o *Order) Block(blocker *Blocker, turn int) {
	o.Status = StatusBlocked
	o.Blocker = blocker
	o.UpdatedTurn = turn
}

// Record is one entry of a ship's append-only movement history
type Record struct {
	GameID string
	ShipID string
	Turn   int
	From   shared.Position
	To     shared.Position
	Speed  int
}
