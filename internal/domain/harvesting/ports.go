package harvesting

import "context"

// Task is a ship's ongoing extraction from a resource node
type Task struct {
	ShipID      string
	NodeID      string
	StartedTurn int
	Active      bool
}

// Service is the harvesting collaborator. Start fails when the ship is
// already harvesting; Stop fails when it is not.
type Service interface {
	HasActiveTask(ctx context.Context, shipID string) (bool, error)
	Start(ctx context.Context, shipID, nodeID string, turn int) error
	Stop(ctx context.Context, shipID string, turn int) error
}
