package orders

import (
	"time"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// QueueStatus is the lifecycle of a queued intent. Only queued entries are eligible.
type QueueStatus string

const (
	QueueQueued    QueueStatus = "queued"
	QueueConsumed  QueueStatus = "consumed"
	QueueSkipped   QueueStatus = "skipped"
	QueueCancelled QueueStatus = "cancelled"
)

// QueuedOrder is one entry of a ship's FIFO intent backlog
type QueuedOrder struct {
	ID            string
	GameID        string
	ShipID        string
	Sequence      int
	Payload       Payload
	NotBeforeTurn *int
	Status        QueueStatus
	CreatedAt     time.Time
	ResolvedTurn  *int
}

func NewQueuedOrder(id, gameID, shipID string, payload Payload, notBeforeTurn *int, now time.Time) (*QueuedOrder, error) {
	if shipID == "" {
		return nil, shared.NewValidationError("shipId", "required")
	}
	if payload == nil {
		return nil, shared.NewValidationError("payload", "required")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if notBeforeTurn != nil && *notBeforeTurn < 0 {
		return nil, shared.NewValidationError("notBeforeTurn", "must not be negative")
	}
	return &QueuedOrder{
		ID:            id,
		GameID:        gameID,
		ShipID:        shipID,
		Payload:       payload,
		NotBeforeTurn: notBeforeTurn,
		Status:        QueueQueued,
		CreatedAt:     now,
	}, nil
}

func (q *QueuedOrder) Type() OrderType {
	return q.Payload.OrderType()
}

// EligibleAt reports whether the entry may be materialized for turn
func (q *QueuedOrder) EligibleAt(turn int) bool {
	return q.Status == QueueQueued && (q.NotBeforeTurn == nil || *q.NotBeforeTurn <= turn)
}

func (q *QueuedOrder) Consume(turn int) error {
	return q.close(QueueConsumed, turn)
}

func (q *QueuedOrder) Skip(turn int) error {
	return q.close(QueueSkipped, turn)
}

func (q *QueuedOrder) Cancel(turn int) error {
	return q.close(QueueCancelled, turn)
}

func (q *QueuedOrder) close(status QueueStatus, turn int) error {
	if q.Status != QueueQueued {
		return shared.NewInvalidTransitionError("queued order", string(q.Status), string(status))
	}
	q.Status = status
	q.ResolvedTurn = &turn
	return nil
}
