package combat

// RespawnStatus tracks a pending pilot return
type RespawnStatus string

const (
	RespawnPending   RespawnStatus = "pending"
	RespawnCompleted RespawnStatus = "completed"
)

// PilotRespawn schedules a replacement ship for a player who lost one
type PilotRespawn struct {
	ID          string
	GameID      string
	PlayerID    string
	LostShipID  string
	RespawnTurn int
	Status      RespawnStatus
	NewShipID   string
}

func (p *PilotRespawn) DueAt(turn int) bool {
	return p.Status == RespawnPending && p.RespawnTurn <= turn
}

func (p *PilotRespawn) Complete(newShipID string) {
	p.Status = RespawnCompleted
	p.NewShipID = newShipID
}
