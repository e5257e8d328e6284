package dtos

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/effects"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// QueuedOrderDTO is the client view of one queue entry
type QueuedOrderDTO struct {
	ID            string         `json:"id"`
	ShipID        string         `json:"shipId"`
	Sequence      int            `json:"sequence"`
	OrderType     string         `json:"orderType"`
	Payload       orders.Payload `json:"payload"`
	NotBeforeTurn *int           `json:"notBeforeTurn,omitempty"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	ResolvedTurn  *int           `json:"resolvedTurn,omitempty"`
}

func ToQueuedOrderDTO(o *orders.QueuedOrder) QueuedOrderDTO {
	return QueuedOrderDTO{
		ID:            o.ID,
		ShipID:        o.ShipID,
		Sequence:      o.Sequence,
		OrderType:     string(o.Type()),
		Payload:       o.Payload,
		NotBeforeTurn: o.NotBeforeTurn,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		ResolvedTurn:  o.ResolvedTurn,
	}
}

// UnmarshalJSON restores the typed payload from its order type
func (d *QueuedOrderDTO) UnmarshalJSON(data []byte) error {
	type alias QueuedOrderDTO
	aux := struct {
		*alias
		Payload json.RawMessage `json:"payload"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p, err := orders.DecodePayload(orders.OrderType(d.OrderType), aux.Payload)
	if err != nil {
		return fmt.Errorf("queued order %s: %w", d.ID, err)
	}
	d.Payload = p
	return nil
}

func ToQueuedOrderDTOs(list []*orders.QueuedOrder) []QueuedOrderDTO {
	out := make([]QueuedOrderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, ToQueuedOrderDTO(o))
	}
	return out
}

// AbilityOrderDTO echoes a direct ability submission
type AbilityOrderDTO struct {
	ID             string               `json:"id"`
	Turn           int                  `json:"turn"`
	CasterID       string               `json:"casterId"`
	AbilityKey     string               `json:"abilityKey"`
	TargetObjectID string               `json:"targetObjectId,omitempty"`
	TargetPosition *shared.Position     `json:"targetPosition,omitempty"`
	Params         orders.AbilityParams `json:"params"`
	SubmittedAt    time.Time            `json:"submittedAt"`
}

func ToAbilityOrderDTO(o *orders.AbilityOrder) AbilityOrderDTO {
	return AbilityOrderDTO{
		ID:             o.ID,
		Turn:           o.Turn,
		CasterID:       o.CasterID,
		AbilityKey:     o.AbilityKey,
		TargetObjectID: o.TargetObjectID,
		TargetPosition: o.TargetPosition,
		Params:         o.Params,
		SubmittedAt:    o.SubmittedAt,
	}
}

// CooldownDTO reports when an ability can next be used.
// TurnsRemaining is zero once the ability is ready on the open turn.
type CooldownDTO struct {
	AbilityKey     string `json:"abilityKey"`
	AvailableTurn  int    `json:"availableTurn"`
	Ready          bool   `json:"ready"`
	TurnsRemaining int    `json:"turnsRemaining"`
}

func ToCooldownDTO(c *effects.AbilityCooldown, currentTurn int) CooldownDTO {
	remaining := c.AvailableTurn - currentTurn
	if remaining < 0 {
		remaining = 0
	}
	return CooldownDTO{
		AbilityKey:     c.AbilityKey,
		AvailableTurn:  c.AvailableTurn,
		Ready:          c.ReadyAt(currentTurn),
		TurnsRemaining: remaining,
	}
}

type CombatLogEntryDTO struct {
	Sequence   int64          `json:"sequence"`
	Turn       int            `json:"turn"`
	EventType  string         `json:"eventType"`
	AttackerID string         `json:"attackerId,omitempty"`
	TargetID   string         `json:"targetId,omitempty"`
	Summary    string         `json:"summary"`
	Data       map[string]any `json:"data,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func ToCombatLogEntryDTO(e *combat.LogEntry) CombatLogEntryDTO {
	return CombatLogEntryDTO{
		Sequence:   e.Sequence,
		Turn:       e.Turn,
		EventType:  string(e.EventType),
		AttackerID: e.AttackerID,
		TargetID:   e.TargetID,
		Summary:    e.Summary,
		Data:       e.Data,
		CreatedAt:  e.CreatedAt,
	}
}
