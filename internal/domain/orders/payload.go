package orders

import (
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// OrderType tags the payload variant of a queued order
type OrderType string

const (
	OrderMove         OrderType = "move"
	OrderWarp         OrderType = "warp"
	OrderHarvestStart OrderType = "harvest_start"
	OrderHarvestStop  OrderType = "harvest_stop"
	OrderAbility      OrderType = "ability"
)

// Payload is the typed body of a queued order. Each variant maps to exactly one OrderType.
type Payload interface {
	OrderType() OrderType
	Validate() error
}

type MovePayload struct {
	Destination shared.Position `json:"destination"`
}

func (MovePayload) OrderType() OrderType { return OrderMove }
func (MovePayload) Validate() error { return nil }

type WarpPayload struct {
	Destination shared.Position `json:"destination"`
}

func (WarpPayload) OrderType() OrderType { return OrderWarp }
func (WarpPayload) Validate() error { return nil }

type HarvestStartPayload struct {
	NodeID string `json:"nodeId"`
}

func (HarvestStartPayload) OrderType() OrderType { return OrderHarvestStart }

func (p HarvestStartPayload) Validate() error {
	if p.NodeID == "" {
		return shared.NewValidationError("nodeId", "required")
	}
	return nil
}

type HarvestStopPayload struct{}

func (HarvestStopPayload) OrderType() OrderType { return OrderHarvestStop }
func (HarvestStopPayload) Validate() error { return nil }

// AbilityParams carries the typed extra arguments some abilities take
type AbilityParams struct {
	Resource string `json:"resource,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

type AbilityPayload struct {
	AbilityKey     string           `json:"abilityKey"`
	TargetObjectID string           `json:"targetObjectId,omitempty"`
	TargetPosition *shared.Position `json:"targetPosition,omitempty"`
	Params         AbilityParams    `json:"params"`
}

func (AbilityPayload) OrderType() OrderType { return OrderAbility }

func (p AbilityPayload) Validate() error {
	if p.AbilityKey == "" {
		return shared.NewValidationError("abilityKey", "required")
	}
	if p.Params.Quantity < 0 {
		return shared.NewValidationError("params.quantity", "must not be negative")
	}
	return nil
}

// DecodePayload parses raw JSON into the payload variant for t
func DecodePayload(t OrderType, raw []byte) (Payload, error) {
	var p Payload
	var err error
	switch t {
	case OrderMove:
		var v MovePayload
		err = unmarshalOptional(raw, &v)
		p = v
	case OrderWarp:
		var v WarpPayload
		err = unmarshalOptional(raw, &v)
		p = v
	case OrderHarvestStart:
		var v HarvestStartPayload
		err = unmarshalOptional(raw, &v)
		p = v
	case OrderHarvestStop:
		p = HarvestStopPayload{}
	case OrderAbility:
		var v AbilityPayload
		err = unmarshalOptional(raw, &v)
		p = v
	default:
		return nil, shared.NewValidationError("orderType", fmt.Sprintf("unknown order type %q", t))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", t, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePayload serializes a payload for storage
func EncodePayload(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

func unmarshalOptional(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
