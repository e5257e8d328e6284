package queries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/pkg/utils"
)

// Snapshot encodings
const (
	EncodingIdentity = "identity"
	EncodingLZ4      = "lz4"
)

// GetSnapshotQuery serializes every object of a game. With Compress set the
// JSON document is framed as an LZ4 stream.
type GetSnapshotQuery struct {
	GameID   string
	Compress bool
}

type GetSnapshotResponse struct {
	Turn     int
	Encoding string
	Body     []byte
}

// Snapshot is the JSON document carried in GetSnapshotResponse.Body
type Snapshot struct {
	Game    GameDTO     `json:"game"`
	Objects []ObjectDTO `json:"objects"`
}

type WreckDTO struct {
	DestroyedTurn int    `json:"destroyedTurn"`
	DecayTurn     int    `json:"decayTurn"`
	DestroyedBy   string `json:"destroyedBy,omitempty"`
}

type ObjectDTO struct {
	ID        string             `json:"id"`
	SectorID  string             `json:"sectorId"`
	OwnerID   string             `json:"ownerId,omitempty"`
	Type      string             `json:"type"`
	Blueprint string             `json:"blueprint,omitempty"`
	Name      string             `json:"name"`
	Position  shared.Position    `json:"position"`
	HP        int                `json:"hp"`
	MaxHP     int                `json:"maxHp"`
	Energy    int                `json:"energy"`
	MaxEnergy int                `json:"maxEnergy"`
	Speed     int                `json:"speed"`
	Hull      string             `json:"hull,omitempty"`
	Abilities []string           `json:"abilities,omitempty"`
	Effects   map[string]float64 `json:"effects,omitempty"`
	Wreck     *WreckDTO          `json:"wreck,omitempty"`
}

func ToObjectDTO(o *sector.SectorObject) ObjectDTO {
	dto := ObjectDTO{
		ID:        o.ID,
		SectorID:  o.SectorID,
		OwnerID:   o.OwnerID,
		Type:      string(o.Type),
		Blueprint: o.Blueprint,
		Name:      o.Name,
		Position:  o.Position,
		HP:        o.Stats.HP,
		MaxHP:     o.Stats.MaxHP,
		Energy:    o.Stats.Energy,
		MaxEnergy: o.Stats.MaxEnergy,
		Speed:     o.Stats.MovementSpeed,
		Abilities: o.Stats.Abilities,
		Effects:   o.Projection.Values,
	}
	if o.Stats.Hull != 0 {
		dto.Hull = o.Stats.Hull.String()
	}
	if o.Wreck != nil {
		dto.Wreck = &WreckDTO{
			DestroyedTurn: o.Wreck.DestroyedTurn,
			DecayTurn:     o.Wreck.DecayTurn,
			DestroyedBy:   o.Wreck.DestroyedBy,
		}
	}
	return dto
}

type GetSnapshotHandler struct {
	games   game.Repository
	objects sector.ObjectRepository
}

func NewGetSnapshotHandler(games game.Repository, objects sector.ObjectRepository) *GetSnapshotHandler {
	return &GetSnapshotHandler{games: games, objects: objects}
}

func (h *GetSnapshotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetSnapshotQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetSnapshotQuery")
	}

	g, err := h.games.FindByID(ctx, query.GameID)
	if err != nil {
		return nil, err
	}
	list, err := h.objects.ListByGame(ctx, query.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	snap := Snapshot{Game: ToGameDTO(g), Objects: make([]ObjectDTO, 0, len(list))}
	for _, o := range list {
		snap.Objects = append(snap.Objects, ToObjectDTO(o))
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	resp := &GetSnapshotResponse{Turn: g.CurrentTurn, Encoding: EncodingIdentity, Body: body}
	if query.Compress {
		if resp.Body, err = utils.CompressLZ4(body); err != nil {
			return nil, err
		}
		resp.Encoding = EncodingLZ4
	}
	return resp, nil
}
