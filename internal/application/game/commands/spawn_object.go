package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/game/queries"
	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/pkg/utils"
)

// SpawnObjectCommand places a ship built from a blueprint, or a bare station
// or structure, on a free tile. It is an operator tool for seeding matches.
type SpawnObjectCommand struct {
	GameID     string
	SectorID   string
	OwnerID    string
	ObjectType string
	Blueprint  string
	Position   shared.Position
	ID         string
}

type SpawnObjectResponse struct {
	Object queries.ObjectDTO `json:"object"`
}

type SpawnObjectHandler struct {
	games   game.Repository
	objects sector.ObjectRepository
}

func NewSpawnObjectHandler(games game.Repository, objects sector.ObjectRepository) *SpawnObjectHandler {
	return &SpawnObjectHandler{games: games, objects: objects}
}

func (h *SpawnObjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SpawnObjectCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SpawnObjectCommand")
	}
	if cmd.SectorID == "" {
		return nil, shared.NewValidationError("sectorId", "required")
	}

	if _, err := h.games.FindByID(ctx, cmd.GameID); err != nil {
		return nil, err
	}

	occupants, err := h.objects.FindAt(ctx, cmd.GameID, cmd.SectorID, cmd.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to check tile: %w", err)
	}
	if len(occupants) > 0 {
		return nil, shared.NewDomainError(fmt.Sprintf("tile %s is occupied by %s", cmd.Position, occupants[0].ID))
	}

	obj, err := h.build(cmd)
	if err != nil {
		return nil, err
	}
	if err := h.objects.Save(ctx, obj); err != nil {
		return nil, fmt.Errorf("failed to save object: %w", err)
	}

	_, logger := logging.WithFields(ctx, logrus.Fields{"game_id": cmd.GameID, "object_id": obj.ID})
	logger.WithFields(logrus.Fields{
		"type":     obj.Type,
		"position": obj.Position.String(),
	}).Info("object spawned")

	return &SpawnObjectResponse{Object: queries.ToObjectDTO(obj)}, nil
}

func (h *SpawnObjectHandler) build(cmd *SpawnObjectCommand) (*sector.SectorObject, error) {
	objectType := sector.ObjectType(cmd.ObjectType)
	if objectType == "" {
		objectType = sector.ObjectShip
	}

	switch objectType {
	case sector.ObjectShip:
		bp, ok := sector.LookupBlueprint(cmd.Blueprint)
		if !ok {
			return nil, shared.NewValidationError("blueprint", fmt.Sprintf("unknown blueprint %q", cmd.Blueprint))
		}
		id := cmd.ID
		if id == "" {
			id = utils.GenerateObjectName(bp.Key)
		}
		return bp.NewShip(id, cmd.GameID, cmd.SectorID, cmd.OwnerID, cmd.Position), nil
	case sector.ObjectStation, sector.ObjectStructure:
		id := cmd.ID
		if id == "" {
			id = utils.GenerateObjectName(string(objectType))
		}
		return &sector.SectorObject{
			ID:       id,
			GameID:   cmd.GameID,
			SectorID: cmd.SectorID,
			OwnerID:  cmd.OwnerID,
			Type:     objectType,
			Name:     id,
			Position: cmd.Position,
		}, nil
	}
	return nil, shared.NewValidationError("objectType", fmt.Sprintf("cannot spawn %q", cmd.ObjectType))
}
