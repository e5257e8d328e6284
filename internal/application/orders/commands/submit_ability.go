package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/application/orders/dtos"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/pkg/utils"
)

// SubmitAbilityCommand schedules an ability for the open turn, bypassing the
// queue. A second submission for the same caster replaces the first.
type SubmitAbilityCommand struct {
	GameID         string
	ShipID         string
	AbilityKey     string
	TargetObjectID string
	TargetPosition *shared.Position
	Params         orders.AbilityParams
}

type SubmitAbilityResponse struct {
	Order dtos.AbilityOrderDTO `json:"order"`
}

type SubmitAbilityHandler struct {
	games      game.Repository
	objects    sector.ObjectRepository
	turnOrders orders.TurnOrderRepository
	registry   *ability.Registry
	clock      shared.Clock
	newID      func() string
}

func NewSubmitAbilityHandler(
	games game.Repository,
	objects sector.ObjectRepository,
	turnOrders orders.TurnOrderRepository,
	registry *ability.Registry,
	clock shared.Clock,
) *SubmitAbilityHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if registry == nil {
		registry = ability.DefaultRegistry()
	}
	return &SubmitAbilityHandler{
		games:      games,
		objects:    objects,
		turnOrders: turnOrders,
		registry:   registry,
		clock:      clock,
		newID:      utils.NewID,
	}
}

func (h *SubmitAbilityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SubmitAbilityCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SubmitAbilityCommand")
	}

	payload := orders.AbilityPayload{
		AbilityKey:     cmd.AbilityKey,
		TargetObjectID: cmd.TargetObjectID,
		TargetPosition: cmd.TargetPosition,
		Params:         cmd.Params,
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	g, err := openGame(ctx, h.games, cmd.GameID)
	if err != nil {
		return nil, err
	}
	if g.Resolving {
		return nil, shared.NewTurnClaimError(g.ID, g.CurrentTurn)
	}
	ship, err := commandableShip(ctx, h.objects, cmd.GameID, cmd.ShipID)
	if err != nil {
		return nil, err
	}
	if err := checkAbility(h.registry, ship, cmd.AbilityKey); err != nil {
		return nil, err
	}
	if err := checkTarget(h.registry, payload); err != nil {
		return nil, err
	}

	order := &orders.AbilityOrder{
		ID:             h.newID(),
		GameID:         g.ID,
		Turn:           g.CurrentTurn,
		CasterID:       ship.ID,
		AbilityKey:     cmd.AbilityKey,
		TargetObjectID: cmd.TargetObjectID,
		TargetPosition: cmd.TargetPosition,
		Params:         cmd.Params,
		SubmittedAt:    h.clock.Now(),
	}
	if err := h.turnOrders.UpsertAbilityOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to submit ability order: %w", err)
	}

	_, logger := logging.WithFields(ctx, logrus.Fields{"game_id": g.ID, "ship_id": ship.ID})
	logger.WithFields(logrus.Fields{
		"ability": order.AbilityKey,
		"turn":    order.Turn,
	}).Debug("ability submitted")

	return &SubmitAbilityResponse{Order: dtos.ToAbilityOrderDTO(order)}, nil
}

// checkTarget enforces the target shape the ability declares
func checkTarget(registry *ability.Registry, p orders.AbilityPayload) error {
	a, _ := registry.Lookup(p.AbilityKey)
	switch a.Definition().Target {
	case ability.TargetObject:
		if p.TargetObjectID == "" {
			return shared.NewValidationError("targetObjectId", "required for "+p.AbilityKey)
		}
	case ability.TargetPosition:
		if p.TargetPosition == nil {
			return shared.NewValidationError("targetPosition", "required for "+p.AbilityKey)
		}
	}
	return nil
}
