package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/game/queries"
	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/pkg/utils"
)

// CreateGameCommand opens a new match on turn 1.
// A zero TurnDuration falls back to the handler's default window.
type CreateGameCommand struct {
	ID           string
	Name         string
	TurnDuration time.Duration
}

type CreateGameResponse struct {
	Game queries.GameDTO `json:"game"`
}

type CreateGameHandler struct {
	games           game.Repository
	clock           shared.Clock
	defaultDuration time.Duration
}

func NewCreateGameHandler(games game.Repository, clock shared.Clock, defaultDuration time.Duration) *CreateGameHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreateGameHandler{games: games, clock: clock, defaultDuration: defaultDuration}
}

func (h *CreateGameHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateGameCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateGameCommand")
	}

	id := cmd.ID
	if id == "" {
		id = utils.NewID()
	} else if _, err := h.games.FindByID(ctx, id); err == nil {
		return nil, shared.NewDomainError(fmt.Sprintf("game %s already exists", id))
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	duration := cmd.TurnDuration
	if duration == 0 {
		duration = h.defaultDuration
	}
	name := cmd.Name
	if name == "" {
		name = id
	}

	g, err := game.NewGame(id, name, duration, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.games.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	_, logger := logging.WithFields(ctx, logrus.Fields{"game_id": g.ID})
	logger.WithField("turn_duration", g.TurnDuration).Info("game created")

	return &CreateGameResponse{Game: queries.ToGameDTO(g)}, nil
}
