package setup

import (
	"time"

	gameCommands "github.com/andrescamacho/voidfleet-go/internal/application/game/commands"
	gameQueries "github.com/andrescamacho/voidfleet-go/internal/application/game/queries"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	orderCommands "github.com/andrescamacho/voidfleet-go/internal/application/orders/commands"
	orderQueries "github.com/andrescamacho/voidfleet-go/internal/application/orders/queries"
	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/ability"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	stores              turn.Stores
	registry            *ability.Registry
	clock               shared.Clock
	resolver            gameCommands.TurnResolver
	defaultTurnDuration time.Duration
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// resolver may be nil for processes that never force a resolution.
func NewHandlerRegistry(
	stores turn.Stores,
	registry *ability.Registry,
	clock shared.Clock,
	resolver gameCommands.TurnResolver,
	defaultTurnDuration time.Duration,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if registry == nil {
		registry = ability.DefaultRegistry()
	}

	return &HandlerRegistry{
		stores:              stores,
		registry:            registry,
		clock:               clock,
		resolver:            resolver,
		defaultTurnDuration: defaultTurnDuration,
	}
}

// RegisterAll registers every command and query handler with the mediator
func (r *HandlerRegistry) RegisterAll(m mediator.Mediator) error {
	if err := r.RegisterOrderHandlers(m); err != nil {
		return err
	}
	return r.RegisterGameHandlers(m)
}

// RegisterOrderHandlers registers the per-ship order handlers:
//   - QueueOrderCommand, RemoveQueuedOrderCommand, ClearQueueCommand for the intent queue
//   - SubmitAbilityCommand for direct ability orders on the open turn
//   - ListQueueQuery, GetCooldownsQuery, GetCombatLogQuery for reads
func (r *HandlerRegistry) RegisterOrderHandlers(m mediator.Mediator) error {
	s := r.stores

	if err := mediator.RegisterHandler[*orderCommands.QueueOrderCommand](m,
		orderCommands.NewQueueOrderHandler(s.Games, s.Objects, s.Queue, r.registry, r.clock)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*orderCommands.RemoveQueuedOrderCommand](m,
		orderCommands.NewRemoveQueuedOrderHandler(s.Games, s.Queue, s.Tx)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*orderCommands.ClearQueueCommand](m,
		orderCommands.NewClearQueueHandler(s.Games, s.Objects, s.Queue)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*orderCommands.SubmitAbilityCommand](m,
		orderCommands.NewSubmitAbilityHandler(s.Games, s.Objects, s.TurnOrders, r.registry, r.clock)); err != nil {
		return err
	}

	if err := mediator.RegisterHandler[*orderQueries.ListQueueQuery](m,
		orderQueries.NewListQueueHandler(s.Objects, s.Queue)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*orderQueries.GetCooldownsQuery](m,
		orderQueries.NewGetCooldownsHandler(s.Games, s.Objects, s.Cooldowns)); err != nil {
		return err
	}
	return mediator.RegisterHandler[*orderQueries.GetCombatLogQuery](m,
		orderQueries.NewGetCombatLogHandler(s.CombatLog))
}

// RegisterGameHandlers registers game lifecycle handlers. ResolveTurnCommand is
// only available when the registry was built with a resolver.
func (r *HandlerRegistry) RegisterGameHandlers(m mediator.Mediator) error {
	s := r.stores

	if err := mediator.RegisterHandler[*gameCommands.CreateGameCommand](m,
		gameCommands.NewCreateGameHandler(s.Games, r.clock, r.defaultTurnDuration)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*gameCommands.SpawnObjectCommand](m,
		gameCommands.NewSpawnObjectHandler(s.Games, s.Objects)); err != nil {
		return err
	}
	if r.resolver != nil {
		if err := mediator.RegisterHandler[*gameCommands.ResolveTurnCommand](m,
			gameCommands.NewResolveTurnHandler(r.resolver)); err != nil {
			return err
		}
	}

	if err := mediator.RegisterHandler[*gameQueries.GetGameQuery](m,
		gameQueries.NewGetGameHandler(s.Games)); err != nil {
		return err
	}
	return mediator.RegisterHandler[*gameQueries.GetSnapshotQuery](m,
		gameQueries.NewGetSnapshotHandler(s.Games, s.Objects))
}
