package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/voidfleet-go/internal/adapters/persistence"
	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	orderCommands "github.com/andrescamacho/voidfleet-go/internal/application/orders/commands"
	orderQueries "github.com/andrescamacho/voidfleet-go/internal/application/orders/queries"
	"github.com/andrescamacho/voidfleet-go/internal/application/setup"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/test/helpers"
)

type intentQueueContext struct {
	ctx      context.Context
	mediator mediator.Mediator
	lastErr  error
}

func (ic *intentQueueContext) reset() error {
	ic.ctx = context.Background()
	ic.lastErr = nil

	stores := persistence.NewStores(helpers.SharedTestDB)
	m := mediator.NewMediator()
	clock := shared.NewMockClock(scenarioEpoch)
	if err := setup.NewHandlerRegistry(stores, nil, clock, nil, 0).RegisterOrderHandlers(m); err != nil {
		return err
	}
	ic.mediator = m
	return nil
}

func (ic *intentQueueContext) iQueueAnOrderWithPayload(ctx context.Context, orderType, shipID string, payload *godog.DocString) error {
	raw := json.RawMessage(strings.TrimSpace(payload.Content))
	_, ic.lastErr = ic.mediator.Send(ic.ctx, &orderCommands.QueueOrderCommand{
		GameID:    scenarioGame(ctx),
		ShipID:    shipID,
		OrderType: orderType,
		Payload:   raw,
	})
	return nil
}

func (ic *intentQueueContext) theLastCommandShouldFailWith(fragment string) error {
	if ic.lastErr == nil {
		return fmt.Errorf("expected the last command to fail")
	}
	if !strings.Contains(ic.lastErr.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got %q", fragment, ic.lastErr.Error())
	}
	return nil
}

func (ic *intentQueueContext) iClearTheQueueOf(ctx context.Context, shipID string) error {
	_, err := ic.mediator.Send(ic.ctx, &orderCommands.ClearQueueCommand{GameID: scenarioGame(ctx), ShipID: shipID})
	return err
}

func (ic *intentQueueContext) shipShouldHaveQueuedOrders(ctx context.Context, shipID string, expected int) error {
	resp, err := ic.mediator.Send(ic.ctx, &orderQueries.ListQueueQuery{GameID: scenarioGame(ctx), ShipID: shipID})
	if err != nil {
		return err
	}
	list, ok := resp.(*orderQueries.ListQueueResponse)
	if !ok {
		return fmt.Errorf("unexpected response %T", resp)
	}
	if len(list.Orders) != expected {
		return fmt.Errorf("expected %d queued orders for %s, got %d", expected, shipID, len(list.Orders))
	}
	return nil
}

func InitializeIntentQueueScenario(sc *godog.ScenarioContext) {
	ic := &intentQueueContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, ic.reset()
	})

	sc.Step(`^I queue an? "([^"]*)" order for "([^"]*)" with payload:$`, ic.iQueueAnOrderWithPayload)
	sc.Step(`^the last command should fail with "([^"]*)"$`, ic.theLastCommandShouldFailWith)
	sc.Step(`^I clear the queue of "([^"]*)"$`, ic.iClearTheQueueOf)
	sc.Step(`^ship "([^"]*)" should have (\d+) queued orders?$`, ic.shipShouldHaveQueuedOrders)
}
