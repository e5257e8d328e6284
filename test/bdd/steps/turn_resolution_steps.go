package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/voidfleet-go/internal/adapters/persistence"
	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/domain/combat"
	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
	"github.com/andrescamacho/voidfleet-go/internal/domain/sector"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/test/helpers"
)

var scenarioEpoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type turnResolutionContext struct {
	ctx      context.Context
	stores   turn.Stores
	resolver *turn.Resolver
	gameID   string
	report   *turn.TurnReport
	seq      int
}

func (tc *turnResolutionContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	tc.ctx = context.Background()
	tc.stores = persistence.NewStores(helpers.SharedTestDB)
	tc.resolver = turn.NewResolver(tc.stores, turn.ResolverOptions{NewID: helpers.IDSequence("bdd")})
	tc.gameID = ""
	tc.report = nil
	tc.seq = 0
	return nil
}

func (tc *turnResolutionContext) nextID(prefix string) string {
	tc.seq++
	return fmt.Sprintf("%s-%d", prefix, tc.seq)
}

// Setup steps

type gameIDKey struct{}

// scenarioGame returns the game created by the background of the scenario
func scenarioGame(ctx context.Context) string {
	id, _ := ctx.Value(gameIDKey{}).(string)
	return id
}

func (tc *turnResolutionContext) aGameOnTurn(ctx context.Context, id string, turnNumber int) (context.Context, error) {
	g, err := game.NewGame(id, "game "+id, time.Minute, scenarioEpoch)
	if err != nil {
		return ctx, err
	}
	g.CurrentTurn = turnNumber
	tc.gameID = id
	return context.WithValue(ctx, gameIDKey{}, id), tc.stores.Games.Save(tc.ctx, g)
}

func (tc *turnResolutionContext) theFollowingShips(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		x, err := strconv.Atoi(cell(table, row, "x"))
		if err != nil {
			return err
		}
		y, err := strconv.Atoi(cell(table, row, "y"))
		if err != nil {
			return err
		}
		id := cell(table, row, "id")
		bp, ok := sector.LookupBlueprint(cell(table, row, "blueprint"))
		if !ok {
			return fmt.Errorf("unknown blueprint %q", cell(table, row, "blueprint"))
		}
		ship := bp.NewShip(id, tc.gameID, helpers.DefaultSector, cell(table, row, "owner"), shared.NewPosition(x, y))
		ship.Name = id
		if err := tc.stores.Objects.Save(tc.ctx, ship); err != nil {
			return err
		}
	}
	return nil
}

func (tc *turnResolutionContext) aStationOwnedByAt(objectType, id, owner string, x, y int) error {
	return tc.stores.Objects.Save(tc.ctx, &sector.SectorObject{
		ID:       id,
		GameID:   tc.gameID,
		SectorID: helpers.DefaultSector,
		OwnerID:  owner,
		Type:     sector.ObjectType(objectType),
		Name:     id,
		Position: shared.NewPosition(x, y),
		Stats:    sector.ShipStats{HP: 500, MaxHP: 500, Hull: sector.HullCapital},
	})
}

func (tc *turnResolutionContext) queue(shipID string, payload orders.Payload, notBefore *int) error {
	q, err := orders.NewQueuedOrder(tc.nextID("q"), tc.gameID, shipID, payload, notBefore, scenarioEpoch)
	if err != nil {
		return err
	}
	return tc.stores.Queue.Enqueue(tc.ctx, q)
}

func (tc *turnResolutionContext) shipHasQueuedAMoveTo(shipID string, x, y int) error {
	return tc.queue(shipID, orders.MovePayload{Destination: shared.NewPosition(x, y)}, nil)
}

func (tc *turnResolutionContext) shipHasQueuedAMoveToNotBefore(shipID string, x, y, notBefore int) error {
	return tc.queue(shipID, orders.MovePayload{Destination: shared.NewPosition(x, y)}, &notBefore)
}

func (tc *turnResolutionContext) shipFiresAtOnTurn(casterID, abilityKey, targetID string, turnNumber int) error {
	return tc.stores.TurnOrders.UpsertAbilityOrder(tc.ctx, &orders.AbilityOrder{
		ID:             tc.nextID("ao"),
		GameID:         tc.gameID,
		Turn:           turnNumber,
		CasterID:       casterID,
		AbilityKey:     abilityKey,
		TargetObjectID: targetID,
		SubmittedAt:    scenarioEpoch,
	})
}

func (tc *turnResolutionContext) aPilotIsDueToRespawnOnTurn(playerID string, turnNumber int) error {
	return tc.stores.Respawns.Enqueue(tc.ctx, &combat.PilotRespawn{
		ID:          tc.nextID("rs"),
		GameID:      tc.gameID,
		PlayerID:    playerID,
		LostShipID:  "lost-" + playerID,
		RespawnTurn: turnNumber,
		Status:      combat.RespawnPending,
	})
}

// Action steps

func (tc *turnResolutionContext) turnIsResolved(turnNumber int) error {
	report, err := tc.resolver.ResolveTurn(tc.ctx, tc.gameID, turnNumber)
	if err != nil {
		return err
	}
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("turn %d resolved with %d failed entities", turnNumber, failed)
	}
	tc.report = report
	return nil
}

// Assertion steps

func (tc *turnResolutionContext) shipShouldBeAt(id string, x, y int) error {
	obj, err := tc.stores.Objects.FindByID(tc.ctx, id)
	if err != nil {
		return err
	}
	if want := shared.NewPosition(x, y); obj.Position != want {
		return fmt.Errorf("expected %s at %v, found %v", id, want, obj.Position)
	}
	return nil
}

func (tc *turnResolutionContext) theQueueShouldRead(shipID, expected string) error {
	list, err := tc.stores.Queue.ListByShip(tc.ctx, shipID, true)
	if err != nil {
		return err
	}
	statuses := make([]string, 0, len(list))
	for _, q := range list {
		statuses = append(statuses, string(q.Status))
	}
	if got := strings.Join(statuses, ","); got != expected {
		return fmt.Errorf("expected queue %q, got %q", expected, got)
	}
	return nil
}

func (tc *turnResolutionContext) shouldBeAWreckDestroyedBy(id, attackerID string) error {
	obj, err := tc.stores.Objects.FindByID(tc.ctx, id)
	if err != nil {
		return err
	}
	if !obj.IsWreck() || obj.Wreck == nil {
		return fmt.Errorf("expected %s to be a wreck, it is a %s", id, obj.Type)
	}
	if obj.Wreck.DestroyedBy != attackerID {
		return fmt.Errorf("expected %s destroyed by %s, got %s", id, attackerID, obj.Wreck.DestroyedBy)
	}
	return nil
}

func (tc *turnResolutionContext) theCombatLogOfTurnShouldContain(turnNumber int, table *godog.Table) error {
	entries, err := tc.stores.CombatLog.ListByTurn(tc.ctx, tc.gameID, turnNumber)
	if err != nil {
		return err
	}
	for _, row := range table.Rows[1:] {
		event := cell(table, row, "event")
		attacker := cell(table, row, "attacker")
		target := cell(table, row, "target")
		found := false
		for _, e := range entries {
			if string(e.EventType) == event && e.AttackerID == attacker && e.TargetID == target {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no %s entry from %s on %s in turn %d", event, attacker, target, turnNumber)
		}
	}
	return nil
}

func (tc *turnResolutionContext) aRespawnShouldBePendingOnTurn(playerID string, turnNumber int) error {
	early, err := tc.stores.Respawns.ListDue(tc.ctx, tc.gameID, turnNumber-1)
	if err != nil {
		return err
	}
	for _, r := range early {
		if r.PlayerID == playerID {
			return fmt.Errorf("respawn for %s is due before turn %d", playerID, turnNumber)
		}
	}
	due, err := tc.stores.Respawns.ListDue(tc.ctx, tc.gameID, turnNumber)
	if err != nil {
		return err
	}
	for _, r := range due {
		if r.PlayerID == playerID {
			return nil
		}
	}
	return fmt.Errorf("no pending respawn for %s on turn %d", playerID, turnNumber)
}

func (tc *turnResolutionContext) abilityShouldBeAvailableOnTurn(abilityKey, shipID string, turnNumber int) error {
	cd, err := tc.stores.Cooldowns.Get(tc.ctx, shipID, abilityKey)
	if err != nil {
		return err
	}
	if cd == nil {
		return fmt.Errorf("%s has no cooldown on %s", shipID, abilityKey)
	}
	if cd.AvailableTurn != turnNumber {
		return fmt.Errorf("expected %s available on turn %d, got %d", abilityKey, turnNumber, cd.AvailableTurn)
	}
	return nil
}

func (tc *turnResolutionContext) thePhaseShouldReport(phase string, processed, skipped int) error {
	if tc.report == nil {
		return fmt.Errorf("no turn has been resolved")
	}
	p, ok := tc.report.Phase(phase)
	if !ok {
		return fmt.Errorf("phase %s missing from report", phase)
	}
	if p.Processed != processed || p.Skipped != skipped {
		return fmt.Errorf("phase %s: expected %d processed %d skipped, got %d and %d",
			phase, processed, skipped, p.Processed, p.Skipped)
	}
	return nil
}

func (tc *turnResolutionContext) ownedShips(playerID string) ([]*sector.SectorObject, error) {
	return tc.stores.Objects.FindOwnedByType(tc.ctx, tc.gameID, playerID, sector.ObjectShip)
}

func (tc *turnResolutionContext) shouldOwnNoShips(playerID string) error {
	ships, err := tc.ownedShips(playerID)
	if err != nil {
		return err
	}
	if len(ships) != 0 {
		return fmt.Errorf("expected %s to own no ships, found %d", playerID, len(ships))
	}
	return nil
}

func (tc *turnResolutionContext) shouldOwnAAt(playerID, blueprint string, x, y int) error {
	ships, err := tc.ownedShips(playerID)
	if err != nil {
		return err
	}
	want := shared.NewPosition(x, y)
	for _, s := range ships {
		if s.Blueprint == blueprint && s.Position == want {
			return nil
		}
	}
	return fmt.Errorf("%s owns no %s at %v", playerID, blueprint, want)
}

func InitializeTurnResolutionScenario(sc *godog.ScenarioContext) {
	tc := &turnResolutionContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	// Setup steps
	sc.Step(`^a game "([^"]*)" on turn (\d+)$`, tc.aGameOnTurn)
	sc.Step(`^the following ships:$`, tc.theFollowingShips)
	sc.Step(`^a (station|structure) "([^"]*)" owned by "([^"]*)" at (\d+),(\d+)$`, tc.aStationOwnedByAt)
	sc.Step(`^ship "([^"]*)" has queued a move to (\d+),(\d+)$`, tc.shipHasQueuedAMoveTo)
	sc.Step(`^ship "([^"]*)" has queued a move to (\d+),(\d+) not before turn (\d+)$`, tc.shipHasQueuedAMoveToNotBefore)
	sc.Step(`^ship "([^"]*)" fires "([^"]*)" at "([^"]*)" on turn (\d+)$`, tc.shipFiresAtOnTurn)
	sc.Step(`^a pilot of "([^"]*)" is due to respawn on turn (\d+)$`, tc.aPilotIsDueToRespawnOnTurn)

	// Action steps
	sc.Step(`^turn (\d+) is resolved$`, tc.turnIsResolved)

	// Assertion steps
	sc.Step(`^ship "([^"]*)" should be at (\d+),(\d+)$`, tc.shipShouldBeAt)
	sc.Step(`^the queue of "([^"]*)" should read "([^"]*)"$`, tc.theQueueShouldRead)
	sc.Step(`^"([^"]*)" should be a wreck destroyed by "([^"]*)"$`, tc.shouldBeAWreckDestroyedBy)
	sc.Step(`^the combat log of turn (\d+) should contain:$`, tc.theCombatLogOfTurnShouldContain)
	sc.Step(`^a respawn for "([^"]*)" should be pending on turn (\d+)$`, tc.aRespawnShouldBePendingOnTurn)
	sc.Step(`^ability "([^"]*)" of "([^"]*)" should be available on turn (\d+)$`, tc.abilityShouldBeAvailableOnTurn)
	sc.Step(`^the "([^"]*)" phase should report (\d+) processed and (\d+) skipped$`, tc.thePhaseShouldReport)
	sc.Step(`^"([^"]*)" should own no ships$`, tc.shouldOwnNoShips)
	sc.Step(`^"([^"]*)" should own a "([^"]*)" at (\d+),(\d+)$`, tc.shouldOwnAAt)
}

// cell reads a value from a row by the header of its column
func cell(table *godog.Table, row *messages.PickleTableRow, column string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}
