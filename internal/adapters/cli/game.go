package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	admin "github.com/andrescamacho/voidfleet-go/internal/adapters/grpc"
	gameQueries "github.com/andrescamacho/voidfleet-go/internal/application/game/queries"
)

// NewGameCommand creates the game command with subcommands
func NewGameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Inspect and set up games",
	}

	cmd.AddCommand(newGameShowCommand())
	cmd.AddCommand(newGameCreateCommand())
	cmd.AddCommand(newGameSpawnCommand())

	return cmd
}

func newGameShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a game's turn state",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.GetGame(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to get game: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				printGame(cmd, resp.Game)
				return nil
			})
		},
	}
}

func newGameCreateCommand() *cobra.Command {
	var (
		id           string
		name         string
		turnDuration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game",
		Long: `Create a game whose first turn opens immediately.

Examples:
  voidfleet game create --id alpha
  voidfleet game create --name "Friday skirmish" --turn-duration 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.CreateGame(ctx, admin.CreateGameRequest{
					ID:             id,
					Name:           name,
					TurnDurationMs: turnDuration.Milliseconds(),
				})
				if err != nil {
					return fmt.Errorf("failed to create game: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Game %s created\n", resp.Game.ID)
				printGame(cmd, resp.Game)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Game ID (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().DurationVar(&turnDuration, "turn-duration", 0, "Turn window (daemon default when omitted)")
	return cmd
}

func newGameSpawnCommand() *cobra.Command {
	var (
		req admin.SpawnObjectRequest
		at  string
	)

	cmd := &cobra.Command{
		Use:   "spawn",
		Short: "Place a ship, station or structure",
		Long: `Place an object on a free tile.

Ships are built from a blueprint (shuttle, scout, frigate, destroyer).

Examples:
  voidfleet game spawn --blueprint destroyer --owner player-1 --at 4,4
  voidfleet game spawn --type station --owner player-2 --at 20,20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}
			pos, err := parsePosition(at)
			if err != nil {
				return err
			}
			req.GameID = id
			req.Position = pos

			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.SpawnObject(ctx, req)
				if err != nil {
					return fmt.Errorf("failed to spawn object: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				o := resp.Object
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Spawned %s %s at (%d,%d) in %s\n",
					o.Type, o.ID, o.Position.X, o.Position.Y, o.SectorID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.SectorID, "sector", "sector-1", "Sector ID")
	cmd.Flags().StringVar(&req.OwnerID, "owner", "", "Owning player")
	cmd.Flags().StringVar(&req.ObjectType, "type", "ship", "Object type (ship, station, structure)")
	cmd.Flags().StringVar(&req.Blueprint, "blueprint", "", "Ship blueprint")
	cmd.Flags().StringVar(&req.ID, "id", "", "Object ID (generated when omitted)")
	cmd.Flags().StringVar(&at, "at", "", "Position as x,y")
	cmd.MarkFlagRequired("at")
	return cmd
}

func printGame(cmd *cobra.Command, g gameQueries.GameDTO) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Game:           %s (%s)\n", g.ID, g.Name)
	fmt.Fprintf(out, "Status:         %s\n", g.Status)
	fmt.Fprintf(out, "Current Turn:   %d\n", g.CurrentTurn)
	fmt.Fprintf(out, "Turn Window:    %s\n", time.Duration(g.TurnDurationMs)*time.Millisecond)
	fmt.Fprintf(out, "Deadline:       %s\n", formatTimestamp(&g.TurnDeadline))
	fmt.Fprintf(out, "Resolving:      %t\n", g.Resolving)
	fmt.Fprintf(out, "Last Resolved:  %s\n", formatTimestamp(g.LastResolvedAt))
}
