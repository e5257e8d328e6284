package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	admin "github.com/andrescamacho/voidfleet-go/internal/adapters/grpc"
)

// NewTurnCommand creates the turn command with subcommands
func NewTurnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Drive turn resolution",
	}
	cmd.AddCommand(newTurnResolveCommand())
	return cmd
}

func newTurnResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the open turn now",
		Long: `Resolve the game's open turn without waiting for its deadline.

The request fails when the scheduler is already resolving the game.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.ResolveTurn(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to resolve turn: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "✓ Turn %d of %s resolved in %dms\n\n", resp.ResolvedTurn, resp.GameID, resp.DurationMs)

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "PHASE\tPROCESSED\tSKIPPED\tFAILED\tDURATION")
				for _, p := range resp.Phases {
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%dms\n", p.Phase, p.Processed, p.Skipped, p.Failed, p.DurationMs)
				}
				return w.Flush()
			})
		},
	}
}
