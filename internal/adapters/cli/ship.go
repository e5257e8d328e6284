package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	admin "github.com/andrescamacho/voidfleet-go/internal/adapters/grpc"
)

// NewCooldownsCommand lists ability cooldowns of a ship
func NewCooldownsCommand() *cobra.Command {
	var shipID string

	cmd := &cobra.Command{
		Use:   "cooldowns",
		Short: "Show a ship's ability cooldowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.GetCooldowns(ctx, id, shipID)
				if err != nil {
					return fmt.Errorf("failed to get cooldowns: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Turn %d\n", resp.CurrentTurn)
				if len(resp.Cooldowns) == 0 {
					fmt.Fprintln(out, "No abilities on cooldown")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ABILITY\tAVAILABLE\tREADY\tREMAINING")
				for _, c := range resp.Cooldowns {
					fmt.Fprintf(w, "%s\t%d\t%t\t%d\n", c.AbilityKey, c.AvailableTurn, c.Ready, c.TurnsRemaining)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&shipID, "ship", "", "Ship ID")
	cmd.MarkFlagRequired("ship")
	return cmd
}

// NewCombatLogCommand prints the combat log of a resolved turn
func NewCombatLogCommand() *cobra.Command {
	var (
		turn      int
		eventType string
	)

	cmd := &cobra.Command{
		Use:   "combat-log",
		Short: "Show the combat log of a turn",
		Long: `Show what happened during a resolved turn.

Examples:
  voidfleet combat-log --turn 12
  voidfleet combat-log --turn 12 --event kill`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.GetCombatLog(ctx, id, turn, eventType)
				if err != nil {
					return fmt.Errorf("failed to get combat log: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				if len(resp.Entries) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No combat events on turn %d\n", turn)
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "SEQ\tEVENT\tATTACKER\tTARGET\tSUMMARY")
				for _, e := range resp.Entries {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Sequence, e.EventType, orDash(e.AttackerID), orDash(e.TargetID), e.Summary)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&turn, "turn", 0, "Turn number")
	cmd.Flags().StringVar(&eventType, "event", "", "Only this event type (attack, miss, kill, status, effect, ability, ability_failed)")
	cmd.MarkFlagRequired("turn")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
