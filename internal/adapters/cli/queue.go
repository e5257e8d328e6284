package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	admin "github.com/andrescamacho/voidfleet-go/internal/adapters/grpc"
	"github.com/andrescamacho/voidfleet-go/internal/domain/orders"
)

// NewQueueCommand creates the queue command with subcommands
func NewQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage a ship's intent queue",
		Long: `Manage the ordered list of intents a ship carries across turns.

Queued orders become turn orders when the turn they target is resolved.

Examples:
  voidfleet queue list --ship scout-1a2b3c4d
  voidfleet queue add --ship scout-1a2b3c4d --type move --to 10,4
  voidfleet queue add --ship scout-1a2b3c4d --type harvest_start --payload '{"nodeId":"node-7"}'
  voidfleet queue remove --ship scout-1a2b3c4d <order-id>
  voidfleet queue clear --ship scout-1a2b3c4d`,
	}

	cmd.AddCommand(newQueueListCommand())
	cmd.AddCommand(newQueueAddCommand())
	cmd.AddCommand(newQueueRemoveCommand())
	cmd.AddCommand(newQueueClearCommand())

	return cmd
}

func newQueueListCommand() *cobra.Command {
	var (
		shipID string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.ListQueue(ctx, id, shipID, all)
				if err != nil {
					return fmt.Errorf("failed to list queue: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				if len(resp.Orders) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "SEQ\tORDER ID\tTYPE\tSTATUS\tNOT BEFORE\tPAYLOAD")
				for _, o := range resp.Orders {
					notBefore := "-"
					if o.NotBeforeTurn != nil {
						notBefore = fmt.Sprintf("%d", *o.NotBeforeTurn)
					}
					payload, _ := json.Marshal(o.Payload)
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", o.Sequence, o.ID, o.OrderType, o.Status, notBefore, payload)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&shipID, "ship", "", "Ship ID")
	cmd.Flags().BoolVar(&all, "all", false, "Include consumed, skipped and cancelled orders")
	cmd.MarkFlagRequired("ship")
	return cmd
}

func newQueueAddCommand() *cobra.Command {
	var (
		shipID    string
		orderType string
		payload   string
		to        string
		notBefore int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an order to the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}

			req := admin.QueueOrderRequest{GameID: id, ShipID: shipID, OrderType: orderType}
			switch {
			case to != "":
				pos, err := parsePosition(to)
				if err != nil {
					return err
				}
				raw, err := json.Marshal(orders.MovePayload{Destination: pos})
				if err != nil {
					return err
				}
				req.Payload = raw
			case payload != "":
				if !json.Valid([]byte(payload)) {
					return fmt.Errorf("--payload is not valid JSON")
				}
				req.Payload = json.RawMessage(payload)
			}
			if notBefore > 0 {
				req.NotBeforeTurn = &notBefore
			}

			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.QueueOrder(ctx, req)
				if err != nil {
					return fmt.Errorf("failed to queue order: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Queued %s order %s at position %d\n",
					resp.Order.OrderType, resp.Order.ID, resp.Order.Sequence)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&shipID, "ship", "", "Ship ID")
	cmd.Flags().StringVar(&orderType, "type", "", "Order type (move, warp, harvest_start, harvest_stop, ability)")
	cmd.Flags().StringVar(&payload, "payload", "", "Order payload as JSON")
	cmd.Flags().StringVar(&to, "to", "", "Destination as x,y for move and warp")
	cmd.Flags().IntVar(&notBefore, "not-before", 0, "Earliest turn the order may run")
	cmd.MarkFlagRequired("ship")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagsMutuallyExclusive("payload", "to")
	return cmd
}

func newQueueRemoveCommand() *cobra.Command {
	var shipID string

	cmd := &cobra.Command{
		Use:   "remove <order-id>",
		Short: "Cancel one queued order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.RemoveQueuedOrder(ctx, id, shipID, args[0])
				if err != nil {
					return fmt.Errorf("failed to remove order: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Order %s %s\n", resp.Order.ID, resp.Order.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&shipID, "ship", "", "Ship ID")
	cmd.MarkFlagRequired("ship")
	return cmd
}

func newQueueClearCommand() *cobra.Command {
	var shipID string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Cancel every queued order of a ship",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGameID()
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, client *admin.AdminClient) error {
				resp, err := client.ClearQueue(ctx, id, shipID)
				if err != nil {
					return fmt.Errorf("failed to clear queue: %w", err)
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Cancelled %d queued orders\n", resp.Cancelled)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&shipID, "ship", "", "Ship ID")
	cmd.MarkFlagRequired("ship")
	return cmd
}
