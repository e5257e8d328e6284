package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	admin "github.com/andrescamacho/voidfleet-go/internal/adapters/grpc"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/config"
)

const callTimeout = 30 * time.Second

// resolveGameID picks the game from --game or the user's default
func resolveGameID() (string, error) {
	if gameID != "" {
		return gameID, nil
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no game specified and failed to load user config: %w", err)
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", fmt.Errorf("no game specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultGameID != "" {
		return userCfg.DefaultGameID, nil
	}

	return "", fmt.Errorf("no game specified: use --game, or set a default with 'voidfleet config set-game'")
}

// withClient connects to the daemon and runs fn with a bounded context
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client *admin.AdminClient) error) error {
	client, err := admin.NewAdminClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
	defer cancel()
	return fn(ctx, client)
}

// printJSON writes v indented
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parsePosition parses "x,y"
func parsePosition(s string) (shared.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return shared.Position{}, fmt.Errorf("invalid position %q: expected x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return shared.Position{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return shared.Position{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return shared.NewPosition(x, y), nil
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
