package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	gameID     string
	jsonOutput bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voidfleet",
		Short: "Voidfleet CLI - Operate the turn resolution daemon",
		Long: `Voidfleet CLI inspects and drives games hosted by the voidfleet daemon.
The CLI communicates with the daemon via Unix socket.

Examples:
  voidfleet game create --id alpha --turn-duration 1m
  voidfleet game spawn --game alpha --blueprint scout --owner player-1 --at 3,4
  voidfleet queue add --ship scout-1a2b3c4d --type move --to 10,4
  voidfleet queue list --ship scout-1a2b3c4d --all
  voidfleet turn resolve --game alpha
  voidfleet combat-log --turn 12`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVarP(&gameID, "game", "g", "",
		"Game ID (defaults to the one set with 'voidfleet config set-game')")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print raw JSON instead of tables")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewGameCommand())
	rootCmd.AddCommand(NewTurnCommand())
	rootCmd.AddCommand(NewQueueCommand())
	rootCmd.AddCommand(NewCooldownsCommand())
	rootCmd.AddCommand(NewCombatLogCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("VF_DAEMON_SOCKET_PATH"); path != "" {
		return path
	}
	return "/tmp/voidfleet-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
