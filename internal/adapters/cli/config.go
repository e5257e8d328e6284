package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage voidfleet configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (VF_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default game) are stored in ~/.voidfleet/config.json

Examples:
  voidfleet config show
  voidfleet config set-game alpha
  voidfleet config clear-game`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetGameCommand())
	cmd.AddCommand(newConfigClearGameCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Voidfleet Configuration")
			fmt.Fprintln(out, "=======================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			if userCfg.DefaultGameID != "" {
				fmt.Fprintf(out, "  Default Game:     %s\n", userCfg.DefaultGameID)
			} else {
				fmt.Fprintln(out, "  Default Game:     (not set)")
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}
			fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Fprintln(out, "\nServer:")
			fmt.Fprintf(out, "  Address:          %s\n", cfg.Server.Address)
			fmt.Fprintf(out, "  Rate Limit:       %.1f req/s (burst: %d)\n",
				cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Burst)

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)

			fmt.Fprintln(out, "\nEngine:")
			fmt.Fprintf(out, "  Tick Interval:    %s\n", cfg.Engine.TickInterval)
			fmt.Fprintf(out, "  Max Games:        %d\n", cfg.Engine.MaxConcurrentGames)
			fmt.Fprintf(out, "  Turn Duration:    %s\n", cfg.Engine.DefaultTurnDuration)
			fmt.Fprintf(out, "  Respawn Delay:    %d turns\n", cfg.Engine.Rules.RespawnDelayTurns)
			fmt.Fprintf(out, "  Wreck Decay:      %d turns\n", cfg.Engine.Rules.WreckDecayTurns)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newConfigSetGameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-game <game-id>",
		Short: "Set the default game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultGame(args[0]); err != nil {
				return fmt.Errorf("failed to set default game: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default game set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigClearGameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-game",
		Short: "Clear the default game",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.ClearDefaultGame(); err != nil {
				return fmt.Errorf("failed to clear default game: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default game cleared")
			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable url)"
	}
	return u.Redacted()
}
