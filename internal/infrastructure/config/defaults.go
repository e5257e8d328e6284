package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "voidfleet"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "voidfleet"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "silent"
	}
	if cfg.Database.SlowQuery == 0 {
		cfg.Database.SlowQuery = 200 * time.Millisecond
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.RateLimit.Requests == 0 {
		cfg.Server.RateLimit.Requests = 10
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = 20
	}
	if cfg.Server.MaxMessageSize == 0 {
		cfg.Server.MaxMessageSize = 4096
	}
	if cfg.Server.SendBuffer == 0 {
		cfg.Server.SendBuffer = 64
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/voidfleet-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/voidfleet-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}

	// Engine defaults
	if cfg.Engine.TickInterval == 0 {
		cfg.Engine.TickInterval = 1 * time.Second
	}
	if cfg.Engine.MaxConcurrentGames == 0 {
		cfg.Engine.MaxConcurrentGames = 4
	}
	if cfg.Engine.DefaultTurnDuration == 0 {
		cfg.Engine.DefaultTurnDuration = 60 * time.Second
	}
	if cfg.Engine.Rules.RespawnDelayTurns == 0 {
		cfg.Engine.Rules.RespawnDelayTurns = 10
	}
	if cfg.Engine.Rules.WreckDecayTurns == 0 {
		cfg.Engine.Rules.WreckDecayTurns = 30
	}
	if cfg.Engine.Rules.LootMin == 0 && cfg.Engine.Rules.LootMax == 0 {
		cfg.Engine.Rules.LootMin = 0.6
		cfg.Engine.Rules.LootMax = 0.8
	}
	if cfg.Engine.Rules.CoreSalvageRate == 0 {
		cfg.Engine.Rules.CoreSalvageRate = 0.3
	}
	if cfg.Engine.Rules.SpecializedSalvageRate == 0 {
		cfg.Engine.Rules.SpecializedSalvageRate = 0.2
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
