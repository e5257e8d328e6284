package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/config"
)

func TestSetDefaults_EngineRules(t *testing.T) {
	cfg := &config.Config{}

	config.SetDefaults(cfg)

	assert.Equal(t, 10, cfg.Engine.Rules.RespawnDelayTurns)
	assert.Equal(t, 30, cfg.Engine.Rules.WreckDecayTurns)
	assert.Equal(t, 0.6, cfg.Engine.Rules.LootMin)
	assert.Equal(t, 0.8, cfg.Engine.Rules.LootMax)
	assert.Equal(t, time.Second, cfg.Engine.TickInterval)
	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  type: sqlite
  path: ":memory:"
engine:
  max_concurrent_games: 2
  default_turn_duration: 30s
logging:
  level: info
`), 0o644))
	t.Setenv("VF_LOGGING_LEVEL", "debug")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 2, cfg.Engine.MaxConcurrentGames)
	assert.Equal(t, 30*time.Second, cfg.Engine.DefaultTurnDuration)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateConfig_RejectsInvertedLootBand(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Engine.Rules.LootMin = 0.9
	cfg.Engine.Rules.LootMax = 0.5

	assert.Error(t, config.ValidateConfig(cfg))
}

func TestValidateConfig_EngineRelations(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Engine.TickInterval = 2 * time.Minute
	cfg.Engine.Rules.WreckDecayTurns = 5

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Engine.TickInterval: must not exceed Engine.DefaultTurnDuration")
	assert.Contains(t, err.Error(), "Engine.WreckDecayTurns: must be at least Engine.Rules.RespawnDelayTurns")
}

func TestValidateConfig_NamesOffendingField(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Database.Type = "mysql"
	cfg.Database.LogLevel = "verbose"

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.Type: must be one of [postgres sqlite], got mysql")
	assert.Contains(t, err.Error(), "Database.LogLevel")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5433, User: "vf", Password: "pw", Name: "fleet", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=vf password=pw dbname=fleet sslmode=disable", cfg.DSN())

	cfg.URL = "postgres://vf@db/fleet"
	assert.Equal(t, "postgres://vf@db/fleet", cfg.DSN())
}
