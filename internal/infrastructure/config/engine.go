package config

import "time"

// EngineConfig holds turn scheduler and rules configuration
type EngineConfig struct {
	// How often the scheduler looks for games whose turn window has elapsed
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Upper bound on games resolved concurrently
	MaxConcurrentGames int `mapstructure:"max_concurrent_games" validate:"min=1"`

	// Turn window for newly created games
	DefaultTurnDuration time.Duration `mapstructure:"default_turn_duration" validate:"required"`

	Rules RulesConfig `mapstructure:"rules"`
}

// RulesConfig holds the destruction and salvage tunables
type RulesConfig struct {
	RespawnDelayTurns      int     `mapstructure:"respawn_delay_turns" validate:"min=1"`
	WreckDecayTurns        int     `mapstructure:"wreck_decay_turns" validate:"min=1"`
	LootMin                float64 `mapstructure:"loot_min" validate:"gte=0,lte=1"`
	LootMax                float64 `mapstructure:"loot_max" validate:"gte=0,lte=1,gtefield=LootMin"`
	CoreSalvageRate        float64 `mapstructure:"core_salvage_rate" validate:"gte=0,lte=1"`
	SpecializedSalvageRate float64 `mapstructure:"specialized_salvage_rate" validate:"gte=0,lte=1"`
}
