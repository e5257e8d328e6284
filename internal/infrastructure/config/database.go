package config

import (
	"fmt"
	"time"
)

// DatabaseConfig selects the store behind every engine repository. Postgres
// is the production backend; sqlite serves local games and tests.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// URL wins over the discrete postgres fields below
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// Path of the sqlite file, ":memory:" when empty
	Path string `mapstructure:"path"`

	// SkipMigrations leaves the schema alone at daemon start
	SkipMigrations bool `mapstructure:"skip_migrations"`

	// LogLevel of the GORM logger: silent, error, warn or info
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=silent error warn info"`

	// SlowQuery is the threshold above which GORM reports a statement
	SlowQuery time.Duration `mapstructure:"slow_query"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig bounds the postgres pool; sqlite always runs on one connection
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1,ltefield=MaxOpen"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN renders the postgres connection string
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
