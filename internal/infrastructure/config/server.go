package config

import "time"

// ServerConfig holds the player-facing HTTP and WebSocket listener configuration
type ServerConfig struct {
	// Listen address (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// Per-client request rate limiting
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Maximum inbound WebSocket message size in bytes
	MaxMessageSize int64 `mapstructure:"max_message_size" validate:"min=1"`

	// Buffered outbound messages per WebSocket client
	SendBuffer int `mapstructure:"send_buffer" validate:"min=1"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RateLimitConfig holds token bucket settings
type RateLimitConfig struct {
	// Requests per second
	Requests float64 `mapstructure:"requests" validate:"gt=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// DaemonConfig covers the process itself and its local admin socket
type DaemonConfig struct {
	// gRPC admin service, reachable only through this unix socket
	SocketPath string `mapstructure:"socket_path" validate:"required"`

	PIDFile string `mapstructure:"pid_file"`

	// How long in-flight turns and requests get once a stop signal arrives
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
