package config

// LoggingConfig shapes the logrus logger shared by the scheduler, the
// admin socket and the player API
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// stdout, stderr or file; FilePath is only read for file
	Output   string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	IncludeCaller bool `mapstructure:"include_caller"`
}

// MetricsConfig turns on the Prometheus collectors for requests and turns
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Path is mounted on the player HTTP server outside the rate limiter
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
