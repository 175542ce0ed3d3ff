// Package config defines pipeline configuration and loading.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address for serve mode, e.g. ":8780".
	Addr string `koanf:"addr"`

	// DataDir is where snapshot files are read and written.
	DataDir string `koanf:"data_dir"`

	// GuildID is the guild UUID the pipeline tracks.
	GuildID string `koanf:"guild_id"`

	// APIKey authenticates the guild log, member, and info endpoints.
	APIKey string `koanf:"api_key"`

	// RetentionDays windows scoring to the last N days. Zero or negative
	// means all-time.
	RetentionDays int `koanf:"retention_days"`

	// LeaderboardLimit truncates each published leaderboard.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// PriceBatchSize bounds item ids per pricing oracle request.
	PriceBatchSize int `koanf:"price_batch_size"`

	// HTTPTimeoutSeconds bounds outbound API requests.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8780",
		DataDir:            "data",
		RetentionDays:      0,
		LeaderboardLimit:   20,
		PriceBatchSize:     200,
		HTTPTimeoutSeconds: 15,
	}
}
