package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if GWLB_CONFIG is set
//  3. env (prefix GWLB_)
//
// The legacy GW2_GUILD_ID and GW2_API_KEY variables are honored when the
// koanf keys leave those fields empty.
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GWLB_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GWLB_DATA_DIR, GWLB_RETENTION_DAYS, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("GWLB_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "gwlb_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.GuildID == "" {
		cfg.GuildID = os.Getenv("GW2_GUILD_ID")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GW2_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.LeaderboardLimit <= 0 {
		return fmt.Errorf("%w: leaderboard_limit must be positive", ErrInvalidConfig)
	}
	if c.PriceBatchSize <= 0 {
		return fmt.Errorf("%w: price_batch_size must be positive", ErrInvalidConfig)
	}
	if c.GuildID != "" {
		if _, err := uuid.Parse(c.GuildID); err != nil {
			return fmt.Errorf("%w: guild_id is not a valid UUID: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
