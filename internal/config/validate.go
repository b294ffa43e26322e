package config

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}

	if err := c.Store.validate(c.Database); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if strings.TrimSpace(c.Dataset.Source) == "" {
		return fmt.Errorf("dataset.source is required")
	}
	if c.Dataset.Timeout <= 0 {
		return fmt.Errorf("dataset.timeout must be > 0 (got %v)", c.Dataset.Timeout)
	}

	if !domain.Orientation(c.Display.Orientation).IsValid() {
		return fmt.Errorf("display.orientation %q is not one of %v", c.Display.Orientation, domain.Orientations())
	}

	if c.RateLimit.AnnotatePerMinute < 0 {
		return fmt.Errorf("rate_limit.annotate_per_minute must be >= 0 (got %d)", c.RateLimit.AnnotatePerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %v)", c.RateLimit.CleanupInterval)
	}

	return nil
}

func (s StoreConfig) validate(db DatabaseConfig) error {
	switch s.Driver {
	case StoreDriverBadger:
		if !s.InMemory && strings.TrimSpace(s.BadgerPath) == "" {
			return fmt.Errorf("badger_path is required unless in_memory is set")
		}
	case StoreDriverPostgres:
		if strings.TrimSpace(db.DSN) == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown driver %q (want %s or %s)", s.Driver, StoreDriverBadger, StoreDriverPostgres)
	}
	return nil
}

// DefaultDisplay converts the configured display defaults into a domain snapshot.
func (c DisplayConfig) DefaultDisplay() domain.DisplayConfig {
	return domain.DisplayConfig{
		Enabled:     c.Enabled,
		Orientation: domain.Orientation(c.Orientation),
	}
}
