package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Sources.validate(); err != nil {
		return fmt.Errorf("sources: %w", err)
	}

	if c.Sources.Mode == ModeGenerative && strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("llm.api_key is required when sources.mode is %q", ModeGenerative)
	}

	if err := c.Reveal.validate(); err != nil {
		return fmt.Errorf("reveal: %w", err)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.RateLimit.DiscoverPerMinute <= 0 {
		return fmt.Errorf("rate_limit.discover_per_minute must be > 0 (got %d)", c.RateLimit.DiscoverPerMinute)
	}

	return nil
}

func (s *SourcesConfig) validate() error {
	switch s.Mode {
	case ModeDictionary, ModeGenerative:
	default:
		return fmt.Errorf("mode must be %q or %q (got %q)", ModeDictionary, ModeGenerative, s.Mode)
	}
	if s.EnglishListSize <= 0 || s.WikiListSize <= 0 {
		return fmt.Errorf("list sizes must be > 0 (got %d, %d)", s.EnglishListSize, s.WikiListSize)
	}
	if s.MinWordLength < 0 || s.MinExtractLength < 0 {
		return fmt.Errorf("minimum lengths must be >= 0")
	}
	if s.BreakMargin <= 0 || s.MaxDefinitionLength <= s.BreakMargin {
		return fmt.Errorf("max_definition_length (%d) must exceed break_margin (%d) and break_margin must be > 0",
			s.MaxDefinitionLength, s.BreakMargin)
	}
	return nil
}

func (r *RevealConfig) validate() error {
	if r.AnticipationDelay < 0 {
		return fmt.Errorf("anticipation_delay must be >= 0 (got %s)", r.AnticipationDelay)
	}
	if r.DefinitionDelay < 0 {
		return fmt.Errorf("definition_delay must be >= 0 (got %s)", r.DefinitionDelay)
	}
	if r.DecoyCount < 1 {
		return fmt.Errorf("decoy_count must be >= 1 (got %d)", r.DecoyCount)
	}
	return nil
}

func (s *StorageConfig) validate() error {
	switch s.Driver {
	case DriverMemory, DriverFile, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(s.Postgres.DSN) == "" {
			return fmt.Errorf("postgres.dsn is required for driver %q", DriverPostgres)
		}
		if s.Postgres.MaxConns < s.Postgres.MinConns {
			return fmt.Errorf("postgres.max_conns (%d) must be >= min_conns (%d)", s.Postgres.MaxConns, s.Postgres.MinConns)
		}
	default:
		return fmt.Errorf("driver must be one of memory, file, sqlite, postgres (got %q)", s.Driver)
	}
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}
