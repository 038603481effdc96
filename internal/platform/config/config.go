// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, upstream client) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the meeple API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Search candidate cache (Redis). Empty disables the cache.
	RedisURL       string        `env:"REDIS_URL"`
	SearchCacheTTL time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"10m"`

	// Upstream metadata API (BoardGameGeek XML API v2)
	BggBaseURL string `env:"BGG_BASE_URL" envDefault:"https://boardgamegeek.com/xmlapi2"`
	BggToken   string `env:"BGG_API_TOKEN"`

	// UpstreamConcurrency bounds in-flight thing requests for a single call.
	UpstreamConcurrency int `env:"UPSTREAM_CONCURRENCY" envDefault:"10"`

	// UpstreamTimeout bounds a single HTTP attempt against the upstream API.
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.UpstreamConcurrency < 1 {
		return nil, fmt.Errorf("config: UPSTREAM_CONCURRENCY must be at least 1, got %d", cfg.UpstreamConcurrency)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SearchCacheEnabled reports whether search candidates should be cached in Redis.
func (c *Config) SearchCacheEnabled() bool {
	return c.RedisURL != "" && c.SearchCacheTTL > 0
}
