// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

// Package config provides layered configuration loading for Oarlock
// (defaults, then an optional YAML file, then environment variables).
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Concept2 Concept2Config `koanf:"concept2"`
	Database DatabaseConfig `koanf:"database"`
	Sync     SyncConfig     `koanf:"sync"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// Concept2Config holds the remote Logbook API settings.
type Concept2Config struct {
	// BaseURL is the Logbook origin, without the /api suffix.
	BaseURL    string `koanf:"base_url"`
	APIVersion string `koanf:"api_version"`

	// OAuth2 application credentials. The login flow itself lives outside
	// this process; these are used only for token refresh.
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	Scope        string `koanf:"scope"`

	// AccessToken is the bearer token presented on every API call.
	AccessToken  string `koanf:"access_token"`
	RefreshToken string `koanf:"refresh_token"`

	Timeout time.Duration `koanf:"timeout"`
}

// APIURL returns the versioned REST base, e.g. https://log.concept2.com/api.
func (c *Concept2Config) APIURL() string {
	return c.BaseURL + "/api"
}

// TokenURL returns the OAuth2 token endpoint.
func (c *Concept2Config) TokenURL() string {
	return c.BaseURL + "/oauth/access_token"
}

// DatabaseConfig holds the DuckDB store settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads sets the DuckDB thread count; 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// SyncConfig controls the incremental sync engine.
type SyncConfig struct {
	// Freshness is the staleness window; a cycle within this window of the
	// last successful sync makes no network calls.
	Freshness time.Duration `koanf:"freshness"`

	// PageSize is the per-page result count requested from the Logbook.
	// The API caps this at 250.
	PageSize int `koanf:"page_size"`

	// ActivityType restricts sync to one machine type (default "rower").
	ActivityType string `koanf:"activity_type"`

	RetryAttempts int           `koanf:"retry_attempts"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
	RetryMaxDelay time.Duration `koanf:"retry_max_delay"`

	// RequestsPerSecond bounds the page-fetch rate against the Logbook.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// maxPageSize is the Logbook's hard cap on per-page result counts.
const maxPageSize = 250

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Concept2.BaseURL == "" {
		return fmt.Errorf("concept2.base_url is required")
	}
	if _, err := url.Parse(c.Concept2.BaseURL); err != nil {
		return fmt.Errorf("concept2.base_url is not a valid URL: %w", err)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Sync.PageSize <= 0 || c.Sync.PageSize > maxPageSize {
		return fmt.Errorf("sync.page_size must be in 1..%d, got %d", maxPageSize, c.Sync.PageSize)
	}
	if c.Sync.Freshness <= 0 {
		return fmt.Errorf("sync.freshness must be positive, got %s", c.Sync.Freshness)
	}
	if c.Sync.RetryAttempts <= 0 {
		return fmt.Errorf("sync.retry_attempts must be positive, got %d", c.Sync.RetryAttempts)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	return nil
}

// defaultConfig returns a Config with all default values applied.
// Defaults are loaded first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Concept2: Concept2Config{
			BaseURL:    "https://log.concept2.com",
			APIVersion: "v1",
			Scope:      "user:read,results:read",
			Timeout:    30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "data/oarlock.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Sync: SyncConfig{
			Freshness:         24 * time.Hour,
			PageSize:          250,
			ActivityType:      "rower",
			RetryAttempts:     3,
			RetryDelay:        1 * time.Second,
			RetryMaxDelay:     10 * time.Second,
			RequestsPerSecond: 2,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
