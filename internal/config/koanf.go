// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/oarlock/config.yaml",
	"/etc/oarlock/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from layered sources:
//  1. Defaults: built-in values from defaultConfig()
//  2. Config file: optional YAML file (first found in DefaultConfigPaths)
//  3. Environment variables: highest priority
//
// Precedence is ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Transform environment variable names to koanf paths:
	// CONCEPT2_CLIENT_ID -> concept2.client_id, SYNC_PAGE_SIZE -> sync.page_size
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Only variables listed here are honored; everything else in the process
// environment is ignored so unrelated variables cannot leak into the config.
var envMappings = map[string]string{
	"concept2_base_url":      "concept2.base_url",
	"concept2_api_version":   "concept2.api_version",
	"concept2_client_id":     "concept2.client_id",
	"concept2_client_secret": "concept2.client_secret",
	"concept2_scope":         "concept2.scope",
	"concept2_access_token":  "concept2.access_token",
	"concept2_refresh_token": "concept2.refresh_token",
	"concept2_timeout":       "concept2.timeout",

	"database_path":       "database.path",
	"database_max_memory": "database.max_memory",
	"database_threads":    "database.threads",
	"db_path":             "database.path", // legacy alias

	"sync_freshness":           "sync.freshness",
	"sync_page_size":           "sync.page_size",
	"sync_activity_type":       "sync.activity_type",
	"sync_retry_attempts":      "sync.retry_attempts",
	"sync_retry_delay":         "sync.retry_delay",
	"sync_retry_max_delay":     "sync.retry_max_delay",
	"sync_requests_per_second": "sync.requests_per_second",

	"server_host":    "server.host",
	"server_port":    "server.port",
	"server_timeout": "server.timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Returning "" drops the variable.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
