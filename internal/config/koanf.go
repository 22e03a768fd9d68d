// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPath is used when CONFIG_PATH is unset.
const DefaultConfigPath = "./config.json"

// EnvPrefix is the prefix of all HydroWire environment variables.
const EnvPrefix = "HYDROWIRE_"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			MaxConns:     8,
			QueryTimeout: 60 * time.Second,
			SSHPort:      22,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         120 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Downloads: DownloadsConfig{
			Dir:           "/var/lib/hydrowire/downloads",
			BaseURL:       "http://localhost:5000/downloads",
			Retention:     48 * time.Hour,
			SweepInterval: time.Hour,
		},
		Processes: ProcessesConfig{
			MaxUpstream: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the JSON config file and
// HYDROWIRE_* environment variables, in increasing priority.
//
// The file path comes from CONFIG_PATH, falling back to ./config.json.
// An explicitly configured path must exist; the default path may be
// absent. A .env file in the working directory is read first so local
// development can keep credentials out of the shell profile.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, required := configFilePath()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if required {
		return nil, fmt.Errorf("config file %s not readable: %w", path, err)
	}

	envProvider := env.Provider(EnvPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if origins := k.Get("server.cors_origins"); origins != nil {
		if s, ok := origins.(string); ok {
			if err := k.Set("server.cors_origins", splitCSV(s)); err != nil {
				return nil, fmt.Errorf("failed to set cors origins: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configFilePath() (path string, required bool) {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p, true
	}
	return DefaultConfigPath, false
}

// envTransform maps HYDROWIRE_* variable names to koanf paths.
// Unknown variables are dropped so arbitrary environment noise cannot
// reach the configuration.
func envTransform(key string) string {
	mappings := map[string]string{
		"HYDROWIRE_DATABASE_HOST":          "database.host",
		"HYDROWIRE_DATABASE_PORT":          "database.port",
		"HYDROWIRE_DATABASE_NAME":          "database.name",
		"HYDROWIRE_DATABASE_USER":          "database.user",
		"HYDROWIRE_DATABASE_PASSWORD":      "database.password",
		"HYDROWIRE_DATABASE_MAX_CONNS":     "database.max_conns",
		"HYDROWIRE_DATABASE_QUERY_TIMEOUT": "database.query_timeout",
		"HYDROWIRE_USE_TUNNEL":             "database.use_tunnel",
		"HYDROWIRE_SSH_HOST":               "database.ssh_host",
		"HYDROWIRE_SSH_PORT":               "database.ssh_port",
		"HYDROWIRE_SSH_USER":               "database.ssh_user",
		"HYDROWIRE_SSH_PASSWORD":           "database.ssh_password",

		"HYDROWIRE_SERVER_HOST":       "server.host",
		"HYDROWIRE_SERVER_PORT":       "server.port",
		"HYDROWIRE_SERVER_TIMEOUT":    "server.timeout",
		"HYDROWIRE_RATE_LIMIT_REQS":   "server.rate_limit_reqs",
		"HYDROWIRE_RATE_LIMIT_WINDOW": "server.rate_limit_window",
		"HYDROWIRE_CORS_ORIGINS":      "server.cors_origins",

		"HYDROWIRE_DOWNLOAD_DIR":            "downloads.dir",
		"HYDROWIRE_DOWNLOAD_URL":            "downloads.base_url",
		"HYDROWIRE_DOWNLOAD_RETENTION":      "downloads.retention",
		"HYDROWIRE_DOWNLOAD_SWEEP_INTERVAL": "downloads.sweep_interval",

		"HYDROWIRE_MAX_UPSTREAM": "processes.max_upstream",

		"HYDROWIRE_LOG_LEVEL":  "logging.level",
		"HYDROWIRE_LOG_FORMAT": "logging.format",
	}
	if mapped, ok := mappings[key]; ok {
		return mapped
	}
	return ""
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
