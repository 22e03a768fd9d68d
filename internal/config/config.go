// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package config loads and validates the HydroWire configuration from
// layered sources: built-in defaults, an optional JSON config file, and
// HYDROWIRE_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the HydroWire process host.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Downloads DownloadsConfig `koanf:"downloads"`
	Processes ProcessesConfig `koanf:"processes"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig describes the PostGIS store connection, including the
// optional SSH tunnel used when the store is not directly reachable.
type DatabaseConfig struct {
	Host     string `koanf:"host"     validate:"required"`
	Port     int    `koanf:"port"     validate:"min=1,max=65535"`
	Name     string `koanf:"name"     validate:"required"`
	User     string `koanf:"user"     validate:"required"`
	Password string `koanf:"password"`

	// MaxConns caps the pgx pool size.
	MaxConns int32 `koanf:"max_conns" validate:"min=1"`

	// QueryTimeout bounds every store round trip.
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"min=1s"`

	UseTunnel   bool   `koanf:"use_tunnel"`
	SSHHost     string `koanf:"ssh_host"     validate:"required_if=UseTunnel true"`
	SSHPort     int    `koanf:"ssh_port"     validate:"min=1,max=65535"`
	SSHUser     string `koanf:"ssh_user"     validate:"required_if=UseTunnel true"`
	SSHPassword string `koanf:"ssh_password"`
}

// DSN builds the pgx connection string. When the tunnel is enabled the
// dialer overrides the address, so the host here is nominal.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String()
}

// ServerConfig describes the HTTP surface.
type ServerConfig struct {
	Host    string        `koanf:"host"    validate:"required"`
	Port    int           `koanf:"port"    validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	RateLimitReqs   int           `koanf:"rate_limit_reqs"   validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=1s"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// DownloadsConfig describes where reference-mode results are persisted
// and how they are served back to clients.
type DownloadsConfig struct {
	// Dir is the directory where result documents are written.
	Dir string `koanf:"dir" validate:"required"`

	// BaseURL is the public prefix under which Dir is served.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Retention is how long persisted results are kept before the
	// janitor removes them.
	Retention time.Duration `koanf:"retention" validate:"min=1m"`

	// SweepInterval is how often the janitor scans Dir.
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"min=1m"`
}

// ProcessesConfig holds tunables of the query processes.
type ProcessesConfig struct {
	// MaxUpstream caps the size of any upstream subcatchment set.
	MaxUpstream int `koanf:"max_upstream" validate:"min=1"`
}

// LoggingConfig mirrors logging.Config so that this package stays a
// leaf.
type LoggingConfig struct {
	Level  string `koanf:"level"  validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Validate checks the configuration against the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
