// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hydrowire/hydrowire/internal/config"
)

const (
	// DefaultPostGISImage bundles PostGIS and pgRouting, both of
	// which the store requires.
	DefaultPostGISImage = "pgrouting/pgrouting:16-3.4-3.6"

	// DefaultPostgresPort is the in-container PostgreSQL port.
	DefaultPostgresPort = "5432"

	testUser     = "hydrowire"
	testPassword = "hydrowire-test"
	testDatabase = "hydrowire_test"
)

// PostGISContainer represents a running PostGIS/pgRouting container.
type PostGISContainer struct {
	testcontainers.Container
	Host string
	Port int
}

// PostGISOption configures the container.
type PostGISOption func(*postgisConfig)

type postgisConfig struct {
	image        string
	startTimeout time.Duration
	seedSQL      []string
}

// WithPostGISImage sets a custom Docker image.
func WithPostGISImage(image string) PostGISOption {
	return func(c *postgisConfig) {
		c.image = image
	}
}

// WithStartTimeout sets the timeout for waiting for PostgreSQL to
// accept connections.
func WithStartTimeout(timeout time.Duration) PostGISOption {
	return func(c *postgisConfig) {
		c.startTimeout = timeout
	}
}

// WithSeedSQL appends SQL statements executed once the database is
// reachable. Statements run in order, each in its own round trip.
func WithSeedSQL(statements ...string) PostGISOption {
	return func(c *postgisConfig) {
		c.seedSQL = append(c.seedSQL, statements...)
	}
}

// NewPostGISContainer creates and starts a PostGIS/pgRouting container
// and applies the seed SQL.
//
// Example:
//
//	pg, err := NewPostGISContainer(ctx, WithSeedSQL(schemaSQL, dataSQL))
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer CleanupContainer(t, ctx, pg)
func NewPostGISContainer(ctx context.Context, opts ...PostGISOption) (*PostGISContainer, error) {
	cfg := &postgisConfig{
		image:        DefaultPostGISImage,
		startTimeout: 120 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       testDatabase,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to resolve container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, DefaultPostgresPort+"/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to resolve mapped port: %w", err)
	}

	pg := &PostGISContainer{
		Container: container,
		Host:      host,
		Port:      mapped.Int(),
	}

	if err := pg.seed(ctx, cfg.seedSQL); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return pg, nil
}

// DatabaseConfig returns a store configuration pointing at the
// container.
func (pg *PostGISContainer) DatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:         pg.Host,
		Port:         pg.Port,
		Name:         testDatabase,
		User:         testUser,
		Password:     testPassword,
		MaxConns:     4,
		QueryTimeout: 30 * time.Second,
	}
}

// DSN returns a plain pgx connection string for direct use.
func (pg *PostGISContainer) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		testUser, testPassword, pg.Host, pg.Port, testDatabase)
}

func (pg *PostGISContainer) seed(ctx context.Context, statements []string) error {
	conn, err := pgx.Connect(ctx, pg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect for seeding: %w", err)
	}
	defer conn.Close(ctx)

	for i, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("seed statement %d failed: %w", i, err)
		}
	}
	return nil
}
