// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package database is the gateway to the PostGIS/pgRouting store.
//
// It owns the pgx pool, the optional SSH tunnel, and a circuit breaker
// that sheds load when the store is down. All driver faults leave this
// package as classified errors.
package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/hydrowire/hydrowire/internal/config"
	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/logging"
	"github.com/hydrowire/hydrowire/internal/metrics"
)

// Store wraps the connection pool. Safe for concurrent use.
type Store struct {
	pool    *pgxpool.Pool
	breaker *gobreaker.CircuitBreaker[any]
	tunnel  *tunnel
}

// New connects to the store described by cfg. When cfg.UseTunnel is
// set, all connections are dialed through an SSH hop and TLS is
// disabled on the inner link, matching the deployment where the store
// is only reachable from the gateway host.
func New(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid store configuration: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.QueryTimeout.Milliseconds(), 10)

	s := &Store{}

	if cfg.UseTunnel {
		t, err := dialTunnel(cfg)
		if err != nil {
			return nil, err
		}
		s.tunnel = t
		poolCfg.ConnConfig.DialFunc = t.dial
		poolCfg.ConnConfig.TLSConfig = nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		s.closeTunnel()
		return nil, fmt.Errorf("cannot create connection pool: %w", err)
	}
	s.pool = pool

	s.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name: "store",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client disconnects are not store failures.
		IsSuccessful: func(err error) bool {
			return err == nil || isCancelled(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				metrics.StoreBreakerOpen.Set(1)
			} else {
				metrics.StoreBreakerOpen.Set(0)
			}
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("store circuit breaker state change")
		},
	})

	return s, nil
}

func isCancelled(err error) bool {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Cancelled
	}
	return false
}

// Query runs a query through the circuit breaker.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	res, err := s.breaker.Execute(func() (any, error) {
		rows, err := s.pool.Query(ctx, sql, args...)
		if err != nil {
			return nil, errs.Store(err, "query failed")
		}
		return rows, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return res.(pgx.Rows), nil
}

// QueryRow runs a single-row query. Errors surface at Scan time per the
// pgx contract, so the breaker is not consulted here.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.pool.QueryRow(ctx, sql, args...)
}

// Exec runs a statement through the circuit breaker.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	res, err := s.breaker.Execute(func() (any, error) {
		tag, err := s.pool.Exec(ctx, sql, args...)
		if err != nil {
			return nil, errs.Store(err, "exec failed")
		}
		return tag, nil
	})
	if err != nil {
		return pgconn.CommandTag{}, classify(err)
	}
	return res.(pgconn.CommandTag), nil
}

// Ping checks store reachability for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return errs.Store(err, "store unreachable")
	}
	return nil
}

// BreakerState exposes the breaker state for health reporting.
func (s *Store) BreakerState() string {
	return s.breaker.State().String()
}

// Close releases the pool and the tunnel.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	s.closeTunnel()
}

func (s *Store) closeTunnel() {
	if s.tunnel != nil {
		if err := s.tunnel.close(); err != nil {
			logging.Warn().Err(err).Msg("closing ssh tunnel")
		}
	}
}

// classify ensures a breaker rejection is reported as a store fault.
func classify(err error) error {
	if errs.KindOf(err) == errs.KindStore {
		return err
	}
	return errs.Store(err, "store request rejected")
}
