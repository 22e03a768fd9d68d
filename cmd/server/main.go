// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package main is the entry point for the HydroWire process host.
//
// HydroWire serves OGC-API-Processes style queries against a
// PostGIS/pgRouting store of the European river network: subcatchment
// lookups, upstream catchment enumeration, stream segment geometries,
// point snapping, basin outlets and per-subcatchment environmental
// variables.
//
// # Startup order
//
//  1. Configuration: koanf v2 over .env, config file and environment
//  2. Logging: zerolog, json or console format
//  3. Store: pgx pool against PostGIS, optionally through an SSH tunnel
//  4. Downloads: result persistence directory plus retention janitor
//  5. Supervisor tree: HTTP server and janitor under suture
//
// # Signal handling
//
// SIGINT and SIGTERM cancel the root context; the supervisor drains
// in-flight requests before exiting.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/hydrowire/hydrowire/internal/api"
	"github.com/hydrowire/hydrowire/internal/config"
	"github.com/hydrowire/hydrowire/internal/database"
	"github.com/hydrowire/hydrowire/internal/download"
	"github.com/hydrowire/hydrowire/internal/fetch"
	"github.com/hydrowire/hydrowire/internal/logging"
	"github.com/hydrowire/hydrowire/internal/processes"
	"github.com/hydrowire/hydrowire/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("store_host", cfg.Database.Host).
		Bool("ssh_tunnel", cfg.Database.UseTunnel).
		Int("max_upstream", cfg.Processes.MaxUpstream).
		Msg("Starting HydroWire")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.New(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to the store")
	}
	defer store.Close()
	logging.Info().Msg("Store connection pool ready")

	downloads, err := download.NewStore(cfg.Downloads)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to prepare download directory")
	}

	deps := processes.Deps{
		Fetch:       fetch.NewClient(),
		MaxUpstream: cfg.Processes.MaxUpstream,
	}
	server := api.NewServer(*cfg, store, store, downloads, deps)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(supervisor.NewHTTPService(httpServer, supervisor.DefaultTreeConfig().ShutdownTimeout))
	tree.AddMaintenanceService(download.NewJanitor(cfg.Downloads))

	logging.Info().
		Str("addr", httpServer.Addr).
		Msg("HTTP server starting under supervisor")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Fatal().Err(err).Msg("Supervisor tree failed")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("service did not stop in time")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
