// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hydrowire/hydrowire/internal/metrics"
)

// Router assembles the full HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(accessLog)
	r.Use(chimiddleware.RealIP)
	r.Use(recoverer)
	r.Use(corsMiddleware(s.cfg.Server))

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/processes", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.Server))
		r.Get("/", s.handleListProcesses)
		r.Get("/{processID}", s.handleDescribeProcess)
		r.Post("/{processID}/execution", s.handleExecute)
	})

	// Persisted results are served straight from the download
	// directory; the janitor bounds their lifetime.
	fileServer := http.StripPrefix("/downloads/", http.FileServer(http.Dir(s.downloads.Dir())))
	r.Get("/downloads/*", fileServer.ServeHTTP)

	return r
}
