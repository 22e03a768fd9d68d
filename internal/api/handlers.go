// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hydrowire/hydrowire/internal/config"
	"github.com/hydrowire/hydrowire/internal/download"
	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/hydro"
	"github.com/hydrowire/hydrowire/internal/metrics"
	"github.com/hydrowire/hydrowire/internal/processes"
)

// maxRequestBytes caps execution request bodies.
const maxRequestBytes = 10 << 20

// StoreHealth is what the health endpoint needs from the store
// gateway.
type StoreHealth interface {
	Ping(ctx context.Context) error
	BreakerState() string
}

// Server wires the process registry to the HTTP surface.
type Server struct {
	cfg       config.Config
	registry  *processes.Registry
	deps      processes.Deps
	health    StoreHealth
	downloads *download.Store
}

// NewServer builds the process host.
func NewServer(cfg config.Config, store hydro.Querier, health StoreHealth, downloads *download.Store, deps processes.Deps) *Server {
	deps.Store = store
	return &Server{
		cfg:       cfg,
		registry:  processes.NewRegistry(),
		deps:      deps,
		health:    health,
		downloads: downloads,
	}
}

// executeRequest is the OGC execution envelope.
type executeRequest struct {
	Inputs  processes.Inputs      `json:"inputs"`
	Outputs map[string]outputSpec `json:"outputs"`
}

type outputSpec struct {
	TransmissionMode string `json:"transmissionMode"`
}

func (req *executeRequest) wantsReference() bool {
	for _, out := range req.Outputs {
		if out.TransmissionMode == "reference" {
			return true
		}
	}
	return false
}

func (s *Server) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	writeResult(w, map[string]any{"processes": s.registry.Summaries()})
}

func (s *Server) handleDescribeProcess(w http.ResponseWriter, r *http.Request) {
	p, err := s.registry.Get(chi.URLParam(r, "processID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, p.Describe())
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	processID := chi.URLParam(r, "processID")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, r, errs.BadInput("cannot read request body: %v", err))
		return
	}
	var req executeRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, r, errs.BadInput("request body is not a valid execution document: %v", err))
			return
		}
	}

	start := time.Now()
	result, err := s.registry.Execute(r.Context(), processID, s.deps, req.Inputs)
	metrics.ObserveExecution(processID, err, time.Since(start))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !req.wantsReference() {
		writeResult(w, result)
		return
	}

	jobID := uuid.NewString()
	href, err := s.downloads.SaveJSON(processID, jobID, result)
	if err != nil {
		writeError(w, r, errs.Store(err, "cannot persist result"))
		return
	}
	writeResult(w, map[string]any{
		"title":       fmt.Sprintf("Result of %s", processID),
		"description": "Persisted process result, removed after the retention period.",
		"href":        href,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	doc := map[string]any{
		"status":  "ok",
		"breaker": s.health.BreakerState(),
	}
	if err := s.health.Ping(ctx); err != nil {
		doc["status"] = "degraded"
		doc["store"] = "unreachable"
		writeJSON(w, http.StatusServiceUnavailable, doc)
		return
	}
	doc["store"] = "up"
	writeResult(w, doc)
}
