// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package processes hosts the catalog of analytical operations and
// executes them against the hydrographic query layer. Dispatch is an
// operation table keyed by process id; every entry is a pure function
// from inputs to a result document.
package processes

import (
	"context"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/fetch"
	"github.com/hydrowire/hydrowire/internal/hydro"
)

// Deps carries what a handler may touch. One store handle frames every
// request; handlers never hold state between calls.
type Deps struct {
	Store       hydro.Querier
	Fetch       *fetch.Client
	MaxUpstream int
}

// Handler computes the result document of one process execution.
type Handler func(ctx context.Context, deps Deps, in Inputs) (any, error)

// InputDoc describes one input in a process description document.
type InputDoc struct {
	Name        string
	Title       string
	Type        string
	Required    bool
	Description string
}

// Process is one catalog entry.
type Process struct {
	ID          string
	Title       string
	Description string
	Version     string
	Inputs      []InputDoc
	Handler     Handler
}

// Registry is the ordered operation table.
type Registry struct {
	order []string
	byID  map[string]*Process
}

// NewRegistry builds the full catalog wired to the given dependencies.
func NewRegistry() *Registry {
	r := &Registry{byID: map[string]*Process{}}
	for i := range catalog {
		p := &catalog[i]
		r.order = append(r.order, p.ID)
		r.byID[p.ID] = p
	}
	return r
}

// List returns the catalog in registration order.
func (r *Registry) List() []*Process {
	out := make([]*Process, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Get looks a process up by id.
func (r *Registry) Get(id string) (*Process, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, errs.NotFound("no process with id %q", id)
	}
	return p, nil
}

// Execute runs the process against the request inputs.
func (r *Registry) Execute(ctx context.Context, id string, deps Deps, in Inputs) (any, error) {
	p, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return p.Handler(ctx, deps, in)
}

// Shared input documentation fragments.
var (
	lonInput     = InputDoc{Name: "lon", Title: "Longitude", Type: "number", Description: "WGS84 decimal degrees"}
	latInput     = InputDoc{Name: "lat", Title: "Latitude", Type: "number", Description: "WGS84 decimal degrees"}
	subcIDInput  = InputDoc{Name: "subc_id", Title: "Subcatchment id", Type: "integer", Description: "alternative to lon/lat"}
	commentInput = InputDoc{Name: "comment", Title: "Comment", Type: "string", Description: "echoed into the result"}
	geomOnly     = InputDoc{Name: "geometry_only", Title: "Geometry only", Type: "boolean", Description: "return bare geometry instead of features"}
)

var locationInputs = []InputDoc{lonInput, latInput, subcIDInput, commentInput}
