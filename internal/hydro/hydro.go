// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package hydro implements the hydrographic query layer: resolving
// points to subcatchment/basin/region triples, walking the stream
// network upstream and downstream, assembling polygons, linestrings and
// bounding boxes, snapping points to stream segments, enumerating basin
// outlets, and fetching per-subcatchment environment attributes.
//
// Every operation takes a Querier so tests can substitute the store.
// All user-supplied scalars are bound as parameters; id lists travel as
// array parameters. The single exception is the inner edge query handed
// to pgRouting, which the store evaluates as text: its ids are rendered
// from typed int64 values, never from caller strings.
package hydro

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of the store gateway the query layer needs.
// *database.Store implements it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Triple is the canonical identification of a subcatchment.
type Triple struct {
	SubcID  int64 `json:"subc_id"`
	BasinID int64 `json:"basin_id"`
	RegID   int64 `json:"reg_id"`
}

// Coverage bounds of the deployed dataset, decimal degrees WGS84.
const (
	CoverageMinLon = -32.0
	CoverageMaxLon = 70.0
	CoverageMinLat = 34.0
	CoverageMaxLat = 82.0
)

func uniqueCount(ids []int64) int {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
