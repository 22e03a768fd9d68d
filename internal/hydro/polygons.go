// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/geo"
	"github.com/hydrowire/hydrowire/internal/logging"
)

// SubcatchmentPolygons returns one feature per subcatchment with
// properties {subc_id, basin_id, reg_id}. A subcatchment without a
// polygon yields a null-geometry feature and a warning, not a failure.
// A subc_id outside the given basin and region is BadInput.
func SubcatchmentPolygons(ctx context.Context, q Querier, subcIDs []int64, basinID, regID int64) ([]geo.Feature, error) {
	if len(subcIDs) == 0 {
		return []geo.Feature{}, nil
	}

	const query = `
	SELECT ST_AsText(geom), subc_id
	FROM sub_catchments
	WHERE subc_id = ANY($1)
	AND basin_id = $2
	AND reg_id = $3`

	rows, err := q.Query(ctx, query, subcIDs, basinID, regID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := []geo.Feature{}
	seen := make(map[int64]struct{}, len(subcIDs))
	for rows.Next() {
		var wktText *string
		var subcID int64
		if err := rows.Scan(&wktText, &subcID); err != nil {
			return nil, errs.Store(err, "subcatchment polygon query failed")
		}
		seen[subcID] = struct{}{}

		var g orb.Geometry
		if wktText != nil {
			if g, err = geo.ParseWKT(*wktText); err != nil {
				return nil, err
			}
		} else {
			logging.Ctx(ctx).Warn().Int64("subc_id", subcID).Msg("subcatchment has no polygon")
		}

		features = append(features, geo.NewFeature(g, map[string]any{
			"subc_id":  subcID,
			"basin_id": basinID,
			"reg_id":   regID,
		}))
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err, "subcatchment polygon query failed")
	}
	for _, id := range subcIDs {
		if _, ok := seen[id]; !ok {
			return nil, errs.BadInput("subc_id %d is not in basin %d of region %d", id, basinID, regID)
		}
	}
	return features, nil
}

// DissolvedPolygon unions the subcatchment polygons into one geometry.
// An empty id set yields a nil geometry. Interior holes reported by the
// store are passed through unchanged. A subc_id outside the given basin
// and region is BadInput, never a union of the matching subset.
func DissolvedPolygon(ctx context.Context, q Querier, subcIDs []int64, basinID, regID int64) (orb.Geometry, error) {
	if len(subcIDs) == 0 {
		logging.Ctx(ctx).Warn().Msg("no subc_ids, returning null dissolved geometry")
		return nil, nil
	}

	const query = `
	SELECT ST_AsText(ST_MemUnion(geom)), count(*)
	FROM sub_catchments
	WHERE subc_id = ANY($1)
	AND reg_id = $2
	AND basin_id = $3`

	var wktText *string
	var count int64
	if err := q.QueryRow(ctx, query, subcIDs, regID, basinID).Scan(&wktText, &count); err != nil {
		return nil, errs.Store(err, "dissolve query failed")
	}
	if want := uniqueCount(subcIDs); int(count) < want {
		return nil, errs.BadInput("only %d of %d subcatchments are in basin %d of region %d", count, want, basinID, regID)
	}
	if wktText == nil {
		return nil, errs.NotFound("no polygons found for the given subcatchments in basin %d", basinID)
	}
	return geo.ParseWKT(*wktText)
}

// BasinPolygon returns the prebuilt polygon of a basin.
func BasinPolygon(ctx context.Context, q Querier, basinID, regID int64) (orb.Geometry, error) {
	const query = `
	SELECT ST_AsText(geom)
	FROM basins
	WHERE basin_id = $1
	AND reg_id = $2`

	rows, err := q.Query(ctx, query, basinID, regID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var g orb.Geometry
	count := 0
	for rows.Next() {
		count++
		if count > 1 {
			return nil, errs.Invariant("several basins found for basin_id %d", basinID)
		}
		var wktText *string
		if err := rows.Scan(&wktText); err != nil {
			return nil, errs.Store(err, "basin polygon query failed")
		}
		if wktText == nil {
			return nil, errs.Invariant("basin %d has no polygon", basinID)
		}
		if g, err = geo.ParseWKT(*wktText); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err, "basin polygon query failed")
	}
	if count == 0 {
		return nil, errs.NotFound("no basin with basin_id %d in region %d", basinID, regID)
	}
	return g, nil
}
