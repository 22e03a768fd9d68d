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

// OutletSubcIDs maps each basin whose outlet segment lies within the
// polygon to the outlet's subc_id. Outlet segments are those whose
// target is the negative basin id. Should a basin contribute several
// outlet segments, the smallest subc_id wins.
func OutletSubcIDs(ctx context.Context, q Querier, polygonGeoJSON []byte, minStrahler int) (map[int64]int64, error) {
	const query = `
	SELECT subc_id, basin_id
	FROM hydro.stream_segments
	WHERE target = -basin_id
	AND strahler >= $1
	AND ST_Within(geom, ST_GeomFromGeoJSON($2))`

	rows, err := q.Query(ctx, query, minStrahler, string(polygonGeoJSON))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outlets := map[int64]int64{}
	for rows.Next() {
		var subcID, basinID int64
		if err := rows.Scan(&subcID, &basinID); err != nil {
			return nil, errs.Store(err, "outlet query failed")
		}
		if existing, ok := outlets[basinID]; ok && existing <= subcID {
			continue
		}
		outlets[basinID] = subcID
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err, "outlet query failed")
	}
	return outlets, nil
}

// OutletFeatures returns the outlet segments within the polygon as
// linestring features with properties {subc_id, basin_id,
// outlet_of_basin}. Where two segments share a basin outlet one of
// them has no geometry in the store; such rows become null-geometry
// features and are logged, not failed.
func OutletFeatures(ctx context.Context, q Querier, polygonGeoJSON []byte, minStrahler int) ([]geo.Feature, error) {
	const query = `
	SELECT subc_id, basin_id, ST_AsBinary(geom)
	FROM hydro.stream_segments
	WHERE target = -basin_id
	AND strahler >= $1
	AND ST_Within(geom, ST_GeomFromGeoJSON($2))`

	rows, err := q.Query(ctx, query, minStrahler, string(polygonGeoJSON))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := []geo.Feature{}
	for rows.Next() {
		var subcID, basinID int64
		var wkb []byte
		if err := rows.Scan(&subcID, &basinID, &wkb); err != nil {
			return nil, errs.Store(err, "outlet query failed")
		}

		var g orb.Geometry
		if wkb != nil {
			if g, err = geo.ParseWKB(wkb); err != nil {
				return nil, err
			}
		} else {
			logging.Ctx(ctx).Warn().
				Int64("subc_id", subcID).
				Int64("basin_id", basinID).
				Msg("outlet segment has no geometry")
		}

		features = append(features, geo.NewFeature(g, map[string]any{
			"subc_id":         subcID,
			"basin_id":        basinID,
			"outlet_of_basin": basinID,
		}))
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err, "outlet query failed")
	}
	return features, nil
}
