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

// StreamSegments returns per-segment linestring features with
// properties {subc_id, basin_id, strahler}. Subcatchments without a
// segment are simply absent; a segment row with a null geometry (two
// segments sharing one outlet) yields a null-geometry feature and a
// warning.
func StreamSegments(ctx context.Context, q Querier, subcIDs []int64, basinID, regID int64) ([]geo.Feature, error) {
	if len(subcIDs) == 0 {
		return []geo.Feature{}, nil
	}

	const query = `
	SELECT ST_AsText(geom), subc_id, strahler
	FROM hydro.stream_segments
	WHERE subc_id = ANY($1)
	AND reg_id = $2
	AND basin_id = $3`

	rows, err := q.Query(ctx, query, subcIDs, regID, basinID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := []geo.Feature{}
	for rows.Next() {
		var wktText *string
		var subcID int64
		var strahler int
		if err := rows.Scan(&wktText, &subcID, &strahler); err != nil {
			return nil, errs.Store(err, "stream segment query failed")
		}

		var g orb.Geometry
		if wktText != nil {
			if g, err = geo.ParseWKT(*wktText); err != nil {
				return nil, err
			}
		} else {
			logging.Ctx(ctx).Warn().Int64("subc_id", subcID).Msg("stream segment has no linestring")
		}

		features = append(features, geo.NewFeature(g, map[string]any{
			"subc_id":  subcID,
			"basin_id": basinID,
			"strahler": strahler,
		}))
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err, "stream segment query failed")
	}
	return features, nil
}
