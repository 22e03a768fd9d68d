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

// ExtentBBox computes the axis-aligned bounding polygon of the
// subcatchment polygons, a closed five-vertex ring. An empty id set
// yields a nil geometry, not an error. A subc_id outside the given
// basin and region is BadInput, never an extent of the matching subset.
func ExtentBBox(ctx context.Context, q Querier, subcIDs []int64, basinID, regID int64) (orb.Geometry, error) {
	if len(subcIDs) == 0 {
		logging.Ctx(ctx).Warn().Msg("no subc_ids, returning null bbox geometry")
		return nil, nil
	}

	const query = `
	SELECT ST_AsText(ST_Extent(geom)), count(*)
	FROM sub_catchments
	WHERE subc_id = ANY($1)
	AND basin_id = $2
	AND reg_id = $3`

	var wktText *string
	var count int64
	if err := q.QueryRow(ctx, query, subcIDs, basinID, regID).Scan(&wktText, &count); err != nil {
		return nil, errs.Store(err, "bbox query failed")
	}
	if want := uniqueCount(subcIDs); int(count) < want {
		return nil, errs.BadInput("only %d of %d subcatchments are in basin %d of region %d", count, want, basinID, regID)
	}
	if wktText == nil {
		return nil, nil
	}
	return geo.ParseWKT(*wktText)
}
