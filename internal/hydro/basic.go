// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"
	"errors"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/logging"
)

// CheckCoverage rejects coordinates outside the covered area before any
// store round trip.
func CheckCoverage(lon, lat float64) error {
	if lon < CoverageMinLon || lon > CoverageMaxLon || lat < CoverageMinLat || lat > CoverageMaxLat {
		return errs.OutsideArea("coordinate lon=%.3f lat=%.3f is outside the covered area", lon, lat)
	}
	return nil
}

// RegionID resolves the regional unit containing the point.
func RegionID(ctx context.Context, q Querier, lon, lat float64) (int64, error) {
	if err := CheckCoverage(lon, lat); err != nil {
		return 0, err
	}

	const query = `
	SELECT reg_id
	FROM regional_units
	WHERE ST_Intersects(ST_SetSRID(ST_MakePoint($1, $2), 4326), geom)`

	var regID int64
	err := q.QueryRow(ctx, query, lon, lat).Scan(&regID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errs.OutsideArea("no region found for lon %.3f, lat %.3f, is this in the ocean?", lon, lat)
	}
	if err != nil {
		return 0, errs.Store(err, "region lookup failed")
	}
	return regID, nil
}

// TripleFromLonLat resolves the subcatchment containing the point. The
// dataset guarantees at most one match; should the store return more,
// the smallest subc_id wins and a warning is logged.
func TripleFromLonLat(ctx context.Context, q Querier, lon, lat float64) (Triple, error) {
	regID, err := RegionID(ctx, q, lon, lat)
	if err != nil {
		return Triple{}, err
	}

	const query = `
	SELECT subc_id, basin_id
	FROM sub_catchments
	WHERE ST_Intersects(ST_SetSRID(ST_MakePoint($1, $2), 4326), geom)
	AND reg_id = $3`

	rows, err := q.Query(ctx, query, lon, lat, regID)
	if err != nil {
		return Triple{}, err
	}
	defer rows.Close()

	var matches []Triple
	for rows.Next() {
		var t Triple
		t.RegID = regID
		if err := rows.Scan(&t.SubcID, &t.BasinID); err != nil {
			return Triple{}, errs.Store(err, "subcatchment lookup failed")
		}
		matches = append(matches, t)
	}
	if err := rows.Err(); err != nil {
		return Triple{}, errs.Store(err, "subcatchment lookup failed")
	}

	switch len(matches) {
	case 0:
		return Triple{}, errs.OutsideArea("no subcatchment found for lon %.3f, lat %.3f, is this in the ocean?", lon, lat)
	case 1:
		return matches[0], nil
	default:
		slices.SortFunc(matches, func(a, b Triple) int {
			switch {
			case a.SubcID < b.SubcID:
				return -1
			case a.SubcID > b.SubcID:
				return 1
			default:
				return 0
			}
		})
		logging.Ctx(ctx).Warn().
			Float64("lon", lon).
			Float64("lat", lat).
			Int("matches", len(matches)).
			Int64("chosen", matches[0].SubcID).
			Msg("point matched several subcatchments, taking smallest subc_id")
		return matches[0], nil
	}
}

// TripleFromSubcID is the reverse lookup.
func TripleFromSubcID(ctx context.Context, q Querier, subcID int64) (Triple, error) {
	const query = `
	SELECT basin_id, reg_id
	FROM sub_catchments
	WHERE subc_id = $1`

	t := Triple{SubcID: subcID}
	err := q.QueryRow(ctx, query, subcID).Scan(&t.BasinID, &t.RegID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Triple{}, errs.NotFound("no subcatchment with subc_id %d", subcID)
	}
	if err != nil {
		return Triple{}, errs.Store(err, "subcatchment reverse lookup failed")
	}
	return t, nil
}

// ResolveTriple dispatches on the supplied inputs: a subc_id wins over
// coordinates; coordinates require both lon and lat.
func ResolveTriple(ctx context.Context, q Querier, lon, lat *float64, subcID *int64) (Triple, error) {
	switch {
	case subcID != nil:
		return TripleFromSubcID(ctx, q, *subcID)
	case lon != nil && lat != nil:
		return TripleFromLonLat(ctx, q, *lon, *lat)
	default:
		return Triple{}, errs.BadInput("either subc_id or both lon and lat must be provided")
	}
}
