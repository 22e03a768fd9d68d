// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/geo"
)

// SnapResult is the outcome of snapping a point onto the stream
// segment of its own subcatchment. Snapping never crosses subcatchment
// boundaries, even when a neighbouring segment is closer.
type SnapResult struct {
	Triple   Triple
	Strahler int

	// Original caller coordinates.
	Lon float64
	Lat float64

	// SnappedPoint is the nearest point on the segment. Segment is the
	// segment itself, ConnectingLine joins the original point to the
	// snapped one.
	SnappedPoint   orb.Point
	Segment        orb.LineString
	ConnectingLine orb.LineString
}

// SnapPoint snaps (lon, lat) onto the stream segment of the given
// subcatchment. A subcatchment without a segment (headless polygon)
// yields NotFound.
func SnapPoint(ctx context.Context, q Querier, lon, lat float64, t Triple) (*SnapResult, error) {
	const query = `
	SELECT
	ST_AsText(ST_LineInterpolatePoint(geom, ST_LineLocatePoint(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326)))),
	ST_AsText(geom),
	strahler
	FROM hydro.stream_segments
	WHERE subc_id = $3
	AND basin_id = $4
	AND reg_id = $5`

	var pointWKT, segmentWKT string
	var strahler int
	err := q.QueryRow(ctx, query, lon, lat, t.SubcID, t.BasinID, t.RegID).Scan(&pointWKT, &segmentWKT, &strahler)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("no stream segment for subcatchment %d, cannot snap", t.SubcID)
	}
	if err != nil {
		return nil, errs.Store(err, "snapping query failed")
	}

	pointGeom, err := geo.ParseWKT(pointWKT)
	if err != nil {
		return nil, err
	}
	snapped, ok := pointGeom.(orb.Point)
	if !ok {
		return nil, errs.Invariant("snapped geometry for subcatchment %d is %s, not a point", t.SubcID, pointGeom.GeoJSONType())
	}

	segmentGeom, err := geo.ParseWKT(segmentWKT)
	if err != nil {
		return nil, err
	}
	segment, ok := segmentGeom.(orb.LineString)
	if !ok {
		return nil, errs.Invariant("stream segment of subcatchment %d is %s, not a linestring", t.SubcID, segmentGeom.GeoJSONType())
	}

	return &SnapResult{
		Triple:         t,
		Strahler:       strahler,
		Lon:            lon,
		Lat:            lat,
		SnappedPoint:   snapped,
		Segment:        segment,
		ConnectingLine: orb.LineString{{lon, lat}, snapped},
	}, nil
}

// properties shared by all three snapping features.
func (r *SnapResult) properties() map[string]any {
	return map[string]any{
		"subc_id":      r.Triple.SubcID,
		"basin_id":     r.Triple.BasinID,
		"reg_id":       r.Triple.RegID,
		"strahler":     r.Strahler,
		"lon_original": r.Lon,
		"lat_original": r.Lat,
	}
}

// GeometryCollection packages the snapped point, the segment and the
// connecting line as bare geometries.
func (r *SnapResult) GeometryCollection() *geo.GeometryCollection {
	return geo.NewGeometryCollection([]*geojson.Geometry{
		geo.NewGeometry(r.SnappedPoint),
		geo.NewGeometry(r.Segment),
		geo.NewGeometry(r.ConnectingLine),
	})
}

// FeatureCollection packages the same three geometries as features
// carrying the snapping properties.
func (r *SnapResult) FeatureCollection() *geo.FeatureCollection {
	connProps := r.properties()
	connProps["description"] = "connecting line"
	return geo.NewFeatureCollection([]geo.Feature{
		geo.NewFeature(r.SnappedPoint, r.properties()),
		geo.NewFeature(r.Segment, r.properties()),
		geo.NewFeature(r.ConnectingLine, connProps),
	})
}
