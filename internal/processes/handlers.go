// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package processes

import (
	"context"
	"errors"

	"github.com/paulmach/orb/geojson"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/geo"
	"github.com/hydrowire/hydrowire/internal/hydro"
	"github.com/hydrowire/hydrowire/internal/logging"
)

func resolveTriple(ctx context.Context, deps Deps, in Inputs) (hydro.Triple, error) {
	lon, err := in.Float("lon")
	if err != nil {
		return hydro.Triple{}, err
	}
	lat, err := in.Float("lat")
	if err != nil {
		return hydro.Triple{}, err
	}
	subcID, err := in.Int("subc_id")
	if err != nil {
		return hydro.Triple{}, err
	}
	return hydro.ResolveTriple(ctx, deps.Store, lon, lat, subcID)
}

// upstreamSet resolves the working id set: either the caller supplies
// subc_ids with basin_id and reg_id directly, or a location is resolved
// and walked upstream. Explicitly supplied sets may be empty.
func upstreamSet(ctx context.Context, deps Deps, in Inputs) ([]int64, int64, int64, error) {
	if _, ok := in.Raw("subc_ids"); ok {
		ids, err := in.IntSlice("subc_ids")
		if err != nil {
			return nil, 0, 0, err
		}
		basinID, err := in.Int("basin_id")
		if err != nil {
			return nil, 0, 0, err
		}
		regID, err := in.Int("reg_id")
		if err != nil {
			return nil, 0, 0, err
		}
		if basinID == nil || regID == nil {
			return nil, 0, 0, errs.BadInput("subc_ids requires basin_id and reg_id")
		}
		if err := hydro.CheckUpstreamCount(ids, deps.MaxUpstream); err != nil {
			return nil, 0, 0, err
		}
		return ids, *basinID, *regID, nil
	}

	t, err := resolveTriple(ctx, deps, in)
	if err != nil {
		return nil, 0, 0, err
	}
	ids, err := hydro.UpstreamSubcIDs(ctx, deps.Store, t, deps.MaxUpstream)
	if err != nil {
		return nil, 0, 0, err
	}
	return ids, t.BasinID, t.RegID, nil
}

func withComment(result map[string]any, comment string) map[string]any {
	if comment != "" {
		result["comment"] = comment
	}
	return result
}

func handleLocalIDs(ctx context.Context, deps Deps, in Inputs) (any, error) {
	t, err := resolveTriple(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	return withComment(map[string]any{
		"subc_id":  t.SubcID,
		"basin_id": t.BasinID,
		"reg_id":   t.RegID,
	}, in.Comment()), nil
}

func handleUpstreamSubcIDs(ctx context.Context, deps Deps, in Inputs) (any, error) {
	t, err := resolveTriple(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	ids, err := hydro.UpstreamSubcIDs(ctx, deps.Store, t, deps.MaxUpstream)
	if err != nil {
		return nil, err
	}
	return withComment(map[string]any{
		"subc_id":  t.SubcID,
		"basin_id": t.BasinID,
		"reg_id":   t.RegID,
		"subc_ids": ids,
	}, in.Comment()), nil
}

func handleUpstreamBBox(ctx context.Context, deps Deps, in Inputs) (any, error) {
	ids, basinID, regID, err := upstreamSet(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	g, err := hydro.ExtentBBox(ctx, deps.Store, ids, basinID, regID)
	if err != nil {
		return nil, err
	}

	geometryOnly, err := in.Bool("geometry_only", false)
	if err != nil {
		return nil, err
	}
	if geometryOnly {
		return geo.NewGeometry(g), nil
	}

	props := map[string]any{"basin_id": basinID, "reg_id": regID}
	addIDs, err := in.Bool("add_upstream_ids", false)
	if err != nil {
		return nil, err
	}
	if addIDs {
		props["subc_ids"] = ids
	}
	if c := in.Comment(); c != "" {
		props["comment"] = c
	}
	return geo.NewFeature(g, props), nil
}

func handleUpstreamDissolved(ctx context.Context, deps Deps, in Inputs) (any, error) {
	ids, basinID, regID, err := upstreamSet(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	g, err := hydro.DissolvedPolygon(ctx, deps.Store, ids, basinID, regID)
	if err != nil {
		return nil, err
	}

	geometryOnly, err := in.Bool("geometry_only", false)
	if err != nil {
		return nil, err
	}
	if geometryOnly {
		return geo.NewGeometry(g), nil
	}

	props := map[string]any{"basin_id": basinID, "reg_id": regID, "subc_ids": ids}
	if c := in.Comment(); c != "" {
		props["comment"] = c
	}
	return geo.NewFeature(g, props), nil
}

func handleUpstreamSubcatchments(ctx context.Context, deps Deps, in Inputs) (any, error) {
	ids, basinID, regID, err := upstreamSet(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	features, err := hydro.SubcatchmentPolygons(ctx, deps.Store, ids, basinID, regID)
	if err != nil {
		return nil, err
	}
	fc := geo.NewFeatureCollection(features)
	fc.BasinID = &basinID
	fc.RegID = &regID
	fc.SubcIDs = ids
	fc.Comment = in.Comment()
	return fc, nil
}

func segmentsResult(in Inputs, features []geo.Feature, basinID, regID int64, ids []int64) (any, error) {
	geometryOnly, err := in.Bool("geometry_only", false)
	if err != nil {
		return nil, err
	}
	if geometryOnly {
		geoms := make([]*geojson.Geometry, 0, len(features))
		for _, f := range features {
			geoms = append(geoms, f.Geometry)
		}
		gc := geo.NewGeometryCollection(geoms)
		gc.Comment = in.Comment()
		return gc, nil
	}
	fc := geo.NewFeatureCollection(features)
	fc.BasinID = &basinID
	fc.RegID = &regID
	fc.SubcIDs = ids
	fc.Comment = in.Comment()
	return fc, nil
}

func handleUpstreamStreamSegments(ctx context.Context, deps Deps, in Inputs) (any, error) {
	ids, basinID, regID, err := upstreamSet(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	features, err := hydro.StreamSegments(ctx, deps.Store, ids, basinID, regID)
	if err != nil {
		return nil, err
	}
	return segmentsResult(in, features, basinID, regID, ids)
}

func handleLocalStreamSegments(ctx context.Context, deps Deps, in Inputs) (any, error) {
	t, err := resolveTriple(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	features, err := hydro.StreamSegments(ctx, deps.Store, []int64{t.SubcID}, t.BasinID, t.RegID)
	if err != nil {
		return nil, err
	}
	return segmentsResult(in, features, t.BasinID, t.RegID, []int64{t.SubcID})
}

func handleBasinPolygon(ctx context.Context, deps Deps, in Inputs) (any, error) {
	basinID, err := in.Int("basin_id")
	if err != nil {
		return nil, err
	}
	regID, err := in.Int("reg_id")
	if err != nil {
		return nil, err
	}
	if basinID == nil || regID == nil {
		t, err := resolveTriple(ctx, deps, in)
		if err != nil {
			return nil, err
		}
		basinID, regID = &t.BasinID, &t.RegID
	}

	g, err := hydro.BasinPolygon(ctx, deps.Store, *basinID, *regID)
	if err != nil {
		return nil, err
	}

	geometryOnly, err := in.Bool("geometry_only", false)
	if err != nil {
		return nil, err
	}
	if geometryOnly {
		return geo.NewGeometry(g), nil
	}
	props := map[string]any{"basin_id": *basinID, "reg_id": *regID}
	if c := in.Comment(); c != "" {
		props["comment"] = c
	}
	return geo.NewFeature(g, props), nil
}

func handleSnappedPoints(ctx context.Context, deps Deps, in Inputs) (any, error) {
	lon, err := in.Float("lon")
	if err != nil {
		return nil, err
	}
	lat, err := in.Float("lat")
	if err != nil {
		return nil, err
	}
	if lon == nil || lat == nil {
		return nil, errs.BadInput("snapping requires both lon and lat")
	}

	subcID, err := in.Int("subc_id")
	if err != nil {
		return nil, err
	}
	t, err := hydro.ResolveTriple(ctx, deps.Store, lon, lat, subcID)
	if err != nil {
		return nil, err
	}
	r, err := hydro.SnapPoint(ctx, deps.Store, *lon, *lat, t)
	if err != nil {
		return nil, err
	}

	geometryOnly, err := in.Bool("geometry_only", false)
	if err != nil {
		return nil, err
	}
	if geometryOnly {
		gc := r.GeometryCollection()
		gc.Comment = in.Comment()
		return gc, nil
	}
	fc := r.FeatureCollection()
	fc.Comment = in.Comment()
	return fc, nil
}

func handleSnappedPointsPlural(ctx context.Context, deps Deps, in Inputs) (any, error) {
	csvURL, err := in.RequiredString("csv_url")
	if err != nil {
		return nil, err
	}
	lonCol, err := in.RequiredString("colname_lon")
	if err != nil {
		return nil, err
	}
	latCol, err := in.RequiredString("colname_lat")
	if err != nil {
		return nil, err
	}
	siteCol, err := in.RequiredString("colname_site_id")
	if err != nil {
		return nil, err
	}

	points, err := deps.Fetch.CSVPoints(ctx, csvURL, lonCol, latCol, siteCol)
	if err != nil {
		return nil, err
	}
	if len(points) > deps.MaxUpstream {
		return nil, errs.BadInput("CSV has %d rows, limit is %d", len(points), deps.MaxUpstream)
	}

	features := make([]geo.Feature, 0, len(points))
	for _, p := range points {
		f, err := snapSite(ctx, deps, p.Lon, p.Lat, p.SiteID)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	fc := geo.NewFeatureCollection(features)
	fc.Comment = in.Comment()
	return fc, nil
}

// snapSite snaps one CSV site. A site the dataset cannot serve gets a
// null-geometry feature carrying the reason; only store faults abort
// the whole request.
func snapSite(ctx context.Context, deps Deps, lon, lat float64, siteID string) (geo.Feature, error) {
	t, err := hydro.TripleFromLonLat(ctx, deps.Store, lon, lat)
	if err == nil {
		var r *hydro.SnapResult
		if r, err = hydro.SnapPoint(ctx, deps.Store, lon, lat, t); err == nil {
			props := map[string]any{
				"site_id":      siteID,
				"subc_id":      r.Triple.SubcID,
				"basin_id":     r.Triple.BasinID,
				"reg_id":       r.Triple.RegID,
				"strahler":     r.Strahler,
				"lon_original": lon,
				"lat_original": lat,
			}
			return geo.NewFeature(r.SnappedPoint, props), nil
		}
	}
	if !errs.KindOf(err).UserVisible() {
		return geo.Feature{}, err
	}
	logging.CtxWarn(ctx).Str("site_id", siteID).Err(err).Msg("cannot snap site")
	var e *errs.Error
	message := err.Error()
	if errors.As(err, &e) {
		message = e.Message
	}
	return geo.NewFeature(nil, map[string]any{
		"site_id":      siteID,
		"lon_original": lon,
		"lat_original": lat,
		"error":        message,
	}), nil
}

func handleOutletsForPolygon(ctx context.Context, deps Deps, in Inputs) (any, error) {
	polygon, err := polygonInput(ctx, deps, in)
	if err != nil {
		return nil, err
	}

	minStrahler := 1
	if v, err := in.Int("min_strahler"); err != nil {
		return nil, err
	} else if v != nil {
		if *v < 1 {
			return nil, errs.BadInput("min_strahler must be at least 1")
		}
		minStrahler = int(*v)
	}

	withGeometry, err := in.Bool("with_geometry", true)
	if err != nil {
		return nil, err
	}
	if !withGeometry {
		outlets, err := hydro.OutletSubcIDs(ctx, deps.Store, polygon, minStrahler)
		if err != nil {
			return nil, err
		}
		return withComment(map[string]any{"outlets": outlets}, in.Comment()), nil
	}

	features, err := hydro.OutletFeatures(ctx, deps.Store, polygon, minStrahler)
	if err != nil {
		return nil, err
	}
	fc := geo.NewFeatureCollection(features)
	fc.Comment = in.Comment()
	return fc, nil
}

// polygonInput accepts the polygon inline or behind a URL.
func polygonInput(ctx context.Context, deps Deps, in Inputs) ([]byte, error) {
	if raw, ok := in.Raw("polygon"); ok {
		g, err := geo.ParseGeoJSONGeometry(raw)
		if err != nil {
			return nil, err
		}
		switch g.GeoJSONType() {
		case "Polygon", "MultiPolygon":
			return raw, nil
		default:
			return nil, errs.BadInput("input \"polygon\" is a %s, need a polygon", g.GeoJSONType())
		}
	}
	if url, ok, err := in.String("polygon_geojson_url"); err != nil {
		return nil, err
	} else if ok {
		return deps.Fetch.GeoJSONPolygon(ctx, url)
	}
	return nil, errs.BadInput("either polygon or polygon_geojson_url is required")
}

func handleEnvData(ctx context.Context, deps Deps, in Inputs) (any, error) {
	subcIDs, err := in.IntSlice("subc_ids")
	if err != nil {
		return nil, err
	}
	if len(subcIDs) == 0 {
		return nil, errs.BadInput("input \"subc_ids\" is required and must not be empty")
	}
	variables, err := in.StringSlice("variables")
	if err != nil {
		return nil, err
	}
	if err := hydro.CheckUpstreamCount(subcIDs, deps.MaxUpstream); err != nil {
		return nil, err
	}

	regID, err := in.Int("reg_id")
	if err != nil {
		return nil, err
	}
	if regID == nil {
		t, err := hydro.TripleFromSubcID(ctx, deps.Store, subcIDs[0])
		if err != nil {
			return nil, err
		}
		regID = &t.RegID
	}

	values, err := hydro.EnvForSubcIDs(ctx, deps.Store, subcIDs, *regID, variables)
	if err != nil {
		return nil, err
	}
	return withComment(map[string]any{
		"env90m": values,
		"reg_id": *regID,
	}, in.Comment()), nil
}

func handleEnvVariables(ctx context.Context, deps Deps, in Inputs) (any, error) {
	vars, err := hydro.EnvVariables(ctx, deps.Store)
	if err != nil {
		return nil, err
	}
	return withComment(map[string]any{"variables": vars}, in.Comment()), nil
}

func handleShortestPathToOutlet(ctx context.Context, deps Deps, in Inputs) (any, error) {
	t, err := resolveTriple(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	path, err := hydro.DownstreamPathToOutlet(ctx, deps.Store, t)
	if err != nil {
		return nil, err
	}
	return withComment(map[string]any{
		"subc_id":  t.SubcID,
		"basin_id": t.BasinID,
		"reg_id":   t.RegID,
		"subc_ids": path,
	}, in.Comment()), nil
}
