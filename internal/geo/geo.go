// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package geo converts between the store's wire encodings (WKT, WKB)
// and the GeoJSON documents returned by the query processes.
//
// All geometries are WGS84 lon/lat. The store emits Point, LineString,
// Polygon and MultiPolygon; anything else is a data fault.
package geo

import (
	"encoding/hex"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/hydrowire/hydrowire/internal/errs"
)

// ParseWKT decodes a WKT string from the store.
func ParseWKT(s string) (orb.Geometry, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, errs.BadGeometry(err, "cannot parse WKT %.40q", s)
	}
	return restrict(g)
}

// ParseWKBHex decodes a hex-encoded WKB value from the store.
func ParseWKBHex(s string) (orb.Geometry, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errs.BadGeometry(err, "cannot decode WKB hex %.40q", s)
	}
	return ParseWKB(raw)
}

// ParseWKB decodes a binary WKB value from the store.
func ParseWKB(raw []byte) (orb.Geometry, error) {
	g, err := wkb.Unmarshal(raw)
	if err != nil {
		return nil, errs.BadGeometry(err, "cannot parse WKB (%d bytes)", len(raw))
	}
	return restrict(g)
}

// ParseGeoJSONGeometry decodes a caller-supplied GeoJSON geometry.
func ParseGeoJSONGeometry(data []byte) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, errs.BadGeometry(err, "cannot parse GeoJSON geometry")
	}
	return restrict(g.Geometry())
}

func restrict(g orb.Geometry) (orb.Geometry, error) {
	switch g.(type) {
	case orb.Point, orb.LineString, orb.Polygon, orb.MultiPolygon:
		return g, nil
	default:
		return nil, errs.BadGeometry(nil, "unsupported geometry type %s", g.GeoJSONType())
	}
}

// NewGeometry wraps an orb geometry for GeoJSON encoding. A nil input
// yields nil, which marshals as a JSON null.
func NewGeometry(g orb.Geometry) *geojson.Geometry {
	if g == nil {
		return nil
	}
	return geojson.NewGeometry(g)
}

// Feature is a GeoJSON feature whose geometry may be null. The store
// occasionally yields rows without geometry (outlet nodes on basin
// boundaries); those become features with a null geometry rather than
// failures.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]any    `json:"properties"`
}

// NewFeature builds a feature. g may be nil.
func NewFeature(g orb.Geometry, props map[string]any) Feature {
	if props == nil {
		props = map[string]any{}
	}
	return Feature{Type: "Feature", Geometry: NewGeometry(g), Properties: props}
}

// FeatureCollection is a GeoJSON feature collection. The top-level
// identification fields carried by several process results live
// alongside the features.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`

	RegID   *int64  `json:"reg_id,omitempty"`
	BasinID *int64  `json:"basin_id,omitempty"`
	SubcIDs []int64 `json:"subc_ids,omitempty"`
	Comment string  `json:"comment,omitempty"`
}

// NewFeatureCollection builds a collection around the given features.
// An empty set yields "features": [], not null.
func NewFeatureCollection(features []Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}

// GeometryCollection is a GeoJSON geometry collection.
type GeometryCollection struct {
	Type       string              `json:"type"`
	Geometries []*geojson.Geometry `json:"geometries"`
	Comment    string              `json:"comment,omitempty"`
}

// NewGeometryCollection builds a collection around the given geometries.
func NewGeometryCollection(geoms []*geojson.Geometry) *GeometryCollection {
	if geoms == nil {
		geoms = []*geojson.Geometry{}
	}
	return &GeometryCollection{Type: "GeometryCollection", Geometries: geoms}
}

// BBoxPolygon builds the closed five-vertex ring around an extent.
func BBoxPolygon(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}}
}
