// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/hydrowire/hydrowire/internal/hydro/hydrotest"
)

var helsinkiPolygon = []byte(`{"type":"Polygon","coordinates":[[[24.8,60.1],[25.2,60.1],[25.2,60.3],[24.8,60.3],[24.8,60.1]]]}`)

func TestOutletSubcIDs(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "target = -basin_id", Rows: [][]any{
			{int64(300), int64(10)},
			{int64(500), int64(20)},
		}},
	}}
	outlets, err := OutletSubcIDs(context.Background(), q, helsinkiPolygon, 5)
	if err != nil {
		t.Fatalf("OutletSubcIDs: %v", err)
	}
	if len(outlets) != 2 {
		t.Fatalf("got %d outlets, want 2", len(outlets))
	}
	if outlets[10] != 300 || outlets[20] != 500 {
		t.Errorf("outlets = %v, want {10:300 20:500}", outlets)
	}
}

func TestOutletSubcIDsTieBreak(t *testing.T) {
	// A basin contributing several outlet segments reports the smallest
	// subc_id, whatever order the store returns them in.
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "target = -basin_id", Rows: [][]any{
			{int64(500), int64(10)},
			{int64(300), int64(10)},
			{int64(400), int64(10)},
		}},
	}}
	outlets, err := OutletSubcIDs(context.Background(), q, helsinkiPolygon, 1)
	if err != nil {
		t.Fatalf("OutletSubcIDs: %v", err)
	}
	if outlets[10] != 300 {
		t.Errorf("outlet for basin 10 = %d, want smallest 300", outlets[10])
	}
}

func TestOutletSubcIDsNoMatches(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "target = -basin_id"},
	}}
	outlets, err := OutletSubcIDs(context.Background(), q, helsinkiPolygon, 5)
	if err != nil {
		t.Fatalf("OutletSubcIDs: %v", err)
	}
	if len(outlets) != 0 {
		t.Errorf("got %d outlets, want 0", len(outlets))
	}
}

func TestOutletFeatures(t *testing.T) {
	// WKB for POINT(1 2), little endian.
	point, err := hex.DecodeString("0101000000000000000000f03f0000000000000040")
	if err != nil {
		t.Fatal(err)
	}
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "ST_AsBinary", Rows: [][]any{
			{int64(300), int64(10), point},
			{int64(400), int64(10), nil},
		}},
	}}
	features, err := OutletFeatures(context.Background(), q, helsinkiPolygon, 5)
	if err != nil {
		t.Fatalf("OutletFeatures: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("got %d features, want 2", len(features))
	}
	if features[0].Geometry == nil {
		t.Error("outlet with geometry became a null feature")
	}
	if features[1].Geometry != nil {
		t.Error("outlet without geometry should have null geometry")
	}
	if got := features[1].Properties["outlet_of_basin"]; got != int64(10) {
		t.Errorf("outlet_of_basin = %v, want 10", got)
	}
}
