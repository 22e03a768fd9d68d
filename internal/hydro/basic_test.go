// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"
	"testing"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/hydro/hydrotest"
)

func TestCheckCoverage(t *testing.T) {
	tests := []struct {
		name    string
		lon     float64
		lat     float64
		wantErr bool
	}{
		{"inside", 9.931555, 54.695070, false},
		{"west boundary", CoverageMinLon, 50, false},
		{"east boundary", CoverageMaxLon, 50, false},
		{"too far west", -33, 50, true},
		{"too far east", 71, 50, true},
		{"too far south", 10, 33, true},
		{"too far north", 10, 83, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCoverage(tt.lon, tt.lat)
			if tt.wantErr && !errs.IsKind(err, errs.KindOutsideArea) {
				t.Errorf("CheckCoverage(%v, %v) = %v, want OutsideArea", tt.lon, tt.lat, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("CheckCoverage(%v, %v) = %v, want nil", tt.lon, tt.lat, err)
			}
		})
	}
}

func TestRegionIDNotFound(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "FROM regional_units"},
	}}
	_, err := RegionID(context.Background(), q, 10, 45)
	if !errs.IsKind(err, errs.KindOutsideArea) {
		t.Fatalf("RegionID with no region = %v, want OutsideArea", err)
	}
}

func TestRegionIDSkipsStoreOutsideCoverage(t *testing.T) {
	// No stubs at all: a coordinate outside the covered area must be
	// rejected before any store round trip.
	q := &hydrotest.Querier{}
	_, err := RegionID(context.Background(), q, -100, 45)
	if !errs.IsKind(err, errs.KindOutsideArea) {
		t.Fatalf("RegionID outside coverage = %v, want OutsideArea", err)
	}
}

func TestTripleFromLonLat(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "FROM regional_units", Rows: [][]any{{int64(58)}}},
		{Fragment: "AND reg_id = $3", Rows: [][]any{{int64(506251712), int64(1292547)}}},
	}}
	got, err := TripleFromLonLat(context.Background(), q, 9.931555, 54.695070)
	if err != nil {
		t.Fatalf("TripleFromLonLat: %v", err)
	}
	want := Triple{SubcID: 506251712, BasinID: 1292547, RegID: 58}
	if got != want {
		t.Errorf("TripleFromLonLat = %+v, want %+v", got, want)
	}
}

func TestTripleFromLonLatNoSubcatchment(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "FROM regional_units", Rows: [][]any{{int64(58)}}},
		{Fragment: "AND reg_id = $3"},
	}}
	_, err := TripleFromLonLat(context.Background(), q, 10, 45)
	if !errs.IsKind(err, errs.KindOutsideArea) {
		t.Fatalf("TripleFromLonLat with no match = %v, want OutsideArea", err)
	}
}

func TestTripleFromLonLatMultipleMatchesTakesSmallest(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "FROM regional_units", Rows: [][]any{{int64(58)}}},
		{Fragment: "AND reg_id = $3", Rows: [][]any{
			{int64(900), int64(100)},
			{int64(400), int64(100)},
			{int64(700), int64(100)},
		}},
	}}
	got, err := TripleFromLonLat(context.Background(), q, 10, 45)
	if err != nil {
		t.Fatalf("TripleFromLonLat: %v", err)
	}
	if got.SubcID != 400 {
		t.Errorf("TripleFromLonLat chose subc_id %d, want smallest 400", got.SubcID)
	}
}

func TestTripleFromSubcID(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "WHERE subc_id = $1", Rows: [][]any{{int64(1292547), int64(58)}}},
	}}
	got, err := TripleFromSubcID(context.Background(), q, 506251712)
	if err != nil {
		t.Fatalf("TripleFromSubcID: %v", err)
	}
	want := Triple{SubcID: 506251712, BasinID: 1292547, RegID: 58}
	if got != want {
		t.Errorf("TripleFromSubcID = %+v, want %+v", got, want)
	}
}

func TestTripleFromSubcIDNotFound(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "WHERE subc_id = $1"},
	}}
	_, err := TripleFromSubcID(context.Background(), q, 42)
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("TripleFromSubcID for unknown id = %v, want NotFound", err)
	}
}

func TestResolveTripleDispatch(t *testing.T) {
	lon, lat := 9.931555, 54.695070
	subcID := int64(506251712)

	t.Run("subc_id wins over coordinates", func(t *testing.T) {
		q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
			{Fragment: "WHERE subc_id = $1", Rows: [][]any{{int64(1292547), int64(58)}}},
		}}
		got, err := ResolveTriple(context.Background(), q, &lon, &lat, &subcID)
		if err != nil {
			t.Fatalf("ResolveTriple: %v", err)
		}
		if got.SubcID != subcID {
			t.Errorf("ResolveTriple = %+v, want subc_id %d", got, subcID)
		}
	})

	t.Run("no inputs", func(t *testing.T) {
		_, err := ResolveTriple(context.Background(), &hydrotest.Querier{}, nil, nil, nil)
		if !errs.IsKind(err, errs.KindBadInput) {
			t.Errorf("ResolveTriple with no inputs = %v, want BadInput", err)
		}
	})

	t.Run("lon without lat", func(t *testing.T) {
		_, err := ResolveTriple(context.Background(), &hydrotest.Querier{}, &lon, nil, nil)
		if !errs.IsKind(err, errs.KindBadInput) {
			t.Errorf("ResolveTriple with only lon = %v, want BadInput", err)
		}
	})
}
