// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hydrowire/hydrowire/internal/errs"
)

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCSVPoints(t *testing.T) {
	srv := serveBody(t, http.StatusOK,
		"site,longitude,latitude,extra\n"+
			"berlin-1, 13.4, 52.5,x\n"+
			"kiel-2,10.13,54.32,y\n")

	points, err := NewClient().CSVPoints(context.Background(), srv.URL, "longitude", "latitude", "site")
	if err != nil {
		t.Fatalf("CSVPoints: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	want := Point{SiteID: "berlin-1", Lon: 13.4, Lat: 52.5}
	if points[0] != want {
		t.Errorf("first point = %+v, want %+v", points[0], want)
	}
}

func TestCSVPointsMissingColumn(t *testing.T) {
	srv := serveBody(t, http.StatusOK, "site,lon,lat\na,1,2\n")
	_, err := NewClient().CSVPoints(context.Background(), srv.URL, "longitude", "lat", "site")
	if !errs.IsKind(err, errs.KindBadInput) {
		t.Fatalf("missing column = %v, want BadInput", err)
	}
}

func TestCSVPointsBadCoordinate(t *testing.T) {
	srv := serveBody(t, http.StatusOK, "site,lon,lat\na,east,2\n")
	_, err := NewClient().CSVPoints(context.Background(), srv.URL, "lon", "lat", "site")
	if !errs.IsKind(err, errs.KindBadInput) {
		t.Fatalf("bad coordinate = %v, want BadInput", err)
	}
}

func TestCSVPointsNoDataRows(t *testing.T) {
	srv := serveBody(t, http.StatusOK, "site,lon,lat\n")
	_, err := NewClient().CSVPoints(context.Background(), srv.URL, "lon", "lat", "site")
	if !errs.IsKind(err, errs.KindBadInput) {
		t.Fatalf("headers only = %v, want BadInput", err)
	}
}

func TestCSVPointsRemoteFailure(t *testing.T) {
	srv := serveBody(t, http.StatusNotFound, "gone")
	_, err := NewClient().CSVPoints(context.Background(), srv.URL, "lon", "lat", "site")
	if !errs.IsKind(err, errs.KindBadInput) {
		t.Fatalf("remote 404 = %v, want BadInput", err)
	}
}

func TestGeoJSONPolygon(t *testing.T) {
	doc := `{"type":"Polygon","coordinates":[[[24.8,60.1],[25.2,60.1],[25.2,60.3],[24.8,60.1]]]}`
	srv := serveBody(t, http.StatusOK, doc)
	got, err := NewClient().GeoJSONPolygon(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GeoJSONPolygon: %v", err)
	}
	if string(got) != doc {
		t.Errorf("GeoJSONPolygon altered the document: %s", got)
	}
}

func TestGeoJSONPolygonRejectsPoint(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"type":"Point","coordinates":[24.8,60.1]}`)
	_, err := NewClient().GeoJSONPolygon(context.Background(), srv.URL)
	if !errs.IsKind(err, errs.KindBadInput) {
		t.Fatalf("point geometry = %v, want BadInput", err)
	}
}

func TestGeoJSONPolygonRejectsGarbage(t *testing.T) {
	srv := serveBody(t, http.StatusOK, "not json")
	_, err := NewClient().GeoJSONPolygon(context.Background(), srv.URL)
	if !errs.IsKind(err, errs.KindBadGeometry) {
		t.Fatalf("garbage body = %v, want BadGeometry", err)
	}
}
