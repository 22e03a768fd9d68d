// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package fetch retrieves caller-supplied inputs from remote URLs: CSV
// tables of points and GeoJSON polygons. Everything fetched here is
// untrusted user input, so failures are reported as caller mistakes,
// not service faults.
package fetch

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/geo"
	"github.com/hydrowire/hydrowire/internal/logging"
)

// maxBodyBytes caps remote payloads. A CSV of gauging stations or a
// study-area polygon is small; anything bigger is a mistake.
const maxBodyBytes = 20 << 20

// Point is one row of a fetched CSV of sites.
type Point struct {
	SiteID string
	Lon    float64
	Lat    float64
}

// Client fetches remote inputs. Use NewClient.
type Client struct {
	http *http.Client
}

// NewClient builds a client with a sane timeout for remote fetches.
func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: 30 * time.Second}}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.BadInput("invalid URL %q: %v", url, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.BadInput("cannot fetch %q: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.BadInput("fetching %q returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errs.BadInput("reading %q failed: %v", url, err)
	}
	if len(body) > maxBodyBytes {
		return nil, errs.BadInput("payload at %q exceeds %d bytes", url, maxBodyBytes)
	}
	return body, nil
}

// CSVPoints fetches a CSV table and extracts one point per row using
// the named longitude, latitude and site id columns. The header row
// must carry all three names exactly.
func (c *Client) CSVPoints(ctx context.Context, url, lonCol, latCol, siteIDCol string) ([]Point, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errs.BadInput("CSV at %q has no header row: %v", url, err)
	}

	lonIdx, latIdx, siteIdx := -1, -1, -1
	for i, name := range header {
		switch name {
		case lonCol:
			lonIdx = i
		case latCol:
			latIdx = i
		case siteIDCol:
			siteIdx = i
		}
	}
	if lonIdx < 0 || latIdx < 0 || siteIdx < 0 {
		return nil, errs.BadInput("CSV at %q is missing one of the columns %q, %q, %q", url, lonCol, latCol, siteIDCol)
	}

	var points []Point
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.BadInput("CSV at %q is malformed at line %d: %v", url, line, err)
		}
		lon, err := strconv.ParseFloat(record[lonIdx], 64)
		if err != nil {
			return nil, errs.BadInput("CSV at %q line %d: %q is not a longitude", url, line, record[lonIdx])
		}
		lat, err := strconv.ParseFloat(record[latIdx], 64)
		if err != nil {
			return nil, errs.BadInput("CSV at %q line %d: %q is not a latitude", url, line, record[latIdx])
		}
		points = append(points, Point{SiteID: record[siteIdx], Lon: lon, Lat: lat})
	}
	if len(points) == 0 {
		return nil, errs.BadInput("CSV at %q has no data rows", url)
	}

	logging.Ctx(ctx).Debug().Str("url", url).Int("points", len(points)).Msg("fetched CSV points")
	return points, nil
}

// GeoJSONPolygon fetches a GeoJSON geometry and verifies it parses as a
// polygon or multipolygon. The raw document is returned for direct use
// in store queries.
func (c *Client) GeoJSONPolygon(ctx context.Context, url string) ([]byte, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	g, err := geo.ParseGeoJSONGeometry(body)
	if err != nil {
		return nil, err
	}
	switch g.GeoJSONType() {
	case "Polygon", "MultiPolygon":
		return body, nil
	default:
		return nil, errs.BadInput("geometry at %q is a %s, need a polygon", url, g.GeoJSONType())
	}
}
