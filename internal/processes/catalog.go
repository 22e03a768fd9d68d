// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package processes

// Version stamped onto every process description.
const catalogVersion = "2.0.0"

var catalog = []Process{
	{
		ID:          "get-local-ids",
		Title:       "Get local subcatchment, basin and region ids",
		Description: "Resolves a point or subcatchment id to the canonical (subc_id, basin_id, reg_id) triple.",
		Version:     catalogVersion,
		Inputs:      locationInputs,
		Handler:     handleLocalIDs,
	},
	{
		ID:          "get-upstream-subcids",
		Title:       "Get upstream subcatchment ids",
		Description: "Enumerates the subcatchments upstream of and including the given one, ascending.",
		Version:     catalogVersion,
		Inputs:      locationInputs,
		Handler:     handleUpstreamSubcIDs,
	},
	{
		ID:          "get-upstream-bbox",
		Title:       "Get bounding box of the upstream catchment",
		Description: "Computes the axis-aligned bounding polygon of the upstream subcatchment polygons.",
		Version:     catalogVersion,
		Inputs: append([]InputDoc{
			{Name: "subc_ids", Title: "Subcatchment ids", Type: "array", Description: "explicit id set, requires basin_id and reg_id"},
			{Name: "add_upstream_ids", Title: "Add upstream ids", Type: "boolean"},
			geomOnly,
		}, locationInputs...),
		Handler: handleUpstreamBBox,
	},
	{
		ID:          "get-upstream-dissolved",
		Title:       "Get dissolved upstream catchment polygon",
		Description: "Unions the upstream subcatchment polygons into one geometry.",
		Version:     catalogVersion,
		Inputs: append([]InputDoc{
			{Name: "subc_ids", Title: "Subcatchment ids", Type: "array"},
			geomOnly,
		}, locationInputs...),
		Handler: handleUpstreamDissolved,
	},
	{
		ID:          "get-upstream-subcatchments",
		Title:       "Get upstream subcatchment polygons",
		Description: "Returns one polygon feature per upstream subcatchment.",
		Version:     catalogVersion,
		Inputs: append([]InputDoc{
			{Name: "subc_ids", Title: "Subcatchment ids", Type: "array"},
		}, locationInputs...),
		Handler: handleUpstreamSubcatchments,
	},
	{
		ID:          "get-upstream-streamsegments",
		Title:       "Get upstream stream segments",
		Description: "Returns the stream segment linestrings of the upstream catchment.",
		Version:     catalogVersion,
		Inputs: append([]InputDoc{
			{Name: "subc_ids", Title: "Subcatchment ids", Type: "array"},
			geomOnly,
		}, locationInputs...),
		Handler: handleUpstreamStreamSegments,
	},
	{
		ID:          "get-local-streamsegments",
		Title:       "Get the local stream segment",
		Description: "Returns the stream segment of the subcatchment containing the input location.",
		Version:     catalogVersion,
		Inputs:      append([]InputDoc{geomOnly}, locationInputs...),
		Handler:     handleLocalStreamSegments,
	},
	{
		ID:          "get-basin-polygon",
		Title:       "Get basin polygon",
		Description: "Returns the prebuilt polygon of the basin containing the input location.",
		Version:     catalogVersion,
		Inputs: append([]InputDoc{
			{Name: "basin_id", Title: "Basin id", Type: "integer"},
			{Name: "reg_id", Title: "Region id", Type: "integer"},
			geomOnly,
		}, locationInputs...),
		Handler: handleBasinPolygon,
	},
	{
		ID:          "get-snapped-points",
		Title:       "Snap a point to its stream segment",
		Description: "Returns the nearest point on the stream segment of the subcatchment containing the input point, with the segment and a connecting line.",
		Version:     catalogVersion,
		Inputs: []InputDoc{
			{Name: "lon", Title: "Longitude", Type: "number", Required: true},
			{Name: "lat", Title: "Latitude", Type: "number", Required: true},
			subcIDInput, geomOnly, commentInput,
		},
		Handler: handleSnappedPoints,
	},
	{
		ID:          "get-snapped-points-plural",
		Title:       "Snap a CSV of points to their stream segments",
		Description: "Fetches a CSV of sites and snaps each one; sites the dataset cannot serve come back as null-geometry features with the reason.",
		Version:     catalogVersion,
		Inputs: []InputDoc{
			{Name: "csv_url", Title: "CSV URL", Type: "string", Required: true},
			{Name: "colname_lon", Title: "Longitude column", Type: "string", Required: true},
			{Name: "colname_lat", Title: "Latitude column", Type: "string", Required: true},
			{Name: "colname_site_id", Title: "Site id column", Type: "string", Required: true},
			commentInput,
		},
		Handler: handleSnappedPointsPlural,
	},
	{
		ID:          "get-outlets-for-polygon",
		Title:       "Get basin outlets inside a polygon",
		Description: "Lists the basin outlet segments contained in the polygon, filtered by minimum Strahler order.",
		Version:     catalogVersion,
		Inputs: []InputDoc{
			{Name: "polygon", Title: "GeoJSON polygon", Type: "object"},
			{Name: "polygon_geojson_url", Title: "Polygon URL", Type: "string"},
			{Name: "min_strahler", Title: "Minimum Strahler order", Type: "integer"},
			{Name: "with_geometry", Title: "With geometry", Type: "boolean", Description: "false returns a basin to outlet id mapping"},
			commentInput,
		},
		Handler: handleOutletsForPolygon,
	},
	{
		ID:          "get-env90m-data-for-subcids",
		Title:       "Get environment variables for subcatchments",
		Description: "Returns the requested environment variable values per subcatchment; missing values are null.",
		Version:     catalogVersion,
		Inputs: []InputDoc{
			{Name: "subc_ids", Title: "Subcatchment ids", Type: "array", Required: true},
			{Name: "variables", Title: "Variable names", Type: "array", Required: true},
			{Name: "reg_id", Title: "Region id", Type: "integer"},
			commentInput,
		},
		Handler: handleEnvData,
	},
	{
		ID:          "get-env90m-variables",
		Title:       "List available environment variables",
		Description: "Introspects the deployed store for the environment variable whitelist.",
		Version:     catalogVersion,
		Inputs:      []InputDoc{commentInput},
		Handler:     handleEnvVariables,
	},
	{
		ID:          "get-shortest-path-to-outlet",
		Title:       "Get the downstream path to the basin outlet",
		Description: "Walks the stream network downstream from the input location to the basin outlet.",
		Version:     catalogVersion,
		Inputs:      locationInputs,
		Handler:     handleShortestPathToOutlet,
	},
}
