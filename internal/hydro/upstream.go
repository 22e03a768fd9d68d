// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"
	"fmt"
	"slices"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/logging"
)

// UpstreamSubcIDs enumerates the subcatchments upstream of and
// including subcID, ascending, capped at maxUpstream.
//
// The stream network of the basin is cut into connected components by
// excluding the starting segment's edge. The downstream component then
// contains the negative outlet node and gets a negative component id;
// the component with the starting node is the upstream catchment.
func UpstreamSubcIDs(ctx context.Context, q Querier, t Triple, maxUpstream int) ([]int64, error) {
	// pgRouting evaluates the edge query as text, so binds cannot
	// reach inside it. The ids are rendered from int64, never from
	// caller-supplied strings.
	edgeSQL := fmt.Sprintf(
		`SELECT subc_id AS id, subc_id AS source, target, length AS cost `+
			`FROM hydro.stream_segments `+
			`WHERE reg_id = %d AND basin_id = %d AND subc_id != %d`,
		t.RegID, t.BasinID, t.SubcID)

	const query = `
	SELECT component, array_agg(node)::bigint[] AS nodes
	FROM pgr_connectedComponents($1)
	WHERE component > 0
	GROUP BY component`

	rows, err := q.Query(ctx, query, edgeSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var upstream []int64
	found := false
	for rows.Next() {
		var component int64
		var nodes []int64
		if err := rows.Scan(&component, &nodes); err != nil {
			return nil, errs.Store(err, "upstream walk failed")
		}
		if !slices.Contains(nodes, t.SubcID) {
			continue
		}
		if found {
			return nil, errs.Invariant("subcatchment %d appears in more than one upstream component", t.SubcID)
		}
		found = true
		upstream = nodes
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err, "upstream walk failed")
	}

	if !found {
		// Headwater: removing its edge leaves nothing upstream.
		logging.Ctx(ctx).Debug().Int64("subc_id", t.SubcID).Msg("no upstream component, assuming headwater")
		return []int64{t.SubcID}, nil
	}

	if !slices.Contains(upstream, t.SubcID) {
		upstream = append(upstream, t.SubcID)
	}

	slices.Sort(upstream)
	for i := 1; i < len(upstream); i++ {
		if upstream[i] == upstream[i-1] {
			return nil, errs.Invariant("duplicate subc_id %d in upstream set of %d", upstream[i], t.SubcID)
		}
	}

	if len(upstream) > maxUpstream {
		return nil, errs.TooManyUpstream(t.SubcID, len(upstream), maxUpstream)
	}
	return upstream, nil
}

// CheckUpstreamCount guards follow-up operations that take an id set as
// input against sets beyond the configured cap.
func CheckUpstreamCount(subcIDs []int64, maxUpstream int) error {
	if len(subcIDs) > maxUpstream {
		var first int64
		if len(subcIDs) > 0 {
			first = subcIDs[0]
		}
		return errs.TooManyUpstream(first, len(subcIDs), maxUpstream)
	}
	return nil
}
