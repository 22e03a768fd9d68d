// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"

	"github.com/hydrowire/hydrowire/internal/errs"
)

// DownstreamPathToOutlet walks the target relation from the given
// subcatchment down to the basin outlet and returns the path in flow
// order, starting with the given subcatchment. The walk terminates at
// the segment whose target is the negative basin id.
func DownstreamPathToOutlet(ctx context.Context, q Querier, t Triple) ([]int64, error) {
	const query = `
	SELECT subc_id, target
	FROM hydro.stream_segments
	WHERE basin_id = $1
	AND reg_id = $2`

	rows, err := q.Query(ctx, query, t.BasinID, t.RegID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := map[int64]int64{}
	for rows.Next() {
		var subcID, target int64
		if err := rows.Scan(&subcID, &target); err != nil {
			return nil, errs.Store(err, "downstream path query failed")
		}
		targets[subcID] = target
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err, "downstream path query failed")
	}

	if _, ok := targets[t.SubcID]; !ok {
		return nil, errs.NotFound("no stream segment for subcatchment %d in basin %d", t.SubcID, t.BasinID)
	}

	path := []int64{t.SubcID}
	seen := map[int64]bool{t.SubcID: true}
	current := t.SubcID
	for {
		next := targets[current]
		if next == -t.BasinID {
			return path, nil
		}
		if seen[next] {
			return nil, errs.Invariant("cycle detected in stream network of basin %d at subcatchment %d", t.BasinID, next)
		}
		if _, ok := targets[next]; !ok {
			return nil, errs.Invariant("segment %d flows into %d which has no segment in basin %d", current, next, t.BasinID)
		}
		seen[next] = true
		path = append(path, next)
		current = next
	}
}
