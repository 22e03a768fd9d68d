// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/hydrowire/hydrowire/internal/errs"
)

// The whitelist of environment variables is a property of the deployed
// store: one table per variable in the env90m schema. It is introspected
// rather than hardcoded.

var envIdentRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// EnvVariables lists the variables available in the deployed store.
func EnvVariables(ctx context.Context, q Querier) ([]string, error) {
	const query = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = 'env90m'
	ORDER BY table_name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vars := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Store(err, "variable introspection failed")
		}
		vars = append(vars, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err, "variable introspection failed")
	}
	return vars, nil
}

// EnvForSubcIDs fetches the given variables for each subcatchment.
// All subcatchments must belong to regID; otherwise TooManyRegions and
// no partial result. A subcatchment missing from a variable's table
// reports null for that variable, never an omitted key.
func EnvForSubcIDs(ctx context.Context, q Querier, subcIDs []int64, regID int64, variables []string) (map[int64]map[string]*float64, error) {
	if len(subcIDs) == 0 {
		return nil, errs.BadInput("subc_ids must not be empty")
	}
	if len(variables) == 0 {
		return nil, errs.BadInput("variables must not be empty")
	}

	whitelist, err := EnvVariables(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, v := range variables {
		// The identifier check backs up the whitelist; table names
		// are interpolated below and must never carry SQL.
		if !envIdentRe.MatchString(v) || !slices.Contains(whitelist, v) {
			return nil, errs.BadInput("unknown variable %q", v)
		}
	}

	if err := checkSingleRegion(ctx, q, subcIDs, regID); err != nil {
		return nil, err
	}

	result := make(map[int64]map[string]*float64, len(subcIDs))
	for _, id := range subcIDs {
		vals := make(map[string]*float64, len(variables))
		for _, v := range variables {
			vals[v] = nil
		}
		result[id] = vals
	}

	for _, v := range variables {
		query := fmt.Sprintf(`SELECT subc_id, value FROM env90m.%s WHERE subc_id = ANY($1)`, v)
		rows, err := q.Query(ctx, query, subcIDs)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var subcID int64
			var value *float64
			if err := rows.Scan(&subcID, &value); err != nil {
				rows.Close()
				return nil, errs.Store(err, "environment query failed for %s", v)
			}
			if vals, ok := result[subcID]; ok {
				vals[v] = value
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, errs.Store(err, "environment query failed for %s", v)
		}
		rows.Close()
	}

	return result, nil
}

func checkSingleRegion(ctx context.Context, q Querier, subcIDs []int64, regID int64) error {
	const query = `
	SELECT DISTINCT reg_id
	FROM sub_catchments
	WHERE subc_id = ANY($1)`

	rows, err := q.Query(ctx, query, subcIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	regions := []int64{}
	for rows.Next() {
		var r int64
		if err := rows.Scan(&r); err != nil {
			return errs.Store(err, "region check failed")
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return errs.Store(err, "region check failed")
	}

	if len(regions) > 1 {
		return errs.TooManyRegions("subcatchments span %d regions, expected only region %d", len(regions), regID)
	}
	if len(regions) == 1 && regions[0] != regID {
		return errs.TooManyRegions("subcatchments belong to region %d, not the stated region %d", regions[0], regID)
	}
	return nil
}
