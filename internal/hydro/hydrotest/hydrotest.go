// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package hydrotest provides a scriptable store stub for tests of the
// query layer and the process catalog.
package hydrotest

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier scripts store responses by SQL substring. The first stub
// whose fragment occurs in the statement answers the call.
type Querier struct {
	Stubs []Stub
}

// Stub is one scripted response.
type Stub struct {
	Fragment string
	Rows     [][]any
	Err      error
}

func (q *Querier) lookup(sql string) (*Stub, error) {
	for i := range q.Stubs {
		if strings.Contains(sql, q.Stubs[i].Fragment) {
			return &q.Stubs[i], nil
		}
	}
	return nil, fmt.Errorf("unexpected query: %s", sql)
}

// Query implements the store interface.
func (q *Querier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	stub, err := q.lookup(sql)
	if err != nil {
		return nil, err
	}
	if stub.Err != nil {
		return nil, stub.Err
	}
	return &rows{rows: stub.Rows}, nil
}

// QueryRow implements the store interface. An empty stub reports
// pgx.ErrNoRows at Scan time, per the pgx contract.
func (q *Querier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	stub, err := q.lookup(sql)
	if err != nil {
		return row{err: err}
	}
	if stub.Err != nil {
		return row{err: stub.Err}
	}
	if len(stub.Rows) == 0 {
		return row{err: pgx.ErrNoRows}
	}
	return row{values: stub.Rows[0]}
}

type row struct {
	values []any
	err    error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignRow(r.values, dest)
}

type rows struct {
	rows [][]any
	pos  int
}

func (r *rows) Close()                                       {}
func (r *rows) Err() error                                   { return nil }
func (r *rows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rows) RawValues() [][]byte                          { return nil }
func (r *rows) Conn() *pgx.Conn                              { return nil }

func (r *rows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *rows) Scan(dest ...any) error {
	return assignRow(r.rows[r.pos-1], dest)
}

func (r *rows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}

func assignRow(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values for %d destinations", len(values), len(dest))
	}
	for i, v := range values {
		if err := assign(dest[i], v); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

func assign(dest, val any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("destination is not a pointer")
	}
	elem := dv.Elem()
	if val == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}
	vv := reflect.ValueOf(val)
	switch {
	case vv.Type().AssignableTo(elem.Type()):
		elem.Set(vv)
	case elem.Kind() == reflect.Ptr && vv.Type().AssignableTo(elem.Type().Elem()):
		p := reflect.New(elem.Type().Elem())
		p.Elem().Set(vv)
		elem.Set(p)
	case vv.Type().ConvertibleTo(elem.Type()):
		elem.Set(vv.Convert(elem.Type()))
	default:
		return fmt.Errorf("cannot assign %T to %s", val, elem.Type())
	}
	return nil
}
