// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package hydro

import (
	"context"
	"slices"
	"testing"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/hydro/hydrotest"
)

func routingStub(rows [][]any) *hydrotest.Querier {
	return &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "SELECT subc_id, target", Rows: rows},
	}}
}

func TestDownstreamPathToOutlet(t *testing.T) {
	q := routingStub([][]any{
		{int64(10), int64(20)},
		{int64(20), int64(30)},
		{int64(30), int64(-5)},
		{int64(99), int64(30)},
	})
	path, err := DownstreamPathToOutlet(context.Background(), q, Triple{SubcID: 10, BasinID: 5, RegID: 58})
	if err != nil {
		t.Fatalf("DownstreamPathToOutlet: %v", err)
	}
	if !slices.Equal(path, []int64{10, 20, 30}) {
		t.Errorf("path = %v, want [10 20 30] in flow order", path)
	}
}

func TestDownstreamPathFromOutletSegment(t *testing.T) {
	q := routingStub([][]any{
		{int64(30), int64(-5)},
	})
	path, err := DownstreamPathToOutlet(context.Background(), q, Triple{SubcID: 30, BasinID: 5, RegID: 58})
	if err != nil {
		t.Fatalf("DownstreamPathToOutlet: %v", err)
	}
	if !slices.Equal(path, []int64{30}) {
		t.Errorf("path = %v, want just the outlet segment", path)
	}
}

func TestDownstreamPathStartMissing(t *testing.T) {
	q := routingStub([][]any{
		{int64(30), int64(-5)},
	})
	_, err := DownstreamPathToOutlet(context.Background(), q, Triple{SubcID: 10, BasinID: 5, RegID: 58})
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("missing start segment = %v, want NotFound", err)
	}
}

func TestDownstreamPathCycle(t *testing.T) {
	q := routingStub([][]any{
		{int64(10), int64(20)},
		{int64(20), int64(10)},
	})
	_, err := DownstreamPathToOutlet(context.Background(), q, Triple{SubcID: 10, BasinID: 5, RegID: 58})
	if !errs.IsKind(err, errs.KindStoreInvariant) {
		t.Fatalf("cyclic network = %v, want StoreInvariant", err)
	}
}

func TestDownstreamPathOrphanedTarget(t *testing.T) {
	q := routingStub([][]any{
		{int64(10), int64(20)},
	})
	_, err := DownstreamPathToOutlet(context.Background(), q, Triple{SubcID: 10, BasinID: 5, RegID: 58})
	if !errs.IsKind(err, errs.KindStoreInvariant) {
		t.Fatalf("orphaned target = %v, want StoreInvariant", err)
	}
}
