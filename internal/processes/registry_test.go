// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package processes

import (
	"testing"

	"github.com/hydrowire/hydrowire/internal/errs"
)

func TestRegistryCatalog(t *testing.T) {
	r := NewRegistry()
	list := r.List()
	if len(list) != 14 {
		t.Fatalf("catalog has %d processes, want 14", len(list))
	}
	if list[0].ID != "get-local-ids" {
		t.Errorf("first process = %s, want get-local-ids", list[0].ID)
	}
	for _, p := range list {
		if p.Handler == nil {
			t.Errorf("process %s has no handler", p.ID)
		}
		if p.Title == "" || p.Description == "" {
			t.Errorf("process %s is undocumented", p.ID)
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	_, err := NewRegistry().Get("get-tide-tables")
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("unknown process = %v, want NotFound", err)
	}
}

func TestDescribe(t *testing.T) {
	p, err := NewRegistry().Get("get-snapped-points")
	if err != nil {
		t.Fatal(err)
	}
	d := p.Describe()
	if d.ID != "get-snapped-points" {
		t.Errorf("description id = %s", d.ID)
	}
	lon, ok := d.Inputs["lon"]
	if !ok {
		t.Fatal("description is missing the lon input")
	}
	if lon.MinOccurs != 1 {
		t.Errorf("lon MinOccurs = %d, want 1 (required)", lon.MinOccurs)
	}
	if d.Inputs["comment"].MinOccurs != 0 {
		t.Error("comment should be optional")
	}
	if len(d.Summary.OutputTransmission) != 2 {
		t.Errorf("outputTransmission = %v", d.Summary.OutputTransmission)
	}
}

func TestSummaries(t *testing.T) {
	sums := NewRegistry().Summaries()
	if len(sums) != 14 {
		t.Fatalf("got %d summaries", len(sums))
	}
	for _, s := range sums {
		if len(s.JobControlOptions) != 1 || s.JobControlOptions[0] != "sync-execute" {
			t.Errorf("process %s jobControlOptions = %v", s.ID, s.JobControlOptions)
		}
	}
}
