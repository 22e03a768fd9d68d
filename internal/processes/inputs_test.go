// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package processes

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/hydrowire/hydrowire/internal/errs"
)

func decodeInputs(t *testing.T, doc string) Inputs {
	t.Helper()
	var in Inputs
	if err := json.Unmarshal([]byte(doc), &in); err != nil {
		t.Fatalf("decoding inputs: %v", err)
	}
	return in
}

func TestInputsFloat(t *testing.T) {
	in := decodeInputs(t, `{"lon": 9.93, "bad": "east"}`)

	lon, err := in.Float("lon")
	if err != nil || lon == nil || *lon != 9.93 {
		t.Errorf("Float(lon) = (%v, %v), want 9.93", lon, err)
	}
	absent, err := in.Float("lat")
	if err != nil || absent != nil {
		t.Errorf("Float(lat) = (%v, %v), want (nil, nil)", absent, err)
	}
	if _, err := in.Float("bad"); !errs.IsKind(err, errs.KindBadInput) {
		t.Errorf("Float(bad) = %v, want BadInput", err)
	}
}

func TestInputsBoolAcceptsLegacyStrings(t *testing.T) {
	in := decodeInputs(t, `{"a": true, "b": "true", "c": "False", "d": "yes"}`)

	for name, want := range map[string]bool{"a": true, "b": true, "c": false} {
		got, err := in.Bool(name, false)
		if err != nil || got != want {
			t.Errorf("Bool(%s) = (%v, %v), want %v", name, got, err, want)
		}
	}
	if got, err := in.Bool("absent", true); err != nil || !got {
		t.Errorf("Bool(absent) = (%v, %v), want default true", got, err)
	}
	if _, err := in.Bool("d", false); !errs.IsKind(err, errs.KindBadInput) {
		t.Errorf("Bool(d) = %v, want BadInput", err)
	}
}

func TestInputsIntSlice(t *testing.T) {
	in := decodeInputs(t, `{"subc_ids": [3, 1, 2], "empty": []}`)

	ids, err := in.IntSlice("subc_ids")
	if err != nil || len(ids) != 3 {
		t.Fatalf("IntSlice = (%v, %v)", ids, err)
	}
	empty, err := in.IntSlice("empty")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("IntSlice(empty) = (%v, %v), want empty non-nil slice", empty, err)
	}
	absent, err := in.IntSlice("absent")
	if err != nil || absent != nil {
		t.Errorf("IntSlice(absent) = (%v, %v), want nil", absent, err)
	}
}

func TestInputsRequiredString(t *testing.T) {
	in := decodeInputs(t, `{"csv_url": "https://example.org/sites.csv"}`)

	v, err := in.RequiredString("csv_url")
	if err != nil || v != "https://example.org/sites.csv" {
		t.Errorf("RequiredString = (%q, %v)", v, err)
	}
	if _, err := in.RequiredString("colname_lon"); !errs.IsKind(err, errs.KindBadInput) {
		t.Errorf("RequiredString(absent) = %v, want BadInput", err)
	}
}

func TestInputsComment(t *testing.T) {
	if got := decodeInputs(t, `{"comment": "hello"}`).Comment(); got != "hello" {
		t.Errorf("Comment = %q, want hello", got)
	}
	if got := decodeInputs(t, `{}`).Comment(); got != "" {
		t.Errorf("Comment = %q, want empty", got)
	}
}
