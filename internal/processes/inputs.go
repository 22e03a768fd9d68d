// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package processes

import (
	json "github.com/goccy/go-json"

	"github.com/hydrowire/hydrowire/internal/errs"
)

// Inputs holds the raw named inputs of one execution request. Values
// stay encoded until a handler asks for them with a typed getter, so a
// handler only pays for and validates what it uses.
type Inputs map[string]json.RawMessage

// Float returns the named number, or nil when absent.
func (in Inputs) Float(name string) (*float64, error) {
	raw, ok := in[name]
	if !ok {
		return nil, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errs.BadInput("input %q must be a number", name)
	}
	return &v, nil
}

// Int returns the named integer, or nil when absent.
func (in Inputs) Int(name string) (*int64, error) {
	raw, ok := in[name]
	if !ok {
		return nil, nil
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errs.BadInput("input %q must be an integer", name)
	}
	return &v, nil
}

// IntSlice returns the named integer array, or nil when absent.
func (in Inputs) IntSlice(name string) ([]int64, error) {
	raw, ok := in[name]
	if !ok {
		return nil, nil
	}
	var v []int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errs.BadInput("input %q must be an array of integers", name)
	}
	return v, nil
}

// String returns the named string. The second result reports presence.
func (in Inputs) String(name string) (string, bool, error) {
	raw, ok := in[name]
	if !ok {
		return "", false, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, errs.BadInput("input %q must be a string", name)
	}
	return v, true, nil
}

// RequiredString returns the named string or BadInput when absent.
func (in Inputs) RequiredString(name string) (string, error) {
	v, ok, err := in.String(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.BadInput("input %q is required", name)
	}
	return v, nil
}

// StringSlice returns the named string array, or nil when absent.
func (in Inputs) StringSlice(name string) ([]string, error) {
	raw, ok := in[name]
	if !ok {
		return nil, nil
	}
	var v []string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errs.BadInput("input %q must be an array of strings", name)
	}
	return v, nil
}

// Bool returns the named boolean, falling back to def when absent.
// Legacy clients send booleans as the strings "true" and "false"; both
// encodings are accepted.
func (in Inputs) Bool(name string, def bool) (bool, error) {
	raw, ok := in[name]
	if !ok {
		return def, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "true", "True":
			return true, nil
		case "false", "False":
			return false, nil
		}
	}
	return false, errs.BadInput("input %q must be a boolean", name)
}

// Raw returns the named input still encoded, for GeoJSON passthrough.
func (in Inputs) Raw(name string) (json.RawMessage, bool) {
	raw, ok := in[name]
	return raw, ok
}

// Comment returns the opaque comment to echo into the result, if any.
func (in Inputs) Comment() string {
	v, _, _ := in.String("comment")
	return v
}
