// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package errs defines the error taxonomy shared by the hydrographic
// query layer and the process host.
//
// Every failure surfaced to a caller carries exactly one Kind. The kinds
// split into user-visible conditions (bad arguments, points in the
// ocean, upstream caps) that map to 4xx at the HTTP boundary, and
// operator-visible conditions (store faults, data invariant violations)
// that map to 5xx.
package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and for the HTTP boundary.
type Kind int

const (
	// KindUnknown is the zero value; never returned deliberately.
	KindUnknown Kind = iota

	// KindBadInput indicates missing or malformed caller arguments.
	KindBadInput

	// KindOutsideArea indicates a coordinate outside the covered area.
	KindOutsideArea

	// KindNotFound indicates well-formed input that resolves to no row.
	KindNotFound

	// KindTooManyUpstream indicates the upstream cap was exceeded.
	KindTooManyUpstream

	// KindTooManyRegions indicates a subcatchment set spanning regions.
	KindTooManyRegions

	// KindBadGeometry indicates a WKT/WKB/GeoJSON parse failure.
	KindBadGeometry

	// KindStore indicates a store gateway fault (connection loss,
	// timeout, cancellation).
	KindStore

	// KindStoreInvariant indicates data contradicting a documented
	// invariant; non-recoverable.
	KindStoreInvariant
)

// String returns the machine-readable code for the kind.
func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "BAD_INPUT"
	case KindOutsideArea:
		return "OUTSIDE_AREA"
	case KindNotFound:
		return "NOT_FOUND"
	case KindTooManyUpstream:
		return "TOO_MANY_UPSTREAM"
	case KindTooManyRegions:
		return "TOO_MANY_REGIONS"
	case KindBadGeometry:
		return "BAD_GEOMETRY"
	case KindStore:
		return "STORE_ERROR"
	case KindStoreInvariant:
		return "STORE_INVARIANT_VIOLATION"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus maps the kind to a boundary status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadInput, KindBadGeometry, KindTooManyRegions:
		return http.StatusBadRequest
	case KindOutsideArea, KindNotFound:
		return http.StatusNotFound
	case KindTooManyUpstream:
		return http.StatusUnprocessableEntity
	case KindStore, KindStoreInvariant, KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// UserVisible reports whether the kind describes a caller mistake
// rather than an operator problem.
func (k Kind) UserVisible() bool {
	switch k {
	case KindBadInput, KindOutsideArea, KindNotFound,
		KindTooManyUpstream, KindTooManyRegions, KindBadGeometry:
		return true
	default:
		return false
	}
}

// Error is the single error type of the query layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// SubcID and Count are populated for TooManyUpstream so the
	// boundary can report the starting id and the observed count.
	SubcID int64
	Count  int

	// Cancelled flags a store fault caused by request cancellation.
	Cancelled bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is comparisons against a bare *Error carrying a Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// KindOf extracts the kind from an error chain.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// BadInput builds a BadInput error.
func BadInput(format string, args ...any) *Error {
	return &Error{Kind: KindBadInput, Message: fmt.Sprintf(format, args...)}
}

// OutsideArea builds an OutsideArea error.
func OutsideArea(format string, args ...any) *Error {
	return &Error{Kind: KindOutsideArea, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// TooManyUpstream builds the cap-exceeded error carrying the starting
// subcatchment and the observed count.
func TooManyUpstream(subcID int64, count, limit int) *Error {
	return &Error{
		Kind:    KindTooManyUpstream,
		Message: fmt.Sprintf("upstream catchment of subcatchment %d has %d members, limit is %d", subcID, count, limit),
		SubcID:  subcID,
		Count:   count,
	}
}

// TooManyRegions builds the mixed-region error.
func TooManyRegions(format string, args ...any) *Error {
	return &Error{Kind: KindTooManyRegions, Message: fmt.Sprintf(format, args...)}
}

// BadGeometry wraps a geometry parse failure.
func BadGeometry(err error, format string, args ...any) *Error {
	return &Error{Kind: KindBadGeometry, Message: fmt.Sprintf(format, args...), Err: err}
}

// Invariant builds a StoreInvariantViolation error.
func Invariant(format string, args ...any) *Error {
	return &Error{Kind: KindStoreInvariant, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a store driver fault. Cancellation and deadline faults
// are flagged so the boundary can distinguish client disconnects from
// store outages.
func Store(err error, format string, args ...any) *Error {
	cancelled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	return &Error{
		Kind:      KindStore,
		Message:   fmt.Sprintf(format, args...),
		Err:       err,
		Cancelled: cancelled,
	}
}
