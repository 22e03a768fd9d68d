// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package api provides the OGC-API-Processes HTTP surface of the
// process host.
package api

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/hydrowire/hydrowire/internal/errs"
	"github.com/hydrowire/hydrowire/internal/logging"
)

// errorEnvelope is the machine-readable error document. The code is
// the error kind, the request id ties the response to the server logs.
type errorEnvelope struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, doc any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		logging.Error().Err(err).Msg("encoding response failed")
	}
}

// writeResult emits a process result document inline, as-is.
func writeResult(w http.ResponseWriter, doc any) {
	writeJSON(w, http.StatusOK, doc)
}

// writeError maps an error to its HTTP status and envelope. Operator
// errors are logged with their cause but surface only a generic
// message; user errors carry their message through.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.KindOf(err)
	status := kind.HTTPStatus()
	requestID := logging.RequestIDFromContext(r.Context())

	message := "internal error"
	if kind.UserVisible() {
		var e *errs.Error
		if errors.As(err, &e) {
			message = e.Message
		} else {
			message = err.Error()
		}
		logging.Ctx(r.Context()).Debug().Err(err).Str("kind", kind.String()).Msg("request rejected")
	} else {
		logging.Ctx(r.Context()).Error().Err(err).Str("kind", kind.String()).Msg("request failed")
	}

	writeJSON(w, status, errorEnvelope{
		Code:      kind.String(),
		Message:   message,
		RequestID: requestID,
	})
}
