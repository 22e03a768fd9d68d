// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

// Package download persists process results requested by reference and
// sweeps them out again after the retention period.
package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/hydrowire/hydrowire/internal/config"
)

// Store writes result documents into the download directory and builds
// the public URLs they are served under.
type Store struct {
	dir     string
	baseURL string
}

// NewStore ensures the download directory exists.
func NewStore(cfg config.DownloadsConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create download directory %s: %w", cfg.Dir, err)
	}
	return &Store{dir: cfg.Dir, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

// Dir returns the directory results are written to, for the file server.
func (s *Store) Dir() string { return s.dir }

// SaveJSON writes the result of a job and returns the URL it can be
// fetched from. File names follow outputs-<process>-<job>.json.
func (s *Store) SaveJSON(processID, jobID string, result any) (string, error) {
	data, err := json.MarshalIndent(result, "", " ")
	if err != nil {
		return "", fmt.Errorf("cannot encode result of %s: %w", processID, err)
	}

	name := fmt.Sprintf("outputs-%s-%s.json", processID, jobID)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("cannot write result file %s: %w", path, err)
	}
	return s.baseURL + "/" + name, nil
}
