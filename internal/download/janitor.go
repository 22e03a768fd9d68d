// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package download

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hydrowire/hydrowire/internal/config"
	"github.com/hydrowire/hydrowire/internal/logging"
)

// Janitor removes result files past their retention. It runs under the
// process supervisor.
type Janitor struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

// NewJanitor builds a janitor for the download directory.
func NewJanitor(cfg config.DownloadsConfig) *Janitor {
	return &Janitor{
		dir:       cfg.Dir,
		retention: cfg.Retention,
		interval:  cfg.SweepInterval,
		now:       time.Now,
	}
}

// String names the service in supervisor logs.
func (j *Janitor) String() string { return "download-janitor" }

// Serve sweeps on a ticker until the supervisor shuts down.
func (j *Janitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.Sweep()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep deletes expired result files and returns how many were removed.
// Only files this service wrote are touched.
func (j *Janitor) Sweep() int {
	log := logging.WithComponent("download-janitor")

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", j.dir).Msg("cannot read download directory")
		return 0
	}

	cutoff := j.now().Add(-j.retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "outputs-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, name)
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("cannot remove expired result")
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("swept expired results")
	}
	return removed
}
