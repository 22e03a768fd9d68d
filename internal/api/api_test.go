// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/hydrowire/hydrowire/internal/config"
	"github.com/hydrowire/hydrowire/internal/download"
	"github.com/hydrowire/hydrowire/internal/fetch"
	"github.com/hydrowire/hydrowire/internal/hydro/hydrotest"
	"github.com/hydrowire/hydrowire/internal/processes"
)

type stubHealth struct {
	err error
}

func (h stubHealth) Ping(context.Context) error { return h.err }
func (h stubHealth) BreakerState() string       { return "closed" }

func testServer(t *testing.T, q *hydrotest.Querier, health StoreHealth) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		Server: config.ServerConfig{
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
	downloads, err := download.NewStore(config.DownloadsConfig{
		Dir:     dir,
		BaseURL: "http://localhost:5000/downloads",
	})
	if err != nil {
		t.Fatal(err)
	}
	deps := processes.Deps{Fetch: fetch.NewClient(), MaxUpstream: 200}
	return NewServer(cfg, q, health, downloads, deps), dir
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestListProcesses(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{})
	rec := doRequest(t, s, http.MethodGet, "/processes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var doc struct {
		Processes []struct {
			ID string `json:"id"`
		} `json:"processes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Processes) != 14 {
		t.Errorf("got %d processes, want 14", len(doc.Processes))
	}
}

func TestDescribeProcess(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{})
	rec := doRequest(t, s, http.MethodGet, "/processes/get-local-ids", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"inputs"`) {
		t.Error("description has no inputs section")
	}
}

func TestDescribeUnknownProcess(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{})
	rec := doRequest(t, s, http.MethodGet, "/processes/get-tide-tables", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Errorf("envelope missing machine-readable code: %s", rec.Body)
	}
}

func TestExecuteInline(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "WHERE subc_id = $1", Rows: [][]any{{int64(1292547), int64(58)}}},
	}}
	s, _ := testServer(t, q, stubHealth{})
	rec := doRequest(t, s, http.MethodPost, "/processes/get-local-ids/execution",
		`{"inputs": {"subc_id": 506251712}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc["basin_id"] != float64(1292547) {
		t.Errorf("basin_id = %v", doc["basin_id"])
	}
}

func TestExecuteReference(t *testing.T) {
	q := &hydrotest.Querier{Stubs: []hydrotest.Stub{
		{Fragment: "WHERE subc_id = $1", Rows: [][]any{{int64(1292547), int64(58)}}},
	}}
	s, dir := testServer(t, q, stubHealth{})
	rec := doRequest(t, s, http.MethodPost, "/processes/get-local-ids/execution",
		`{"inputs": {"subc_id": 506251712}, "outputs": {"result": {"transmissionMode": "reference"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var doc struct {
		Href string `json:"href"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(doc.Href, "http://localhost:5000/downloads/outputs-get-local-ids-") {
		t.Errorf("href = %q", doc.Href)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d persisted files, want 1", len(files))
	}
	if filepath.Ext(files[0].Name()) != ".json" {
		t.Errorf("persisted file %s is not json", files[0].Name())
	}
}

func TestExecuteBadBody(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{})
	rec := doRequest(t, s, http.MethodPost, "/processes/get-local-ids/execution", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExecuteBadInputStatus(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{})
	rec := doRequest(t, s, http.MethodPost, "/processes/get-local-ids/execution", `{"inputs": {}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "BAD_INPUT") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestExecuteCapStatus(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{})
	s.deps.MaxUpstream = 3
	rec := doRequest(t, s, http.MethodPost, "/processes/get-upstream-bbox/execution",
		`{"inputs": {"subc_ids": [1,2,3,4,5], "basin_id": 1, "reg_id": 58}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "TOO_MANY_UPSTREAM") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{})
	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"store":"up"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestHealthzDegraded(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{err: errors.New("down")})
	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := testServer(t, &hydrotest.Querier{}, stubHealth{})

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("no X-Request-ID generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	got := httptest.NewRecorder()
	s.Router().ServeHTTP(got, req)
	if got.Header().Get("X-Request-ID") != "caller-supplied" {
		t.Errorf("X-Request-ID = %q, want caller-supplied", got.Header().Get("X-Request-ID"))
	}
}
