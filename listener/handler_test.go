package listener

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/source"
	"github.com/0xalexb/hjarta-config/tag"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadConfig(t *testing.T, sources ...source.Source) *config.Config {
	t.Helper()

	cfg := config.New(config.WithSources(sources...), config.WithLogger(discardLogger()))
	require.NoError(t, cfg.Load(context.Background()))

	return cfg
}

func serve(t *testing.T, handler http.Handler, method, target string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequestWithContext(context.Background(), method, target, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec.Code, body
}

func TestHandler_Nodes(t *testing.T) {
	t.Parallel()

	cfg := loadConfig(t,
		source.NewStatic("base", "yaml", []byte("db:\n  host: localhost\n  port: 5432\nhosts:\n  - a\n  - b\n")),
		source.NewStatic("prod", "yaml", []byte("db:\n  host: prod.internal\n"),
			source.WithTags(tag.MustOf("env", "prod"))),
	)
	handler := NewHandler(cfg, discardLogger(), 0)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantKind   string
		wantValue  any
	}{
		{name: "leaf", target: "/nodes?path=db.host", wantStatus: http.StatusOK, wantKind: "leaf", wantValue: "localhost"},
		{
			name:       "tagged leaf",
			target:     "/nodes?path=db.host&tags=env%3Dprod",
			wantStatus: http.StatusOK,
			wantKind:   "leaf",
			wantValue:  "prod.internal",
		},
		{
			name:       "tagged fallback",
			target:     "/nodes?path=db.port&tags=env%3Dprod",
			wantStatus: http.StatusOK,
			wantKind:   "leaf",
			wantValue:  "5432",
		},
		{name: "array", target: "/nodes?path=hosts", wantStatus: http.StatusOK, wantKind: "array", wantValue: []any{"a", "b"}},
		{
			name:       "map",
			target:     "/nodes?path=db",
			wantStatus: http.StatusOK,
			wantKind:   "map",
			wantValue:  map[string]any{"host": "localhost", "port": "5432"},
		},
		{
			name:       "whole tagged tree",
			target:     "/nodes?tags=env%3Dprod",
			wantStatus: http.StatusOK,
			wantKind:   "map",
			wantValue:  map[string]any{"db": map[string]any{"host": "prod.internal"}},
		},
		{name: "missing path", target: "/nodes?path=db.user", wantStatus: http.StatusNotFound},
		{name: "unknown tree", target: "/nodes?tags=env%3Ddev", wantStatus: http.StatusNotFound},
		{name: "bad tags", target: "/nodes?path=db&tags=broken", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, body := serve(t, handler, http.MethodGet, tt.target)
			require.Equal(t, tt.wantStatus, status, body)

			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, body["error"])

				return
			}

			assert.Equal(t, tt.wantKind, body["kind"])
			assert.Equal(t, tt.wantValue, body["value"])
		})
	}
}

func TestHandler_MissingPathReportsFindings(t *testing.T) {
	t.Parallel()

	cfg := loadConfig(t, source.NewStatic("base", "yaml", []byte("db:\n  host: localhost\n")))

	status, body := serve(t, NewHandler(cfg, discardLogger(), 0), http.MethodGet, "/nodes?path=db.user")

	require.Equal(t, http.StatusNotFound, status)

	findings, ok := body["findings"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, findings)
}

func TestHandler_SourcesAndHealth(t *testing.T) {
	t.Parallel()

	cfg := loadConfig(t,
		source.NewStatic("base", "yaml", []byte("a: 1\n"), source.WithID("base-id")),
		source.NewMap("overrides", map[string]string{"a": "2"}, source.WithTags(tag.MustOf("env", "prod"))),
	)
	handler := NewHandler(cfg, discardLogger(), 0)

	req := httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/sources", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var sources []SourceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sources))
	require.Len(t, sources, 2)
	assert.Equal(t, SourceResponse{ID: "base-id", Name: "base", Format: "yaml"}, sources[0])
	assert.Equal(t, "overrides", sources[1].Name)
	assert.Equal(t, "env=prod", sources[1].Tags)

	status, body := serve(t, handler, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.InDelta(t, float64(cfg.Version()), body["version"], 0)
}

func TestHandler_Reload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: before\n"), 0o600))

	file := source.NewFile(path, source.WithID("file"))
	cfg := loadConfig(t, file)
	handler := NewHandler(cfg, discardLogger(), 0)

	require.NoError(t, os.WriteFile(path, []byte("name: after\n"), 0o600))

	status, body := serve(t, handler, http.MethodPost, "/sources/file/reload")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "reloaded", body["status"])

	_, body = serve(t, handler, http.MethodGet, "/nodes?path=name")
	assert.Equal(t, "after", body["value"])

	status, _ = serve(t, handler, http.MethodPost, "/sources/missing/reload")
	assert.Equal(t, http.StatusNotFound, status)

	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed\n"), 0o600))

	status, body = serve(t, handler, http.MethodPost, "/sources/file/reload")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "reload rejected", body["error"])

	_, body = serve(t, handler, http.MethodGet, "/nodes?path=name")
	assert.Equal(t, "after", body["value"])
}

func TestHandler_RecoversFromPanics(t *testing.T) {
	t.Parallel()

	router := NewHandler(loadConfig(t), discardLogger(), 0)

	// A nil *config.Config makes every handler panic.
	broken := NewHandler(nil, discardLogger(), 0)

	req := httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	broken.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	status, _ := serve(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, status)
}
