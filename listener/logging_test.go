package listener

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "implicit ok", status: 0, wantLevel: "INFO"},
		{name: "redirect", status: http.StatusFound, wantLevel: "INFO"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "WARN"},
		{name: "server error", status: http.StatusBadGateway, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := middleware.RequestID(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}

				_, _ = w.Write([]byte("body"))
			})))

			req := httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/nodes", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}

			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "http request", entry["msg"])
			assert.Equal(t, "GET", entry["method"])
			assert.Equal(t, "/nodes", entry["path"])
			assert.InDelta(t, float64(wantStatus), entry["status"], 0)
			assert.InDelta(t, 4, entry["bytes"], 0)
			assert.NotEmpty(t, entry["request_id"])
		})
	}
}
