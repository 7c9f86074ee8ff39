package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getHealth(t *testing.T, h *Handler) (int, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthWithoutChecks(t *testing.T) {
	code, body := getHealth(t, New("Portal Paciente Service"))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Portal Paciente Service", body["service"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotContains(t, body, "database")
}

func TestHealthReportsConnectedDatabase(t *testing.T) {
	h := New("Licencias Service")
	h.RegisterCheck("database", func(ctx context.Context) error { return nil })

	code, body := getHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "connected", body["database"])
}

func TestHealthReportsDisconnectedDatabaseWith200(t *testing.T) {
	h := New("Licencias Service")
	h.RegisterCheck("database", func(ctx context.Context) error {
		return errors.New("server selection timeout")
	})

	code, body := getHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "disconnected", body["database"])
}
