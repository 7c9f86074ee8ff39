package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medlicense/internal/license/models"
	"medlicense/internal/license/store"
)

func newProviderStateRouter(t *testing.T) (chi.Router, *store.InMemoryStore) {
	t.Helper()
	st := store.NewMemory()
	p := NewProviderStates(st, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	p.Register(r)
	return r, st
}

func TestProviderStateSeedsIssuedLicense(t *testing.T) {
	r, st := newProviderStateRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/_pactState", map[string]any{
		"state": "patient 11111111-1 has issued license folio L-1001",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	license, err := st.FindByFolio(context.Background(), "L-1001")
	require.NoError(t, err)
	assert.Equal(t, "11111111-1", license.PatientID)
	assert.Equal(t, models.StatusIssued, license.Status)
}

func TestProviderStateSeedIsIdempotent(t *testing.T) {
	r, _ := newProviderStateRouter(t)

	for range 2 {
		w, _ := doJSON(t, r, http.MethodPost, "/_pactState", map[string]any{
			"state": "patient 11111111-1 has issued license folio L-1001",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestProviderStateClearsPatientLicenses(t *testing.T) {
	r, st := newProviderStateRouter(t)
	seedLicense(t, st, "L-77", "22222222-2", models.StatusIssued, time.Now())

	w, _ := doJSON(t, r, http.MethodPost, "/_pactState", map[string]any{
		"state": "no licenses for patient 22222222-2",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	remaining, err := st.FindByPatient(context.Background(), "22222222-2")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestProviderStateRemovesMissingFolios(t *testing.T) {
	r, st := newProviderStateRouter(t)
	seedLicense(t, st, "L-404", "11111111-1", models.StatusIssued, time.Now())

	w, _ := doJSON(t, r, http.MethodPost, "/_pactState", map[string]any{
		"state": "license L-404 does not exist",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	_, err := st.FindByFolio(context.Background(), "L-404")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProviderStateUnknownIsAcknowledged(t *testing.T) {
	r, _ := newProviderStateRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/_pactState", map[string]any{
		"state": "the moon is full",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}

func TestProviderStateMissingState400(t *testing.T) {
	r, _ := newProviderStateRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/_pactState", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}
