package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medlicense/internal/license/models"
	"medlicense/internal/license/store"
	"medlicense/pkg/platform/httputil"
)

// ProviderStates seeds and clears fixtures for Pact provider verification.
// It works against the store directly and must only be mounted in test
// environments (PROVIDER_STATES_ENABLED).
type ProviderStates struct {
	store  store.Store
	logger *slog.Logger
}

// NewProviderStates creates the provider-state handler.
func NewProviderStates(st store.Store, logger *slog.Logger) *ProviderStates {
	return &ProviderStates{store: st, logger: logger}
}

// Register mounts the provider-state route on the given router.
func (p *ProviderStates) Register(r chi.Router) {
	r.Post("/_pactState", p.HandleSetState)
}

type providerStateRequest struct {
	State string `json:"state"`
}

// HandleSetState handles POST /_pactState. Unknown states are acknowledged
// so new consumer expectations do not break verification runs.
func (p *ProviderStates) HandleSetState(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[providerStateRequest](w, r, p.logger)
	if !ok {
		return
	}
	if req.State == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Envelope{
			Success: false,
			Error:   "State parameter is required and must be a string",
		})
		return
	}

	ctx := r.Context()
	p.logger.InfoContext(ctx, "configuring provider state", "state", req.State)

	var err error
	switch req.State {
	case "patient 11111111-1 has issued license folio L-1001":
		err = p.seedIssuedLicense(r)
	case "no licenses for patient 22222222-2":
		err = p.store.DeleteByPatient(ctx, "22222222-2")
	case "license L-404 does not exist":
		if err = p.store.DeleteByFolio(ctx, "L-404"); err == nil {
			err = p.store.DeleteByFolio(ctx, "NOEXIST")
		}
	case "issued license days>0 is creatable", "license creation validation is enabled":
		// Validation is always active; nothing to set up.
	default:
		p.logger.WarnContext(ctx, "unknown provider state", "state", req.State)
	}

	if err != nil {
		p.logger.ErrorContext(ctx, "provider state setup failed", "state", req.State, "error", err)
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Envelope{
			Success: false,
			Error:   "Failed to set up provider state",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
		Success: true,
		Message: fmt.Sprintf("State %q configured successfully", req.State),
	})
}

func (p *ProviderStates) seedIssuedLicense(r *http.Request) error {
	ctx := r.Context()
	_, err := p.store.FindByFolio(ctx, "L-1001")
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	return p.store.Insert(ctx, &models.License{
		Folio:     "L-1001",
		PatientID: "11111111-1",
		DoctorID:  "DOC123",
		Diagnosis: "Gripe común",
		StartDate: time.Date(2025, 9, 26, 0, 0, 0, 0, time.UTC),
		Days:      7,
		Status:    models.StatusIssued,
		CreatedAt: time.Now().UTC(),
	})
}
