// Package handler exposes the insurer validator's HTTP surface.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medlicense/internal/license/models"
	"medlicense/internal/platform/middleware"
	dErrors "medlicense/pkg/domain-errors"
	"medlicense/pkg/platform/httputil"
)

// InsurerService defines the operations used by the handler.
type InsurerService interface {
	VerifyLicense(ctx context.Context, folio string) (*models.Verification, error)
	PatientLicenses(ctx context.Context, patientID string) ([]models.License, error)
}

// Handler handles HTTP requests for the insurer validator.
type Handler struct {
	service InsurerService
	logger  *slog.Logger
}

// New creates an insurer handler.
func New(service InsurerService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the insurer routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/insurer/licenses/{folio}/verify", h.HandleVerify)
	r.Get("/insurer/patients/{patientId}/licenses", h.HandlePatientLicenses)
}

// HandleVerify handles GET /insurer/licenses/{folio}/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	folio := chi.URLParam(r, "folio")
	if folio == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Envelope{
			Success: false,
			Error:   "folio is required",
			Code:    "MISSING_FOLIO",
		})
		return
	}

	verification, err := h.service.VerifyLicense(r.Context(), folio)
	if err != nil {
		h.writeError(w, r, err, "Failed to verify license")
		return
	}

	message := fmt.Sprintf("License %s is invalid or not found", folio)
	if verification.Valid {
		message = fmt.Sprintf("License %s is valid", folio)
	}
	httputil.WriteDataMessage(w, http.StatusOK, verification, message)
}

// HandlePatientLicenses handles GET /insurer/patients/{patientId}/licenses.
func (h *Handler) HandlePatientLicenses(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")
	if patientID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Envelope{
			Success: false,
			Error:   "patientId is required",
			Code:    "MISSING_PATIENT_ID",
		})
		return
	}

	licenses, err := h.service.PatientLicenses(r.Context(), patientID)
	if err != nil {
		h.writeError(w, r, err, "Failed to retrieve patient licenses")
		return
	}

	message := fmt.Sprintf("Found %d license(s) for patient %s", len(licenses), patientID)
	httputil.WriteList(w, licenses, len(licenses), message)
}

// writeError relays domain errors, keeping whatever status and code the
// upstream reported; anything unexpected becomes the generic 500 envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var derr *dErrors.Error
	if errors.As(err, &derr) && derr.Kind != dErrors.KindInternal {
		httputil.WriteError(w, err)
		return
	}
	h.logger.ErrorContext(r.Context(), "request failed",
		"error", err,
		"operation", operation,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	httputil.WriteInternal(w, operation)
}
