package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medlicense/internal/license/models"
	"medlicense/internal/license/service"
	"medlicense/internal/platform/middleware"
	dErrors "medlicense/pkg/domain-errors"
	"medlicense/pkg/platform/httputil"
)

// LicenseService defines the licensing operations used by the handler.
type LicenseService interface {
	CreateLicense(ctx context.Context, input service.CreateInput) (*models.License, error)
	GetLicenseByFolio(ctx context.Context, folio string) (*models.License, error)
	GetLicensesByPatient(ctx context.Context, patientID string) ([]*models.License, error)
	VerifyLicense(ctx context.Context, folio string) (models.Verification, error)
}

// Handler handles HTTP requests for the licensing service.
type Handler struct {
	service LicenseService
	logger  *slog.Logger
}

// New creates a licensing handler.
func New(service LicenseService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the license routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/licenses", h.HandleCreate)
	r.Get("/licenses", h.HandleListByPatient)
	r.Get("/licenses/{folio}", h.HandleGetByFolio)
	r.Get("/licenses/{folio}/verify", h.HandleVerify)
}

// CreateLicenseRequest is the request body for license creation. Days is
// declared as any so a missing field, a wrong-typed one, and a non-integer
// value each reach validation with their shape intact.
type CreateLicenseRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Diagnosis string `json:"diagnosis"`
	StartDate string `json:"startDate"`
	Days      any    `json:"days"`
}

// toInput converts the wire shape to the service input. A days value that is
// present but not numeric becomes NaN, which validation rejects as
// INVALID_DAYS in its usual position.
func (r *CreateLicenseRequest) toInput() service.CreateInput {
	var days *float64
	switch v := r.Days.(type) {
	case nil:
	case float64:
		days = &v
	default:
		nan := math.NaN()
		days = &nan
	}
	return service.CreateInput{
		PatientID: r.PatientID,
		DoctorID:  r.DoctorID,
		Diagnosis: r.Diagnosis,
		StartDate: r.StartDate,
		Days:      days,
	}
}

// licenseResponse is the record view returned over HTTP. CreatedAt is
// omitted from the creation response and included on reads.
type licenseResponse struct {
	Folio     string        `json:"folio"`
	PatientID string        `json:"patientId"`
	DoctorID  string        `json:"doctorId"`
	Diagnosis string        `json:"diagnosis"`
	StartDate time.Time     `json:"startDate"`
	Days      int           `json:"days"`
	Status    models.Status `json:"status"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
}

func newLicenseResponse(license *models.License, includeCreatedAt bool) licenseResponse {
	resp := licenseResponse{
		Folio:     license.Folio,
		PatientID: license.PatientID,
		DoctorID:  license.DoctorID,
		Diagnosis: license.Diagnosis,
		StartDate: license.StartDate,
		Days:      license.Days,
		Status:    license.Status,
	}
	if includeCreatedAt {
		createdAt := license.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func newLicenseResponses(licenses []*models.License) []licenseResponse {
	out := make([]licenseResponse, 0, len(licenses))
	for _, license := range licenses {
		out = append(out, newLicenseResponse(license, true))
	}
	return out
}

// HandleCreate handles POST /licenses.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[CreateLicenseRequest](w, r, h.logger)
	if !ok {
		return
	}

	license, err := h.service.CreateLicense(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err, "Failed to create license")
		return
	}

	httputil.WriteDataMessage(w, http.StatusCreated, newLicenseResponse(license, false), "License created successfully")
}

// HandleListByPatient handles GET /licenses?patientId=.
func (h *Handler) HandleListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patientId")
	if strings.TrimSpace(patientID) == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Envelope{
			Success: false,
			Error:   "patientId query parameter is required and must be a string",
			Code:    "MISSING_PATIENT_ID",
		})
		return
	}

	licenses, err := h.service.GetLicensesByPatient(r.Context(), patientID)
	if err != nil {
		h.writeError(w, r, err, "Failed to retrieve patient licenses")
		return
	}

	httputil.WriteList(w, newLicenseResponses(licenses), len(licenses), "")
}

// HandleGetByFolio handles GET /licenses/{folio}.
func (h *Handler) HandleGetByFolio(w http.ResponseWriter, r *http.Request) {
	folio := chi.URLParam(r, "folio")
	if folio == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Envelope{
			Success: false,
			Error:   "Folio is required",
			Code:    "MISSING_FOLIO",
		})
		return
	}

	license, err := h.service.GetLicenseByFolio(r.Context(), folio)
	if err != nil {
		if dErrors.KindOf(err) == dErrors.KindNotFound {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.Envelope{
				Success: false,
				Error:   "License not found",
				Message: "No license found with the provided folio",
			})
			return
		}
		h.writeError(w, r, err, "Failed to retrieve license")
		return
	}

	httputil.WriteData(w, http.StatusOK, newLicenseResponse(license, true))
}

// HandleVerify handles GET /licenses/{folio}/verify. An unknown folio
// answers 404 but still success:true with {valid:false}: the verification
// itself succeeded, only its subject was absent.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	folio := chi.URLParam(r, "folio")
	if folio == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Envelope{
			Success: false,
			Error:   "Folio is required",
			Code:    "MISSING_FOLIO",
		})
		return
	}

	verification, err := h.service.VerifyLicense(r.Context(), folio)
	if err != nil {
		h.writeError(w, r, err, "Failed to verify license")
		return
	}

	status := http.StatusOK
	if !verification.Found {
		status = http.StatusNotFound
	}
	message := "License is invalid or not found"
	if verification.Valid {
		message = "License is valid"
	}
	httputil.WriteJSON(w, status, httputil.Envelope{
		Success: true,
		Data:    verification,
		Message: message,
	})
}

// writeError answers caller-correctable failures with their domain mapping
// and reduces everything else to the generic 500 envelope.
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
