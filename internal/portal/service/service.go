// Package service implements the patient portal's license queries. The
// portal adds no business logic: it validates the identifier, forwards the
// call to the Licensing Service, and relays the result.
package service

import (
	"context"
	"log/slog"
	"strings"

	"medlicense/internal/license/models"
	"medlicense/internal/platform/privacy"
	dErrors "medlicense/pkg/domain-errors"
)

// LicenseClient is the slice of the licensing API the portal needs.
type LicenseClient interface {
	LicensesByPatient(ctx context.Context, patientID string) ([]models.License, error)
}

// Service forwards patient license queries to the Licensing Service.
type Service struct {
	client LicenseClient
	logger *slog.Logger
}

// New creates the portal service.
func New(client LicenseClient, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// PatientLicenses returns all licenses for the given patient.
func (s *Service) PatientLicenses(ctx context.Context, patientID string) ([]models.License, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, dErrors.InvalidField("INVALID_PATIENT_ID", "patientId is required and must be a non-empty string")
	}

	licenses, err := s.client.LicensesByPatient(ctx, patientID)
	if err != nil {
		s.logger.WarnContext(ctx, "license service call failed", "patient_id", privacy.MaskPatientID(patientID), "error", err)
		return nil, err
	}
	return licenses, nil
}
