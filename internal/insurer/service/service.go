// Package service validates license folios against the Licencias Service on
// behalf of insurers.
package service

import (
	"context"
	"log/slog"
	"strings"

	"medlicense/internal/license/models"
	"medlicense/internal/platform/privacy"
	dErrors "medlicense/pkg/domain-errors"
)

// LicenseClient is the slice of the upstream license client the insurer
// validator needs.
type LicenseClient interface {
	VerifyLicense(ctx context.Context, folio string) (*models.Verification, error)
	LicensesByPatient(ctx context.Context, patientID string) ([]models.License, error)
}

type Service struct {
	client LicenseClient
	logger *slog.Logger
}

func New(client LicenseClient, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// VerifyLicense checks whether a folio refers to a currently valid license.
// An unknown folio is a negative verification, not an error.
func (s *Service) VerifyLicense(ctx context.Context, folio string) (*models.Verification, error) {
	folio = strings.TrimSpace(folio)
	if folio == "" {
		return nil, dErrors.InvalidField("INVALID_FOLIO", "folio is required and must be a non-empty string")
	}

	verification, err := s.client.VerifyLicense(ctx, folio)
	if err != nil {
		s.logger.WarnContext(ctx, "license verification failed", "folio", folio, "error", err)
		return nil, err
	}
	return verification, nil
}

func (s *Service) PatientLicenses(ctx context.Context, patientID string) ([]models.License, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, dErrors.InvalidField("INVALID_PATIENT_ID", "patientId is required and must be a non-empty string")
	}

	licenses, err := s.client.LicensesByPatient(ctx, patientID)
	if err != nil {
		s.logger.WarnContext(ctx, "patient license lookup failed", "patient_id", privacy.MaskPatientID(patientID), "error", err)
		return nil, err
	}
	return licenses, nil
}
