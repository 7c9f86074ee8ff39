package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medlicense/internal/license/models"
	dErrors "medlicense/pkg/domain-errors"
)

type stubClient struct {
	verifyFunc   func(ctx context.Context, folio string) (*models.Verification, error)
	licensesFunc func(ctx context.Context, patientID string) ([]models.License, error)
}

func (s *stubClient) VerifyLicense(ctx context.Context, folio string) (*models.Verification, error) {
	return s.verifyFunc(ctx, folio)
}

func (s *stubClient) LicensesByPatient(ctx context.Context, patientID string) ([]models.License, error) {
	return s.licensesFunc(ctx, patientID)
}

func newTestService(client *stubClient) *Service {
	return New(client, slog.New(slog.DiscardHandler))
}

func TestVerifyLicenseBlankFolioRejectedBeforeUpstream(t *testing.T) {
	client := &stubClient{
		verifyFunc: func(ctx context.Context, folio string) (*models.Verification, error) {
			t.Fatal("upstream must not be called for a blank folio")
			return nil, nil
		},
	}

	_, err := newTestService(client).VerifyLicense(context.Background(), "   ")

	var derr *dErrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, dErrors.KindInvalidField, derr.Kind)
	assert.Equal(t, "INVALID_FOLIO", derr.Code)
}

func TestVerifyLicenseTrimsAndRelaysResult(t *testing.T) {
	client := &stubClient{
		verifyFunc: func(ctx context.Context, folio string) (*models.Verification, error) {
			assert.Equal(t, "L-1001", folio)
			return &models.Verification{Valid: true, Found: true}, nil
		},
	}

	verification, err := newTestService(client).VerifyLicense(context.Background(), "  L-1001  ")

	require.NoError(t, err)
	assert.True(t, verification.Valid)
}

func TestVerifyLicensePassesUpstreamErrorThrough(t *testing.T) {
	upstreamErr := dErrors.Unavailable("License service is unavailable", nil)
	client := &stubClient{
		verifyFunc: func(ctx context.Context, folio string) (*models.Verification, error) {
			return nil, upstreamErr
		},
	}

	_, err := newTestService(client).VerifyLicense(context.Background(), "L-1001")

	assert.ErrorIs(t, err, upstreamErr)
}

func TestPatientLicensesBlankIDRejectedBeforeUpstream(t *testing.T) {
	client := &stubClient{
		licensesFunc: func(ctx context.Context, patientID string) ([]models.License, error) {
			t.Fatal("upstream must not be called for a blank patientId")
			return nil, nil
		},
	}

	_, err := newTestService(client).PatientLicenses(context.Background(), "")

	var derr *dErrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_PATIENT_ID", derr.Code)
}

func TestPatientLicensesRelaysList(t *testing.T) {
	client := &stubClient{
		licensesFunc: func(ctx context.Context, patientID string) ([]models.License, error) {
			return []models.License{{Folio: "L-1001"}, {Folio: "L-1000"}}, nil
		},
	}

	licenses, err := newTestService(client).PatientLicenses(context.Background(), "11111111-1")

	require.NoError(t, err)
	require.Len(t, licenses, 2)
}
