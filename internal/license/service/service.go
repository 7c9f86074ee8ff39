package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"medlicense/internal/license/metrics"
	"medlicense/internal/license/models"
	"medlicense/internal/license/store"
	"medlicense/internal/platform/privacy"
	"medlicense/internal/platform/tracer"
	dErrors "medlicense/pkg/domain-errors"
)

// Store is the persistence interface the service needs.
// Error Contract:
// - FindByFolio returns store.ErrNotFound when no record exists
// - Insert returns store.ErrDuplicateFolio on a folio uniqueness violation
type Store interface {
	Insert(ctx context.Context, license *models.License) error
	FindByFolio(ctx context.Context, folio string) (*models.License, error)
	FindByPatient(ctx context.Context, patientID string) ([]*models.License, error)
}

// maxFolioAttempts bounds the generation loop. Exhaustion is treated as an
// internal error; with a millisecond timestamp plus six random characters it
// is effectively unreachable.
const maxFolioAttempts = 5

// Service implements license issuance, retrieval, and verification.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	now     func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics instance.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates the licensing service.
func New(st Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:  st,
		logger: logger,
		tracer: tracer.Noop{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateInput carries the raw creation request. Days is a pointer so a
// missing field and a present-but-invalid one produce distinct failures;
// StartDate stays a string until validation parses it.
type CreateInput struct {
	PatientID string
	DoctorID  string
	Diagnosis string
	StartDate string
	Days      *float64
}

// startDateLayouts are the accepted startDate shapes, tried in order.
var startDateLayouts = []string{"2006-01-02", time.RFC3339}

// validateCreate checks each field in a fixed order and fails on the first
// violation with its field-specific code.
func (s *Service) validateCreate(input CreateInput) (start time.Time, days int, err error) {
	if strings.TrimSpace(input.PatientID) == "" {
		return start, 0, dErrors.InvalidField("INVALID_PATIENT_ID", "patientId is required and must be a non-empty string")
	}
	if strings.TrimSpace(input.DoctorID) == "" {
		return start, 0, dErrors.InvalidField("INVALID_DOCTOR_ID", "doctorId is required and must be a non-empty string")
	}
	if strings.TrimSpace(input.Diagnosis) == "" {
		return start, 0, dErrors.InvalidField("INVALID_DIAGNOSIS", "diagnosis is required and must be a non-empty string")
	}
	if strings.TrimSpace(input.StartDate) == "" {
		return start, 0, dErrors.InvalidField("INVALID_START_DATE", "startDate is required")
	}
	if input.Days == nil {
		return start, 0, dErrors.InvalidField("INVALID_DAYS", "days is required")
	}
	d := *input.Days
	if math.IsNaN(d) || math.IsInf(d, 0) || math.Trunc(d) != d || d <= 0 {
		return start, 0, dErrors.InvalidField("INVALID_DAYS", "days must be a positive integer greater than 0")
	}

	raw := strings.TrimSpace(input.StartDate)
	for _, layout := range startDateLayouts {
		if parsed, parseErr := time.Parse(layout, raw); parseErr == nil {
			return parsed.UTC(), int(d), nil
		}
	}
	return start, 0, dErrors.InvalidField("INVALID_START_DATE", "startDate must be a valid date")
}

// CreateLicense validates the input, generates a unique folio with bounded
// retries, and persists the record with status issued.
func (s *Service) CreateLicense(ctx context.Context, input CreateInput) (license *models.License, err error) {
	ctx, span := s.tracer.Start(ctx, "license.create")
	defer func() { span.End(err) }()

	startDate, days, err := s.validateCreate(input)
	if err != nil {
		s.observeRejection(err)
		return nil, err
	}

	var folio string
	for attempt := 1; ; attempt++ {
		candidate := generateFolio(s.now())
		lookupStart := time.Now()
		_, lookupErr := s.store.FindByFolio(ctx, candidate)
		s.observeStore("find_by_folio", lookupStart)
		if errors.Is(lookupErr, store.ErrNotFound) {
			folio = candidate
			break
		}
		if lookupErr != nil {
			return nil, dErrors.Internal("folio lookup failed", lookupErr)
		}

		// Candidate already exists.
		span.AddEvent("folio.collision", tracer.String("attempt", strconv.Itoa(attempt)))
		if s.metrics != nil {
			s.metrics.FolioCollisions.Inc()
		}
		if attempt >= maxFolioAttempts {
			if s.metrics != nil {
				s.metrics.FolioExhausted.Inc()
			}
			s.logger.ErrorContext(ctx, "folio generation exhausted", "attempts", attempt)
			return nil, dErrors.Internal("unable to generate unique folio after multiple attempts", nil)
		}
	}

	license = &models.License{
		Folio:     folio,
		PatientID: strings.TrimSpace(input.PatientID),
		DoctorID:  strings.TrimSpace(input.DoctorID),
		Diagnosis: strings.TrimSpace(input.Diagnosis),
		StartDate: startDate,
		Days:      days,
		Status:    models.StatusIssued,
		CreatedAt: s.now().UTC(),
	}

	insertStart := time.Now()
	insertErr := s.store.Insert(ctx, license)
	s.observeStore("insert", insertStart)
	if insertErr != nil {
		// A duplicate key here means a concurrent creation won the race after
		// our lookup. It is surfaced as a retryable failure to the caller,
		// not fed back into the generation loop.
		if errors.Is(insertErr, store.ErrDuplicateFolio) {
			return nil, dErrors.Internal("duplicate folio generated, please retry", insertErr)
		}
		return nil, dErrors.Internal("failed to persist license", insertErr)
	}

	if s.metrics != nil {
		s.metrics.LicensesIssued.Inc()
	}
	span.SetAttributes(tracer.String("folio", license.Folio))
	s.logger.InfoContext(ctx, "license issued", "folio", license.Folio, "patient_id", privacy.MaskPatientID(license.PatientID))

	return license, nil
}

// GetLicenseByFolio returns the license with the given folio.
func (s *Service) GetLicenseByFolio(ctx context.Context, folio string) (license *models.License, err error) {
	ctx, span := s.tracer.Start(ctx, "license.get")
	defer func() { span.End(err) }()

	folio = strings.TrimSpace(folio)
	if folio == "" {
		return nil, dErrors.InvalidField("INVALID_FOLIO", "folio is required and must be a non-empty string")
	}

	lookupStart := time.Now()
	license, lookupErr := s.store.FindByFolio(ctx, folio)
	s.observeStore("find_by_folio", lookupStart)
	if lookupErr != nil {
		if errors.Is(lookupErr, store.ErrNotFound) {
			return nil, dErrors.NotFound("License not found")
		}
		return nil, dErrors.Internal("failed to retrieve license", lookupErr)
	}
	return license, nil
}

// GetLicensesByPatient returns the patient's licenses, newest first. An
// empty result is a valid outcome, not an error.
func (s *Service) GetLicensesByPatient(ctx context.Context, patientID string) (licenses []*models.License, err error) {
	ctx, span := s.tracer.Start(ctx, "license.list_by_patient")
	defer func() { span.End(err) }()

	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, dErrors.InvalidField("INVALID_PATIENT_ID", "patientId is required and must be a non-empty string")
	}

	listStart := time.Now()
	licenses, listErr := s.store.FindByPatient(ctx, patientID)
	s.observeStore("find_by_patient", listStart)
	if listErr != nil {
		return nil, dErrors.Internal("failed to retrieve patient licenses", listErr)
	}
	return licenses, nil
}

// VerifyLicense reports whether the folio denotes a currently valid license.
// An unknown folio yields {valid:false}, not an error: to the caller a
// missing license and an invalid one are the same business answer.
func (s *Service) VerifyLicense(ctx context.Context, folio string) (verification models.Verification, err error) {
	ctx, span := s.tracer.Start(ctx, "license.verify")
	defer func() { span.End(err) }()

	folio = strings.TrimSpace(folio)
	if folio == "" {
		return models.Verification{}, dErrors.InvalidField("INVALID_FOLIO", "folio is required and must be a non-empty string")
	}

	lookupStart := time.Now()
	license, lookupErr := s.store.FindByFolio(ctx, folio)
	s.observeStore("find_by_folio", lookupStart)
	if lookupErr != nil {
		if errors.Is(lookupErr, store.ErrNotFound) {
			s.observeVerification(false)
			return models.Verification{Valid: false, Found: false}, nil
		}
		return models.Verification{}, dErrors.Internal("failed to verify license", lookupErr)
	}

	verification = models.Verification{
		Valid: license.Status == models.StatusIssued,
		Found: true,
	}
	s.observeVerification(verification.Valid)
	span.SetAttributes(tracer.Bool("valid", verification.Valid))
	return verification, nil
}

// observeStore records store call latency under the given operation label.
func (s *Service) observeStore(operation string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (s *Service) observeRejection(err error) {
	if s.metrics == nil {
		return
	}
	var derr *dErrors.Error
	if errors.As(err, &derr) && derr.Code != "" {
		s.metrics.IssueRejections.WithLabelValues(derr.Code).Inc()
	}
}

func (s *Service) observeVerification(valid bool) {
	if s.metrics == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	s.metrics.Verifications.WithLabelValues(result).Inc()
}
