package store

import (
	"context"
	"errors"

	"medlicense/internal/license/models"
)

// Error Contract:
// All store implementations follow this pattern:
// - FindByFolio returns ErrNotFound when no record matches
// - Insert returns ErrDuplicateFolio when the folio uniqueness constraint fires
// - Delete operations are idempotent and succeed when nothing matches
// - Other failures are returned as wrapped infrastructure errors

// ErrNotFound is returned when the requested license does not exist.
var ErrNotFound = errors.New("license not found")

// ErrDuplicateFolio is returned when an insert collides with an existing
// folio. Uniqueness is ultimately enforced here, not by the generation loop.
var ErrDuplicateFolio = errors.New("duplicate folio")

// Store is the persistence interface for license records.
type Store interface {
	Insert(ctx context.Context, license *models.License) error
	FindByFolio(ctx context.Context, folio string) (*models.License, error)
	// FindByPatient returns the patient's licenses ordered by CreatedAt
	// descending. An empty result is not an error.
	FindByPatient(ctx context.Context, patientID string) ([]*models.License, error)
	DeleteByFolio(ctx context.Context, folio string) error
	DeleteByPatient(ctx context.Context, patientID string) error
	Ping(ctx context.Context) error
}
