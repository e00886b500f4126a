package store

import (
	"context"
	"errors"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
)

// ErrNotFound is returned for lookups that match no row. A medication id
// belonging to a different user yields the same error, so callers cannot
// distinguish "never existed" from "someone else's".
var ErrNotFound = errors.New("not found")

// Repo defines storage operations for users and medications.
type Repo interface {
	UpsertUser(ctx context.Context, u *domain.User) error
	AddMedication(ctx context.Context, m *domain.Medication) (int64, error)
	// ListActive returns the user's active medications, newest first.
	ListActive(ctx context.Context, userID int64) ([]domain.Medication, error)
	// ListAllActive returns every active medication across all users.
	// The scheduler uses it to rebuild reminder triggers.
	ListAllActive(ctx context.Context) ([]domain.Medication, error)
	// GetMedication is ownership-scoped: the id must belong to userID.
	GetMedication(ctx context.Context, id, userID int64) (*domain.Medication, error)
	// DeleteMedication deactivates the medication and reports whether an
	// active row matching both id and owner existed.
	DeleteMedication(ctx context.Context, id, userID int64) (bool, error)
	Close() error
}
