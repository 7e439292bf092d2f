package routine

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines operations for persisting routines.
type Repository interface {
	// InsertIfAbsent persists r unless a routine already exists for the same
	// (CompanyID, ObligationID, Competence) triple. Returns inserted=false on
	// the conflict; concurrent callers race through the storage-level unique
	// constraint, not application locking.
	InsertIfAbsent(ctx context.Context, r *Routine) (inserted bool, err error)

	GetByID(ctx context.Context, id uuid.UUID) (*Routine, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, competence string) ([]*Routine, error)
	ListByStatus(ctx context.Context, status Status) ([]*Routine, error)

	// ListExpired returns routines still in status whose deadline is strictly
	// before cutoff.
	ListExpired(ctx context.Context, status Status, cutoff time.Time) ([]*Routine, error)

	// UpdateStatus moves a routine from expected to next, returning
	// changed=false when the routine was no longer in the expected status.
	// The compare-and-set keeps concurrent reviewers from double-applying a
	// transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status) (changed bool, err error)
}
