package routine

import (
	"time"

	"github.com/google/uuid"
)

// Routine is one generated task: a single obligation due for a single company
// in a single competence period. Rows are inserted by the materializer and
// never deleted; only the status changes afterwards.
// The triple (CompanyID, ObligationID, Competence) is unique.
type Routine struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	ObligationID uuid.UUID

	// Snapshot of the obligation at creation time, so later renames do not
	// rewrite history.
	ObligationName string
	Department     string

	Competence string // "YYYY-MM"
	Deadline   time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
