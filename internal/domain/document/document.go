package document

import (
	"time"

	"github.com/google/uuid"
)

// Document is the metadata row for a proof file uploaded against a routine.
// File contents live on disk under the configured document directory; only
// the path is stored here.
type Document struct {
	ID          uuid.UUID
	RoutineID   uuid.UUID
	CompanyID   uuid.UUID
	UploadedBy  uuid.UUID
	FileName    string
	StoragePath string
	SizeBytes   int64
	CreatedAt   time.Time
}
