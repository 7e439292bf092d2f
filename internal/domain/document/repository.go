package document

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines operations for persisting document metadata.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	ListByRoutine(ctx context.Context, routineID uuid.UUID) ([]*Document, error)
}
