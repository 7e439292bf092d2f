package obligation

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the operations for persisting and retrieving obligation
// definitions.
type Repository interface {
	Create(ctx context.Context, o *Obligation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Obligation, error)
	ListAll(ctx context.Context) ([]*Obligation, error)

	// ListByIDOrName fetches obligations whose id is in ids OR whose name is
	// in names. Either slice may be empty, in which case only the other
	// criterion applies. Both empty returns an empty list.
	ListByIDOrName(ctx context.Context, ids []uuid.UUID, names []string) ([]*Obligation, error)
}
