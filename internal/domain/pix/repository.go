package pix

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines operations for persisting charges.
type Repository interface {
	Create(ctx context.Context, c *Charge) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*Charge, error)
}
