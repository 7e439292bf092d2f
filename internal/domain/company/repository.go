package company

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the operations for persisting and retrieving companies.
type Repository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*Company, error)
	Update(ctx context.Context, c *Company) error // name, obligation refs, active flag
	ListActive(ctx context.Context) ([]*Company, error)
	ListAll(ctx context.Context) ([]*Company, error)
}
