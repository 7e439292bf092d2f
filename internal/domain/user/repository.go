package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the operations for persisting and retrieving users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]*User, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*User, error)
}
