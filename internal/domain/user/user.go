package user

import (
	"time"

	"github.com/google/uuid"
)

// Role partitions portal users.
type Role string

const (
	RoleAdmin        Role = "ADMIN"        // firm administrators; receive routine notifications
	RoleCollaborator Role = "COLLABORATOR" // firm staff
	RoleClient       Role = "CLIENT"       // client company users
)

// User is a portal account.
type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string // stored as-is; the portal's auth layer is a plain credential check
	Role     Role

	// CompanyID links client users to their company. Nil for firm-side roles.
	CompanyID *uuid.UUID

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
