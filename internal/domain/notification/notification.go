package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a portal inbox entry for a single user.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
