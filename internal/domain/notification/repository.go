package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines operations for persisting portal notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
