package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/notification"

	"github.com/google/uuid"
)

// Custom errors
var ErrNotificationNotFound = fmt.Errorf("notification not found")

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `INSERT INTO notifications (id, user_id, title, message, read, created_at)
               VALUES ($1, $2, $3, $4, $5, $6)`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	// CreatedAt comes from the caller so a whole dispatch batch shares one
	// timestamp.
	_, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	query := `SELECT id, user_id, title, message, read, created_at
               FROM notifications
               WHERE user_id = $1 AND read = FALSE ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing unread notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n := &notification.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading mark-read result: %w", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
