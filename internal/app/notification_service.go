// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/notification"
	domainTelegram "github.com/gutembergferreira/MaatContabil-sub001/internal/domain/telegram"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/user"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationService owns the portal notification inbox and the Telegram
// alert channel to the firm's chat.
type NotificationService interface {
	// Notify creates one notification per recipient. Best-effort: an empty
	// recipient set or a dead store makes it a no-op, it never raises.
	// Recipients are not deduplicated; that is the caller's concern.
	Notify(ctx context.Context, recipientIDs []uuid.UUID, title, message string)

	// NotifyAdmins fans a message out to every administrator and mirrors it
	// to the firm's Telegram chat when one is configured.
	NotifyAdmins(ctx context.Context, title, message string)

	ListUnread(ctx context.Context, userID uuid.UUID) ([]*notification.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	notifRepo      notification.Repository
	userRepo       user.Repository
	telegramClient domainTelegram.Client // nil disables the Telegram channel
	firmChatID     int64
	logger         *logrus.Logger
	now            func() time.Time
}

func NewNotificationService(
	nr notification.Repository,
	ur user.Repository,
	tc domainTelegram.Client,
	firmChatID int64,
	logger *logrus.Logger,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notifRepo:      nr,
		userRepo:       ur,
		telegramClient: tc,
		firmChatID:     firmChatID,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, recipientIDs []uuid.UUID, title, message string) {
	if len(recipientIDs) == 0 {
		return
	}

	// One timestamp for the whole batch.
	createdAt := s.now()
	for _, userID := range recipientIDs {
		n := &notification.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     title,
			Message:   message,
			Read:      false,
			CreatedAt: createdAt,
		}
		if err := s.notifRepo.Create(ctx, n); err != nil {
			// Housekeeping, not a transaction: log and keep going.
			s.logger.WithError(err).WithField("user_id", userID).Error("Failed to create notification")
		}
	}
}

func (s *NotificationServiceImpl) NotifyAdmins(ctx context.Context, title, message string) {
	admins, err := s.userRepo.ListByRole(ctx, user.RoleAdmin)
	if err != nil {
		s.logger.WithError(err).Error("Admin fan-out skipped: could not list administrators")
		return
	}

	recipientIDs := make([]uuid.UUID, 0, len(admins))
	for _, a := range admins {
		recipientIDs = append(recipientIDs, a.ID)
	}
	s.Notify(ctx, recipientIDs, title, message)

	if s.telegramClient != nil && s.firmChatID != 0 {
		text := fmt.Sprintf("%s\n%s", title, message)
		if err := s.telegramClient.SendMessage(s.firmChatID, text, nil); err != nil {
			s.logger.WithError(err).Warn("Failed to send Telegram alert to firm chat")
		}
	}
}

func (s *NotificationServiceImpl) ListUnread(ctx context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	notifications, err := s.notifRepo.ListUnreadByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	if err := s.notifRepo.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	return nil
}
