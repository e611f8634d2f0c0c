package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/repository"
)

// NotificationService manages the per-session notification inbox the
// header bell renders. Entries arrive through the Kafka intake consumer.
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Ingest stores a new notification for a session. Called by the intake
// consumer, never by an HTTP handler.
func (s *NotificationService) Ingest(ctx context.Context, sessionID, kind, title, body string) (*domain.Notification, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if !domain.ValidNotificationKind(kind) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown notification kind %q", kind))
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.InvalidInput("title is required")
	}

	n := domain.NewNotification(sessionID, kind, title, body)
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// List returns one page of a session's notifications, newest first, plus
// the total count.
func (s *NotificationService) List(ctx context.Context, sessionID string, limit, offset int) ([]domain.Notification, int, error) {
	if sessionID == "" {
		return nil, 0, apperrors.InvalidInput("session id is required")
	}
	return s.repo.ListBySession(ctx, sessionID, limit, offset)
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, sessionID string, id uuid.UUID) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}
	if err := s.repo.MarkRead(ctx, sessionID, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "notification marked read",
		slog.String("session_id", sessionID),
		slog.String("notification_id", id.String()),
	)
	return nil
}

// MarkAllRead marks every unread notification for the session as read and
// returns how many were affected.
func (s *NotificationService) MarkAllRead(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, apperrors.InvalidInput("session id is required")
	}
	affected, err := s.repo.MarkAllRead(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}

	if affected > 0 {
		s.logger.InfoContext(ctx, "notifications marked read",
			slog.String("session_id", sessionID),
			slog.Int64("count", affected),
		)
	}
	return affected, nil
}

// UnreadCount returns the number of unread notifications for the session.
func (s *NotificationService) UnreadCount(ctx context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, apperrors.InvalidInput("session id is required")
	}
	return s.repo.UnreadCount(ctx, sessionID)
}
