package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/pkg/database"
	apperrors "github.com/vardhmanmills/storefront/pkg/errors"
)

// NotificationRepository implements repository.NotificationRepository using PostgreSQL.
type NotificationRepository struct {
	pool database.DBTX
}

// NewNotificationRepository creates a new PostgreSQL-backed notification repository.
func NewNotificationRepository(pool database.DBTX) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a new inbox notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, session_id, kind, title, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query, n.ID, n.SessionID, n.Kind, n.Title, n.Body, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListBySession returns the session's notifications newest first with the
// total count for pagination.
func (r *NotificationRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]domain.Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE session_id = $1`, sessionID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, kind, title, body, read, created_at
		FROM notifications
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		sessionID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.SessionID, &n.Kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkRead flags one notification as read. The session ID guards against
// marking another session's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, sessionID string, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND session_id = $2`,
		id, sessionID,
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("notification", id.String())
	}
	return nil
}

// MarkAllRead flags every unread notification for the session as read and
// returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, sessionID string) (int64, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE session_id = $1 AND NOT read`,
		sessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return ct.RowsAffected(), nil
}

// UnreadCount returns the number of unread notifications for the session.
func (r *NotificationRepository) UnreadCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE session_id = $1 AND NOT read`,
		sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
