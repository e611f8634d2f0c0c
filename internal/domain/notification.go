package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds surfaced by the header bell.
const (
	NotificationOrderStatus = "order_status"
	NotificationRestock     = "restock"
	NotificationPromo       = "promo"
)

// Notification is a per-session inbox entry filled by the intake consumer.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification creates an unread notification for the given session.
func NewNotification(sessionID, kind, title, body string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		SessionID: sessionID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
}

// ValidNotificationKind reports whether the given kind is one the inbox accepts.
func ValidNotificationKind(kind string) bool {
	switch kind {
	case NotificationOrderStatus, NotificationRestock, NotificationPromo:
		return true
	}
	return false
}
