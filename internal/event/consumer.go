package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vardhmanmills/storefront/internal/domain"
	pkgkafka "github.com/vardhmanmills/storefront/pkg/kafka"
)

// TopicNotifications is the intake topic other services publish shopper
// notifications on (order status updates, restocks, promos).
const TopicNotifications = "storefront.notifications"

// NotificationData is the payload expected on the notifications topic.
type NotificationData struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// NotificationStore is the slice of the notification service the consumer needs.
type NotificationStore interface {
	Ingest(ctx context.Context, sessionID, kind, title, body string) (*domain.Notification, error)
}

// ConsumerHandler routes incoming Kafka events into the notification inbox.
type ConsumerHandler struct {
	store  NotificationStore
	logger *slog.Logger
}

// NewConsumerHandler creates a new intake handler.
func NewConsumerHandler(store NotificationStore, logger *slog.Logger) *ConsumerHandler {
	return &ConsumerHandler{store: store, logger: logger}
}

// Handle processes one event from the notifications topic. Malformed payloads
// return an error so the consumer's retry/poison-pill handling applies.
func (h *ConsumerHandler) Handle(ctx context.Context, event *pkgkafka.Event) error {
	if event.EventType != TopicNotifications {
		h.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}

	var data NotificationData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal notification payload: %w", err)
	}

	n, err := h.store.Ingest(ctx, data.SessionID, data.Kind, data.Title, data.Body)
	if err != nil {
		return fmt.Errorf("ingest notification: %w", err)
	}

	h.logger.InfoContext(ctx, "notification ingested",
		slog.String("notification_id", n.ID.String()),
		slog.String("session_id", n.SessionID),
		slog.String("kind", n.Kind),
	)
	return nil
}

// dedupeTTL bounds how long processed event IDs are remembered. The intake
// topic is at-least-once, so redeliveries inside this window are dropped
// instead of duplicating inbox rows.
const dedupeTTL = 24 * time.Hour

// NewConsumer creates the Kafka consumer for the notifications intake topic,
// with the handler wrapped in an event-ID dedupe guard.
func NewConsumer(brokers []string, groupID string, handler *ConsumerHandler, logger *slog.Logger) *pkgkafka.Consumer {
	cfg := pkgkafka.ConsumerConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    TopicNotifications,
		MinBytes: 1,
		MaxBytes: 10e6,
	}
	dedupe := pkgkafka.NewMemoryIdempotencyStore(dedupeTTL)
	wrapped := pkgkafka.IdempotentHandler(dedupe, TopicNotifications, groupID, handler.Handle, logger)
	return pkgkafka.NewConsumer(cfg, wrapped, logger)
}
