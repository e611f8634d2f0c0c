package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vardhmanmills/storefront/internal/broadcast"
	"github.com/vardhmanmills/storefront/internal/domain"
	pkgkafka "github.com/vardhmanmills/storefront/pkg/kafka"
)

// Kafka topics published by the storefront service.
const (
	TopicCartChanged     = "storefront.cart.changed"
	TopicWishlistChanged = "storefront.wishlist.changed"
	TopicBrowsingChanged = "storefront.browsing.changed"
	TopicConsentChanged  = "storefront.consent.changed"
	TopicContactReceived = "storefront.contact.received"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront-service"

// publishTimeout bounds fire-and-forget publishes made outside a request.
const publishTimeout = 5 * time.Second

// ListChangeData is the payload for <list>.changed events.
type ListChangeData struct {
	List      string    `json:"list"`
	Kind      string    `json:"kind"`
	SessionID string    `json:"session_id"`
	ItemKey   string    `json:"item_key,omitempty"`
	At        time.Time `json:"at"`
}

// ContactReceivedData is the payload for contact.received events consumed by
// the back office.
type ContactReceivedData struct {
	Reference   string    `json:"reference"`
	InquiryType string    `json:"inquiry_type"`
	Department  string    `json:"department"`
	Subject     string    `json:"subject"`
	Attachments int       `json:"attachments"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Publisher fans storefront events out to Kafka. A nil inner producer
// disables publishing (KAFKA_ENABLED=false), making every method a no-op.
type Publisher struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewPublisher creates a new Kafka publisher for the storefront service.
func NewPublisher(kafka *pkgkafka.Producer, logger *slog.Logger) *Publisher {
	return &Publisher{kafka: kafka, logger: logger}
}

// topicFor maps a list kind onto its changed-topic.
func topicFor(list broadcast.ListKind) string {
	switch list {
	case broadcast.ListCart:
		return TopicCartChanged
	case broadcast.ListWishlist:
		return TopicWishlistChanged
	case broadcast.ListBrowsing:
		return TopicBrowsingChanged
	case broadcast.ListConsent:
		return TopicConsentChanged
	}
	return ""
}

// PublishListChange publishes one list change. Failures are returned so the
// caller can log them; a mutation never fails because of Kafka.
func (p *Publisher) PublishListChange(ctx context.Context, change broadcast.ListChange) error {
	if p.kafka == nil {
		return nil
	}

	topic := topicFor(change.List)
	if topic == "" {
		return fmt.Errorf("no topic for list %q", change.List)
	}

	data := ListChangeData{
		List:      string(change.List),
		Kind:      string(change.Kind),
		SessionID: change.SessionID,
		ItemKey:   change.ItemKey,
		At:        change.At,
	}

	evt, err := pkgkafka.NewEvent(topic, change.SessionID, string(change.List), SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// ChangeHandler adapts the publisher into a broadcast subscriber so every
// bus-published change is mirrored to Kafka. Publish failures are logged and
// swallowed.
func (p *Publisher) ChangeHandler() broadcast.Handler {
	return func(change broadcast.ListChange) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.PublishListChange(ctx, change); err != nil {
			p.logger.Error("failed to mirror list change to kafka",
				slog.String("list", string(change.List)),
				slog.String("kind", string(change.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// PublishContactReceived publishes a contact.received event for a stored inquiry.
func (p *Publisher) PublishContactReceived(ctx context.Context, inquiry *domain.ContactInquiry) error {
	if p.kafka == nil {
		return nil
	}

	data := ContactReceivedData{
		Reference:   inquiry.Reference,
		InquiryType: inquiry.InquiryType,
		Department:  inquiry.Department,
		Subject:     inquiry.Subject,
		Attachments: len(inquiry.Attachments),
		ReceivedAt:  inquiry.ReceivedAt,
	}

	evt, err := pkgkafka.NewEvent(TopicContactReceived, inquiry.ID, "contact_inquiry", SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create contact.received event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicContactReceived, evt); err != nil {
		return fmt.Errorf("publish contact.received event: %w", err)
	}

	p.logger.DebugContext(ctx, "published contact.received event",
		slog.String("reference", inquiry.Reference),
	)
	return nil
}
