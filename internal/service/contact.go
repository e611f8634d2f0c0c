package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/repository"
	"github.com/vardhmanmills/storefront/internal/storage"
)

// Contact attachment limits.
const (
	// MaxAttachments is the maximum number of files per submission.
	MaxAttachments = 3
	// MaxAttachmentBytes is the per-file size cap (5 MiB).
	MaxAttachmentBytes = 5 << 20
)

// allowedAttachmentTypes maps accepted attachment content types to their
// canonical extension.
var allowedAttachmentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// SubmitContactInput holds a contact-form submission before sanitization.
type SubmitContactInput struct {
	Name           string `json:"name" validate:"required,max=120"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"max=20"`
	Subject        string `json:"subject" validate:"required,max=200"`
	Message        string `json:"message" validate:"required,max=5000"`
	InquiryType    string `json:"inquiry_type" validate:"required"`
	Department     string `json:"department" validate:"required"`
	OrderReference string `json:"order_reference" validate:"max=40"`
}

// AttachmentUpload is one file received with a submission.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// ContactPublisher is the slice of the event publisher the contact service
// uses to notify the back office.
type ContactPublisher interface {
	PublishContactReceived(ctx context.Context, inquiry *domain.ContactInquiry) error
}

// ContactService handles contact-form submissions and the back-office inbox.
type ContactService struct {
	repo      repository.ContactRepository
	blobs     storage.BlobStorage
	publisher ContactPublisher
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository, blobs storage.BlobStorage, publisher ContactPublisher, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:      repo,
		blobs:     blobs,
		publisher: publisher,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

// Submit validates, sanitizes, and stores a contact inquiry with its
// attachments, then announces it to the back office. The returned inquiry
// carries the shopper-facing reference.
func (s *ContactService) Submit(ctx context.Context, input SubmitContactInput, uploads []AttachmentUpload) (*domain.ContactInquiry, error) {
	if err := s.validate(input, uploads); err != nil {
		return nil, err
	}

	id := ulid.Make()
	inquiry := &domain.ContactInquiry{
		ID:             uuid.New().String(),
		Reference:      "VM-" + id.String(),
		Name:           s.clean(input.Name),
		Email:          strings.TrimSpace(strings.ToLower(input.Email)),
		Phone:          s.clean(input.Phone),
		Subject:        s.clean(input.Subject),
		Message:        s.clean(input.Message),
		InquiryType:    input.InquiryType,
		Department:     input.Department,
		OrderReference: s.clean(input.OrderReference),
		Status:         domain.InquiryStatusNew,
		ReceivedAt:     time.Now().UTC(),
	}

	for i, upload := range uploads {
		key := fmt.Sprintf("contact/%s/%d-%s", id.String(), i+1, sanitizeFileName(upload.FileName))
		result, err := s.blobs.Upload(ctx, &storage.UploadInput{
			Key:         key,
			ContentType: upload.ContentType,
			Size:        upload.Size,
			Data:        io.LimitReader(upload.Data, MaxAttachmentBytes),
		})
		if err != nil {
			return nil, fmt.Errorf("store attachment %s: %w", upload.FileName, err)
		}

		inquiry.Attachments = append(inquiry.Attachments, domain.ContactAttachment{
			ID:          uuid.New().String(),
			InquiryID:   inquiry.ID,
			FileName:    upload.FileName,
			ContentType: upload.ContentType,
			SizeBytes:   result.SizeBytes,
			Key:         result.Key,
		})
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		s.discardAttachments(ctx, inquiry.Attachments)
		return nil, fmt.Errorf("create inquiry: %w", err)
	}

	if err := s.publisher.PublishContactReceived(ctx, inquiry); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish contact.received event",
			slog.String("reference", inquiry.Reference),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "contact inquiry received",
		slog.String("reference", inquiry.Reference),
		slog.String("inquiry_type", inquiry.InquiryType),
		slog.String("department", inquiry.Department),
		slog.Int("attachments", len(inquiry.Attachments)),
	)
	return inquiry, nil
}

// GetByReference returns an inquiry by its shopper-facing reference.
func (s *ContactService) GetByReference(ctx context.Context, reference string) (*domain.ContactInquiry, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperrors.InvalidInput("reference is required")
	}
	inquiry, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return inquiry, nil
}

// List returns one page of the back-office inbox, optionally filtered by
// status.
func (s *ContactService) List(ctx context.Context, status string, limit, offset int) ([]domain.ContactInquiry, int, error) {
	if status != "" && status != domain.InquiryStatusNew && status != domain.InquiryStatusOpen && status != domain.InquiryStatusResolved {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown status %q", status))
	}
	return s.repo.List(ctx, status, limit, offset)
}

func (s *ContactService) validate(input SubmitContactInput, uploads []AttachmentUpload) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.InvalidInput("name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return apperrors.InvalidInput("email is required")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return apperrors.InvalidInput("subject is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return apperrors.InvalidInput("message is required")
	}
	if !domain.ValidInquiryType(input.InquiryType) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown inquiry type %q", input.InquiryType))
	}
	if !domain.ValidDepartment(input.Department) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown department %q", input.Department))
	}
	if input.InquiryType == domain.InquiryOrder && strings.TrimSpace(input.OrderReference) == "" {
		return apperrors.InvalidInput("order reference is required for order inquiries")
	}

	if len(uploads) > MaxAttachments {
		return apperrors.InvalidInput(fmt.Sprintf("at most %d attachments are allowed", MaxAttachments))
	}
	for _, upload := range uploads {
		if _, ok := allowedAttachmentTypes[upload.ContentType]; !ok {
			return apperrors.InvalidInput(fmt.Sprintf("attachment type %q is not allowed", upload.ContentType))
		}
		if upload.Size > MaxAttachmentBytes {
			return apperrors.InvalidInput(fmt.Sprintf("attachment %s exceeds the %d byte limit", upload.FileName, MaxAttachmentBytes))
		}
	}
	return nil
}

// discardAttachments removes blobs uploaded for an inquiry that was never
// persisted, so a failed Create does not leave orphaned files behind.
func (s *ContactService) discardAttachments(ctx context.Context, attachments []domain.ContactAttachment) {
	for _, att := range attachments {
		if err := s.blobs.Delete(ctx, att.Key); err != nil {
			s.logger.WarnContext(ctx, "failed to discard orphaned attachment",
				slog.String("key", att.Key),
				slog.String("error", err.Error()),
			)
		}
	}
}

// clean strips all markup and trims the result.
func (s *ContactService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

// sanitizeFileName reduces an uploaded name to its base and replaces
// anything outside a conservative character set.
func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "attachment"
	}
	return b.String()
}
