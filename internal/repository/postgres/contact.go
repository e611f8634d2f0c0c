package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/pkg/database"
	apperrors "github.com/vardhmanmills/storefront/pkg/errors"
)

// ContactRepository implements repository.ContactRepository using PostgreSQL.
type ContactRepository struct {
	pool database.DBTX
}

// NewContactRepository creates a new PostgreSQL-backed contact repository.
func NewContactRepository(pool database.DBTX) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// Create inserts an inquiry and its attachment rows.
func (r *ContactRepository) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	query := `
		INSERT INTO contact_inquiries (id, reference, name, email, phone, subject, message, inquiry_type, department, order_reference, status, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		inquiry.ID,
		inquiry.Reference,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Subject,
		inquiry.Message,
		inquiry.InquiryType,
		inquiry.Department,
		inquiry.OrderReference,
		inquiry.Status,
		inquiry.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact inquiry: %w", err)
	}

	for _, att := range inquiry.Attachments {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO contact_attachments (id, inquiry_id, file_name, content_type, size_bytes, key, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			att.ID,
			att.InquiryID,
			att.FileName,
			att.ContentType,
			att.SizeBytes,
			att.Key,
			att.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert contact attachment: %w", err)
		}
	}

	return nil
}

// GetByReference retrieves an inquiry (with attachments) by its ticket reference.
func (r *ContactRepository) GetByReference(ctx context.Context, reference string) (*domain.ContactInquiry, error) {
	query := `
		SELECT id, reference, name, email, phone, subject, message, inquiry_type, department, order_reference, status, received_at
		FROM contact_inquiries
		WHERE reference = $1`

	var inquiry domain.ContactInquiry
	err := r.pool.QueryRow(ctx, query, reference).Scan(
		&inquiry.ID,
		&inquiry.Reference,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Phone,
		&inquiry.Subject,
		&inquiry.Message,
		&inquiry.InquiryType,
		&inquiry.Department,
		&inquiry.OrderReference,
		&inquiry.Status,
		&inquiry.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("contact inquiry", reference)
		}
		return nil, fmt.Errorf("select contact inquiry: %w", err)
	}

	attachments, err := r.listAttachments(ctx, inquiry.ID)
	if err != nil {
		return nil, err
	}
	inquiry.Attachments = attachments

	return &inquiry, nil
}

// List returns inquiries newest first, optionally filtered by status, plus
// the total count for pagination.
func (r *ContactRepository) List(ctx context.Context, status string, limit, offset int) ([]domain.ContactInquiry, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM contact_inquiries WHERE ($1 = '' OR status = $1)`
	if err := r.pool.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contact inquiries: %w", err)
	}

	query := `
		SELECT id, reference, name, email, phone, subject, message, inquiry_type, department, order_reference, status, received_at
		FROM contact_inquiries
		WHERE ($1 = '' OR status = $1)
		ORDER BY received_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select contact inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := []domain.ContactInquiry{}
	for rows.Next() {
		var inquiry domain.ContactInquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.Reference,
			&inquiry.Name,
			&inquiry.Email,
			&inquiry.Phone,
			&inquiry.Subject,
			&inquiry.Message,
			&inquiry.InquiryType,
			&inquiry.Department,
			&inquiry.OrderReference,
			&inquiry.Status,
			&inquiry.ReceivedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan contact inquiry: %w", err)
		}
		inquiries = append(inquiries, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact inquiries: %w", err)
	}

	return inquiries, total, nil
}

func (r *ContactRepository) listAttachments(ctx context.Context, inquiryID string) ([]domain.ContactAttachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, inquiry_id, file_name, content_type, size_bytes, key, created_at
		FROM contact_attachments
		WHERE inquiry_id = $1
		ORDER BY created_at`,
		inquiryID,
	)
	if err != nil {
		return nil, fmt.Errorf("select contact attachments: %w", err)
	}
	defer rows.Close()

	attachments := []domain.ContactAttachment{}
	for rows.Next() {
		var att domain.ContactAttachment
		if err := rows.Scan(&att.ID, &att.InquiryID, &att.FileName, &att.ContentType, &att.SizeBytes, &att.Key, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact attachment: %w", err)
		}
		attachments = append(attachments, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact attachments: %w", err)
	}

	return attachments, nil
}
