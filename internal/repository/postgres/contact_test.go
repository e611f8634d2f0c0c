package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/pkg/database"
	apperrors "github.com/vardhmanmills/storefront/pkg/errors"
)

var inquiryColumns = []string{
	"id", "reference", "name", "email", "phone", "subject", "message",
	"inquiry_type", "department", "order_reference", "status", "received_at",
}

func sampleInquiry() *domain.ContactInquiry {
	return &domain.ContactInquiry{
		ID:          "0bb7a6da-0e5c-4f71-9d35-5a7f1f0c9001",
		Reference:   "VM-01J3ZK2M9GQ8XW5T0C4R7V6B2N",
		Name:        "Asha Mehta",
		Email:       "asha@example.com",
		Phone:       "+919812345678",
		Subject:     "Bulk fabric order",
		Message:     "Looking for 200m of handloom cotton.",
		InquiryType: domain.InquiryWholesale,
		Department:  "sales",
		Status:      domain.InquiryStatusNew,
		ReceivedAt:  time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestContactRepository_Create_Success(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)
	inquiry := sampleInquiry()

	mock.ExpectExec("INSERT INTO contact_inquiries").
		WithArgs(
			inquiry.ID, inquiry.Reference, inquiry.Name, inquiry.Email, inquiry.Phone,
			inquiry.Subject, inquiry.Message, inquiry.InquiryType, inquiry.Department,
			inquiry.OrderReference, inquiry.Status, inquiry.ReceivedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), inquiry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_Create_WithAttachments(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)
	inquiry := sampleInquiry()
	inquiry.Attachments = []domain.ContactAttachment{
		{
			ID:          "41b2e7ce-12f3-4a86-8b6d-0f3b9b1f2002",
			InquiryID:   inquiry.ID,
			FileName:    "swatch.jpg",
			ContentType: "image/jpeg",
			SizeBytes:   204800,
			Key:         "contact/01J3ZK2M9GQ8XW5T0C4R7V6B2N/0-swatch.jpg",
			CreatedAt:   inquiry.ReceivedAt,
		},
	}

	mock.ExpectExec("INSERT INTO contact_inquiries").
		WithArgs(
			inquiry.ID, inquiry.Reference, inquiry.Name, inquiry.Email, inquiry.Phone,
			inquiry.Subject, inquiry.Message, inquiry.InquiryType, inquiry.Department,
			inquiry.OrderReference, inquiry.Status, inquiry.ReceivedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	att := inquiry.Attachments[0]
	mock.ExpectExec("INSERT INTO contact_attachments").
		WithArgs(att.ID, att.InquiryID, att.FileName, att.ContentType, att.SizeBytes, att.Key, att.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), inquiry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_GetByReference_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)

	mock.ExpectQuery("SELECT id, reference, name, email").
		WithArgs("VM-MISSING").
		WillReturnRows(pgxmock.NewRows(inquiryColumns))

	_, err = repo.GetByReference(context.Background(), "VM-MISSING")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_List(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewContactRepository(mock)
	inquiry := sampleInquiry()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contact_inquiries").
		WithArgs("new").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT id, reference, name, email").
		WithArgs("new", 20, 0).
		WillReturnRows(pgxmock.NewRows(inquiryColumns).AddRow(
			inquiry.ID, inquiry.Reference, inquiry.Name, inquiry.Email, inquiry.Phone,
			inquiry.Subject, inquiry.Message, inquiry.InquiryType, inquiry.Department,
			inquiry.OrderReference, inquiry.Status, inquiry.ReceivedAt,
		))

	got, total, err := repo.List(context.Background(), "new", 20, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, inquiry.Reference, got[0].Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}
