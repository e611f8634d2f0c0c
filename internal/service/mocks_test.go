package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/vardhmanmills/storefront/internal/broadcast"
	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/storage"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestBus() *broadcast.Bus {
	return broadcast.NewBus(newTestLogger())
}

// --- Mock repositories ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expected int64) (bool, error) {
	args := m.Called(ctx, cart, expected)
	return args.Bool(0), args.Error(1)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) Get(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) SaveIfVersion(ctx context.Context, list *domain.Wishlist, expected int64) (bool, error) {
	args := m.Called(ctx, list, expected)
	return args.Bool(0), args.Error(1)
}

func (m *mockWishlistRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockBrowsingRepository struct {
	mock.Mock
}

func (m *mockBrowsingRepository) Get(ctx context.Context, sessionID string) (*domain.BrowsingState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BrowsingState), args.Error(1)
}

func (m *mockBrowsingRepository) SaveIfVersion(ctx context.Context, state *domain.BrowsingState, expected int64) (bool, error) {
	args := m.Called(ctx, state, expected)
	return args.Bool(0), args.Error(1)
}

func (m *mockBrowsingRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockConsentRepository struct {
	mock.Mock
}

func (m *mockConsentRepository) Get(ctx context.Context, sessionID string) (*domain.ConsentRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsentRecord), args.Error(1)
}

func (m *mockConsentRepository) SaveIfVersion(ctx context.Context, record *domain.ConsentRecord, expected int64) (bool, error) {
	args := m.Called(ctx, record, expected)
	return args.Bool(0), args.Error(1)
}

func (m *mockConsentRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockContactRepository struct {
	mock.Mock
}

func (m *mockContactRepository) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *mockContactRepository) GetByReference(ctx context.Context, reference string) (*domain.ContactInquiry, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactInquiry), args.Error(1)
}

func (m *mockContactRepository) List(ctx context.Context, status string, limit, offset int) ([]domain.ContactInquiry, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ContactInquiry), args.Int(1), args.Error(2)
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockNotificationRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]domain.Notification, int, error) {
	args := m.Called(ctx, sessionID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, sessionID string, id uuid.UUID) error {
	args := m.Called(ctx, sessionID, id)
	return args.Error(0)
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepository) UnreadCount(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

// --- Mock collaborators ---

type mockProductFetcher struct {
	mock.Mock
}

func (m *mockProductFetcher) GetProduct(ctx context.Context, productID string) (*domain.ProductView, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductView), args.Error(1)
}

type mockBlobStorage struct {
	mock.Mock
}

func (m *mockBlobStorage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockBlobStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type mockContactPublisher struct {
	mock.Mock
}

func (m *mockContactPublisher) PublishContactReceived(ctx context.Context, inquiry *domain.ContactInquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

type mockSuggestEngine struct {
	mock.Mock
}

func (m *mockSuggestEngine) Index(ctx context.Context, terms ...string) error {
	args := m.Called(ctx, terms)
	return args.Error(0)
}

func (m *mockSuggestEngine) Suggest(ctx context.Context, prefix string, size int) ([]string, error) {
	args := m.Called(ctx, prefix, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type staticPolicy struct {
	version string
}

func (p staticPolicy) CookiePolicyVersion() string { return p.version }

type staticPageCatalog struct {
	slugs map[string]bool
}

func (c staticPageCatalog) Exists(slug string) bool { return c.slugs[slug] }
