package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vardhmanmills/storefront/internal/broadcast"
	"github.com/vardhmanmills/storefront/internal/catalog"
	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/event"
	"github.com/vardhmanmills/storefront/internal/legal"
	redisrepo "github.com/vardhmanmills/storefront/internal/repository/redis"
	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/internal/session"
	"github.com/vardhmanmills/storefront/internal/storage/local"
	"github.com/vardhmanmills/storefront/internal/suggest/memory"
	apperrors "github.com/vardhmanmills/storefront/pkg/errors"
	"github.com/vardhmanmills/storefront/pkg/health"
	"github.com/vardhmanmills/storefront/pkg/httpclient"
	"github.com/vardhmanmills/storefront/pkg/httputil"
	"github.com/vardhmanmills/storefront/pkg/middleware"
)

const testStaffSecret = "staff-test-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeContactRepo is an in-memory stand-in for the Postgres inquiry store.
type fakeContactRepo struct {
	mu        sync.Mutex
	inquiries []domain.ContactInquiry
}

func (f *fakeContactRepo) Create(_ context.Context, inquiry *domain.ContactInquiry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inquiries = append(f.inquiries, *inquiry)
	return nil
}

func (f *fakeContactRepo) GetByReference(_ context.Context, reference string) (*domain.ContactInquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.inquiries {
		if f.inquiries[i].Reference == reference {
			out := f.inquiries[i]
			return &out, nil
		}
	}
	return nil, apperrors.NotFound("contact inquiry", reference)
}

func (f *fakeContactRepo) List(_ context.Context, status string, limit, offset int) ([]domain.ContactInquiry, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []domain.ContactInquiry
	for _, inq := range f.inquiries {
		if status == "" || inq.Status == status {
			matched = append(matched, inq)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ReceivedAt.After(matched[j].ReceivedAt) })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// fakeNotificationRepo is an in-memory stand-in for the Postgres inbox.
type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) ListBySession(_ context.Context, sessionID string, limit, offset int) ([]domain.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []domain.Notification
	for _, n := range f.notifications {
		if n.SessionID == sessionID {
			matched = append(matched, n)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, sessionID string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].SessionID == sessionID && f.notifications[i].ID == id {
			f.notifications[i].Read = true
			return nil
		}
	}
	return apperrors.NotFound("notification", id.String())
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, sessionID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for i := range f.notifications {
		if f.notifications[i].SessionID == sessionID && !f.notifications[i].Read {
			f.notifications[i].Read = true
			affected++
		}
	}
	return affected, nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, sessionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.notifications {
		if n.SessionID == sessionID && !n.Read {
			count++
		}
	}
	return count, nil
}

// catalogUpstream serves a minimal catalog API for the products the tests use.
func catalogUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/products/featured", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id":"prod-1","slug":"handwoven-kurta","name":"Handwoven Kurta","pricing":{"amount":249900,"currency":"INR"}},
				{"id":"prod-2","slug":"linen-saree","name":"Linen Saree","pricing":{"amount":549900,"sale_price":499900,"currency":"INR"}}
			],
			"total_count": 2
		}`))
	})
	mux.HandleFunc("/api/v1/products/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/products/prod-1":
			_, _ = w.Write([]byte(`{"data":{"id":"prod-1","slug":"handwoven-kurta","name":"Handwoven Kurta","pricing":{"amount":249900,"currency":"INR"},"images":{"primary":"https://cdn.example/kurta.webp"}}}`))
		case "/api/v1/products/prod-2":
			_, _ = w.Write([]byte(`{"data":{"id":"prod-2","slug":"linen-saree","name":"Linen Saree","pricing":{"amount":549900,"sale_price":499900,"currency":"INR"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"product not found"}}`))
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// testEnv wires the full production router against miniredis, in-memory
// Postgres fakes, a stub catalog upstream, and local blob storage.
type testEnv struct {
	router        http.Handler
	sessions      *session.Manager
	token         string
	sessionID     string
	contacts      *fakeContactRepo
	notifications *fakeNotificationRepo
	engine        *memory.Engine
	legal         *legal.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := testLogger()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cartRepo := redisrepo.NewCartRepository(rdb, time.Hour, logger)
	wishlistRepo := redisrepo.NewWishlistRepository(rdb, time.Hour, logger)
	browsingRepo := redisrepo.NewBrowsingRepository(rdb, time.Hour, logger)
	consentRepo := redisrepo.NewConsentRepository(rdb, logger)
	productCache := redisrepo.NewProductViewCache(rdb, time.Minute, logger)

	contacts := &fakeContactRepo{}
	notifications := &fakeNotificationRepo{}

	legalStore, err := legal.NewStore(time.Minute)
	require.NoError(t, err)

	upstream := catalogUpstream(t)
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = 2 * time.Second
	clientCfg.MaxRetries = 0
	catalogClient := catalog.NewClient(
		httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg), httpclient.DefaultCircuitBreakerConfig("catalog-test"), logger),
		upstream.URL,
		productCache,
		logger,
	)

	blobs, err := local.New(t.TempDir())
	require.NoError(t, err)

	bus := broadcast.NewBus(logger)
	publisher := event.NewPublisher(nil, logger)
	engine := memory.New()

	deps := Deps{
		Cart:          service.NewCartService(cartRepo, bus, logger),
		Wishlist:      service.NewWishlistService(wishlistRepo, catalogClient, bus, logger),
		Browsing:      service.NewBrowsingService(browsingRepo, legalStore, bus, logger),
		Consent:       service.NewConsentService(consentRepo, legalStore, bus, logger),
		Contact:       service.NewContactService(contacts, blobs, publisher, logger),
		Notifications: service.NewNotificationService(notifications, logger),
		Header:        service.NewHeaderService(cartRepo, wishlistRepo, notifications, logger),
		Shipping:      service.NewShippingService(cartRepo, domain.DefaultRateTable(), logger),
		Suggest:       service.NewSuggestService(engine, browsingRepo, logger),
		Catalog:       catalogClient,
		Legal:         legalStore,
		Sessions:      session.NewManager("handler-test-secret", time.Hour),
		Health:        health.NewHandler(),
		Logger:        logger,

		StaffSecret:    testStaffSecret,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		ContactRPS:     1000,
		ContactBurst:   1000,
	}

	env := &testEnv{
		router:        NewRouter(deps),
		sessions:      deps.Sessions,
		contacts:      contacts,
		notifications: notifications,
		engine:        engine,
		legal:         legalStore,
	}

	sess, err := deps.Sessions.Issue()
	require.NoError(t, err)
	env.token = sess.Token
	env.sessionID = sess.SessionID

	return env
}

// do runs a request through the router. A non-nil body is JSON encoded.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the "data" field of a response envelope into dest.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data  json.RawMessage         `json:"data"`
		Error *httputil.ErrorResponse `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Nil(t, env.Error, "expected no error in response envelope")
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

// errorCode extracts the error code of a failed response envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error *httputil.ErrorResponse `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error, "expected an error in response envelope")
	return env.Error.Code
}

// staffToken signs a back-office token the admin routes accept.
func staffToken(t *testing.T, role string) string {
	t.Helper()
	claims := struct {
		middleware.StaffClaims
		jwt.RegisteredClaims
	}{
		StaffClaims: middleware.StaffClaims{
			StaffID: "staff-1",
			Email:   "support@vardhmanmills.example",
			Role:    role,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testStaffSecret))
	require.NoError(t, err)
	return signed
}
