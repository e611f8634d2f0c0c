package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vardhmanmills/storefront/internal/catalog"
	"github.com/vardhmanmills/storefront/internal/legal"
	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/internal/session"
	"github.com/vardhmanmills/storefront/pkg/health"
	"github.com/vardhmanmills/storefront/pkg/middleware"
)

// legalPageMaxAge is the Cache-Control max-age for policy pages and the
// contact topics listing, which change only on deploys.
const legalPageMaxAge = 300

// Deps bundles everything the router mounts.
type Deps struct {
	Cart          *service.CartService
	Wishlist      *service.WishlistService
	Browsing      *service.BrowsingService
	Consent       *service.ConsentService
	Contact       *service.ContactService
	Notifications *service.NotificationService
	Header        *service.HeaderService
	Shipping      *service.ShippingService
	Suggest       *service.SuggestService
	Catalog       *catalog.Client
	Legal         *legal.Store
	Sessions      *session.Manager
	Health        *health.Handler
	Logger        *slog.Logger

	StaffSecret    string
	CORSOrigins    []string
	PprofCIDRs     []string
	RateLimitRPS   float64
	RateLimitBurst int
	ContactRPS     float64
	ContactBurst   int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(d.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(d.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: d.CORSOrigins}))

	// Health check endpoints
	r.Get("/health/live", d.Health.LivenessHandler())
	r.Get("/health/ready", d.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, d.PprofCIDRs, d.Logger)

	sessionHandler := NewSessionHandler(d.Sessions, d.Logger)
	cartHandler := NewCartHandler(d.Cart, d.Logger)
	wishlistHandler := NewWishlistHandler(d.Wishlist, d.Logger)
	browsingHandler := NewBrowsingHandler(d.Browsing, d.Logger)
	consentHandler := NewConsentHandler(d.Consent, d.Logger)
	contactHandler := NewContactHandler(d.Contact, d.Logger)
	notificationHandler := NewNotificationHandler(d.Notifications, d.Logger)
	headerHandler := NewHeaderHandler(d.Header, d.Logger)
	shippingHandler := NewShippingHandler(d.Shipping, d.Logger)
	suggestHandler := NewSuggestHandler(d.Suggest, d.Logger)
	productHandler := NewProductHandler(d.Catalog, d.Logger)
	legalHandler := NewLegalHandler(d.Legal, d.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public, cacheable content.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(legalPageMaxAge))

			r.Get("/pages", legalHandler.List)
			r.Get("/pages/{slug}", legalHandler.Get)
			r.Get("/contact/topics", contactHandler.Topics)
			r.Get("/shipping/methods", shippingHandler.Methods)
		})

		// Public catalog views.
		r.Get("/products/featured", productHandler.ListFeatured)
		r.Get("/products/{productID}", productHandler.Get)

		// Session minting, rate limited per client IP.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(d.RateLimitRPS, d.RateLimitBurst, d.Logger))
			r.Post("/sessions", sessionHandler.Create)
		})

		// Contact form, rate limited hard against abuse.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(d.ContactRPS, d.ContactBurst, d.Logger))
			r.Post("/contact", contactHandler.Submit)
		})

		// Session-scoped endpoints.
		r.Group(func(r chi.Router) {
			r.Use(SessionAuth(d.Sessions))
			r.Use(ContentTypeJSON)

			r.Get("/header", headerHandler.Summary)

			r.Get("/cart", cartHandler.Get)
			r.Delete("/cart", cartHandler.Clear)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productID}/{variantID}", cartHandler.UpdateQuantity)
			r.Delete("/cart/items/{productID}/{variantID}", cartHandler.RemoveItem)

			r.Get("/wishlist", wishlistHandler.Get)
			r.Delete("/wishlist", wishlistHandler.Clear)
			r.Post("/wishlist/toggle", wishlistHandler.Toggle)
			r.Get("/wishlist/contains/{productID}", wishlistHandler.Contains)
			r.Delete("/wishlist/items/*", wishlistHandler.RemoveItem)

			r.Get("/browsing", browsingHandler.Get)
			r.Get("/bookmarks", browsingHandler.Bookmarks)
			r.Post("/bookmarks", browsingHandler.AddBookmark)
			r.Delete("/bookmarks", browsingHandler.ClearBookmarks)
			r.Delete("/bookmarks/{slug}", browsingHandler.RemoveBookmark)
			r.Post("/searches/recent", browsingHandler.RecordSearch)
			r.Get("/searches/recent", browsingHandler.RecentSearches)
			r.Delete("/searches/recent", browsingHandler.ClearRecentSearches)

			r.Get("/consent", consentHandler.Status)
			r.Put("/consent", consentHandler.Save)
			r.Delete("/consent", consentHandler.Withdraw)

			r.Get("/search/suggest", suggestHandler.Suggest)
			r.Get("/shipping/quote", shippingHandler.Quote)

			r.Get("/notifications", notificationHandler.List)
			r.Get("/notifications/unread-count", notificationHandler.UnreadCount)
			r.Post("/notifications/read-all", notificationHandler.MarkAllRead)
			r.Post("/notifications/{notificationID}/read", notificationHandler.MarkRead)
		})

		// Back-office inbox, staff tokens only.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.StaffAuth(StaffTokenValidator(d.StaffSecret)))
			r.Use(middleware.RequireRole("support", "admin"))

			r.Get("/contact", contactHandler.AdminList)
			r.Get("/contact/{reference}", contactHandler.AdminGet)
		})
	})

	return r
}
