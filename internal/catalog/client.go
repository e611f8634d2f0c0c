// Package catalog wraps the upstream catalog service. Every raw payload is
// normalized into a domain.ProductView at this boundary; the rest of the
// service renders views only.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/repository"
	"github.com/vardhmanmills/storefront/pkg/httpclient"
)

// Client fetches products from the upstream catalog through a retrying,
// circuit-broken HTTP client, with a short-TTL view cache in front.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	cache   repository.ProductViewCache
	logger  *slog.Logger
}

// NewClient creates a catalog client. cache may be nil to disable caching.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL string, cache repository.ProductViewCache, logger *slog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: baseURL,
		cache:   cache,
		logger:  logger,
	}
}

// envelope matches the upstream's {data: ...} response wrapper.
type productEnvelope struct {
	Data rawProduct `json:"data"`
}

type productListEnvelope struct {
	Data       []rawProduct `json:"data"`
	TotalCount int          `json:"total_count"`
}

// GetProduct returns the normalized view for a product ID, from cache when
// fresh. Cache write failures are logged, never surfaced.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.ProductView, error) {
	if c.cache != nil {
		view, err := c.cache.Get(ctx, productID)
		if err != nil {
			c.logger.WarnContext(ctx, "product view cache read failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		} else if view != nil {
			return view, nil
		}
	}

	resp, err := c.http.Get(ctx, fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, url.PathEscape(productID)))
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", productID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var env productEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", productID, err)
	}

	view := Normalize(env.Data)

	if c.cache != nil {
		if err := c.cache.Set(ctx, &view); err != nil {
			c.logger.WarnContext(ctx, "product view cache write failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &view, nil
}

// ListFeatured returns one page of the upstream featured listing, normalized.
func (c *Client) ListFeatured(ctx context.Context, page, perPage int) ([]domain.ProductView, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.http.Get(ctx, fmt.Sprintf("%s/api/v1/products/featured?%s", c.baseURL, q.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("fetch featured products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, 0, httpclient.ParseResponseError(resp, "catalog")
	}

	var env productListEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, 0, fmt.Errorf("decode featured products: %w", err)
	}

	views := make([]domain.ProductView, 0, len(env.Data))
	for _, raw := range env.Data {
		views = append(views, Normalize(raw))
	}
	return views, env.TotalCount, nil
}
