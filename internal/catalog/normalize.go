package catalog

import (
	"strings"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/pkg/slug"
)

// PlaceholderImageURL is rendered when the catalog has no image for a product.
const PlaceholderImageURL = "https://cdn.vardhmanmills.example/placeholder-product.webp"

// defaultCurrency is assumed when the upstream omits one.
const defaultCurrency = "INR"

// rawProduct mirrors the upstream catalog payload, which grew several
// optional containers over time: images may arrive as a structured block or
// a single legacy field, pricing as a block or flat fields, rating and stock
// as optional blocks. Normalize collapses all of it exactly once.
type rawProduct struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`

	Images *rawImages `json:"images,omitempty"`
	// Legacy single-image field still emitted by older catalog entries.
	Image string `json:"image,omitempty"`

	Pricing *rawPricing `json:"pricing,omitempty"`
	// Flat fields used when the pricing block is absent.
	Price     int64  `json:"price,omitempty"`
	SalePrice int64  `json:"sale_price,omitempty"`
	Currency  string `json:"currency,omitempty"`

	Rating *rawRating `json:"rating,omitempty"`
	Stock  *rawStock  `json:"stock,omitempty"`

	Variants []rawVariant `json:"variants,omitempty"`
}

type rawImages struct {
	Primary string   `json:"primary"`
	Gallery []string `json:"gallery"`
}

type rawPricing struct {
	Amount    int64  `json:"amount"`
	SalePrice int64  `json:"sale_price"`
	Currency  string `json:"currency"`
}

type rawRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type rawStock struct {
	Available int  `json:"available"`
	InStock   bool `json:"in_stock"`
}

type rawVariant struct {
	ID      string `json:"id"`
	Color   string `json:"color,omitempty"`
	Size    string `json:"size,omitempty"`
	Fabric  string `json:"fabric,omitempty"`
	Price   int64  `json:"price,omitempty"`
	InStock bool   `json:"in_stock"`
}

// Normalize collapses the raw payload's fallback chains into a ProductView.
// Render paths never look at raw catalog data again.
func Normalize(raw rawProduct) domain.ProductView {
	view := domain.ProductView{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		GalleryURLs: []string{},
		Variants:    []domain.VariantOption{},
	}

	view.Slug = strings.TrimSpace(raw.Slug)
	if view.Slug == "" {
		view.Slug = slug.Generate(raw.Name)
	}

	switch {
	case raw.Images != nil && raw.Images.Primary != "":
		view.ImageURL = raw.Images.Primary
		if raw.Images.Gallery != nil {
			view.GalleryURLs = raw.Images.Gallery
		}
	case raw.Image != "":
		view.ImageURL = raw.Image
	default:
		view.ImageURL = PlaceholderImageURL
	}

	price, salePrice, currency := raw.Price, raw.SalePrice, raw.Currency
	if raw.Pricing != nil {
		price, salePrice, currency = raw.Pricing.Amount, raw.Pricing.SalePrice, raw.Pricing.Currency
	}
	view.Price = price
	if salePrice > 0 && salePrice < price {
		view.Price = salePrice
		view.CompareAtPrice = price
	}
	view.Currency = currency
	if view.Currency == "" {
		view.Currency = defaultCurrency
	}

	if raw.Rating != nil {
		view.Rating = raw.Rating.Average
		view.RatingCount = raw.Rating.Count
	}

	if raw.Stock != nil {
		view.InStock = raw.Stock.InStock || raw.Stock.Available > 0
	}

	for _, v := range raw.Variants {
		view.Variants = append(view.Variants, domain.VariantOption{
			ID:      v.ID,
			Color:   v.Color,
			Size:    v.Size,
			Fabric:  v.Fabric,
			Price:   v.Price,
			InStock: v.InStock,
		})
	}

	return view
}
