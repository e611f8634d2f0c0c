// Package suggest provides search-box autocomplete over the product
// catalogue. Implementations may be backed by Elasticsearch or by an
// in-memory index.
package suggest

import "context"

// DefaultSize is the number of suggestions returned when the caller does
// not ask for a specific count.
const DefaultSize = 8

// MaxSize caps the number of suggestions a single request may ask for.
const MaxSize = 20

// Engine indexes product names and answers prefix queries against them.
type Engine interface {
	// Index adds or refreshes terms in the suggestion index. Indexing the
	// same term again bumps its weight, so frequently refreshed products
	// surface first.
	Index(ctx context.Context, terms ...string) error

	// Suggest returns up to size suggestions matching the prefix, most
	// popular first. A non-positive size falls back to DefaultSize.
	Suggest(ctx context.Context, prefix string, size int) ([]string, error)
}
