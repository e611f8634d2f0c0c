package domain

import "errors"

// Domain-level limit violations surfaced by list mutations. Services map
// these onto INVALID_INPUT responses.
var (
	ErrQuantityLimit = errors.New("quantity exceeds per-line limit")
	ErrLineLimit     = errors.New("cart line limit reached")
	ErrWishlistFull  = errors.New("wishlist capacity reached")
	ErrBookmarkLimit = errors.New("bookmark limit reached")
)
