package domain

import "time"

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerLine is the maximum quantity allowed for a single cart line.
	MaxQuantityPerLine = 100
	// MaxLinesPerCart is the maximum number of distinct lines allowed in a cart.
	MaxLinesPerCart = 50
	// MaxPricePaise is the maximum price in paise (₹10,000.00) allowed per item.
	MaxPricePaise = 10_000_00
)

// Cart is the session-scoped shopping cart shared by every storefront widget.
type Cart struct {
	SessionID string      `json:"session_id"`
	Items     []CartItem  `json:"items"`
	Currency  string      `json:"currency"`
	Summary   CartSummary `json:"summary"`
	Version   int64       `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CartItem is a single line in the cart. Price is in minor units (paise).
type CartItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
}

// CartSummary is the denormalized aggregate the header widgets render.
// It is always the output of SummarizeCartItems, never patched by hand.
type CartSummary struct {
	ItemCount int   `json:"item_count"`
	Subtotal  int64 `json:"subtotal"`
	Total     int64 `json:"total"`
}

// SummarizeCartItems computes the summary as a pure function of the items.
// Total equals Subtotal here; shipping is quoted separately at checkout time.
func SummarizeCartItems(items []CartItem) CartSummary {
	var s CartSummary
	for _, item := range items {
		s.ItemCount += item.Quantity
		s.Subtotal += item.Price * int64(item.Quantity)
	}
	s.Total = s.Subtotal
	return s
}

// NewCart creates an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		Items:     []CartItem{},
		Currency:  "INR",
		Summary:   CartSummary{},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindItemIndex returns the index of the line matching the given product and
// variant IDs, or -1. Linear scan; carts are capped at MaxLinesPerCart lines.
func (c *Cart) FindItemIndex(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// AddItem merges the given item into the cart. An existing line with the same
// (product, variant) pair has its quantity incremented; otherwise a new line
// is appended. The summary is recomputed before returning.
func (c *Cart) AddItem(item CartItem) error {
	if idx := c.FindItemIndex(item.ProductID, item.VariantID); idx >= 0 {
		newQty := c.Items[idx].Quantity + item.Quantity
		if newQty > MaxQuantityPerLine {
			return ErrQuantityLimit
		}
		c.Items[idx].Quantity = newQty
		// The stored price wins on a merge; price changes reach the cart
		// through the catalog, not through whichever widget added last.
	} else {
		if len(c.Items) >= MaxLinesPerCart {
			return ErrLineLimit
		}
		c.Items = append(c.Items, item)
	}
	c.touch()
	return nil
}

// SetQuantity sets the quantity of an existing line. Quantity zero removes
// the line. Returns false when no matching line exists.
func (c *Cart) SetQuantity(productID, variantID string, quantity int) bool {
	idx := c.FindItemIndex(productID, variantID)
	if idx < 0 {
		return false
	}
	if quantity == 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		c.Items[idx].Quantity = quantity
	}
	c.touch()
	return true
}

// RemoveItem deletes the matching line. Returns false when absent.
func (c *Cart) RemoveItem(productID, variantID string) bool {
	idx := c.FindItemIndex(productID, variantID)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.touch()
	return true
}

// Clear empties the cart, keeping the record so the zeroed summary persists.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.touch()
}

// touch recomputes the summary and stamps the update time. Every mutating
// method must end here so the summary can never drift from the items.
func (c *Cart) touch() {
	c.Summary = SummarizeCartItems(c.Items)
	c.UpdatedAt = time.Now().UTC()
}
