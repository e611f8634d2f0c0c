package domain

// ProductView is the normalized product shape every widget renders. It is
// produced once at the catalog fetch boundary; no fallback chains survive
// past normalization. Prices are in minor units (paise).
type ProductView struct {
	ID             string          `json:"id"`
	Slug           string          `json:"slug"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	ImageURL       string          `json:"image_url"`
	GalleryURLs    []string        `json:"gallery_urls"`
	Price          int64           `json:"price"`
	CompareAtPrice int64           `json:"compare_at_price,omitempty"`
	Currency       string          `json:"currency"`
	Rating         float64         `json:"rating"`
	RatingCount    int             `json:"rating_count"`
	InStock        bool            `json:"in_stock"`
	Variants       []VariantOption `json:"variants"`
}

// VariantOption is one selectable product variant.
type VariantOption struct {
	ID      string `json:"id"`
	Color   string `json:"color,omitempty"`
	Size    string `json:"size,omitempty"`
	Fabric  string `json:"fabric,omitempty"`
	Price   int64  `json:"price"`
	InStock bool   `json:"in_stock"`
}
