package domain

import (
	"time"

	"github.com/google/uuid"
)

// CatalogItem is the single entity the storefront displays, filters and
// ranks. Products and editorial posts share this shape; the commerce and
// spec-sheet fields are optional and absent for non-product items.
type CatalogItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Tags        []string  `json:"tags" db:"tags"`
	Brand       string    `json:"brand" db:"brand"`

	Price              float64  `json:"price" db:"price"`
	OriginalPrice      *float64 `json:"original_price,omitempty" db:"original_price"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty" db:"discount_percentage"`
	Variants           []Variant `json:"variants,omitempty" db:"variants"`

	// Spec-sheet attributes used by relevance matching. A nil pointer means
	// the attribute is unknown and never contributes to a match.
	Storage *string `json:"storage,omitempty" db:"storage"`
	RAM     *string `json:"ram,omitempty" db:"ram"`
	Color   *string `json:"color,omitempty" db:"color"`
	Model   *string `json:"model,omitempty" db:"model"`

	Views    int `json:"views" db:"views"`
	Likes    int `json:"likes" db:"likes"`
	Comments int `json:"comments" db:"comments"`

	Flags ItemFlags `json:"flags" db:"flags"`

	Images []string `json:"images" db:"images"`

	PublishedAt time.Time  `json:"published_at" db:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// PrimaryImage returns the first image URL, or "" when the item has none.
func (c *CatalogItem) PrimaryImage() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[0]
}

// Variant is one purchasable combination of a product.
type Variant struct {
	Storage          string  `json:"storage"`
	Memory           string  `json:"memory"`
	Network          string  `json:"network"`
	Price            float64 `json:"price"`
	Deposit          float64 `json:"deposit"`
	DailyInstallment float64 `json:"daily_installment"`
}

// ItemFlags are the display-placement toggles an admin can set per item.
type ItemFlags struct {
	Featured      bool `json:"featured"`
	SpecialOffer  bool `json:"special_offer"`
	CurvedDisplay bool `json:"curved_display"`
	Bestseller    bool `json:"bestseller"`
	FlashSale     bool `json:"flash_sale"`
	Limited       bool `json:"limited"`
	HotDeal       bool `json:"hot_deal"`
}

// Offer is a marketing promotion shown on landing pages.
type Offer struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	ImageURL    string     `json:"image_url" db:"image_url"`
	DiscountPct float64    `json:"discount_pct" db:"discount_pct"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" db:"ends_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Active reports whether the offer is running at the given instant.
func (o *Offer) Active(now time.Time) bool {
	if now.Before(o.StartsAt) {
		return false
	}
	return o.EndsAt == nil || now.Before(*o.EndsAt)
}
