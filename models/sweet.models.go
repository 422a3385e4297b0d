package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The API exchanges prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Sweet categories accepted by the shop
const (
	CategoryChocolate = "chocolate"
	CategoryGummy     = "gummy"
	CategoryHardCandy = "hard-candy"
	CategoryLollipop  = "lollipop"
	CategoryCake      = "cake"
	CategoryCookie    = "cookie"
)

// Categories lists every category label in display order
var Categories = []string{
	CategoryChocolate,
	CategoryGummy,
	CategoryHardCandy,
	CategoryLollipop,
	CategoryCake,
	CategoryCookie,
}

// ValidCategory reports whether c is one of the known category labels
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Sweet represents a purchasable catalog entry
type Sweet struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// InStock reports whether at least one unit is available
func (s Sweet) InStock() bool {
	return s.Quantity > 0
}

// LowStock is true for sweets with one to five units left
func (s Sweet) LowStock() bool {
	return s.Quantity > 0 && s.Quantity <= 5
}

// SweetDraft is the body used to create a sweet
type SweetDraft struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SweetPatch carries the fields of a partial update. Nil fields are left untouched.
type SweetPatch struct {
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Quantity *int             `json:"quantity,omitempty"`
}

// Apply copies the set fields of p onto s
func (p SweetPatch) Apply(s *Sweet) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
}

// SearchParams filters a remote sweet search. Zero values are not sent.
type SearchParams struct {
	Name     string
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}
