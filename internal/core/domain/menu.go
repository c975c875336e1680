package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MenuSection groups items inside a restaurant's menu. Position orders sections within the restaurant.
type MenuSection struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s MenuSection) RecordID() string           { return s.ID }
func (s MenuSection) RecordPosition() int        { return s.Position }
func (s MenuSection) RecordCreatedAt() time.Time { return s.CreatedAt }

type SectionFields struct {
	Name        string
	Description *string
}

func (f SectionFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return Invalid("name", "is required")
	}
	return nil
}

// SectionPatch never carries a position; reordering goes through the ordered collection.
type SectionPatch struct {
	Name        *string
	Description *string
}

func (p SectionPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	return nil
}

// MenuItem is a dish or product inside a section. Position orders items within the section.
type MenuItem struct {
	ID          string          `json:"id"`
	SectionID   string          `json:"section_id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
	Position    int             `json:"position"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i MenuItem) RecordID() string           { return i.ID }
func (i MenuItem) RecordPosition() int        { return i.Position }
func (i MenuItem) RecordCreatedAt() time.Time { return i.CreatedAt }

// ItemFields creates an item. A nil IsAvailable means available.
type ItemFields struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	ImageURL    *string
	IsAvailable *bool
}

func (f ItemFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return Invalid("name", "is required")
	}
	return validatePrice(f.Price)
}

// Available resolves the availability default.
func (f ItemFields) Available() bool {
	return f.IsAvailable == nil || *f.IsAvailable
}

// ItemPatch updates an item partially. An empty ImageURL removes the image.
type ItemPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	IsAvailable *bool
}

func (p ItemPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if p.Price != nil {
		return validatePrice(*p.Price)
	}
	return nil
}

// Apply returns a copy of s with the patch applied.
func (p SectionPatch) Apply(s MenuSection) MenuSection {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		s.Description = NullableString(*p.Description)
	}
	return s
}

// Apply returns a copy of i with the patch applied.
func (p ItemPatch) Apply(i MenuItem) MenuItem {
	if p.Name != nil {
		i.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		i.Description = NullableString(*p.Description)
	}
	if p.Price != nil {
		i.Price = *p.Price
	}
	if p.ImageURL != nil {
		i.ImageURL = NullableString(*p.ImageURL)
	}
	if p.IsAvailable != nil {
		i.IsAvailable = *p.IsAvailable
	}
	return i
}

// maxPrice is the largest value a NUMERIC(10,2) column holds.
var maxPrice = decimal.New(9999999999, -2)

// maxPriceExponent bounds the decimal exponent; it is checked before any rescale.
const maxPriceExponent = 10

func validatePrice(p decimal.Decimal) error {
	if exp := p.Exponent(); exp < -maxPriceExponent || exp > maxPriceExponent {
		return Invalid("price", "is out of range")
	}
	if p.IsNegative() {
		return Invalid("price", "must not be negative")
	}
	if p.Exponent() < -2 && !p.Equal(p.Round(2)) {
		return Invalid("price", "must have at most two decimal places")
	}
	if p.GreaterThan(maxPrice) {
		return Invalid("price", "must not exceed 99999999.99")
	}
	return nil
}

// ParsePrice parses a user-entered price. Non-numeric input is a validation error.
func ParsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, Invalid("price", "must be a number")
	}
	return p, validatePrice(p)
}
