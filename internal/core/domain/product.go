// internal/core/domain/product.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductCategory groups products for reporting and the feed
type ProductCategory string

// Category constants
const (
	CategoryGrocery      ProductCategory = "grocery"
	CategoryDairy        ProductCategory = "dairy"
	CategoryBakery       ProductCategory = "bakery"
	CategoryBeverages    ProductCategory = "beverages"
	CategorySnacks       ProductCategory = "snacks"
	CategoryPersonalCare ProductCategory = "personal_care"
	CategoryHousehold    ProductCategory = "household"
	CategoryFrozen       ProductCategory = "frozen"
	CategoryFreshProduce ProductCategory = "fresh_produce"
	CategoryOther        ProductCategory = "other"
)

// Product is a catalog entry. GTIN is an alternate exact-lookup key when present.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Brand     *string         `json:"brand,omitempty"`
	Category  ProductCategory `json:"category"`
	GTIN      *string         `json:"gtin,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.GTIN != nil {
		code := strings.TrimSpace(*p.GTIN)
		if code == "" {
			p.GTIN = nil
		} else if !IsValidGTIN(code) {
			return fmt.Errorf("gtin %q is not a valid barcode", code)
		} else {
			p.GTIN = &code
		}
	}
	if p.Brand != nil && strings.TrimSpace(*p.Brand) == "" {
		p.Brand = nil
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
	return nil
}

// PrepareForStorage sets identity and timestamps
func (p *Product) PrepareForStorage() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// BrandOrEmpty returns the brand or "" when absent
func (p *Product) BrandOrEmpty() string {
	if p == nil || p.Brand == nil {
		return ""
	}
	return *p.Brand
}

// IsValidGTIN reports whether code is an 8, 12, 13 or 14 digit string.
// Check digits are not verified; scanners occasionally emit internal codes.
func IsValidGTIN(code string) bool {
	switch len(code) {
	case 8, 12, 13, 14:
	default:
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Shop scopes every sale and listing
type Shop struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate performs domain validation on the shop
func (s *Shop) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// PrepareForStorage sets identity and timestamps
func (s *Shop) PrepareForStorage() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
