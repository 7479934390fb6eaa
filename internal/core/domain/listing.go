// internal/core/domain/listing.go
package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ListingRow is a batch joined to its product and shop. It is rebuilt on
// every refresh and never persisted.
type ListingRow struct {
	InventoryBatch
	Product *Product `json:"product"`
	Shop    *Shop    `json:"shop"`
}

// IsComplete reports whether both join sides are populated
func (r *ListingRow) IsComplete() bool {
	return r.Product != nil && r.Shop != nil
}

// ListingFilter scopes the listing. A nil ShopID lists every shop.
type ListingFilter struct {
	ShopID *uuid.UUID `json:"shop_id,omitempty"`
	Search string     `json:"search,omitempty"`
}

// CacheScope names the cache partition for the filter's shop
func (f ListingFilter) CacheScope() string {
	if f.ShopID == nil {
		return "all"
	}
	return f.ShopID.String()
}

// Matches reports whether the row passes the search filter
func (f ListingFilter) Matches(row *ListingRow) bool {
	q := Normalize(f.Search)
	if q == "" {
		return true
	}
	if row.Product == nil {
		return false
	}
	return strings.Contains(Normalize(row.Product.Name), q) ||
		strings.Contains(NormalizePtr(row.Product.Brand), q)
}

// SortByDiscount orders rows by discount percent, highest first. The sort is stable.
func SortByDiscount(rows []ListingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DiscountPercent.GreaterThan(rows[j].DiscountPercent)
	})
}
