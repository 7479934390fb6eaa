package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ImportRow is one line of a catalog spreadsheet: a batch of a product
// stocked at a shop.
type ImportRow struct {
	Line            int             `json:"line"`
	ShopName        string          `json:"shop_name"`
	ShopAddress     string          `json:"shop_address"`
	GTIN            *string         `json:"gtin,omitempty"`
	ProductName     string          `json:"product_name"`
	Brand           *string         `json:"brand,omitempty"`
	Category        ProductCategory `json:"category"`
	Quantity        int             `json:"quantity"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// Validate checks the fields every import row needs
func (r *ImportRow) Validate() error {
	if strings.TrimSpace(r.ShopName) == "" {
		return fmt.Errorf("line %d: shop is required", r.Line)
	}
	if strings.TrimSpace(r.ProductName) == "" {
		return fmt.Errorf("line %d: name is required", r.Line)
	}
	if r.Quantity < 0 {
		return fmt.Errorf("line %d: quantity cannot be negative", r.Line)
	}
	return nil
}

// RestockLine is one line of a supplier delivery note
type RestockLine struct {
	GTIN       string     `json:"gtin"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// ImportResult summarizes an import run
type ImportResult struct {
	RowsProcessed   int      `json:"rows_processed"`
	ShopsCreated    int      `json:"shops_created"`
	ProductsCreated int      `json:"products_created"`
	BatchesCreated  int      `json:"batches_created"`
	Errors          []string `json:"errors,omitempty"`
}
