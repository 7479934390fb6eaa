// internal/catalog/export.go
package catalog

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

var listingHeaders = []string{
	"Shop", "Shop Address", "Product", "Brand", "Category", "GTIN",
	"Batch ID", "Quantity", "Expiry Date", "Discount %",
}

// WriteListingWorkbook writes rows as a single-sheet workbook
func WriteListingWorkbook(w io.Writer, rows []domain.ListingRow) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Listing")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range listingHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range rows {
		r := &rows[i]
		if !r.IsComplete() {
			continue
		}

		dataRow := sheet.AddRow()
		dataRow.AddCell().Value = r.Shop.Name
		dataRow.AddCell().Value = r.Shop.Address
		dataRow.AddCell().Value = r.Product.Name
		dataRow.AddCell().Value = r.Product.BrandOrEmpty()
		dataRow.AddCell().Value = string(r.Product.Category)
		dataRow.AddCell().Value = derefString(r.Product.GTIN)
		dataRow.AddCell().Value = r.ID.String()
		dataRow.AddCell().SetInt(r.Quantity)
		expiry := ""
		if r.ExpiryDate != nil {
			expiry = r.ExpiryDate.Format("2006-01-02")
		}
		dataRow.AddCell().Value = expiry
		dataRow.AddCell().Value = r.DiscountPercent.StringFixed(2)
	}

	for i := range listingHeaders {
		sheet.SetColWidth(i+1, i+1, 18)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
