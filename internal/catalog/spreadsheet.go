// internal/catalog/spreadsheet.go
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

// ErrMissingColumns is returned when the header row lacks a required column
var ErrMissingColumns = errors.New("import sheet is missing required columns")

// Import sheet columns, matched case-insensitively against the header row
const (
	ColShop        = "shop"
	ColShopAddress = "shop_address"
	ColGTIN        = "gtin"
	ColName        = "name"
	ColBrand       = "brand"
	ColCategory    = "category"
	ColQuantity    = "quantity"
	ColExpiry      = "expiry"
	ColDiscount    = "discount"
)

// ImportColumns is the canonical header order
var ImportColumns = []string{
	ColShop, ColShopAddress, ColGTIN, ColName, ColBrand, ColCategory, ColQuantity, ColExpiry, ColDiscount,
}

var headerAliases = map[string]string{
	"shop_name":    ColShop,
	"store":        ColShop,
	"address":      ColShopAddress,
	"barcode":      ColGTIN,
	"ean":          ColGTIN,
	"product":      ColName,
	"product_name": ColName,
	"qty":          ColQuantity,
	"expiry_date":  ColExpiry,
	"best_before":  ColExpiry,
	"discount_pct": ColDiscount,
}

var expiryLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02", "02-01-2006"}

// ParseImportWorkbook reads the first sheet of an xlsx catalog. Rows that
// cannot be parsed are skipped and described in the returned messages.
func ParseImportWorkbook(data []byte) ([]domain.ImportRow, []string, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return parseWorkbook(file)
}

// ParseImportFile reads an xlsx catalog from disk
func ParseImportFile(path string) ([]domain.ImportRow, []string, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return parseWorkbook(file)
}

func parseWorkbook(file *xlsx.File) ([]domain.ImportRow, []string, error) {
	if len(file.Sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}
	sheet := file.Sheets[0]

	var (
		rows     []domain.ImportRow
		problems []string
		columns  map[string]int
	)

	err := sheet.ForEachRow(func(r *xlsx.Row) error {
		line := r.GetCoordinate() + 1
		if columns == nil {
			cols, err := readHeader(r, sheet.MaxCol)
			if err != nil {
				return err
			}
			columns = cols
			return nil
		}

		row, skip, err := parseRow(r, columns, line, file.Date1904)
		switch {
		case err != nil:
			problems = append(problems, err.Error())
		case !skip:
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if columns == nil {
		return nil, nil, fmt.Errorf("%w: sheet is empty", ErrMissingColumns)
	}

	return rows, problems, nil
}

func readHeader(r *xlsx.Row, maxCol int) (map[string]int, error) {
	columns := make(map[string]int)
	for i := 0; i < maxCol; i++ {
		name := strings.ToLower(strings.TrimSpace(r.GetCell(i).String()))
		name = strings.ReplaceAll(name, " ", "_")
		if alias, ok := headerAliases[name]; ok {
			name = alias
		}
		if name != "" {
			if _, dup := columns[name]; !dup {
				columns[name] = i
			}
		}
	}

	var missing []string
	for _, required := range []string{ColShop, ColName} {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columns, nil
}

// parseRow maps one data row. skip is set for rows that are entirely blank.
func parseRow(r *xlsx.Row, columns map[string]int, line int, date1904 bool) (domain.ImportRow, bool, error) {
	cell := func(name string) *xlsx.Cell {
		idx, ok := columns[name]
		if !ok {
			return nil
		}
		return r.GetCell(idx)
	}
	text := func(name string) string {
		if c := cell(name); c != nil {
			return strings.TrimSpace(c.String())
		}
		return ""
	}

	row := domain.ImportRow{
		Line:        line,
		ShopName:    text(ColShop),
		ShopAddress: text(ColShopAddress),
		GTIN:        optional(text(ColGTIN)),
		ProductName: text(ColName),
		Brand:       optional(text(ColBrand)),
		Category:    domain.ProductCategory(strings.ToLower(text(ColCategory))),
	}

	blank := row.ShopName == "" && row.ProductName == "" && row.GTIN == nil && text(ColQuantity) == ""
	if blank {
		return row, true, nil
	}

	if q := text(ColQuantity); q != "" {
		n, err := strconv.ParseFloat(q, 64)
		if err != nil || n != float64(int(n)) {
			return row, false, fmt.Errorf("line %d: invalid quantity %q", line, q)
		}
		row.Quantity = int(n)
	}

	expiry, err := parseExpiry(cell(ColExpiry), date1904)
	if err != nil {
		return row, false, fmt.Errorf("line %d: %w", line, err)
	}
	row.ExpiryDate = expiry

	if d := strings.TrimSuffix(text(ColDiscount), "%"); d != "" {
		pct, err := decimal.NewFromString(strings.TrimSpace(d))
		if err != nil {
			return row, false, fmt.Errorf("line %d: invalid discount %q", line, d)
		}
		if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return row, false, fmt.Errorf("line %d: discount %s out of range", line, pct)
		}
		row.DiscountPercent = pct
	}

	return row, false, nil
}

func parseExpiry(c *xlsx.Cell, date1904 bool) (*time.Time, error) {
	if c == nil {
		return nil, nil
	}
	if c.IsTime() {
		t, err := c.GetTime(date1904)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry: %w", err)
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &day, nil
	}

	s := strings.TrimSpace(c.String())
	if s == "" {
		return nil, nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid expiry %q", s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
