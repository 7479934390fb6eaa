package catalog

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

func buildWorkbook(t *testing.T, rows ...[]string) []byte {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock")
	require.NoError(t, err)

	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().Value = v
		}
	}

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestParseImportWorkbook(t *testing.T) {
	data := buildWorkbook(t,
		[]string{"Shop", "Shop Address", "GTIN", "Product", "Brand", "Category", "Qty", "Expiry", "Discount"},
		[]string{"Corner Mart", "1 Main St", "8901063010017", "Parle G", "Parle", "Grocery", "12", "2026-05-01", "10%"},
		[]string{"Corner Mart", "", "", "Milk", "", "dairy", "two", "", ""},
		[]string{"Corner Mart", "", "", "Bread", "", "", "3", "31/12/2026", ""},
	)

	rows, problems, err := ParseImportWorkbook(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "invalid quantity")

	first := rows[0]
	assert.Equal(t, "Corner Mart", first.ShopName)
	assert.Equal(t, "1 Main St", first.ShopAddress)
	require.NotNil(t, first.GTIN)
	assert.Equal(t, "8901063010017", *first.GTIN)
	assert.Equal(t, "Parle G", first.ProductName)
	require.NotNil(t, first.Brand)
	assert.Equal(t, "Parle", *first.Brand)
	assert.Equal(t, domain.ProductCategory("grocery"), first.Category)
	assert.Equal(t, 12, first.Quantity)
	require.NotNil(t, first.ExpiryDate)
	assert.Equal(t, "2026-05-01", first.ExpiryDate.Format("2006-01-02"))
	assert.True(t, decimal.NewFromInt(10).Equal(first.DiscountPercent))

	second := rows[1]
	assert.Equal(t, "Bread", second.ProductName)
	assert.Nil(t, second.GTIN)
	assert.Nil(t, second.Brand)
	assert.Equal(t, 3, second.Quantity)
	require.NotNil(t, second.ExpiryDate)
	assert.Equal(t, "2026-12-31", second.ExpiryDate.Format("2006-01-02"))
	assert.True(t, second.DiscountPercent.IsZero())
}

func TestParseImportWorkbook_RejectsBadValues(t *testing.T) {
	data := buildWorkbook(t,
		[]string{"shop", "name", "discount", "expiry"},
		[]string{"Corner Mart", "Tea", "150", ""},
		[]string{"Corner Mart", "Coffee", "", "next week"},
	)

	rows, problems, err := ParseImportWorkbook(data)
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "out of range")
	assert.Contains(t, problems[1], "invalid expiry")
}

func TestParseImportWorkbook_MissingColumns(t *testing.T) {
	data := buildWorkbook(t,
		[]string{"shop", "quantity"},
		[]string{"Corner Mart", "4"},
	)

	_, _, err := ParseImportWorkbook(data)
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "name")
}

func TestParseImportWorkbook_NotAWorkbook(t *testing.T) {
	_, _, err := ParseImportWorkbook([]byte("plain text"))
	assert.Error(t, err)
}

func TestParseDeliveryLines(t *testing.T) {
	lines := []string{
		"FreshFoods Distribution",
		"Delivery note #4471",
		"GTIN   Description   Qty   Best before",
		"8901063010017  Parle G Biscuits  24  2026-09-30",
		"",
		"Amul Butter 500g   6",
		"not an item line",
		"12345678 Tea Bags 10",
		"TOTAL 40",
		"8901063010017 After Footer 1",
	}

	got := parseDeliveryLines(lines)
	require.Len(t, got, 3)

	assert.Equal(t, "8901063010017", got[0].GTIN)
	assert.Equal(t, "Parle G Biscuits", got[0].Name)
	assert.Equal(t, 24, got[0].Quantity)
	require.NotNil(t, got[0].ExpiryDate)
	assert.True(t, got[0].ExpiryDate.Equal(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, "", got[1].GTIN)
	assert.Equal(t, "Amul Butter 500g", got[1].Name)
	assert.Equal(t, 6, got[1].Quantity)
	assert.Nil(t, got[1].ExpiryDate)

	assert.Equal(t, "12345678", got[2].GTIN)
	assert.Equal(t, "Tea Bags", got[2].Name)
}

func TestParseDeliveryNote_InvalidPDF(t *testing.T) {
	_, err := ParseDeliveryNote([]byte("%PDF-garbage"))
	assert.Error(t, err)
}

func TestWriteListingWorkbook(t *testing.T) {
	brand := "Parle"
	gtin := "8901063010017"
	expiry := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	complete := domain.ListingRow{
		InventoryBatch: domain.InventoryBatch{
			ID:              uuid.New(),
			Quantity:        7,
			ExpiryDate:      &expiry,
			DiscountPercent: decimal.NewFromFloat(12.5),
		},
		Product: &domain.Product{Name: "Parle G", Brand: &brand, GTIN: &gtin, Category: "grocery"},
		Shop:    &domain.Shop{Name: "Corner Mart", Address: "1 Main St"},
	}
	partial := domain.ListingRow{InventoryBatch: domain.InventoryBatch{ID: uuid.New()}}

	var buf bytes.Buffer
	require.NoError(t, WriteListingWorkbook(&buf, []domain.ListingRow{complete, partial}))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, 2, sheet.MaxRow)

	header, err := sheet.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Shop", header.String())

	product, err := sheet.Cell(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Parle G", product.String())

	discount, err := sheet.Cell(1, 9)
	require.NoError(t, err)
	assert.Equal(t, "12.50", discount.String())
}
