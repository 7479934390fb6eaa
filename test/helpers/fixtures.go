// test/helpers/fixtures.go
package helpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// Store is satisfied by both the in-memory store and the postgres wiring
type Store interface {
	Products() ports.ProductRepository
	Shops() ports.ShopRepository
	Batches() ports.BatchRepository
}

// CreateTestProduct creates a test product
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	brand := "Parle"
	gtin := "8901063010017"
	p := &domain.Product{
		ID:        uuid.New(),
		Name:      "Parle-G Original Glucose Biscuits",
		Brand:     &brand,
		Category:  domain.CategorySnacks,
		GTIN:      &gtin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, override := range overrides {
		override(p)
	}
	return p
}

// CreateTestShop creates a test shop
func CreateTestShop(overrides ...func(*domain.Shop)) *domain.Shop {
	s := &domain.Shop{
		ID:        uuid.New(),
		Name:      "Corner Mart",
		Address:   "12 Station Road",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, override := range overrides {
		override(s)
	}
	return s
}

// CreateTestBatch creates an active test batch expiring in a week
func CreateTestBatch(productID, shopID uuid.UUID, overrides ...func(*domain.InventoryBatch)) *domain.InventoryBatch {
	expiry := time.Now().AddDate(0, 0, 7).UTC().Truncate(24 * time.Hour)
	b := &domain.InventoryBatch{
		ID:              uuid.New(),
		ProductID:       productID,
		ShopID:          shopID,
		Quantity:        10,
		Status:          domain.BatchStatusActive,
		ExpiryDate:      &expiry,
		DiscountPercent: decimal.NewFromInt(10),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	for _, override := range overrides {
		override(b)
	}
	return b
}

// CreateTestListingRow creates a complete listing row
func CreateTestListingRow(overrides ...func(*domain.ListingRow)) domain.ListingRow {
	product := CreateTestProduct()
	shop := CreateTestShop()
	row := domain.ListingRow{
		InventoryBatch: *CreateTestBatch(product.ID, shop.ID),
		Product:        product,
		Shop:           shop,
	}
	for _, override := range overrides {
		override(&row)
	}
	return row
}

// CreateTestListingRows creates count rows with descending discounts
func CreateTestListingRows(count int) []domain.ListingRow {
	rows := make([]domain.ListingRow, count)
	for i := 0; i < count; i++ {
		rows[i] = CreateTestListingRow(func(r *domain.ListingRow) {
			r.Product.Name = fmt.Sprintf("Test Product %d", i+1)
			r.DiscountPercent = decimal.NewFromInt(int64(50 - i%50))
		})
	}
	return rows
}

// SeedShopAndProduct stores a default shop and product
func SeedShopAndProduct(t testing.TB, store Store, overrides ...func(*domain.Product)) (*domain.Shop, *domain.Product) {
	t.Helper()

	ctx := context.Background()
	shop := CreateTestShop()
	require.NoError(t, store.Shops().Upsert(ctx, shop), "Failed to seed shop")

	product := CreateTestProduct(overrides...)
	require.NoError(t, store.Products().Upsert(ctx, product), "Failed to seed product")

	return shop, product
}

// SeedProduct stores a product built from overrides
func SeedProduct(t testing.TB, store Store, overrides ...func(*domain.Product)) *domain.Product {
	t.Helper()

	product := CreateTestProduct(overrides...)
	require.NoError(t, store.Products().Upsert(context.Background(), product), "Failed to seed product")
	return product
}

// SeedBatch stores a batch of productID at shopID
func SeedBatch(t testing.TB, store Store, productID, shopID uuid.UUID, overrides ...func(*domain.InventoryBatch)) *domain.InventoryBatch {
	t.Helper()

	batch := CreateTestBatch(productID, shopID, overrides...)
	require.NoError(t, store.Batches().Upsert(context.Background(), batch), "Failed to seed batch")
	return batch
}
