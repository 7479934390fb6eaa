// internal/core/services/stock_catalog_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/shelfscan/internal/adapters/memstore"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/services"
	"github.com/ammerola/shelfscan/test/helpers"
	"github.com/ammerola/shelfscan/test/mocks"
)

func TestStockService_Summary(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)

	soon := time.Now().Add(24 * time.Hour)
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 4; b.ExpiryDate = &soon })
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 0 })
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Status = domain.BatchStatusExpired })

	svc := services.NewStockService(store.Batches(), nil, 0, 72*time.Hour, helpers.TestLogger())
	sum, err := svc.Summary(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.ActiveBatches)
	assert.Equal(t, int64(1), sum.SellableBatches)
	assert.Equal(t, int64(1), sum.OutOfStock)
	assert.Equal(t, int64(1), sum.ExpiringSoon)
	assert.Equal(t, int64(4), sum.TotalUnits)
}

func TestStockService_SummaryUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	batches := mocks.NewMockBatchRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	shopID := uuid.New()

	cache.EXPECT().GetOrSet(gomock.Any(), services.StockSummaryCacheKey(shopID), gomock.Any(), gomock.Any(), time.Minute).
		DoAndReturn(func(_ context.Context, _ string, dest any, _ func() (any, error), _ time.Duration) error {
			dest.(*domain.StockSummary).ActiveBatches = 7
			return nil
		})

	svc := services.NewStockService(batches, cache, time.Minute, time.Hour, helpers.TestLogger())
	sum, err := svc.Summary(context.Background(), shopID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sum.ActiveBatches)
}

func TestStockService_ExpireBatches(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)

	past := time.Now().Add(-48 * time.Hour)
	expired := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.ExpiryDate = &past })
	fresh := helpers.SeedBatch(t, store, product.ID, shop.ID)
	undated := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.ExpiryDate = nil })

	svc := services.NewStockService(store.Batches(), nil, 0, time.Hour, helpers.TestLogger())
	n, err := svc.ExpireBatches(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	for id, want := range map[uuid.UUID]domain.BatchStatus{
		expired.ID: domain.BatchStatusExpired,
		fresh.ID:   domain.BatchStatusActive,
		undated.ID: domain.BatchStatusActive,
	} {
		b, err := store.Batches().FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, b.Status)
	}
}

func TestCatalogService_Import(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := memstore.New()
	listings := mocks.NewMockListingService(ctrl)
	listings.EXPECT().Refresh(gomock.Any(), gomock.Nil()).Return(nil)

	expiry := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.ImportRow{
		{Line: 2, ShopName: "Corner Mart", ShopAddress: "12 Station Road", GTIN: strPtr("8901063010017"),
			ProductName: "Parle G", Brand: strPtr("Parle"), Category: domain.CategorySnacks,
			Quantity: 12, ExpiryDate: &expiry, DiscountPercent: decimal.NewFromInt(10)},
		{Line: 3, ShopName: "corner mart", GTIN: strPtr("8901063010017"), ProductName: "Parle G",
			Quantity: 6, DiscountPercent: decimal.NewFromInt(25)},
		{Line: 4, ShopName: "Hill Stores", ProductName: "Amul Butter", Quantity: 3},
		{Line: 5, ShopName: "Hill Stores", ProductName: "Broken", GTIN: strPtr("1234"), Quantity: 1},
		{Line: 6, ShopName: "", ProductName: "Nameless shop", Quantity: 1},
		{Line: 7, ShopName: "Hill Stores", ProductName: "Too Generous", Quantity: 1, DiscountPercent: decimal.NewFromInt(150)},
	}

	svc := services.NewCatalogService(store.Products(), store.Shops(), store.Batches(), listings, helpers.TestLogger())
	result, err := svc.Import(ctx, rows)
	require.NoError(t, err)

	assert.Equal(t, 6, result.RowsProcessed)
	assert.Equal(t, 2, result.ShopsCreated)
	assert.Equal(t, 3, result.ProductsCreated)
	assert.Equal(t, 3, result.BatchesCreated)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "line 5")
	assert.Contains(t, result.Errors[1], "line 6")
	assert.Contains(t, result.Errors[2], "line 7")

	product, err := store.Products().FindByGTIN(ctx, "8901063010017")
	require.NoError(t, err)
	require.NotNil(t, product)
	shop, err := store.Shops().FindByName(ctx, "Corner Mart")
	require.NoError(t, err)
	require.NotNil(t, shop)

	batches, err := store.Batches().FindActive(ctx, domain.BatchQuery{ProductID: &product.ID, ShopID: &shop.ID})
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}

func TestCatalogService_ImportStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	shops := mocks.NewMockShopRepository(ctrl)
	shops.EXPECT().FindByName(gomock.Any(), "Corner Mart").Return(nil, errors.New("connection reset"))

	svc := services.NewCatalogService(mocks.NewMockProductRepository(ctrl), shops, mocks.NewMockBatchRepository(ctrl), nil, helpers.TestLogger())
	_, err := svc.Import(context.Background(), []domain.ImportRow{{Line: 2, ShopName: "Corner Mart", ProductName: "Milk", Quantity: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find shop")
}

func TestCatalogService_Restock(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)

	svc := services.NewCatalogService(store.Products(), store.Shops(), store.Batches(), nil, helpers.TestLogger())
	result, err := svc.Restock(ctx, shop.ID, []domain.RestockLine{
		{GTIN: *product.GTIN, Quantity: 24},
		{Name: "parle-g original glucose biscuits", Quantity: 6},
		{GTIN: "0000000000000", Name: "Mystery", Quantity: 1},
		{GTIN: *product.GTIN, Quantity: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.RowsProcessed)
	assert.Equal(t, 2, result.BatchesCreated)
	assert.Len(t, result.Errors, 2)

	batches, err := store.Batches().FindActive(ctx, domain.BatchQuery{ProductID: &product.ID, ShopID: &shop.ID})
	require.NoError(t, err)
	total := 0
	for _, b := range batches {
		total += b.Quantity
	}
	assert.Equal(t, 30, total)

	_, err = svc.Restock(ctx, uuid.New(), nil)
	assert.ErrorContains(t, err, "not found")
}
