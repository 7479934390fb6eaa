// internal/core/services/sale_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/shelfscan/internal/adapters/memstore"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
	"github.com/ammerola/shelfscan/internal/core/services"
	"github.com/ammerola/shelfscan/test/helpers"
	"github.com/ammerola/shelfscan/test/mocks"
)

func newSaleService(store *memstore.Store, scanner ports.Scanner, opts ...services.SaleServiceOption) *services.SaleService {
	logger := helpers.TestLogger()
	return services.NewSaleService(
		newResolver(store),
		services.NewDecrementer(store.Batches(), services.DefaultContentionRetries, logger),
		scanner,
		logger,
		opts...,
	)
}

func TestSaleService_SellByExactCode(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	batch := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 3 })

	publisher := mocks.NewMockSaleEventPublisher(ctrl)
	listings := mocks.NewMockListingService(ctrl)

	publisher.EXPECT().PublishSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev domain.SaleEvent) error {
			assert.Equal(t, batch.ID, ev.BatchID)
			assert.Equal(t, domain.ChannelCode, ev.Channel)
			assert.Equal(t, 2, ev.RemainingQuantity)
			assert.Nil(t, ev.Score)
			return nil
		})
	listings.EXPECT().Refresh(gomock.Any(), &shop.ID).Return(nil)

	svc := newSaleService(store, nil, services.WithEventPublisher(publisher), services.WithListingRefresh(listings))
	out := svc.SellByExactCode(ctx, shop.ID, *product.GTIN)

	require.True(t, out.Sold(), out.Message)
	assert.Equal(t, services.StageExactCode, out.Stage)
	assert.Equal(t, 2, out.Batch.Quantity)
}

func TestSaleService_Outcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("blank_code", func(t *testing.T) {
		out := newSaleService(memstore.New(), nil).SellByExactCode(ctx, helpers.CreateTestShop().ID, "   ")
		assert.Equal(t, domain.SaleStatusNotFound, out.Status)
	})

	t.Run("no_active_batch", func(t *testing.T) {
		store := memstore.New()
		shop, product := helpers.SeedShopAndProduct(t, store)
		out := newSaleService(store, nil).SellByExactCode(ctx, shop.ID, *product.GTIN)
		assert.Equal(t, domain.SaleStatusNoActiveBatch, out.Status)
		assert.Equal(t, domain.ChannelCode, out.Channel)
	})

	t.Run("out_of_stock_keeps_stage", func(t *testing.T) {
		store := memstore.New()
		shop, product := helpers.SeedShopAndProduct(t, store)
		helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 0 })

		out := newSaleService(store, nil).SellByExactCode(ctx, shop.ID, *product.GTIN)
		assert.Equal(t, domain.SaleStatusOutOfStock, out.Status)
		assert.Equal(t, services.StageExactCode, out.Stage)
	})

	t.Run("sell_by_name_reports_score", func(t *testing.T) {
		store := memstore.New()
		shop, product := helpers.SeedShopAndProduct(t, store)
		helpers.SeedBatch(t, store, product.ID, shop.ID)

		out := newSaleService(store, nil).SellByName(ctx, shop.ID, "Parle-G Original Glucose Biscuits", nil)
		require.True(t, out.Sold(), out.Message)
		assert.Equal(t, domain.ChannelName, out.Channel)
		require.NotNil(t, out.Match)
		assert.Equal(t, 3.0, out.Match.Score)
	})
}

func TestSaleService_SellByScan(t *testing.T) {
	ctx := context.Background()
	image := []byte{0xff, 0xd8, 0xff}

	tests := []struct {
		name       string
		setupMocks func(*mocks.MockScanner, *mocks.MockScanArchive)
		wantStatus domain.SaleStatus
	}{
		{
			name: "scan_with_code_sells",
			setupMocks: func(s *mocks.MockScanner, a *mocks.MockScanArchive) {
				a.EXPECT().Store(gomock.Any(), gomock.Any(), image, "image/jpeg").Return("scans/x.jpg", nil)
				s.EXPECT().Scan(gomock.Any(), image, "image/jpeg").
					Return(&domain.ScanResult{GTIN: strPtr("8901063010017")}, nil)
			},
			wantStatus: domain.SaleStatusSold,
		},
		{
			name: "archive_failure_does_not_block_sale",
			setupMocks: func(s *mocks.MockScanner, a *mocks.MockScanArchive) {
				a.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket missing"))
				s.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&domain.ScanResult{ProductName: strPtr("parle-g original glucose biscuits")}, nil)
			},
			wantStatus: domain.SaleStatusSold,
		},
		{
			name: "empty_scan_is_not_found",
			setupMocks: func(s *mocks.MockScanner, a *mocks.MockScanArchive) {
				a.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("k", nil)
				s.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.ScanResult{}, nil)
			},
			wantStatus: domain.SaleStatusNotFound,
		},
		{
			name: "scanner_failure_is_error",
			setupMocks: func(s *mocks.MockScanner, a *mocks.MockScanArchive) {
				a.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("k", nil)
				s.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("ocr unavailable"))
			},
			wantStatus: domain.SaleStatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := memstore.New()
			shop, product := helpers.SeedShopAndProduct(t, store)
			helpers.SeedBatch(t, store, product.ID, shop.ID)

			scanner := mocks.NewMockScanner(ctrl)
			archive := mocks.NewMockScanArchive(ctrl)
			tt.setupMocks(scanner, archive)

			out := newSaleService(store, scanner, services.WithScanArchive(archive)).SellByScan(ctx, shop.ID, image, "image/jpeg")
			assert.Equal(t, tt.wantStatus, out.Status, out.Message)
			assert.Equal(t, domain.ChannelScan, out.Channel)
		})
	}
}

func TestSaleService_EmptyImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	scanner := mocks.NewMockScanner(ctrl)

	out := newSaleService(memstore.New(), scanner).SellByScan(context.Background(), helpers.CreateTestShop().ID, nil, "image/png")
	assert.Equal(t, domain.SaleStatusNotFound, out.Status)
}

func TestSaleService_PublishFailureStillSells(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	batch := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 1 })

	publisher := mocks.NewMockSaleEventPublisher(ctrl)
	publisher.EXPECT().PublishSale(gomock.Any(), gomock.Any()).Return(errors.New("queue down"))

	out := newSaleService(store, nil, services.WithEventPublisher(publisher)).SellByExactCode(ctx, shop.ID, *product.GTIN)
	require.True(t, out.Sold())

	stored, err := store.Batches().FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}
