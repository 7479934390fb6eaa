// internal/core/services/listing_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/shelfscan/internal/adapters/memstore"
	redis_a "github.com/ammerola/shelfscan/internal/adapters/redis_adapter"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
	"github.com/ammerola/shelfscan/internal/core/services"
	"github.com/ammerola/shelfscan/test/helpers"
	"github.com/ammerola/shelfscan/test/mocks"
)

func newComposer(store *memstore.Store, cache ports.CacheRepository) *services.ListingComposer {
	return services.NewListingComposer(
		store.Listings(), store.Batches(), store.Products(), store.Shops(),
		cache, 30*time.Second, helpers.TestLogger(),
	)
}

func discounts(rows []domain.ListingRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.DiscountPercent.String()
	}
	return out
}

func seedDiscounted(t *testing.T, store *memstore.Store) (*domain.Shop, *domain.Product) {
	t.Helper()
	shop, product := helpers.SeedShopAndProduct(t, store)
	for _, pct := range []int64{5, 40, 15} {
		helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) {
			b.DiscountPercent = decimal.NewFromInt(pct)
		})
	}
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) {
		b.DiscountPercent = decimal.NewFromInt(90)
		b.Status = domain.BatchStatusInactive
	})
	return shop, product
}

func TestListingComposer_PrimaryPath(t *testing.T) {
	store := memstore.New()
	shop, _ := seedDiscounted(t, store)

	rows, err := newComposer(store, nil).Compose(context.Background(), domain.ListingFilter{ShopID: &shop.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"40", "15", "5"}, discounts(rows))
	for _, r := range rows {
		assert.True(t, r.IsComplete())
	}
}

func TestListingComposer_FallbackOnJoinError(t *testing.T) {
	store := memstore.New()
	seedDiscounted(t, store)
	store.SetJoinError(errors.New("relation metadata missing"))

	rows, err := newComposer(store, nil).Compose(context.Background(), domain.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"40", "15", "5"}, discounts(rows))
}

func TestListingComposer_PrimaryDropsPartialRows(t *testing.T) {
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	helpers.SeedBatch(t, store, product.ID, shop.ID)
	// batch pointing at a product that does not exist
	helpers.SeedBatch(t, store, uuid.New(), shop.ID)

	rows, err := newComposer(store, nil).Compose(context.Background(), domain.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, product.ID, rows[0].Product.ID)
}

func TestListingComposer_FallbackDropsUnresolvedProducts(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	listings := mocks.NewMockListingRepository(ctrl)
	batches := mocks.NewMockBatchRepository(ctrl)
	products := mocks.NewMockProductRepository(ctrl)
	shops := mocks.NewMockShopRepository(ctrl)

	shop := helpers.CreateTestShop()
	p1 := helpers.CreateTestProduct()
	p2ID := uuid.New()
	b1 := helpers.CreateTestBatch(p1.ID, shop.ID)
	b2 := helpers.CreateTestBatch(p2ID, shop.ID)

	listings.EXPECT().FindJoined(gomock.Any(), gomock.Nil()).Return(nil, errors.New("join unsupported"))
	batches.EXPECT().FindActive(gomock.Any(), gomock.Any()).Return([]domain.InventoryBatch{*b1, *b2}, nil)
	products.EXPECT().FindByIDs(gomock.Any(), []uuid.UUID{p1.ID, p2ID}).Return([]domain.Product{*p1}, nil)
	shops.EXPECT().FindByIDs(gomock.Any(), []uuid.UUID{shop.ID}).Return([]domain.Shop{*shop}, nil)

	c := services.NewListingComposer(listings, batches, products, shops, nil, 0, helpers.TestLogger())
	rows, err := c.Compose(ctx, domain.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b1.ID, rows[0].ID)
	assert.Equal(t, p1.ID, rows[0].Product.ID)
}

func TestListingComposer_FallbackOnEmptyJoin(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	listings := mocks.NewMockListingRepository(ctrl)
	batches := mocks.NewMockBatchRepository(ctrl)
	products := mocks.NewMockProductRepository(ctrl)
	shops := mocks.NewMockShopRepository(ctrl)

	row := helpers.CreateTestListingRow()
	partial := row
	partial.Product = nil

	listings.EXPECT().FindJoined(gomock.Any(), gomock.Any()).Return([]domain.ListingRow{partial}, nil)
	batches.EXPECT().FindActive(gomock.Any(), gomock.Any()).Return([]domain.InventoryBatch{row.InventoryBatch}, nil)
	products.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return([]domain.Product{*row.Product}, nil)
	shops.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return([]domain.Shop{*row.Shop}, nil)

	c := services.NewListingComposer(listings, batches, products, shops, nil, 0, helpers.TestLogger())
	rows, err := c.Compose(ctx, domain.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsComplete())
}

func TestListingComposer_BatchFetchFailureIsTerminal(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	listings := mocks.NewMockListingRepository(ctrl)
	batches := mocks.NewMockBatchRepository(ctrl)

	listings.EXPECT().FindJoined(gomock.Any(), gomock.Any()).Return(nil, errors.New("join unsupported"))
	batches.EXPECT().FindActive(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset")).Times(1)

	c := services.NewListingComposer(listings, batches, mocks.NewMockProductRepository(ctrl), mocks.NewMockShopRepository(ctrl), nil, 0, helpers.TestLogger())
	rows, err := c.Compose(ctx, domain.ListingFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrListingUnavailable)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListingComposer_Search(t *testing.T) {
	store := memstore.New()
	shop, biscuits := helpers.SeedShopAndProduct(t, store)
	helpers.SeedBatch(t, store, biscuits.ID, shop.ID)
	milk := helpers.SeedProduct(t, store, func(p *domain.Product) {
		p.Name = "Amul Taaza Milk"
		p.Brand = strPtr("Amul")
		p.GTIN = nil
	})
	helpers.SeedBatch(t, store, milk.ID, shop.ID)

	rows, err := newComposer(store, nil).Compose(context.Background(), domain.ListingFilter{Search: "  AMUL "})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, milk.ID, rows[0].Product.ID)
}

func TestListingComposer_CacheAndRefresh(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := redis_a.NewCache(client, time.Minute, helpers.TestLogger())

	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	helpers.SeedBatch(t, store, product.ID, shop.ID)
	composer := newComposer(store, cache)
	filter := domain.ListingFilter{ShopID: &shop.ID}

	rows, err := composer.GetListing(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, mr.Exists("listing:rows:"+shop.ID.String()+":0.0"))

	// served from cache until refreshed
	helpers.SeedBatch(t, store, product.ID, shop.ID)
	rows, err = composer.GetListing(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, composer.Refresh(ctx, &shop.ID))
	gen, err := mr.Get("listing:gen:" + shop.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	rows, err = composer.GetListing(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = composer.GetListing(ctx, domain.ListingFilter{})
	require.NoError(t, err)
	require.NoError(t, composer.Refresh(ctx, nil))
	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "listing:rows:")
	}
}

// pausingListings returns the joined rows it read, but only once released
type pausingListings struct {
	ports.ListingRepository
	read    chan struct{}
	release chan struct{}
}

func (p *pausingListings) FindJoined(ctx context.Context, shopID *uuid.UUID) ([]domain.ListingRow, error) {
	rows, err := p.ListingRepository.FindJoined(ctx, shopID)
	if p.read != nil {
		close(p.read)
		p.read = nil
		<-p.release
	}
	return rows, err
}

func TestListingComposer_RefreshBeatsInFlightCompose(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := redis_a.NewCache(client, time.Minute, helpers.TestLogger())

	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	batch := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 5 })

	listings := &pausingListings{
		ListingRepository: store.Listings(),
		read:              make(chan struct{}),
		release:           make(chan struct{}),
	}
	composer := services.NewListingComposer(listings, store.Batches(), store.Products(), store.Shops(),
		cache, time.Minute, helpers.TestLogger())
	filter := domain.ListingFilter{ShopID: &shop.ID}

	read := listings.read
	done := make(chan []domain.ListingRow)
	go func() {
		rows, _ := composer.GetListing(ctx, filter)
		done <- rows
	}()

	// The slow reader holds pre-sale rows while the sale lands
	<-read
	_, err := services.NewDecrementer(store.Batches(), 1, helpers.TestLogger()).DecrementOne(ctx, batch.ID)
	require.NoError(t, err)
	require.NoError(t, composer.Refresh(ctx, &shop.ID))
	close(listings.release)

	stale := <-done
	require.Len(t, stale, 1)
	assert.Equal(t, 5, stale[0].Quantity)

	rows, err := composer.GetListing(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Quantity)
}

func TestListingComposer_CacheDownComposesDirectly(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().IncrementBy(gomock.Any(), "listing:gen", int64(0), time.Duration(0)).
		Return(int64(0), errors.New("dial tcp: connection refused"))

	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	helpers.SeedBatch(t, store, product.ID, shop.ID)

	rows, err := newComposer(store, cache).GetListing(context.Background(), domain.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
