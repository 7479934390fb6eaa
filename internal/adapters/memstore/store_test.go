package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/shelfscan/internal/adapters/memstore"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/test/helpers"
)

func TestStore_FindActive_FEFO(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)

	now := time.Now()
	late := now.Add(72 * time.Hour)
	early := now.Add(24 * time.Hour)

	undated := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.ExpiryDate = nil })
	lateBatch := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.ExpiryDate = &late })
	earlyBatch := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.ExpiryDate = &early })
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) {
		b.ExpiryDate = &early
		b.Status = domain.BatchStatusInactive
	})

	got, err := store.Batches().FindActive(ctx, domain.BatchQuery{ProductID: &product.ID, ShopID: &shop.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{earlyBatch.ID, lateBatch.ID, undated.ID},
		[]uuid.UUID{got[0].ID, got[1].ID, got[2].ID})

	limited, err := store.Batches().FindActive(ctx, domain.BatchQuery{ShopID: &shop.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, earlyBatch.ID, limited[0].ID)
}

func TestStore_CompareAndSwapQuantity(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	batch := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 2 })

	ok, err := store.Batches().CompareAndSwapQuantity(ctx, batch.ID, 3, 2)
	require.NoError(t, err)
	assert.False(t, ok, "stale expectation must not write")

	ok, err = store.Batches().CompareAndSwapQuantity(ctx, batch.ID, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Batches().FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)

	ok, err = store.Batches().CompareAndSwapQuantity(ctx, uuid.New(), 1, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CompareAndSwapQuantity_InactiveBatch(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	batch := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) {
		b.Quantity = 3
		b.Status = domain.BatchStatusExpired
	})

	ok, err := store.Batches().CompareAndSwapQuantity(ctx, batch.ID, 3, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Batches().FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestStore_CompareAndSwapQuantity_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	batch := helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 1 })

	const racers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := store.Batches().CompareAndSwapQuantity(ctx, batch.ID, 1, 0)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestStore_FindSellableCatalog(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)
	other, _ := helpers.SeedShopAndProduct(t, store)

	sellable := helpers.SeedBatch(t, store, product.ID, shop.ID)
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.Quantity = 0 })
	helpers.SeedBatch(t, store, product.ID, other.ID)

	entries, err := store.Batches().FindSellableCatalog(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, sellable.ID, entries[0].Batch.ID)
	assert.Equal(t, product.Name, entries[0].Product.Name)
}

func TestStore_FindFirstByNameFragment(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	for _, name := range []string{"Parle G Gold", "Parle G", "Colgate Total"} {
		p := helpers.CreateTestProduct(func(p *domain.Product) { p.Name = name; p.GTIN = nil })
		require.NoError(t, store.Products().Upsert(ctx, p))
	}

	got, err := store.Products().FindFirstByNameFragment(ctx, "parle")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Parle G", got.Name)

	missing, err := store.Products().FindFirstByNameFragment(ctx, "maggi")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_FindJoined_PartialRows(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)

	helpers.SeedBatch(t, store, product.ID, shop.ID)
	helpers.SeedBatch(t, store, uuid.New(), shop.ID)

	rows, err := store.Listings().FindJoined(ctx, &shop.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	complete := 0
	for _, r := range rows {
		if r.IsComplete() {
			complete++
		}
	}
	assert.Equal(t, 1, complete)
}

func TestStore_Subscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)

	events, err := store.Subscribe(ctx)
	require.NoError(t, err)

	batch := helpers.SeedBatch(t, store, product.ID, shop.ID)

	select {
	case ev := <-events:
		assert.Equal(t, domain.ChangeInsert, ev.Op)
		assert.Equal(t, batch.ID, ev.BatchID)
		assert.Equal(t, shop.ID, ev.ShopID)
	case <-time.After(time.Second):
		t.Fatal("no change event delivered")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestStore_ExpireBeforeAndSummary(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shop, product := helpers.SeedShopAndProduct(t, store)

	past := time.Now().Add(-time.Hour)
	soon := time.Now().Add(12 * time.Hour)
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.ExpiryDate = &past })
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.ExpiryDate = &soon; b.Quantity = 4 })
	helpers.SeedBatch(t, store, product.ID, shop.ID, func(b *domain.InventoryBatch) { b.ExpiryDate = nil; b.Quantity = 0 })

	n, err := store.Batches().ExpireBefore(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sum, err := store.Batches().Summary(ctx, shop.ID, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.ActiveBatches)
	assert.Equal(t, int64(1), sum.SellableBatches)
	assert.Equal(t, int64(1), sum.OutOfStock)
	assert.Equal(t, int64(1), sum.ExpiringSoon)
	assert.Equal(t, int64(4), sum.TotalUnits)
}

func TestStore_SaleEvents(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	old := domain.SaleEvent{ID: uuid.New(), SoldAt: time.Now().Add(-48 * time.Hour)}
	fresh := domain.SaleEvent{ID: uuid.New(), SoldAt: time.Now()}
	require.NoError(t, store.SaleEvents().Record(ctx, &old))
	require.NoError(t, store.SaleEvents().Record(ctx, &fresh))
	require.NoError(t, store.SaleEvents().Record(ctx, &fresh))
	require.Len(t, store.RecordedSales(), 2)

	n, err := store.SaleEvents().PruneBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, store.RecordedSales(), 1)
}
