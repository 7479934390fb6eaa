// internal/core/services/listing.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

const listingCachePrefix = "listing"

// ListingComposer builds the denormalized product feed. It prefers one
// joined read and rebuilds the join itself when that read is unusable.
type ListingComposer struct {
	listings ports.ListingRepository
	batches  ports.BatchRepository
	products ports.ProductRepository
	shops    ports.ShopRepository
	cache    ports.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Statically assert that *ListingComposer implements the ListingService interface.
var _ ports.ListingService = (*ListingComposer)(nil)

// NewListingComposer creates a new listing composer. cache may be nil.
func NewListingComposer(
	listings ports.ListingRepository,
	batches ports.BatchRepository,
	products ports.ProductRepository,
	shops ports.ShopRepository,
	cache ports.CacheRepository,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *ListingComposer {
	return &ListingComposer{
		listings: listings,
		batches:  batches,
		products: products,
		shops:    shops,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("service", "listing")),
	}
}

// Compose builds the listing for filter, ordered by discount descending.
// On a terminal failure it returns an empty slice and an error wrapping
// domain.ErrListingUnavailable.
func (c *ListingComposer) Compose(ctx context.Context, filter domain.ListingFilter) ([]domain.ListingRow, error) {
	rows, err := c.compose(ctx, filter.ShopID)
	if err != nil {
		return rows, err
	}
	return applySearch(rows, filter), nil
}

// GetListing serves Compose through the cache when one is configured.
// Cached rows are keyed by the scope's generation, so rows composed before
// a Refresh can never be served after it.
func (c *ListingComposer) GetListing(ctx context.Context, filter domain.ListingFilter) ([]domain.ListingRow, error) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return c.Compose(ctx, filter)
	}

	scope := filter.CacheScope()
	gen, err := c.generation(ctx, scope)
	if err != nil {
		c.logger.WarnContext(ctx, "listing cache unavailable, composing directly",
			slog.String("scope", scope),
			slog.String("error", err.Error()))
		return c.Compose(ctx, filter)
	}

	var (
		rows       []domain.ListingRow
		composeErr error
	)
	err = c.cache.GetOrSet(ctx, listingRowsKey(scope, gen), &rows, func() (interface{}, error) {
		fresh, err := c.compose(ctx, filter.ShopID)
		if err != nil {
			composeErr = err
			return nil, err
		}
		return fresh, nil
	}, c.cacheTTL)
	if composeErr != nil {
		return []domain.ListingRow{}, composeErr
	}
	if err != nil {
		c.logger.WarnContext(ctx, "listing cache unavailable, composing directly",
			slog.String("scope", scope),
			slog.String("error", err.Error()))
		return c.Compose(ctx, filter)
	}

	return applySearch(rows, filter), nil
}

// Refresh retires cached listings that include shopID. A nil shopID
// retires every cached listing.
func (c *ListingComposer) Refresh(ctx context.Context, shopID *uuid.UUID) error {
	if c.cache == nil {
		return nil
	}

	if shopID == nil {
		if _, err := c.cache.IncrementBy(ctx, listingGlobalGenKey, 1, 0); err != nil {
			return fmt.Errorf("failed to invalidate listings: %w", err)
		}
		if err := c.cache.DeletePattern(ctx, listingCachePrefix+":rows:*"); err != nil {
			c.logger.WarnContext(ctx, "failed to drop retired listings",
				slog.String("error", err.Error()))
		}
		return nil
	}

	for _, scope := range []string{shopID.String(), domain.ListingFilter{}.CacheScope()} {
		if _, err := c.cache.IncrementBy(ctx, listingGenKey(scope), 1, 0); err != nil {
			return fmt.Errorf("failed to invalidate listing for shop %s: %w", shopID, err)
		}
	}

	c.logger.DebugContext(ctx, "listing invalidated", slog.String("shop_id", shopID.String()))
	return nil
}

// generation combines the global and per-scope counters. INCRBY 0 reads a
// counter atomically and creates it at zero when absent.
func (c *ListingComposer) generation(ctx context.Context, scope string) (string, error) {
	global, err := c.cache.IncrementBy(ctx, listingGlobalGenKey, 0, 0)
	if err != nil {
		return "", fmt.Errorf("failed to read listing generation: %w", err)
	}
	local, err := c.cache.IncrementBy(ctx, listingGenKey(scope), 0, 0)
	if err != nil {
		return "", fmt.Errorf("failed to read listing generation: %w", err)
	}
	return fmt.Sprintf("%d.%d", global, local), nil
}

func (c *ListingComposer) compose(ctx context.Context, shopID *uuid.UUID) ([]domain.ListingRow, error) {
	joined, err := c.listings.FindJoined(ctx, shopID)
	if err != nil {
		c.logger.WarnContext(ctx, "joined listing fetch failed, using fallback",
			slog.String("error", err.Error()))
	} else {
		rows := completeRows(joined)
		if len(rows) > 0 {
			domain.SortByDiscount(rows)
			return rows, nil
		}
		c.logger.InfoContext(ctx, "joined listing fetch had no usable rows, using fallback",
			slog.Int("rows", len(joined)))
	}

	return c.composeFallback(ctx, shopID)
}

// composeFallback fetches batches, products and shops separately and joins
// them by id. Batches whose product or shop is missing are dropped.
func (c *ListingComposer) composeFallback(ctx context.Context, shopID *uuid.UUID) ([]domain.ListingRow, error) {
	batches, err := c.batches.FindActive(ctx, domain.BatchQuery{ShopID: shopID})
	if err != nil {
		c.logger.ErrorContext(ctx, "listing fallback failed to fetch batches",
			slog.String("error", err.Error()))
		return []domain.ListingRow{}, fmt.Errorf("%w: failed to fetch active batches: %w", domain.ErrListingUnavailable, err)
	}
	if len(batches) == 0 {
		return []domain.ListingRow{}, nil
	}

	productIDs := make([]uuid.UUID, 0, len(batches))
	shopIDs := make([]uuid.UUID, 0, 4)
	seenProducts := make(map[uuid.UUID]struct{}, len(batches))
	seenShops := make(map[uuid.UUID]struct{})
	for _, b := range batches {
		if _, ok := seenProducts[b.ProductID]; !ok {
			seenProducts[b.ProductID] = struct{}{}
			productIDs = append(productIDs, b.ProductID)
		}
		if _, ok := seenShops[b.ShopID]; !ok {
			seenShops[b.ShopID] = struct{}{}
			shopIDs = append(shopIDs, b.ShopID)
		}
	}

	products, err := c.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return []domain.ListingRow{}, fmt.Errorf("%w: failed to fetch products: %w", domain.ErrListingUnavailable, err)
	}
	shops, err := c.shops.FindByIDs(ctx, shopIDs)
	if err != nil {
		return []domain.ListingRow{}, fmt.Errorf("%w: failed to fetch shops: %w", domain.ErrListingUnavailable, err)
	}

	productByID := make(map[uuid.UUID]*domain.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}
	shopByID := make(map[uuid.UUID]*domain.Shop, len(shops))
	for i := range shops {
		shopByID[shops[i].ID] = &shops[i]
	}

	rows := make([]domain.ListingRow, 0, len(batches))
	dropped := 0
	for _, b := range batches {
		product, shop := productByID[b.ProductID], shopByID[b.ShopID]
		if product == nil || shop == nil {
			dropped++
			continue
		}
		rows = append(rows, domain.ListingRow{InventoryBatch: b, Product: product, Shop: shop})
	}

	if dropped > 0 {
		c.logger.WarnContext(ctx, "dropped unresolved batches from listing",
			slog.Int("dropped", dropped))
	}

	domain.SortByDiscount(rows)
	return rows, nil
}

func completeRows(rows []domain.ListingRow) []domain.ListingRow {
	out := make([]domain.ListingRow, 0, len(rows))
	for _, r := range rows {
		if r.IsComplete() {
			out = append(out, r)
		}
	}
	return out
}

func applySearch(rows []domain.ListingRow, filter domain.ListingFilter) []domain.ListingRow {
	if domain.Normalize(filter.Search) == "" {
		return rows
	}
	out := make([]domain.ListingRow, 0, len(rows))
	for i := range rows {
		if filter.Matches(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

const listingGlobalGenKey = listingCachePrefix + ":gen"

func listingGenKey(scope string) string {
	return listingGlobalGenKey + ":" + scope
}

func listingRowsKey(scope, gen string) string {
	return listingCachePrefix + ":rows:" + scope + ":" + gen
}
