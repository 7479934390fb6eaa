// internal/core/ports/batch_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

// CatalogEntry pairs a sellable batch with its product
type CatalogEntry struct {
	Batch   domain.InventoryBatch
	Product domain.Product
}

// BatchRepository is the persistence port for inventory batches
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryBatch, error)
	// FindActive returns active batches ordered expiry ascending (nulls
	// last) then id.
	FindActive(ctx context.Context, q domain.BatchQuery) ([]domain.InventoryBatch, error)
	// CompareAndSwapQuantity sets quantity to next only if it still equals
	// expected and the batch is still active. It reports whether the row
	// was written.
	CompareAndSwapQuantity(ctx context.Context, id uuid.UUID, expected, next int) (bool, error)
	// FindSellableCatalog returns the shop's active batches with stock,
	// joined to their products, in FEFO order.
	FindSellableCatalog(ctx context.Context, shopID uuid.UUID) ([]CatalogEntry, error)
	Upsert(ctx context.Context, batch *domain.InventoryBatch) error
	AddQuantity(ctx context.Context, id uuid.UUID, delta int) error
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Summary(ctx context.Context, shopID uuid.UUID, expiringWithin time.Duration) (*domain.StockSummary, error)
}

// ListingRepository serves the joined listing read
type ListingRepository interface {
	// FindJoined returns active batches left-joined to product and shop.
	// Product or Shop may be nil on a partial join.
	FindJoined(ctx context.Context, shopID *uuid.UUID) ([]domain.ListingRow, error)
}

// SaleEventRepository stores the sale audit trail
type SaleEventRepository interface {
	Record(ctx context.Context, event *domain.SaleEvent) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
