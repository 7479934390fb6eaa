// internal/core/ports/services.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

// SaleService defines the caller-facing sale operations. Every call
// returns a tagged outcome; errors never escape as Go errors.
type SaleService interface {
	SellByExactCode(ctx context.Context, shopID uuid.UUID, code string) *domain.SaleOutcome
	SellByScan(ctx context.Context, shopID uuid.UUID, image []byte, contentType string) *domain.SaleOutcome
	SellByName(ctx context.Context, shopID uuid.UUID, name string, brand *string) *domain.SaleOutcome
}

// ListingService defines the product feed operations
type ListingService interface {
	GetListing(ctx context.Context, filter domain.ListingFilter) ([]domain.ListingRow, error)
	Refresh(ctx context.Context, shopID *uuid.UUID) error
}

// StockService reports stock health per shop
type StockService interface {
	Summary(ctx context.Context, shopID uuid.UUID) (*domain.StockSummary, error)
	ExpireBatches(ctx context.Context, now time.Time) (int64, error)
}

// CatalogService loads shops, products and batches from imports
type CatalogService interface {
	Import(ctx context.Context, rows []domain.ImportRow) (*domain.ImportResult, error)
	Restock(ctx context.Context, shopID uuid.UUID, lines []domain.RestockLine) (*domain.ImportResult, error)
}
