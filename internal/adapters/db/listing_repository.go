// internal/adapters/db/listing_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// listingRepository implements ports.ListingRepository
type listingRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewListingRepository creates the joined listing reader
func NewListingRepository(db *Database, logger *slog.Logger) ports.ListingRepository {
	return &listingRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "listing")),
	}
}

// FindJoined left-joins active batches to products and shops so that a
// missing parent shows up as a nil pointer rather than a dropped row.
func (r *listingRepository) FindJoined(ctx context.Context, shopID *uuid.UUID) ([]domain.ListingRow, error) {
	cols := append(append([]string{}, batchColumns...),
		"p.id", "p.name", "p.brand", "p.category", "p.gtin", "p.created_at", "p.updated_at",
		"s.id", "s.name", "s.address", "s.created_at", "s.updated_at")

	qb := psql.Select(cols...).
		From("inventory_batches b").
		LeftJoin("products p ON p.id = b.product_id").
		LeftJoin("shops s ON s.id = b.shop_id").
		Where(squirrel.Eq{"b.status": domain.BatchStatusActive}).
		OrderBy("b.discount_percent DESC", fefoOrder, "b.id ASC")
	if shopID != nil {
		qb = qb.Where(squirrel.Eq{"b.shop_id": *shopID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query joined listing: %w", err)
	}

	listing, err := ScanMany(rows, scanListingRow)
	if err != nil {
		return nil, fmt.Errorf("failed to scan joined listing: %w", err)
	}

	r.logger.DebugContext(ctx, "joined listing fetched", slog.Int("rows", len(listing)))
	return listing, nil
}

func scanListingRow(row pgx.Row) (*domain.ListingRow, error) {
	var (
		out domain.ListingRow

		productID        *uuid.UUID
		productName      *string
		productBrand     *string
		productCategory  *string
		productGTIN      *string
		productCreatedAt *time.Time
		productUpdatedAt *time.Time

		shopID        *uuid.UUID
		shopName      *string
		shopAddress   *string
		shopCreatedAt *time.Time
		shopUpdatedAt *time.Time
	)

	dest := append(batchDest(&out.InventoryBatch),
		&productID, &productName, &productBrand, &productCategory, &productGTIN, &productCreatedAt, &productUpdatedAt,
		&shopID, &shopName, &shopAddress, &shopCreatedAt, &shopUpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if productID != nil {
		out.Product = &domain.Product{
			ID:        *productID,
			Name:      deref(productName),
			Brand:     productBrand,
			Category:  domain.ProductCategory(deref(productCategory)),
			GTIN:      productGTIN,
			CreatedAt: derefTime(productCreatedAt),
			UpdatedAt: derefTime(productUpdatedAt),
		}
	}
	if shopID != nil {
		out.Shop = &domain.Shop{
			ID:        *shopID,
			Name:      deref(shopName),
			Address:   deref(shopAddress),
			CreatedAt: derefTime(shopCreatedAt),
			UpdatedAt: derefTime(shopUpdatedAt),
		}
	}

	return &out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
