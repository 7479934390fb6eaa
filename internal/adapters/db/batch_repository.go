// internal/adapters/db/batch_repository.go
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

var batchColumns = []string{
	"b.id", "b.product_id", "b.shop_id", "b.quantity", "b.status",
	"b.expiry_date", "b.discount_percent", "b.created_at", "b.updated_at",
}

const fefoOrder = "b.expiry_date ASC NULLS LAST"

// batchRepository implements ports.BatchRepository
type batchRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewBatchRepository creates a new inventory batch repository
func NewBatchRepository(db *Database, logger *slog.Logger) ports.BatchRepository {
	return &batchRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "batch")),
	}
}

func scanBatch(row pgx.Row) (*domain.InventoryBatch, error) {
	b := &domain.InventoryBatch{}
	if err := row.Scan(batchDest(b)...); err != nil {
		return nil, err
	}
	return b, nil
}

func batchDest(b *domain.InventoryBatch) []any {
	return []any{
		&b.ID, &b.ProductID, &b.ShopID, &b.Quantity, &b.Status,
		&b.ExpiryDate, &b.DiscountPercent, &b.CreatedAt, &b.UpdatedAt,
	}
}

// FindByID retrieves a batch by id regardless of status
func (r *batchRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryBatch, error) {
	query, args, err := psql.Select(batchColumns...).
		From("inventory_batches b").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	batch, err := ScanOne(r.db.QueryRow(ctx, query, args...), scanBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return batch, nil
}

// FindActive retrieves active batches in FEFO order
func (r *batchRepository) FindActive(ctx context.Context, q domain.BatchQuery) ([]domain.InventoryBatch, error) {
	qb := psql.Select(batchColumns...).
		From("inventory_batches b").
		Where(squirrel.Eq{"b.status": domain.BatchStatusActive}).
		OrderBy(fefoOrder, "b.id ASC")

	if q.ProductID != nil {
		qb = qb.Where(squirrel.Eq{"b.product_id": *q.ProductID})
	}
	if q.ShopID != nil {
		qb = qb.Where(squirrel.Eq{"b.shop_id": *q.ShopID})
	}
	if q.PositiveOnly {
		qb = qb.Where(squirrel.Gt{"b.quantity": 0})
	}
	if q.Limit > 0 {
		qb = qb.Limit(q.Limit)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active batches: %w", err)
	}

	batches, err := ScanMany(rows, scanBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to scan batches: %w", err)
	}
	return batches, nil
}

// CompareAndSwapQuantity writes next only while the row is active and still
// holds expected
func (r *batchRepository) CompareAndSwapQuantity(ctx context.Context, id uuid.UUID, expected, next int) (bool, error) {
	query, args, err := psql.Update("inventory_batches").
		Set("quantity", next).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "quantity": expected, "status": domain.BatchStatusActive}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update batch quantity: %w", err)
	}

	swapped := tag.RowsAffected() == 1
	r.logger.DebugContext(ctx, "quantity compare-and-swap",
		slog.String("batch_id", id.String()),
		slog.Int("expected", expected),
		slog.Int("next", next),
		slog.Bool("swapped", swapped))

	return swapped, nil
}

// FindSellableCatalog joins the shop's stocked active batches to products
func (r *batchRepository) FindSellableCatalog(ctx context.Context, shopID uuid.UUID) ([]ports.CatalogEntry, error) {
	cols := append(append([]string{}, batchColumns...),
		"p.id", "p.name", "p.brand", "p.category", "p.gtin", "p.created_at", "p.updated_at")

	query, args, err := psql.Select(cols...).
		From("inventory_batches b").
		Join("products p ON p.id = b.product_id").
		Where(squirrel.Eq{"b.shop_id": shopID, "b.status": domain.BatchStatusActive}).
		Where(squirrel.Gt{"b.quantity": 0}).
		OrderBy(fefoOrder, "b.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sellable catalog: %w", err)
	}

	entries, err := ScanMany(rows, func(row pgx.Row) (*ports.CatalogEntry, error) {
		e := &ports.CatalogEntry{}
		p := &e.Product
		dest := append(batchDest(&e.Batch),
			&p.ID, &p.Name, &p.Brand, &p.Category, &p.GTIN, &p.CreatedAt, &p.UpdatedAt)
		if err := row.Scan(dest...); err != nil {
			return nil, err
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan sellable catalog: %w", err)
	}
	return entries, nil
}

// Upsert inserts or fully replaces a batch by id
func (r *batchRepository) Upsert(ctx context.Context, b *domain.InventoryBatch) error {
	query, args, err := psql.Insert("inventory_batches").
		Columns("id", "product_id", "shop_id", "quantity", "status",
			"expiry_date", "discount_percent", "created_at", "updated_at").
		Values(b.ID, b.ProductID, b.ShopID, b.Quantity, b.Status,
			b.ExpiryDate, b.DiscountPercent, b.CreatedAt, b.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			status = EXCLUDED.status,
			expiry_date = EXCLUDED.expiry_date,
			discount_percent = EXCLUDED.discount_percent,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert batch: %w", err)
	}

	r.logger.DebugContext(ctx, "batch saved",
		slog.String("id", b.ID.String()),
		slog.Int("quantity", b.Quantity))
	return nil
}

// AddQuantity adjusts quantity by delta, refusing to go below zero
func (r *batchRepository) AddQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	query, args, err := psql.Update("inventory_batches").
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("quantity + ? >= 0", delta)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to adjust batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrBatchNotFound
		}
		return domain.ErrOutOfStock
	}
	return nil
}

// ExpireBefore marks active batches whose expiry date is before cutoff
func (r *batchRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.Update("inventory_batches").
		Set("status", domain.BatchStatusExpired).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"status": domain.BatchStatusActive}).
		Where(squirrel.Lt{"expiry_date": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to expire batches: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Summary aggregates the shop's active batches
func (r *batchRepository) Summary(ctx context.Context, shopID uuid.UUID, expiringWithin time.Duration) (*domain.StockSummary, error) {
	now := time.Now()
	query, args, err := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE quantity > 0)",
		"COUNT(*) FILTER (WHERE quantity = 0)",
		"COUNT(*) FILTER (WHERE expiry_date >= ?::date AND expiry_date < ?::date)",
		"COALESCE(SUM(quantity), 0)",
	).
		From("inventory_batches").
		Where(squirrel.Eq{"shop_id": shopID, "status": domain.BatchStatusActive}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	// The FILTER placeholders precede the WHERE placeholders.
	args = append([]any{now, now.Add(expiringWithin)}, args...)

	sum := &domain.StockSummary{ShopID: shopID, GeneratedAt: now.UTC()}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&sum.ActiveBatches, &sum.SellableBatches, &sum.OutOfStock, &sum.ExpiringSoon, &sum.TotalUnits)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize batches: %w", err)
	}
	return sum, nil
}
