// internal/adapters/db/sale_event_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// saleEventRepository implements ports.SaleEventRepository
type saleEventRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSaleEventRepository creates the sale audit repository
func NewSaleEventRepository(db *Database, logger *slog.Logger) ports.SaleEventRepository {
	return &saleEventRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "sale_event")),
	}
}

// Record stores a sale event. Replayed events with a known id are ignored.
func (r *saleEventRepository) Record(ctx context.Context, ev *domain.SaleEvent) error {
	query, args, err := psql.Insert("sale_events").
		Columns("id", "batch_id", "product_id", "shop_id", "channel",
			"remaining_quantity", "discount_percent", "score", "sold_at").
		Values(ev.ID, ev.BatchID, ev.ProductID, ev.ShopID, ev.Channel,
			ev.RemainingQuantity, ev.DiscountPercent, ev.Score, ev.SoldAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to record sale event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.DebugContext(ctx, "sale event already recorded", slog.String("id", ev.ID.String()))
	}
	return nil
}

// PruneBefore deletes sale events older than cutoff
func (r *saleEventRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.Delete("sale_events").
		Where(squirrel.Lt{"sold_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sale events: %w", err)
	}
	return tag.RowsAffected(), nil
}
