// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/shelfscan/internal/core/ports"
)

// CleanupProcessor handles periodic housekeeping
type CleanupProcessor struct {
	stock     ports.StockService
	events    ports.SaleEventRepository
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor. A zero retention
// keeps sale events forever.
func NewCleanupProcessor(stock ports.StockService, events ports.SaleEventRepository, retention time.Duration, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		stock:     stock,
		events:    events,
		retention: retention,
		now:       time.Now,
		logger:    logger.With(slog.String("processor", "cleanup")),
	}
}

// ProcessExpiredBatches marks batches past their expiry date as expired and
// prunes old sale events.
func (p *CleanupProcessor) ProcessExpiredBatches(ctx context.Context, _ *asynq.Task) error {
	now := p.now()

	expired, err := p.stock.ExpireBatches(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to expire batches: %w", err)
	}

	var pruned int64
	if p.retention > 0 {
		pruned, err = p.events.PruneBefore(ctx, now.Add(-p.retention))
		if err != nil {
			return fmt.Errorf("failed to prune sale events: %w", err)
		}
	}

	p.logger.InfoContext(ctx, "cleanup completed",
		slog.Int64("batches_expired", expired),
		slog.Int64("sale_events_pruned", pruned))

	return nil
}
