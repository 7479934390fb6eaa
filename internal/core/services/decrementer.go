// internal/core/services/decrementer.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// DefaultContentionRetries is how many times a lost compare-and-swap is
// retried against a fresh read before reporting out of stock.
const DefaultContentionRetries = 1

// Decrementer lowers a batch quantity by one with a conditional update
type Decrementer struct {
	batches ports.BatchRepository
	retries int
	logger  *slog.Logger
}

// NewDecrementer creates a new decrementer. A negative retries value
// falls back to DefaultContentionRetries.
func NewDecrementer(batches ports.BatchRepository, retries int, logger *slog.Logger) *Decrementer {
	if retries < 0 {
		retries = DefaultContentionRetries
	}
	return &Decrementer{
		batches: batches,
		retries: retries,
		logger:  logger.With(slog.String("component", "decrementer")),
	}
}

// DecrementOne sells one unit from the batch and returns the batch as
// written. It returns domain.ErrNoActiveBatch when the batch has left the
// active state since it was resolved, and domain.ErrOutOfStock when the
// batch is empty or a concurrent sale keeps winning the swap.
func (d *Decrementer) DecrementOne(ctx context.Context, batchID uuid.UUID) (*domain.InventoryBatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Once the store is reached the sale runs to completion.
	ctx = context.WithoutCancel(ctx)

	for attempt := 0; ; attempt++ {
		batch, err := d.batches.FindByID(ctx, batchID)
		if err != nil {
			return nil, fmt.Errorf("failed to read batch: %w", err)
		}
		if batch == nil {
			return nil, domain.ErrBatchNotFound
		}
		if !batch.IsActive() {
			d.logger.WarnContext(ctx, "batch no longer active",
				slog.String("batch_id", batchID.String()),
				slog.String("status", string(batch.Status)))
			return nil, domain.ErrNoActiveBatch
		}
		if batch.Quantity <= 0 {
			return nil, domain.ErrOutOfStock
		}

		swapped, err := d.batches.CompareAndSwapQuantity(ctx, batchID, batch.Quantity, batch.Quantity-1)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement batch: %w", err)
		}
		if swapped {
			batch.Quantity--
			d.logger.InfoContext(ctx, "batch decremented",
				slog.String("batch_id", batchID.String()),
				slog.Int("remaining", batch.Quantity))
			return batch, nil
		}

		if attempt >= d.retries {
			d.logger.WarnContext(ctx, "lost decrement race",
				slog.String("batch_id", batchID.String()),
				slog.Int("attempts", attempt+1))
			return nil, domain.ErrOutOfStock
		}

		d.logger.DebugContext(ctx, "decrement contention, retrying",
			slog.String("batch_id", batchID.String()),
			slog.Int("expected", batch.Quantity))
	}
}
