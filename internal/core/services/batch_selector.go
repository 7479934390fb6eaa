// internal/core/services/batch_selector.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// BatchSelector picks the batch to sell from using first-expiry-first-out
type BatchSelector struct {
	batches ports.BatchRepository
	logger  *slog.Logger
}

// NewBatchSelector creates a new batch selector
func NewBatchSelector(batches ports.BatchRepository, logger *slog.Logger) *BatchSelector {
	return &BatchSelector{
		batches: batches,
		logger:  logger.With(slog.String("component", "batch_selector")),
	}
}

// Select returns the soonest-expiring active batch of the product at the
// shop. It returns (nil, nil) when the shop has no active batch.
func (s *BatchSelector) Select(ctx context.Context, productID, shopID uuid.UUID) (*domain.InventoryBatch, error) {
	batches, err := s.batches.FindActive(ctx, domain.BatchQuery{
		ProductID: &productID,
		ShopID:    &shopID,
		Limit:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select batch: %w", err)
	}

	if len(batches) == 0 {
		s.logger.DebugContext(ctx, "no active batch",
			slog.String("product_id", productID.String()),
			slog.String("shop_id", shopID.String()))
		return nil, nil
	}

	return &batches[0], nil
}
