// internal/core/services/stock.go
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

// StockService reports per-shop stock health and retires expired batches
type StockService struct {
	batches        ports.BatchRepository
	cache          ports.CacheRepository
	cacheTTL       time.Duration
	expiringWithin time.Duration
	logger         *slog.Logger
}

// Statically assert that *StockService implements the StockService interface.
var _ ports.StockService = (*StockService)(nil)

// NewStockService creates a new stock service. cache may be nil.
func NewStockService(batches ports.BatchRepository, cache ports.CacheRepository, cacheTTL, expiringWithin time.Duration, logger *slog.Logger) *StockService {
	return &StockService{
		batches:        batches,
		cache:          cache,
		cacheTTL:       cacheTTL,
		expiringWithin: expiringWithin,
		logger:         logger.With(slog.String("service", "stock")),
	}
}

// Summary returns batch counts for the shop
func (s *StockService) Summary(ctx context.Context, shopID uuid.UUID) (*domain.StockSummary, error) {
	fetch := func() (interface{}, error) {
		return s.batches.Summary(ctx, shopID, s.expiringWithin)
	}

	if s.cache == nil || s.cacheTTL <= 0 {
		summary, err := s.batches.Summary(ctx, shopID, s.expiringWithin)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize stock: %w", err)
		}
		return summary, nil
	}

	var summary domain.StockSummary
	if err := s.cache.GetOrSet(ctx, StockSummaryCacheKey(shopID), &summary, fetch, s.cacheTTL); err != nil {
		return nil, fmt.Errorf("failed to summarize stock: %w", err)
	}
	return &summary, nil
}

// ExpireBatches marks active batches past their expiry date as expired
func (s *StockService) ExpireBatches(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.batches.ExpireBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire batches: %w", err)
	}

	if n > 0 {
		s.logger.InfoContext(ctx, "expired batches", slog.Int64("count", n))
		if s.cache != nil {
			if err := s.cache.DeletePattern(ctx, stockCachePrefix+":*"); err != nil {
				s.logger.WarnContext(ctx, "failed to invalidate stock summaries",
					slog.String("error", err.Error()))
			}
		}
	}
	return n, nil
}

const stockCachePrefix = "stock"

// StockSummaryCacheKey is the cache key of a shop's stock summary
func StockSummaryCacheKey(shopID uuid.UUID) string {
	return stockCachePrefix + ":" + shopID.String()
}
