// internal/workers/sale_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/shelfscan/internal/core/ports"
)

const (
	saleDedupeTTL  = 24 * time.Hour
	saleCounterTTL = 8 * 24 * time.Hour
)

// SaleProcessor records sale events and keeps derived views current
type SaleProcessor struct {
	events   ports.SaleEventRepository
	listings ports.ListingService
	cache    ports.CacheRepository
	logger   *slog.Logger
}

// NewSaleProcessor creates a new sale processor. cache may be nil.
func NewSaleProcessor(events ports.SaleEventRepository, listings ports.ListingService, cache ports.CacheRepository, logger *slog.Logger) *SaleProcessor {
	return &SaleProcessor{
		events:   events,
		listings: listings,
		cache:    cache,
		logger:   logger.With(slog.String("processor", "sale")),
	}
}

// SaleDedupeKey guards against processing the same event twice
func SaleDedupeKey(eventID string) string {
	return "sale_event:" + eventID
}

// DailySalesKey counts sales per shop and UTC day
func DailySalesKey(shopID string, day time.Time) string {
	return fmt.Sprintf("sales:%s:%s", shopID, day.UTC().Format("2006-01-02"))
}

// ProcessSaleRecorded writes the audit row, bumps the shop's daily counter
// and invalidates its listing.
func (p *SaleProcessor) ProcessSaleRecorded(ctx context.Context, t *asynq.Task) error {
	var payload SaleRecordedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	ev := payload.Event

	dedupeKey := SaleDedupeKey(ev.ID.String())
	if p.cache != nil {
		fresh, err := p.cache.SetNX(ctx, dedupeKey, 1, saleDedupeTTL)
		if err != nil {
			p.logger.WarnContext(ctx, "sale dedupe unavailable",
				slog.String("event_id", ev.ID.String()),
				slog.String("error", err.Error()))
		} else if !fresh {
			p.logger.DebugContext(ctx, "sale event already processed",
				slog.String("event_id", ev.ID.String()))
			return nil
		}
	}

	if err := p.events.Record(ctx, &ev); err != nil {
		if p.cache != nil {
			_ = p.cache.Delete(ctx, dedupeKey)
		}
		return fmt.Errorf("failed to record sale event: %w", err)
	}

	if p.cache != nil {
		if _, err := p.cache.IncrementBy(ctx, DailySalesKey(ev.ShopID.String(), ev.SoldAt), 1, saleCounterTTL); err != nil {
			p.logger.WarnContext(ctx, "failed to bump daily sales counter",
				slog.String("shop_id", ev.ShopID.String()),
				slog.String("error", err.Error()))
		}
	}

	if err := p.listings.Refresh(ctx, &ev.ShopID); err != nil {
		p.logger.WarnContext(ctx, "failed to refresh listing after sale",
			slog.String("shop_id", ev.ShopID.String()),
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "sale event recorded",
		slog.String("event_id", ev.ID.String()),
		slog.String("batch_id", ev.BatchID.String()),
		slog.String("channel", string(ev.Channel)),
		slog.Int("remaining", ev.RemainingQuantity))

	return nil
}

// ListingProcessor applies queued listing refreshes
type ListingProcessor struct {
	listings ports.ListingService
	logger   *slog.Logger
}

// NewListingProcessor creates a new listing refresh processor
func NewListingProcessor(listings ports.ListingService, logger *slog.Logger) *ListingProcessor {
	return &ListingProcessor{
		listings: listings,
		logger:   logger.With(slog.String("processor", "listing")),
	}
}

// ProcessListingRefresh invalidates cached listings for the payload's shop
func (p *ListingProcessor) ProcessListingRefresh(ctx context.Context, t *asynq.Task) error {
	var payload ListingRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := p.listings.Refresh(ctx, payload.ShopID); err != nil {
		return fmt.Errorf("failed to refresh listing: %w", err)
	}

	scope := "all"
	if payload.ShopID != nil {
		scope = payload.ShopID.String()
	}
	p.logger.DebugContext(ctx, "listing refreshed", slog.String("scope", scope))
	return nil
}
