// internal/core/services/sale.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// SaleService resolves sale requests and sells one unit per call
type SaleService struct {
	resolver    *SaleResolver
	decrementer *Decrementer
	scanner     ports.Scanner
	archive     ports.ScanArchive
	publisher   ports.SaleEventPublisher
	listings    ports.ListingService
	logger      *slog.Logger
}

// Statically assert that *SaleService implements the SaleService interface.
var _ ports.SaleService = (*SaleService)(nil)

// SaleServiceOption configures optional collaborators
type SaleServiceOption func(*SaleService)

// WithScanArchive stores every scanned image before OCR
func WithScanArchive(archive ports.ScanArchive) SaleServiceOption {
	return func(s *SaleService) { s.archive = archive }
}

// WithEventPublisher publishes a sale event after every sold unit
func WithEventPublisher(publisher ports.SaleEventPublisher) SaleServiceOption {
	return func(s *SaleService) { s.publisher = publisher }
}

// WithListingRefresh refreshes the shop listing after every sold unit
func WithListingRefresh(listings ports.ListingService) SaleServiceOption {
	return func(s *SaleService) { s.listings = listings }
}

// NewSaleService creates a new sale service
func NewSaleService(
	resolver *SaleResolver,
	decrementer *Decrementer,
	scanner ports.Scanner,
	logger *slog.Logger,
	opts ...SaleServiceOption,
) *SaleService {
	s := &SaleService{
		resolver:    resolver,
		decrementer: decrementer,
		scanner:     scanner,
		logger:      logger.With(slog.String("service", "sale")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SellByExactCode sells one unit of the product carrying the barcode
func (s *SaleService) SellByExactCode(ctx context.Context, shopID uuid.UUID, code string) *domain.SaleOutcome {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.OutcomeFromError(domain.ChannelCode, fmt.Errorf("code is required: %w", domain.ErrMalformedScan))
	}
	return s.sell(ctx, shopID, domain.ChannelCode, domain.SaleRequest{Code: &code})
}

// SellByScan runs OCR over the image and sells one unit of whatever it names
func (s *SaleService) SellByScan(ctx context.Context, shopID uuid.UUID, image []byte, contentType string) *domain.SaleOutcome {
	if len(image) == 0 {
		return domain.OutcomeFromError(domain.ChannelScan, fmt.Errorf("image is empty: %w", domain.ErrMalformedScan))
	}

	if s.archive != nil {
		key, err := s.archive.Store(ctx, shopID, image, contentType)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to archive scan",
				slog.String("shop_id", shopID.String()),
				slog.String("error", err.Error()))
		} else {
			s.logger.DebugContext(ctx, "scan archived", slog.String("key", key))
		}
	}

	scan, err := s.scanner.Scan(ctx, image, contentType)
	if err != nil {
		s.logger.ErrorContext(ctx, "scan failed",
			slog.String("shop_id", shopID.String()),
			slog.String("error", err.Error()))
		return domain.OutcomeFromError(domain.ChannelScan, fmt.Errorf("failed to scan image: %w", err))
	}
	if scan.IsEmpty() {
		return domain.OutcomeFromError(domain.ChannelScan, domain.ErrMalformedScan)
	}

	return s.sell(ctx, shopID, domain.ChannelScan, domain.SaleRequest{
		Code:  scan.GTIN,
		Name:  scan.ProductName,
		Brand: scan.Brand,
	})
}

// SellByName sells one unit of the product best matching name and brand
func (s *SaleService) SellByName(ctx context.Context, shopID uuid.UUID, name string, brand *string) *domain.SaleOutcome {
	return s.sell(ctx, shopID, domain.ChannelName, domain.SaleRequest{Name: &name, Brand: brand})
}

func (s *SaleService) sell(ctx context.Context, shopID uuid.UUID, channel domain.SaleChannel, req domain.SaleRequest) *domain.SaleOutcome {
	res, err := s.resolver.Resolve(ctx, shopID, req)
	if err != nil {
		s.logOutcomeError(ctx, shopID, channel, "", err)
		return domain.OutcomeFromError(channel, err)
	}

	batch, err := s.decrementer.DecrementOne(ctx, res.Batch.ID)
	if err != nil {
		s.logOutcomeError(ctx, shopID, channel, res.Stage, err)
		out := domain.OutcomeFromError(channel, err)
		out.Stage = res.Stage
		out.Match = res.Match
		return out
	}

	s.afterSale(ctx, batch, channel, res.Match)

	s.logger.InfoContext(ctx, "unit sold",
		slog.String("shop_id", shopID.String()),
		slog.String("batch_id", batch.ID.String()),
		slog.String("channel", string(channel)),
		slog.String("stage", res.Stage),
		slog.Int("remaining", batch.Quantity))

	return &domain.SaleOutcome{
		Status:  domain.SaleStatusSold,
		Channel: channel,
		Batch:   batch,
		Match:   res.Match,
		Stage:   res.Stage,
	}
}

// afterSale notifies listeners. The sale itself already happened, so
// failures here are only logged.
func (s *SaleService) afterSale(ctx context.Context, batch *domain.InventoryBatch, channel domain.SaleChannel, match *domain.ResolvedMatch) {
	ctx = context.WithoutCancel(ctx)

	if s.listings != nil {
		shopID := batch.ShopID
		if err := s.listings.Refresh(ctx, &shopID); err != nil {
			s.logger.WarnContext(ctx, "failed to refresh listing",
				slog.String("shop_id", shopID.String()),
				slog.String("error", err.Error()))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSale(ctx, domain.NewSaleEvent(batch, channel, match)); err != nil {
			s.logger.WarnContext(ctx, "failed to publish sale event",
				slog.String("batch_id", batch.ID.String()),
				slog.String("error", err.Error()))
		}
	}
}

func (s *SaleService) logOutcomeError(ctx context.Context, shopID uuid.UUID, channel domain.SaleChannel, stage string, err error) {
	attrs := []any{
		slog.String("shop_id", shopID.String()),
		slog.String("channel", string(channel)),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	}
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMalformedScan),
		errors.Is(err, domain.ErrNoActiveBatch), errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrBatchNotFound):
		s.logger.InfoContext(ctx, "sale not completed", attrs...)
	default:
		s.logger.ErrorContext(ctx, "sale failed", attrs...)
	}
}
