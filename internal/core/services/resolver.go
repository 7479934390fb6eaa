// internal/core/services/resolver.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// Stage names reported on resolutions and outcomes
const (
	StageExactCode   = "exact_code"
	StageFuzzy       = "fuzzy_match"
	StagePartialName = "partial_name"
)

// Resolution is the batch a sale request resolved to
type Resolution struct {
	Batch *domain.InventoryBatch
	Match *domain.ResolvedMatch
	Stage string
}

// stage is one step of the resolution pipeline. run returns a resolution,
// (nil, nil) to fall through, or an error that ends resolution.
type stage struct {
	name    string
	applies func(domain.SaleRequest) bool
	run     func(ctx context.Context, shopID uuid.UUID, req domain.SaleRequest) (*Resolution, error)
}

// SaleResolver turns an identifier, a scan or a name into one batch. Stages
// run in order and the first one to resolve wins; none is retried.
type SaleResolver struct {
	products ports.ProductRepository
	batches  ports.BatchRepository
	selector *BatchSelector
	stages   []stage
	logger   *slog.Logger
}

// NewSaleResolver creates a new sale resolver
func NewSaleResolver(
	products ports.ProductRepository,
	batches ports.BatchRepository,
	selector *BatchSelector,
	logger *slog.Logger,
) *SaleResolver {
	r := &SaleResolver{
		products: products,
		batches:  batches,
		selector: selector,
		logger:   logger.With(slog.String("component", "sale_resolver")),
	}
	r.stages = []stage{
		{name: StageExactCode, applies: domain.SaleRequest.HasCode, run: r.stageExactCode},
		{name: StageFuzzy, applies: domain.SaleRequest.HasText, run: r.stageFuzzy},
		{name: StagePartialName, applies: domain.SaleRequest.HasName, run: r.stagePartialName},
	}
	return r
}

// Resolve walks the stages for req. It returns domain.ErrMalformedScan when
// the request carries nothing to resolve, domain.ErrNotFound when every
// stage falls through, and domain.ErrNoActiveBatch when a scanned code names
// a product the shop cannot sell.
func (r *SaleResolver) Resolve(ctx context.Context, shopID uuid.UUID, req domain.SaleRequest) (*Resolution, error) {
	if !req.HasCode() && !req.HasText() {
		return nil, domain.ErrMalformedScan
	}

	for _, st := range r.stages {
		if !st.applies(req) {
			continue
		}

		res, err := st.run(ctx, shopID, req)
		if err != nil {
			r.logger.DebugContext(ctx, "resolution ended",
				slog.String("stage", st.name),
				slog.String("error", err.Error()))
			return nil, err
		}
		if res != nil {
			res.Stage = st.name
			r.logger.DebugContext(ctx, "resolved",
				slog.String("stage", st.name),
				slog.String("batch_id", res.Batch.ID.String()))
			return res, nil
		}
	}

	return nil, domain.ErrNotFound
}

func (r *SaleResolver) stageExactCode(ctx context.Context, shopID uuid.UUID, req domain.SaleRequest) (*Resolution, error) {
	product, err := r.products.FindByGTIN(ctx, strings.TrimSpace(*req.Code))
	if err != nil {
		return nil, fmt.Errorf("failed to look up product by code: %w", err)
	}
	if product == nil {
		return nil, nil
	}

	batch, err := r.selector.Select(ctx, product.ID, shopID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		// A scanned barcode is unambiguous; do not guess another product.
		return nil, domain.ErrNoActiveBatch
	}
	return &Resolution{Batch: batch}, nil
}

func (r *SaleResolver) stageFuzzy(ctx context.Context, shopID uuid.UUID, req domain.SaleRequest) (*Resolution, error) {
	catalog, err := r.batches.FindSellableCatalog(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop catalog: %w", err)
	}

	candidates := make([]domain.Candidate, len(catalog))
	byID := make(map[uuid.UUID]*domain.InventoryBatch, len(catalog))
	for i := range catalog {
		entry := &catalog[i]
		candidates[i] = domain.Candidate{
			BatchID:      entry.Batch.ID,
			Quantity:     entry.Batch.Quantity,
			ProductName:  entry.Product.Name,
			ProductBrand: entry.Product.Brand,
		}
		byID[entry.Batch.ID] = &entry.Batch
	}

	top := domain.TopMatch(domain.ScoreCandidates(deref(req.Name), deref(req.Brand), candidates))
	if top == nil {
		return nil, nil
	}
	return &Resolution{Batch: byID[top.BatchID], Match: top}, nil
}

func (r *SaleResolver) stagePartialName(ctx context.Context, shopID uuid.UUID, req domain.SaleRequest) (*Resolution, error) {
	product, err := r.products.FindFirstByNameFragment(ctx, strings.TrimSpace(*req.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to look up product by name: %w", err)
	}
	if product == nil {
		return nil, nil
	}

	batch, err := r.selector.Select(ctx, product.ID, shopID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, nil
	}
	return &Resolution{Batch: batch}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
