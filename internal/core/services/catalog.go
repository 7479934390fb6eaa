// internal/core/services/catalog.go
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

// CatalogService loads shops, products and batches from spreadsheet and
// delivery-note imports
type CatalogService struct {
	products ports.ProductRepository
	shops    ports.ShopRepository
	batches  ports.BatchRepository
	listings ports.ListingService
	logger   *slog.Logger
}

// Statically assert that *CatalogService implements the CatalogService interface.
var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service. listings may be nil.
func NewCatalogService(
	products ports.ProductRepository,
	shops ports.ShopRepository,
	batches ports.BatchRepository,
	listings ports.ListingService,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		shops:    shops,
		batches:  batches,
		listings: listings,
		logger:   logger.With(slog.String("service", "catalog")),
	}
}

// Import upserts every row. Invalid rows are reported in the result and do
// not stop the run; store errors do.
func (s *CatalogService) Import(ctx context.Context, rows []domain.ImportRow) (*domain.ImportResult, error) {
	result := &domain.ImportResult{}
	shopCache := make(map[string]*domain.Shop)

	for i := range rows {
		row := &rows[i]
		result.RowsProcessed++

		if err := row.Validate(); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		shop, created, err := s.ensureShop(ctx, shopCache, row.ShopName, row.ShopAddress)
		if err != nil {
			return result, err
		}
		if created {
			result.ShopsCreated++
		}

		product, created, err := s.ensureProduct(ctx, row)
		if err != nil {
			var verr *validationError
			if errors.As(err, &verr) {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", row.Line, verr.err))
				continue
			}
			return result, err
		}
		if created {
			result.ProductsCreated++
		}

		batch := &domain.InventoryBatch{
			ProductID:       product.ID,
			ShopID:          shop.ID,
			Quantity:        row.Quantity,
			Status:          domain.BatchStatusActive,
			ExpiryDate:      row.ExpiryDate,
			DiscountPercent: row.DiscountPercent,
		}
		if err := batch.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", row.Line, err))
			continue
		}
		batch.PrepareForStorage()
		if err := s.batches.Upsert(ctx, batch); err != nil {
			return result, fmt.Errorf("failed to save batch on line %d: %w", row.Line, err)
		}
		result.BatchesCreated++
	}

	s.refreshAll(ctx)

	s.logger.InfoContext(ctx, "catalog imported",
		slog.Int("rows", result.RowsProcessed),
		slog.Int("batches_created", result.BatchesCreated),
		slog.Int("errors", len(result.Errors)))

	return result, nil
}

// Restock adds a new batch per delivery-note line for products already in
// the catalog
func (s *CatalogService) Restock(ctx context.Context, shopID uuid.UUID, lines []domain.RestockLine) (*domain.ImportResult, error) {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to find shop: %w", err)
	}
	if shop == nil {
		return nil, fmt.Errorf("shop %s not found", shopID)
	}

	result := &domain.ImportResult{}
	for _, line := range lines {
		result.RowsProcessed++

		product, err := s.lookupRestockProduct(ctx, line)
		if err != nil {
			return result, err
		}
		if product == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unknown product %q (%s)", line.Name, line.GTIN))
			continue
		}
		if line.Quantity <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("non-positive quantity for %q", product.Name))
			continue
		}

		batch := &domain.InventoryBatch{
			ProductID:  product.ID,
			ShopID:     shop.ID,
			Quantity:   line.Quantity,
			Status:     domain.BatchStatusActive,
			ExpiryDate: line.ExpiryDate,
		}
		batch.PrepareForStorage()
		if err := s.batches.Upsert(ctx, batch); err != nil {
			return result, fmt.Errorf("failed to save restock batch: %w", err)
		}
		result.BatchesCreated++
	}

	if s.listings != nil && result.BatchesCreated > 0 {
		if err := s.listings.Refresh(ctx, &shop.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to refresh listing", slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "shop restocked",
		slog.String("shop_id", shop.ID.String()),
		slog.Int("batches_created", result.BatchesCreated))

	return result, nil
}

func (s *CatalogService) ensureShop(ctx context.Context, cache map[string]*domain.Shop, name, address string) (*domain.Shop, bool, error) {
	key := domain.Normalize(name)
	if shop, ok := cache[key]; ok {
		return shop, false, nil
	}

	shop, err := s.shops.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, false, fmt.Errorf("failed to find shop %q: %w", name, err)
	}
	created := false
	if shop == nil {
		shop = &domain.Shop{Name: strings.TrimSpace(name), Address: strings.TrimSpace(address)}
		shop.PrepareForStorage()
		if err := s.shops.Upsert(ctx, shop); err != nil {
			return nil, false, fmt.Errorf("failed to save shop %q: %w", name, err)
		}
		created = true
	}

	cache[key] = shop
	return shop, created, nil
}

func (s *CatalogService) ensureProduct(ctx context.Context, row *domain.ImportRow) (*domain.Product, bool, error) {
	var (
		existing *domain.Product
		err      error
	)
	if row.GTIN != nil && strings.TrimSpace(*row.GTIN) != "" {
		existing, err = s.products.FindByGTIN(ctx, strings.TrimSpace(*row.GTIN))
	} else {
		existing, err = s.products.FindByName(ctx, strings.TrimSpace(row.ProductName))
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find product %q: %w", row.ProductName, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	product := &domain.Product{
		Name:     strings.TrimSpace(row.ProductName),
		Brand:    row.Brand,
		Category: row.Category,
		GTIN:     row.GTIN,
	}
	if err := product.Validate(); err != nil {
		return nil, false, &validationError{err: err}
	}
	product.PrepareForStorage()
	if err := s.products.Upsert(ctx, product); err != nil {
		return nil, false, fmt.Errorf("failed to save product %q: %w", product.Name, err)
	}
	return product, true, nil
}

func (s *CatalogService) lookupRestockProduct(ctx context.Context, line domain.RestockLine) (*domain.Product, error) {
	if code := strings.TrimSpace(line.GTIN); code != "" {
		p, err := s.products.FindByGTIN(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to find product by code: %w", err)
		}
		if p != nil {
			return p, nil
		}
	}
	if name := strings.TrimSpace(line.Name); name != "" {
		p, err := s.products.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to find product by name: %w", err)
		}
		return p, nil
	}
	return nil, nil
}

func (s *CatalogService) refreshAll(ctx context.Context) {
	if s.listings == nil {
		return
	}
	if err := s.listings.Refresh(ctx, nil); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh listings", slog.String("error", err.Error()))
	}
}

type validationError struct{ err error }

func (e *validationError) Error() string { return e.err.Error() }
func (e *validationError) Unwrap() error { return e.err }
