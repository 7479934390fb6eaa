// internal/core/ports/catalog_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

// ProductRepository is the persistence port for the product catalog.
// Point reads return (nil, nil) when nothing matches.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByGTIN(ctx context.Context, gtin string) (*domain.Product, error)
	// FindFirstByNameFragment does a case-insensitive substring match on
	// name and returns the first product ordered by name then id.
	FindFirstByNameFragment(ctx context.Context, fragment string) (*domain.Product, error)
	// FindByName matches the whole name case-insensitively
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	Upsert(ctx context.Context, product *domain.Product) error
}

// ShopRepository is the persistence port for shops
type ShopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Shop, error)
	FindByName(ctx context.Context, name string) (*domain.Shop, error)
	Upsert(ctx context.Context, shop *domain.Shop) error
}
