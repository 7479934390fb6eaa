// internal/adapters/db/shop_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

var shopColumns = []string{"id", "name", "address", "created_at", "updated_at"}

// shopRepository implements ports.ShopRepository
type shopRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *Database, logger *slog.Logger) ports.ShopRepository {
	return &shopRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "shop")),
	}
}

func scanShop(row pgx.Row) (*domain.Shop, error) {
	s := &domain.Shop{}
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID retrieves a shop by id
func (r *shopRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	query, args, err := psql.Select(shopColumns...).From("shops").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	shop, err := ScanOne(r.db.QueryRow(ctx, query, args...), scanShop)
	if err != nil {
		return nil, fmt.Errorf("failed to find shop: %w", err)
	}
	return shop, nil
}

// FindByName retrieves a shop by case-insensitive name
func (r *shopRepository) FindByName(ctx context.Context, name string) (*domain.Shop, error) {
	query, args, err := psql.Select(shopColumns...).From("shops").Where("lower(name) = lower(?)", name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	shop, err := ScanOne(r.db.QueryRow(ctx, query, args...), scanShop)
	if err != nil {
		return nil, fmt.Errorf("failed to find shop by name: %w", err)
	}
	return shop, nil
}

// FindByIDs retrieves every shop in ids; unknown ids are skipped
func (r *shopRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Shop, error) {
	if len(ids) == 0 {
		return []domain.Shop{}, nil
	}

	query, args, err := psql.Select(shopColumns...).From("shops").Where("id = ANY(?)", ids).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}

	shops, err := ScanMany(rows, scanShop)
	if err != nil {
		return nil, fmt.Errorf("failed to scan shops: %w", err)
	}
	return shops, nil
}

// Upsert inserts or updates a shop by id
func (r *shopRepository) Upsert(ctx context.Context, s *domain.Shop) error {
	query, args, err := psql.Insert("shops").
		Columns(shopColumns...).
		Values(s.ID, s.Name, s.Address, s.CreatedAt, s.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert shop: %w", err)
	}

	r.logger.DebugContext(ctx, "shop saved", slog.String("id", s.ID.String()))
	return nil
}
