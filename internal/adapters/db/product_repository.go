// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var productColumns = []string{"id", "name", "brand", "category", "gtin", "created_at", "updated_at"}

// productRepository implements ports.ProductRepository
type productRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "product")),
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.GTIN, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) findOne(ctx context.Context, qb squirrel.SelectBuilder) (*domain.Product, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return ScanOne(r.db.QueryRow(ctx, query, args...), scanProduct)
}

// FindByID retrieves a product by id
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, err := r.findOne(ctx, psql.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

// FindByGTIN retrieves the product carrying the barcode
func (r *productRepository) FindByGTIN(ctx context.Context, gtin string) (*domain.Product, error) {
	p, err := r.findOne(ctx, psql.Select(productColumns...).From("products").Where(squirrel.Eq{"gtin": gtin}))
	if err != nil {
		return nil, fmt.Errorf("failed to find product by gtin: %w", err)
	}
	return p, nil
}

// FindFirstByNameFragment returns the first product whose name contains fragment
func (r *productRepository) FindFirstByNameFragment(ctx context.Context, fragment string) (*domain.Product, error) {
	qb := psql.Select(productColumns...).
		From("products").
		Where(squirrel.ILike{"name": "%" + escapeLike(fragment) + "%"}).
		OrderBy("name ASC", "id ASC").
		Limit(1)

	p, err := r.findOne(ctx, qb)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by name fragment: %w", err)
	}
	return p, nil
}

// FindByName matches the whole name case-insensitively
func (r *productRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	qb := psql.Select(productColumns...).
		From("products").
		Where("lower(name) = lower(?)", name).
		OrderBy("id ASC").
		Limit(1)

	p, err := r.findOne(ctx, qb)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return p, nil
}

// FindByIDs retrieves every product in ids; unknown ids are skipped
func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query, args, err := psql.Select(productColumns...).
		From("products").
		Where("id = ANY(?)", ids).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := ScanMany(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

// Upsert inserts or updates a product by id
func (r *productRepository) Upsert(ctx context.Context, p *domain.Product) error {
	query, args, err := psql.Insert("products").
		Columns(productColumns...).
		Values(p.ID, p.Name, p.Brand, p.Category, p.GTIN, p.CreatedAt, p.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			gtin = EXCLUDED.gtin,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	r.logger.DebugContext(ctx, "product saved", slog.String("id", p.ID.String()))
	return nil
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
