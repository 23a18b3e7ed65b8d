package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/niksmo/petshop-storefront/internal/core/catalog"
	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/niksmo/petshop-storefront/internal/core/port"
)

var (
	_ port.DataProvider  = (*ProductsRepository)(nil)
	_ port.ProductLister = (*ProductsRepository)(nil)
)

const productColumns = `
	id, name, brand, price, original_price, discount_rate, rating,
	review_count, image, badge, category, description, in_stock`

// ProductsRepository serves the catalog from the products table.
//
// SQL narrows the candidates, the final filter and sort pass is
// [catalog.Apply] so results match every other provider.
type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) SearchProducts(
	ctx context.Context, f domain.SearchFilters,
) ([]domain.Product, error) {
	const op = "ProductsRepository.SearchProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + `
		FROM products
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR brand ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR lower(brand) = lower($3))
		  AND price >= $4
		  AND ($5 < 0 OR price < $5)
		ORDER BY id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, searchArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrProviderUnavailable, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrProviderUnavailable, err)
	}

	return catalog.Apply(ps, f), nil
}

func (r ProductsRepository) ProductsByCategory(
	ctx context.Context, category string, page, limit int,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ProductsByCategory"

	ps, err := r.SearchProducts(ctx, domain.SearchFilters{Category: category})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalog.Page(ps, page, limit), nil
}

func (r ProductsRepository) Bestsellers(
	ctx context.Context, limit int,
) ([]domain.Product, error) {
	const op = "ProductsRepository.Bestsellers"

	ps, err := r.SearchProducts(ctx, domain.SearchFilters{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalog.Bestsellers(ps, limit), nil
}

func (r ProductsRepository) NewArrivals(
	ctx context.Context, limit int,
) ([]domain.Product, error) {
	const op = "ProductsRepository.NewArrivals"

	ps, err := r.SearchProducts(ctx, domain.SearchFilters{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalog.NewArrivals(ps, limit), nil
}

func (r ProductsRepository) GetProductByID(
	ctx context.Context, id int,
) (domain.Product, error) {
	const op = "ProductsRepository.GetProductByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + ` FROM products WHERE id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: product %d: %w", op, id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w: %w", op, domain.ErrProviderUnavailable, err)
	}
	return p, nil
}

// StoreProducts upserts ps in one transaction.
func (r ProductsRepository) StoreProducts(
	ctx context.Context, ps []domain.Product,
) (storeErr error) {
	const op = "ProductsRepository.StoreProducts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}
		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			discount_rate = EXCLUDED.discount_rate,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			image = EXCLUDED.image,
			badge = EXCLUDED.badge,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			in_stock = EXCLUDED.in_stock;`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, p := range ps {
		var originalPrice sql.NullInt64
		if p.OriginalPrice != nil {
			originalPrice = sql.NullInt64{Int64: int64(*p.OriginalPrice), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Brand, p.Price, originalPrice, p.DiscountRate,
			p.Rating, p.ReviewCount, p.Image, p.Badge, p.Category,
			p.Description, p.InStock,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	log.Info("products stored", "nProducts", len(ps))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (domain.Product, error) {
	var (
		p             domain.Product
		originalPrice sql.NullInt64
	)
	err := s.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Price, &originalPrice, &p.DiscountRate,
		&p.Rating, &p.ReviewCount, &p.Image, &p.Badge, &p.Category,
		&p.Description, &p.InStock,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if originalPrice.Valid {
		v := int(originalPrice.Int64)
		p.OriginalPrice = &v
	}
	return p, nil
}

// searchArgs maps f to the positional arguments of the search query:
// category, escaped query, brand, lower and upper price bound.
func searchArgs(f domain.SearchFilters) []any {
	category := f.Category
	if category == domain.All {
		category = ""
	}
	brand := f.Brand
	if brand == domain.All {
		brand = ""
	}
	lo, hi, ok := f.PriceRange.Bounds()
	if !ok {
		lo, hi = 0, -1
	}
	return []any{category, escapeLike(f.Query), brand, lo, hi}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
