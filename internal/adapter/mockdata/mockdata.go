// Package mockdata is an in-process [port.DataProvider] backed by a fixed
// catalog. It is the default provider until a live backend is configured.
package mockdata

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/niksmo/petshop-storefront/internal/core/catalog"
	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/niksmo/petshop-storefront/internal/core/port"
)

var (
	_ port.DataProvider  = (*Provider)(nil)
	_ port.ProductLister = (*Provider)(nil)
)

type Provider struct {
	products []domain.Product
}

// New returns a provider over ps, or over [Products] when ps is empty.
func New(ps ...domain.Product) Provider {
	if len(ps) == 0 {
		ps = Products()
	}
	return Provider{products: slices.Clone(ps)}
}

func (p Provider) SearchProducts(
	ctx context.Context, f domain.SearchFilters,
) ([]domain.Product, error) {
	const op = "mockdata.Provider.SearchProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrProviderUnavailable, err)
	}

	ps := catalog.Apply(p.products, f)
	slog.Debug("mock search", "op", op, "nProducts", len(ps))
	return ps, nil
}

func (p Provider) GetProductByID(
	ctx context.Context, id int,
) (domain.Product, error) {
	const op = "mockdata.Provider.GetProductByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w: %w", op, domain.ErrProviderUnavailable, err)
	}

	i := slices.IndexFunc(p.products, func(v domain.Product) bool {
		return v.ID == id
	})
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%s: product %d: %w", op, id, domain.ErrNotFound)
	}
	return p.products[i], nil
}

func (p Provider) ProductsByCategory(
	ctx context.Context, category string, page, limit int,
) ([]domain.Product, error) {
	const op = "mockdata.Provider.ProductsByCategory"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrProviderUnavailable, err)
	}
	return catalog.CategoryPage(p.products, category, page, limit), nil
}

func (p Provider) Bestsellers(ctx context.Context, limit int) ([]domain.Product, error) {
	const op = "mockdata.Provider.Bestsellers"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrProviderUnavailable, err)
	}
	return catalog.Bestsellers(p.products, limit), nil
}

func (p Provider) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	const op = "mockdata.Provider.NewArrivals"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrProviderUnavailable, err)
	}
	return catalog.NewArrivals(p.products, limit), nil
}

func price(v int) *int { return &v }

// Products returns the fixture catalog in insertion order.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:            1,
			Name:          "미니 어덜트 8kg 소형견 성견용 사료",
			Brand:         "로얄캐닌",
			Price:         89900,
			OriginalPrice: price(120000),
			DiscountRate:  25,
			Rating:        5,
			ReviewCount:   1234,
			Image:         "🥘",
			Badge:         "BEST",
			Category:      "food",
			InStock:       true,
		},
		{
			ID:            2,
			Name:          "오리지널 티니 30개입 덴탈츄",
			Brand:         "그리니즈",
			Price:         24900,
			OriginalPrice: price(33000),
			DiscountRate:  25,
			Rating:        5,
			ReviewCount:   892,
			Image:         "🦴",
			Badge:         "25%",
			Category:      "treats",
			InStock:       true,
		},
		{
			ID:          3,
			Name:        "터그 로프 놀이 장난감 (소형)",
			Brand:       "콩",
			Price:       12900,
			Rating:      5,
			ReviewCount: 567,
			Image:       "🎾",
			Category:    "toys",
			InStock:     true,
		},
		{
			ID:            4,
			Name:          "프리미엄 방석 하우스 (중형)",
			Brand:         "펫디아",
			Price:         45900,
			OriginalPrice: price(59000),
			DiscountRate:  22,
			Rating:        5,
			ReviewCount:   234,
			Image:         "🏠",
			Badge:         "NEW",
			Category:      "supplies",
			InStock:       true,
		},
	}
}
