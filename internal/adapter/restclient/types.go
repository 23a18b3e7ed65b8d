package restclient

import "github.com/niksmo/petshop-storefront/internal/core/domain"

type (
	envelope[T any] struct {
		Data    T      `json:"data"`
		Message string `json:"message,omitempty"`
		Success bool   `json:"success"`
		Total   int    `json:"total,omitempty"`
		Page    int    `json:"page,omitempty"`
		Limit   int    `json:"limit,omitempty"`
	}

	product struct {
		ID            int     `json:"id"`
		Name          string  `json:"name"`
		Brand         string  `json:"brand"`
		Price         int     `json:"price"`
		OriginalPrice *int    `json:"originalPrice,omitempty"`
		DiscountRate  int     `json:"discountRate"`
		Rating        float64 `json:"rating"`
		ReviewCount   int     `json:"reviewCount"`
		Image         string  `json:"image"`
		Badge         string  `json:"badge,omitempty"`
		Category      string  `json:"category"`
		Description   string  `json:"description,omitempty"`
		InStock       bool    `json:"inStock"`
	}

	searchRequest struct {
		Query      string `json:"query"`
		Category   string `json:"category"`
		Sort       string `json:"sort"`
		PriceRange string `json:"price_range"`
		Brand      string `json:"brand"`
	}
)

func (p product) toDomain() domain.Product {
	return domain.Product{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		DiscountRate:  p.DiscountRate,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		Image:         p.Image,
		Badge:         p.Badge,
		Category:      p.Category,
		Description:   p.Description,
		InStock:       p.InStock,
	}
}

func toDomainProducts(ps []product) []domain.Product {
	out := make([]domain.Product, len(ps))
	for i := range ps {
		out[i] = ps[i].toDomain()
	}
	return out
}

func newSearchRequest(f domain.SearchFilters) searchRequest {
	r := searchRequest{
		Query:      f.Query,
		Category:   f.Category,
		Sort:       string(f.Sort),
		PriceRange: string(f.PriceRange),
		Brand:      f.Brand,
	}
	if r.Sort == "" {
		r.Sort = string(domain.SortPopular)
	}
	if r.PriceRange == "" {
		r.PriceRange = string(domain.PriceAll)
	}
	if r.Brand == "" {
		r.Brand = domain.All
	}
	return r
}
