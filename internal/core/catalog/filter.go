package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/niksmo/petshop-storefront/internal/core/domain"
)

// Apply filters and sorts ps according to f. The input slice is not
// modified.
//
// Filters run in order: category, free-text query, brand, price range.
// Sorting is stable and runs after filtering; [domain.SortNewest] reverses
// the filtered order rather than sorting by a date.
func Apply(ps []domain.Product, f domain.SearchFilters) []domain.Product {
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	sortProducts(out, f.Sort)
	return out
}

func matches(p domain.Product, f domain.SearchFilters) bool {
	return matchCategory(p, f.Category) &&
		matchQuery(p, f.Query) &&
		matchBrand(p, f.Brand) &&
		matchPrice(p, f.PriceRange)
}

func matchCategory(p domain.Product, category string) bool {
	if category == "" || category == domain.All {
		return true
	}
	return p.Category == category
}

func matchQuery(p domain.Product, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

func matchBrand(p domain.Product, brand string) bool {
	if brand == "" || brand == domain.All {
		return true
	}
	return strings.EqualFold(p.Brand, brand)
}

func matchPrice(p domain.Product, r domain.PriceRange) bool {
	lo, hi, ok := r.Bounds()
	if !ok {
		return true
	}
	if p.Price < lo {
		return false
	}
	return hi < 0 || p.Price < hi
}

func sortProducts(ps []domain.Product, order domain.SortOrder) {
	switch order {
	case domain.SortPriceLow:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortPriceHigh:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case domain.SortNewest:
		slices.Reverse(ps)
	case domain.SortReviews:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(b.ReviewCount, a.ReviewCount)
		})
	}
}
