package catalog

import "github.com/niksmo/petshop-storefront/internal/core/domain"

const (
	DefaultPageLimit    = 20
	DefaultListingLimit = 10
)

// Page returns the 1-based page of ps. page < 1 is the first page and
// limit < 1 is [DefaultPageLimit].
func Page(ps []domain.Product, page, limit int) []domain.Product {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	start := (page - 1) * limit
	if start >= len(ps) {
		return []domain.Product{}
	}
	end := min(start+limit, len(ps))
	return ps[start:end:end]
}

// CategoryPage filters ps by category and pages the result.
func CategoryPage(ps []domain.Product, category string, page, limit int) []domain.Product {
	return Page(Apply(ps, domain.SearchFilters{Category: category}), page, limit)
}

// Bestsellers is the first limit products by review count.
func Bestsellers(ps []domain.Product, limit int) []domain.Product {
	return Page(Apply(ps, domain.SearchFilters{Sort: domain.SortReviews}), 1, listingLimit(limit))
}

// NewArrivals is the first limit products of the newest ordering.
func NewArrivals(ps []domain.Product, limit int) []domain.Product {
	return Page(Apply(ps, domain.SearchFilters{Sort: domain.SortNewest}), 1, listingLimit(limit))
}

func listingLimit(limit int) int {
	if limit < 1 {
		return DefaultListingLimit
	}
	return limit
}
