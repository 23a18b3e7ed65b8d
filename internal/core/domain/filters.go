package domain

// All is the filter value meaning "no constraint on this field".
const All = "all"

type SortOrder string

const (
	SortPopular   SortOrder = "popular"
	SortPriceLow  SortOrder = "price_low"
	SortPriceHigh SortOrder = "price_high"
	SortNewest    SortOrder = "newest"
	SortReviews   SortOrder = "reviews"
)

type PriceRange string

const (
	PriceAll      PriceRange = "all"
	PriceUnder10k PriceRange = "under10k"
	Price10kTo30k PriceRange = "10k-30k"
	Price30kTo50k PriceRange = "30k-50k"
	PriceOver50k  PriceRange = "over50k"
)

// Bounds returns the half-open price interval [lo, hi) of the bucket.
// hi is -1 when the bucket has no upper bound. ok is false for "all" and
// unknown buckets.
func (r PriceRange) Bounds() (lo, hi int, ok bool) {
	switch r {
	case PriceUnder10k:
		return 0, 10000, true
	case Price10kTo30k:
		return 10000, 30000, true
	case Price30kTo50k:
		return 30000, 50000, true
	case PriceOver50k:
		return 50000, -1, true
	default:
		return 0, 0, false
	}
}

// SearchFilters is a transient catalog query. The zero value of each field
// applies no constraint.
type SearchFilters struct {
	Query      string
	Category   string
	Sort       SortOrder
	PriceRange PriceRange
	Brand      string
}
