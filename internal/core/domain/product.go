package domain

type Product struct {
	ID            int
	Name          string
	Brand         string
	Price         int
	OriginalPrice *int
	DiscountRate  int
	Rating        float64
	ReviewCount   int
	Image         string
	Badge         string
	Category      string
	Description   string
	InStock       bool
}

type Category struct {
	ID   string
	Name string
	Icon string
}

// DefaultCategories returns a fresh copy of the fixed storefront categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food", Name: "사료", Icon: "🥘"},
		{ID: "treats", Name: "간식", Icon: "🦴"},
		{ID: "toys", Name: "장난감", Icon: "🎾"},
		{ID: "supplies", Name: "용품", Icon: "🏠"},
		{ID: "clothing", Name: "의류", Icon: "👕"},
		{ID: "hygiene", Name: "배변/위생", Icon: "🧻"},
		{ID: "health", Name: "건강관리", Icon: "💊"},
		{ID: "grooming", Name: "목욕/미용", Icon: "🧴"},
		{ID: "walking", Name: "산책/이동용", Icon: "🎽"},
		{ID: "sale", Name: "100원샵", Icon: "💯"},
	}
}

// IsCategory reports whether id names one of the default categories.
func IsCategory(id string) bool {
	for _, c := range DefaultCategories() {
		if c.ID == id {
			return true
		}
	}
	return false
}
