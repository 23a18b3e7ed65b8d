package httphandler

import "github.com/niksmo/petshop-storefront/internal/core/domain"

// Envelope is the response body of list endpoints. Message is set when the
// data is served from the in-session fallback.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Total   int    `json:"total"`
}

type (
	Product struct {
		ID            int     `json:"id"`
		Name          string  `json:"name"`
		Brand         string  `json:"brand"`
		Price         int     `json:"price"`
		OriginalPrice *int    `json:"original_price,omitempty"`
		DiscountRate  int     `json:"discount_rate,omitempty"`
		Rating        float64 `json:"rating"`
		ReviewCount   int     `json:"review_count"`
		Image         string  `json:"image"`
		Badge         string  `json:"badge,omitempty"`
		Category      string  `json:"category"`
		Description   string  `json:"description,omitempty"`
		InStock       bool    `json:"in_stock"`
		InWishlist    bool    `json:"in_wishlist"`
	}

	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Icon string `json:"icon"`
	}
)

type (
	CartItem struct {
		ID        string `json:"id"`
		ProductID int    `json:"product_id"`
		Name      string `json:"name"`
		Brand     string `json:"brand"`
		Price     int    `json:"price"`
		Image     string `json:"image"`
		Quantity  int    `json:"quantity"`
	}

	Cart struct {
		Items      []CartItem `json:"items"`
		Count      int        `json:"count"`
		TotalPrice int        `json:"total_price"`
	}

	AddCartItemRequest struct {
		ProductID int `json:"product_id"`
	}

	UpdateCartItemRequest struct {
		Quantity *int `json:"quantity"`
	}
)

type (
	WishlistToggle struct {
		ProductID  int  `json:"product_id"`
		InWishlist bool `json:"in_wishlist"`
	}

	Wishlist struct {
		ProductIDs []int `json:"product_ids"`
	}
)

func fromDomainProduct(p domain.Product, inWishlist bool) Product {
	return Product{
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
		InWishlist:    inWishlist,
	}
}

func fromDomainCategories(cs []domain.Category) []Category {
	out := make([]Category, len(cs))
	for i, c := range cs {
		out[i] = Category{ID: c.ID, Name: c.Name, Icon: c.Icon}
	}
	return out
}

func fromDomainCartItem(it domain.CartItem) CartItem {
	return CartItem{
		ID:        it.ID,
		ProductID: it.ProductID,
		Name:      it.Name,
		Brand:     it.Brand,
		Price:     it.Price,
		Image:     it.Image,
		Quantity:  it.Quantity,
	}
}

func fromDomainCart(s domain.CartSnapshot) Cart {
	c := Cart{
		Items:      make([]CartItem, len(s.Items)),
		Count:      s.Count,
		TotalPrice: s.TotalPrice,
	}
	for i, it := range s.Items {
		c.Items[i] = fromDomainCartItem(it)
	}
	return c
}
