package port

import (
	"context"

	"github.com/niksmo/petshop-storefront/internal/core/domain"
)

// DataProvider supplies catalog data. Implementations apply the catalog
// filter and sort policy themselves and return ErrNotFound for unknown ids.
type DataProvider interface {
	SearchProducts(context.Context, domain.SearchFilters) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int) (domain.Product, error)
}

// ProductLister serves the storefront listings. page is 1-based.
type ProductLister interface {
	ProductsByCategory(ctx context.Context, category string, page, limit int) ([]domain.Product, error)
	Bestsellers(ctx context.Context, limit int) ([]domain.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]domain.Product, error)
}

type CartEventsProducer interface {
	ProduceCart(context.Context, domain.CartSnapshot) error
}

type WishlistEventsEmitter interface {
	EmitWishlist(context.Context, domain.WishlistEvent) error
}

type CatalogSearcher interface {
	Categories() []domain.Category
	Search(ctx context.Context, sessionID string, f domain.SearchFilters) ([]domain.Product, string)
}

// CatalogLister returns listings and the error message, which is empty
// unless the result is a fallback.
type CatalogLister interface {
	CategoryPage(ctx context.Context, category string, page, limit int) ([]domain.Product, string)
	Bestsellers(ctx context.Context, limit int) ([]domain.Product, string)
	NewArrivals(ctx context.Context, limit int) ([]domain.Product, string)
}

type ProductFinder interface {
	ProductByID(ctx context.Context, sessionID string, id int) (domain.Product, bool)
}

type WishlistToggler interface {
	ToggleWishlist(ctx context.Context, sessionID string, productID int) bool
	Wishlist(sessionID string) []int
}

type CartEditor interface {
	AddToCart(ctx context.Context, sessionID string, productID int) (domain.CartItem, error)
	UpdateCartItem(ctx context.Context, sessionID, itemID string, quantity int)
	RemoveCartItem(ctx context.Context, sessionID, itemID string)
	ClearCart(ctx context.Context, sessionID string)
}

type CartReader interface {
	Cart(sessionID string) domain.CartSnapshot
}
