package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/niksmo/petshop-storefront/internal/core/port"
)

const (
	searchFailedMsg  = "failed to fetch products"
	productFailedMsg = "failed to fetch product"
)

// Store holds the displayed product collection, the fixed categories and
// the wishlist of one session.
//
// Provider calls are made without holding the lock. Results overwrite the
// stored collection in the order they resolve.
type Store struct {
	provider port.DataProvider

	mu         sync.RWMutex
	categories []domain.Category
	products   []domain.Product
	known      *Index
	wishlist   map[int]struct{}
	inflight   int
	errMsg     string
}

type Opt func(*Store)

// IndexOpt shares x as the fallback candidate set. Without it every store
// keeps its own index.
func IndexOpt(x *Index) Opt {
	return func(s *Store) {
		if x != nil {
			s.known = x
		}
	}
}

func NewStore(provider port.DataProvider, opts ...Opt) *Store {
	if provider == nil {
		panic("catalog.NewStore: provider is nil") // develop mistake
	}
	s := &Store{
		provider:   provider,
		categories: domain.DefaultCategories(),
		known:      NewIndex(),
		wishlist:   make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search asks the provider for products matching f and stores the result.
//
// On provider failure the error slot is set and a fallback computed from
// the known candidates (or the last stored collection) is returned along
// with the recorded error message. The stored collection stays untouched.
func (s *Store) Search(
	ctx context.Context, f domain.SearchFilters,
) ([]domain.Product, string) {
	const op = "catalog.Store.Search"
	log := slog.With("op", op)

	s.begin()
	defer s.end()

	ps, err := s.provider.SearchProducts(ctx, f)
	if err != nil {
		msg := s.fail(searchFailedMsg, err)
		log.Error("search products", "err", err)
		return s.fallback(f), msg
	}

	s.known.Remember(ps...)
	s.mu.Lock()
	s.products = slices.Clone(ps)
	s.mu.Unlock()

	log.Debug("products searched", "nProducts", len(ps))
	return slices.Clone(ps), ""
}

// ProductByID returns the product with the given id. A missing product is
// reported through ok and never sets the error slot.
func (s *Store) ProductByID(ctx context.Context, id int) (p domain.Product, ok bool) {
	const op = "catalog.Store.ProductByID"
	log := slog.With("op", op)

	s.begin()
	defer s.end()

	p, err := s.provider.GetProductByID(ctx, id)
	if err == nil {
		s.known.Remember(p)
		return p, true
	}

	if errors.Is(err, domain.ErrNotFound) {
		return domain.Product{}, false
	}

	s.fail(productFailedMsg, err)
	log.Error("get product", "id", id, "err", err)

	return s.known.Get(id)
}

// ToggleWishlist flips membership of productID and reports the new state.
func (s *Store) ToggleWishlist(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wishlist[productID]; ok {
		delete(s.wishlist, productID)
		return false
	}
	s.wishlist[productID] = struct{}{}
	return true
}

func (s *Store) InWishlist(productID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.wishlist[productID]
	return ok
}

// Wishlist returns the wishlisted product ids in ascending order.
func (s *Store) Wishlist() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.wishlist))
	for id := range s.wishlist {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Err returns the message of the last failed provider call, or an empty
// string.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// fail records and returns the error message.
func (s *Store) fail(msg string, err error) string {
	errMsg := fmt.Sprintf("%s: %v", msg, err)
	s.mu.Lock()
	s.errMsg = errMsg
	s.mu.Unlock()
	return errMsg
}

func (s *Store) fallback(f domain.SearchFilters) []domain.Product {
	if s.known.Len() == 0 {
		return s.Products()
	}
	return Apply(s.known.Products(), f)
}
