package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/petshop-storefront/internal/core/cart"
	"github.com/niksmo/petshop-storefront/internal/core/catalog"
	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/niksmo/petshop-storefront/internal/core/port"
)

const (
	DefaultSessionTTL = 30 * time.Minute

	listingFailedMsg = "failed to fetch products"
)

var (
	_ port.CatalogSearcher = (*Service)(nil)
	_ port.CatalogLister   = (*Service)(nil)
	_ port.ProductFinder   = (*Service)(nil)
	_ port.WishlistToggler = (*Service)(nil)
	_ port.CartEditor      = (*Service)(nil)
	_ port.CartReader      = (*Service)(nil)
)

type session struct {
	catalog  *catalog.Store
	cart     *cart.Store
	lastSeen time.Time
}

// Service composes a catalog store and a cart store per session.
//
// A session is created by its first mutation: adding to the cart or
// toggling the wishlist. Reads of an unknown session see an empty cart and
// wishlist and leave no state behind. Sessions idle longer than the TTL
// are removed by [Service.EvictIdle].
//
// Every store shares one product index, so a fallback during a provider
// outage can use products seen by any session.
//
// Event publishing is best effort: a failed publish is logged and never
// fails the cart or wishlist operation that triggered it.
type Service struct {
	provider port.DataProvider
	lister   port.ProductLister
	index    *catalog.Index
	cartEvts port.CartEventsProducer
	wishEvts port.WishlistEventsEmitter
	cartOpts []cart.Opt
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type Opt func(*Service)

func CartEventsOpt(p port.CartEventsProducer) Opt {
	return func(s *Service) { s.cartEvts = p }
}

func WishlistEventsOpt(e port.WishlistEventsEmitter) Opt {
	return func(s *Service) { s.wishEvts = e }
}

func CartStoreOpt(opts ...cart.Opt) Opt {
	return func(s *Service) { s.cartOpts = append(s.cartOpts, opts...) }
}

// SessionTTLOpt sets how long an untouched session is kept.
func SessionTTLOpt(ttl time.Duration) Opt {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func ClockOpt(now func() time.Time) Opt {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Service over provider. Listings use the provider's own
// endpoints when it implements [port.ProductLister].
func New(provider port.DataProvider, opts ...Opt) *Service {
	if provider == nil {
		panic("service.New: provider is nil") // develop mistake
	}
	s := &Service{
		provider: provider,
		index:    catalog.NewIndex(),
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
	if l, ok := provider.(port.ProductLister); ok {
		s.lister = l
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) newCatalog() *catalog.Store {
	return catalog.NewStore(s.provider, catalog.IndexOpt(s.index))
}

// session returns the session id, creating it when absent.
func (s *Service) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	ss, ok := s.sessions[id]
	if !ok {
		ss = &session{
			catalog: s.newCatalog(),
			cart:    cart.NewStore(s.cartOpts...),
		}
		s.sessions[id] = ss
		slog.Debug("session created", "op", "Service.session", "sessionID", id)
	}
	ss.lastSeen = s.now()
	return ss
}

func (s *Service) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ss, ok := s.sessions[id]
	if ok {
		ss.lastSeen = s.now()
	}
	return ss, ok
}

// catalogFor returns the session catalog, or a throwaway one sharing the
// product index when the session does not exist.
func (s *Service) catalogFor(id string) *catalog.Store {
	if ss, ok := s.lookup(id); ok {
		return ss.catalog
	}
	return s.newCatalog()
}

// Sessions is the number of live sessions.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle removes sessions not touched within the TTL and reports how
// many were removed.
func (s *Service) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-s.ttl)
	var n int
	for id, ss := range s.sessions {
		if ss.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// RunEviction calls [Service.EvictIdle] every interval until ctx is done.
func (s *Service) RunEviction(ctx context.Context, interval time.Duration) {
	const op = "Service.RunEviction"
	log := slog.With("op", op)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n != 0 {
				log.Info("idle sessions evicted", "nSessions", n, "left", s.Sessions())
			}
		}
	}
}

func (s *Service) Categories() []domain.Category {
	return domain.DefaultCategories()
}

// Search returns the matching products and the catalog error message,
// which is empty unless the result is a fallback.
func (s *Service) Search(
	ctx context.Context, sessionID string, f domain.SearchFilters,
) ([]domain.Product, string) {
	return s.catalogFor(sessionID).Search(ctx, f)
}

func (s *Service) ProductByID(
	ctx context.Context, sessionID string, id int,
) (domain.Product, bool) {
	return s.catalogFor(sessionID).ProductByID(ctx, id)
}

func (s *Service) CategoryPage(
	ctx context.Context, category string, page, limit int,
) ([]domain.Product, string) {
	local := func(ps []domain.Product) []domain.Product {
		return catalog.CategoryPage(ps, category, page, limit)
	}
	if s.lister == nil {
		return s.listing(ctx, "Service.CategoryPage", nil, local)
	}
	return s.listing(ctx, "Service.CategoryPage", func() ([]domain.Product, error) {
		return s.lister.ProductsByCategory(ctx, category, page, limit)
	}, local)
}

func (s *Service) Bestsellers(
	ctx context.Context, limit int,
) ([]domain.Product, string) {
	local := func(ps []domain.Product) []domain.Product {
		return catalog.Bestsellers(ps, limit)
	}
	if s.lister == nil {
		return s.listing(ctx, "Service.Bestsellers", nil, local)
	}
	return s.listing(ctx, "Service.Bestsellers", func() ([]domain.Product, error) {
		return s.lister.Bestsellers(ctx, limit)
	}, local)
}

func (s *Service) NewArrivals(
	ctx context.Context, limit int,
) ([]domain.Product, string) {
	local := func(ps []domain.Product) []domain.Product {
		return catalog.NewArrivals(ps, limit)
	}
	if s.lister == nil {
		return s.listing(ctx, "Service.NewArrivals", nil, local)
	}
	return s.listing(ctx, "Service.NewArrivals", func() ([]domain.Product, error) {
		return s.lister.NewArrivals(ctx, limit)
	}, local)
}

// listing runs fetch, or derives the listing from a full provider search
// when fetch is nil. On failure local is applied to the product index.
func (s *Service) listing(
	ctx context.Context,
	op string,
	fetch func() ([]domain.Product, error),
	local func([]domain.Product) []domain.Product,
) ([]domain.Product, string) {
	if fetch == nil {
		fetch = func() ([]domain.Product, error) {
			ps, err := s.provider.SearchProducts(ctx, domain.SearchFilters{})
			if err != nil {
				return nil, err
			}
			s.index.Remember(ps...)
			return local(ps), nil
		}
	}

	ps, err := fetch()
	if err != nil {
		slog.Error("fetch listing", "op", op, "err", err)
		return local(s.index.Products()), fmt.Sprintf("%s: %v", listingFailedMsg, err)
	}
	s.index.Remember(ps...)
	return ps, ""
}

func (s *Service) ToggleWishlist(
	ctx context.Context, sessionID string, productID int,
) bool {
	const op = "Service.ToggleWishlist"

	added := s.session(sessionID).catalog.ToggleWishlist(productID)
	if s.wishEvts != nil {
		evt := domain.WishlistEvent{
			SessionID: sessionID, ProductID: productID, Added: added,
		}
		if err := s.wishEvts.EmitWishlist(ctx, evt); err != nil {
			slog.Warn("failed to emit wishlist event", "op", op, "err", err)
		}
	}
	return added
}

func (s *Service) Wishlist(sessionID string) []int {
	ss, ok := s.lookup(sessionID)
	if !ok {
		return []int{}
	}
	return ss.catalog.Wishlist()
}

func (s *Service) AddToCart(
	ctx context.Context, sessionID string, productID int,
) (domain.CartItem, error) {
	const op = "Service.AddToCart"

	p, ok := s.catalogFor(sessionID).ProductByID(ctx, productID)
	if !ok {
		return domain.CartItem{}, fmt.Errorf(
			"%s: product %d: %w", op, productID, domain.ErrNotFound,
		)
	}

	c := s.session(sessionID).cart
	item := c.AddItem(p)
	s.publishCart(ctx, sessionID, c)
	return item, nil
}

// UpdateCartItem, RemoveCartItem and ClearCart are no-ops for an unknown
// session.
func (s *Service) UpdateCartItem(
	ctx context.Context, sessionID, itemID string, quantity int,
) {
	ss, ok := s.lookup(sessionID)
	if !ok {
		return
	}
	ss.cart.UpdateQuantity(itemID, quantity)
	s.publishCart(ctx, sessionID, ss.cart)
}

func (s *Service) RemoveCartItem(ctx context.Context, sessionID, itemID string) {
	ss, ok := s.lookup(sessionID)
	if !ok {
		return
	}
	ss.cart.RemoveItem(itemID)
	s.publishCart(ctx, sessionID, ss.cart)
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) {
	ss, ok := s.lookup(sessionID)
	if !ok {
		return
	}
	ss.cart.Clear()
	s.publishCart(ctx, sessionID, ss.cart)
}

func (s *Service) Cart(sessionID string) domain.CartSnapshot {
	ss, ok := s.lookup(sessionID)
	if !ok {
		return domain.CartSnapshot{SessionID: sessionID, Items: []domain.CartItem{}}
	}
	return ss.cart.Snapshot(sessionID)
}

func (s *Service) publishCart(ctx context.Context, sessionID string, c *cart.Store) {
	const op = "Service.publishCart"

	if s.cartEvts == nil {
		return
	}
	if err := s.cartEvts.ProduceCart(ctx, c.Snapshot(sessionID)); err != nil {
		slog.Warn("failed to produce cart snapshot", "op", op, "err", err)
	}
}
