package cart

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/niksmo/petshop-storefront/internal/core/domain"
)

// IDGenerator returns a new cart line id.
type IDGenerator func() string

type Opt func(*Store)

// IDGeneratorOpt replaces the default uuid based line id generator.
func IDGeneratorOpt(gen IDGenerator) Opt {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Store is the in-session cart. Unknown line ids are ignored by every
// mutation.
type Store struct {
	mu    sync.RWMutex
	items []domain.CartItem
	newID IDGenerator
}

func NewStore(opts ...Opt) *Store {
	s := &Store{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddItem adds one unit of p. An existing line for the same product keeps
// its original snapshot and gets its quantity incremented.
func (s *Store) AddItem(p domain.Product) domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexByProduct(p.ID); i >= 0 {
		s.items[i].Quantity++
		return s.items[i]
	}

	item := domain.CartItem{
		ID:        s.newID(),
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  1,
	}
	s.items = append(s.items, item)
	return item
}

func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(id)
}

// UpdateQuantity sets the quantity of line id. A quantity <= 0 removes the
// line.
func (s *Store) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.remove(id)
		return
	}
	s.items[i].Quantity = quantity
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *Store) Item(id string) (domain.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return domain.CartItem{}, false
}

func (s *Store) ItemByProductID(productID int) (domain.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByProduct(productID); i >= 0 {
		return s.items[i], true
	}
	return domain.CartItem{}, false
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Count is the sum of all line quantities.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.items)
}

// TotalPrice is the sum of price*quantity over all lines.
func (s *Store) TotalPrice() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.items)
}

// Snapshot returns the lines and aggregates read under a single lock.
func (s *Store) Snapshot(sessionID string) domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CartSnapshot{
		SessionID:  sessionID,
		Items:      slices.Clone(s.items),
		Count:      count(s.items),
		TotalPrice: totalPrice(s.items),
	}
}

func (s *Store) remove(id string) {
	if i := s.index(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it domain.CartItem) bool {
		return it.ID == id
	})
}

func (s *Store) indexByProduct(productID int) int {
	return slices.IndexFunc(s.items, func(it domain.CartItem) bool {
		return it.ProductID == productID
	})
}

func count(items []domain.CartItem) (n int) {
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalPrice(items []domain.CartItem) (sum int) {
	for _, it := range items {
		sum += it.Price * it.Quantity
	}
	return sum
}
