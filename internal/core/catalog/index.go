package catalog

import (
	"cmp"
	"slices"
	"sync"

	"github.com/niksmo/petshop-storefront/internal/core/domain"
)

// Index is the set of every product seen from the provider, keyed by id.
// It is safe for concurrent use and may be shared by many stores.
type Index struct {
	mu   sync.RWMutex
	byID map[int]domain.Product
}

func NewIndex() *Index {
	return &Index{byID: make(map[int]domain.Product)}
}

// Remember adds or replaces ps.
func (x *Index) Remember(ps ...domain.Product) {
	if len(ps) == 0 {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, p := range ps {
		x.byID[p.ID] = p
	}
}

func (x *Index) Get(id int) (domain.Product, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	p, ok := x.byID[id]
	return p, ok
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byID)
}

// Products returns the indexed products ordered by id.
func (x *Index) Products() []domain.Product {
	x.mu.RLock()
	ps := make([]domain.Product, 0, len(x.byID))
	for _, p := range x.byID {
		ps = append(ps, p)
	}
	x.mu.RUnlock()

	slices.SortFunc(ps, func(a, b domain.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return ps
}
