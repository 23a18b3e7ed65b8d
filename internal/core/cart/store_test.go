package cart_test

import (
	"strconv"
	"testing"

	"github.com/niksmo/petshop-storefront/internal/core/cart"
	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	food = domain.Product{
		ID: 1, Name: "미니 어덜트 8kg", Brand: "로얄캐닌", Price: 89900, Image: "🥘",
	}
	treat = domain.Product{
		ID: 2, Name: "오리지널 티니", Brand: "그리니즈", Price: 24900, Image: "🦴",
	}
)

func seqIDs() cart.IDGenerator {
	n := 0
	return func() string {
		n++
		return "line-" + strconv.Itoa(n)
	}
}

func recompute(items []domain.CartItem) (count, total int) {
	for _, it := range items {
		count += it.Quantity
		total += it.Price * it.Quantity
	}
	return
}

func assertAggregates(t *testing.T, s *cart.Store) {
	t.Helper()
	count, total := recompute(s.Items())
	assert.Equal(t, count, s.Count())
	assert.Equal(t, total, s.TotalPrice())
}

func TestAddItem(t *testing.T) {
	t.Run("NewLine", func(t *testing.T) {
		s := cart.NewStore()
		beforeCount, beforeTotal := s.Count(), s.TotalPrice()

		item := s.AddItem(food)

		assert.Equal(t, beforeCount+1, s.Count())
		assert.Equal(t, beforeTotal+food.Price, s.TotalPrice())
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, food.ID, item.ProductID)
		assert.Equal(t, food.Name, item.Name)
		assert.Equal(t, food.Brand, item.Brand)
		assert.Equal(t, food.Image, item.Image)
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("SameProductTwice", func(t *testing.T) {
		s := cart.NewStore()
		s.AddItem(food)
		s.AddItem(food)

		items := s.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assertAggregates(t, s)
	})

	t.Run("FirstPriceWins", func(t *testing.T) {
		s := cart.NewStore()
		s.AddItem(food)

		repriced := food
		repriced.Price = 1
		repriced.Name = "renamed"
		s.AddItem(repriced)

		item, ok := s.ItemByProductID(food.ID)
		require.True(t, ok)
		assert.Equal(t, food.Price, item.Price)
		assert.Equal(t, food.Name, item.Name)
		assert.Equal(t, 2*food.Price, s.TotalPrice())
	})

	t.Run("UniqueLineIDs", func(t *testing.T) {
		s := cart.NewStore()
		seen := make(map[string]struct{})
		for i := 1; i <= 50; i++ {
			item := s.AddItem(domain.Product{ID: i, Price: i})
			_, dup := seen[item.ID]
			require.False(t, dup)
			seen[item.ID] = struct{}{}
		}
	})
}

func TestRemoveItem(t *testing.T) {
	s := cart.NewStore(cart.IDGeneratorOpt(seqIDs()))
	s.AddItem(food)
	s.AddItem(treat)

	s.RemoveItem("line-1")
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, treat.ID, items[0].ProductID)

	s.RemoveItem("missing")
	assert.Len(t, s.Items(), 1)
	assertAggregates(t, s)
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("SetsQuantity", func(t *testing.T) {
		s := cart.NewStore(cart.IDGeneratorOpt(seqIDs()))
		s.AddItem(treat)
		s.UpdateQuantity("line-1", 5)

		item, ok := s.Item("line-1")
		require.True(t, ok)
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, 5*treat.Price, s.TotalPrice())
	})

	t.Run("ZeroAndNegativeRemove", func(t *testing.T) {
		for _, q := range []int{0, -5} {
			s := cart.NewStore(cart.IDGeneratorOpt(seqIDs()))
			s.AddItem(food)
			s.UpdateQuantity("line-1", q)
			assert.Empty(t, s.Items())
			assert.Zero(t, s.Count())
		}
	})

	t.Run("UnknownIDIsNoop", func(t *testing.T) {
		s := cart.NewStore(cart.IDGeneratorOpt(seqIDs()))
		s.AddItem(food)
		s.UpdateQuantity("missing", 3)
		s.UpdateQuantity("missing", 0)
		assert.Equal(t, 1, s.Count())
	})
}

func TestClear(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(food)
	s.AddItem(treat)
	s.AddItem(treat)

	s.Clear()
	assert.Zero(t, s.Count())
	assert.Zero(t, s.TotalPrice())
	assert.Empty(t, s.Items())
}

func TestItemsIsReadOnlyView(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(food)

	items := s.Items()
	items[0].Quantity = 100

	assert.Equal(t, 1, s.Count())
}

func TestAggregatesMatchRecomputation(t *testing.T) {
	s := cart.NewStore(cart.IDGeneratorOpt(seqIDs()))
	steps := []func(){
		func() { s.AddItem(food) },
		func() { s.AddItem(treat) },
		func() { s.AddItem(food) },
		func() { s.UpdateQuantity("line-2", 7) },
		func() { s.RemoveItem("line-1") },
		func() { s.UpdateQuantity("line-2", -1) },
		func() { s.AddItem(treat) },
		func() { s.Clear() },
	}
	for _, step := range steps {
		step()
		assertAggregates(t, s)
	}
}

func TestSnapshot(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(food)
	s.AddItem(treat)
	s.AddItem(treat)

	snap := s.Snapshot("session-1")
	assert.Equal(t, "session-1", snap.SessionID)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 3, snap.Count)
	assert.Equal(t, food.Price+2*treat.Price, snap.TotalPrice)
}
