package mockdata_test

import (
	"context"
	"testing"

	"github.com/niksmo/petshop-storefront/internal/adapter/mockdata"
	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	p := mockdata.New()

	t.Run("SearchAll", func(t *testing.T) {
		ps, err := p.SearchProducts(t.Context(), domain.SearchFilters{})
		require.NoError(t, err)
		assert.Len(t, ps, 4)
	})

	t.Run("SearchByBrandSubstring", func(t *testing.T) {
		ps, err := p.SearchProducts(t.Context(), domain.SearchFilters{Query: "로얄"})
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, 1, ps[0].ID)
	})

	t.Run("GetByID", func(t *testing.T) {
		v, err := p.GetProductByID(t.Context(), 4)
		require.NoError(t, err)
		assert.Equal(t, "펫디아", v.Brand)
		require.NotNil(t, v.OriginalPrice)
		assert.Equal(t, 59000, *v.OriginalPrice)
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		_, err := p.GetProductByID(t.Context(), 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := p.SearchProducts(ctx, domain.SearchFilters{})
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})

	t.Run("Listings", func(t *testing.T) {
		ps, err := p.ProductsByCategory(t.Context(), "supplies", 1, 20)
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, 4, ps[0].ID)

		ps, err = p.Bestsellers(t.Context(), 2)
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.Equal(t, 1, ps[0].ID)

		ps, err = p.NewArrivals(t.Context(), 0)
		require.NoError(t, err)
		require.Len(t, ps, 4)
		assert.Equal(t, 4, ps[0].ID)
	})

	t.Run("EveryCategoryIsKnown", func(t *testing.T) {
		for _, v := range mockdata.Products() {
			assert.True(t, domain.IsCategory(v.Category), v.Category)
		}
	})
}
