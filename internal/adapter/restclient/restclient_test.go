package restclient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/niksmo/petshop-storefront/internal/adapter/restclient"
	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, h http.Handler) restclient.Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := restclient.New(restclient.Config{
		BaseURL:     srv.URL + "/api",
		MaxAttempts: 3,
	})
	require.NoError(t, err)
	return p
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNew(t *testing.T) {
	_, err := restclient.New(restclient.Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestSearchProducts(t *testing.T) {
	t.Run("SendsDefaultsAndDecodes", func(t *testing.T) {
		bodies := make(chan map[string]string, 1)
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/products/search", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			bodies <- body

			writeJSON(t, w, map[string]any{
				"success": true,
				"data": []map[string]any{
					{"id": 1, "name": "사료", "brand": "로얄캐닌", "price": 89900,
						"originalPrice": 120000, "reviewCount": 1234,
						"category": "food", "inStock": true},
				},
			})
		}))

		ps, err := p.SearchProducts(t.Context(), domain.SearchFilters{Query: "로얄"})
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, 89900, ps[0].Price)
		require.NotNil(t, ps[0].OriginalPrice)
		assert.Equal(t, 120000, *ps[0].OriginalPrice)
		assert.True(t, ps[0].InStock)

		assert.Equal(t, map[string]string{
			"query":       "로얄",
			"category":    "",
			"sort":        "popular",
			"price_range": "all",
			"brand":       "all",
		}, <-bodies)
	})

	t.Run("UnsuccessfulEnvelope", func(t *testing.T) {
		var calls atomic.Int32
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(t, w, map[string]any{"success": false, "message": "maintenance"})
		}))

		_, err := p.SearchProducts(t.Context(), domain.SearchFilters{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
		assert.Contains(t, err.Error(), "maintenance")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		var calls atomic.Int32
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			writeJSON(t, w, map[string]any{"success": true, "data": []any{}})
		}))

		ps, err := p.SearchProducts(t.Context(), domain.SearchFilters{})
		require.NoError(t, err)
		assert.Empty(t, ps)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		_, err := p.SearchProducts(t.Context(), domain.SearchFilters{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestGetProductByID(t *testing.T) {
	p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/3" {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 3, "name": "터그 로프", "brand": "콩", "price": 12900},
		})
	}))

	v, err := p.GetProductByID(t.Context(), 3)
	require.NoError(t, err)
	assert.Equal(t, "콩", v.Brand)

	_, err = p.GetProductByID(t.Context(), 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListings(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.String())
		mu.Unlock()
		writeJSON(t, w, map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": 1}},
			"total":   1, "page": 1, "limit": 20,
		})
	}))

	_, err := p.ProductsByCategory(t.Context(), "toys", 0, 0)
	require.NoError(t, err)
	_, err = p.Bestsellers(t.Context(), 0)
	require.NoError(t, err)
	ps, err := p.NewArrivals(t.Context(), 5)
	require.NoError(t, err)
	assert.Len(t, ps, 1)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"/api/products/category/toys?limit=20&page=1",
		"/api/products/bestsellers?limit=10",
		"/api/products/new?limit=5",
	}, paths)
}
