package httphandler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/petshop-storefront/internal/adapter/httphandler"
	"github.com/niksmo/petshop-storefront/internal/adapter/mockdata"
	"github.com/niksmo/petshop-storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sid = "session-1"

func newHandler() http.Handler {
	svc := service.New(mockdata.New())
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, svc, svc, svc, svc)
	httphandler.RegisterCart(mux, svc, svc)
	return httphandler.Session(httphandler.AllowJSON(mux))
}

func serve(
	t *testing.T, h http.Handler, method, target, body string,
) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rd)
	r.Header.Set(httphandler.SessionHeader, sid)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestSessionMiddleware(t *testing.T) {
	h := newHandler()

	t.Run("EchoesProvidedID", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/v1/cart", "")
		assert.Equal(t, sid, w.Header().Get(httphandler.SessionHeader))
	})

	t.Run("GeneratesWhenAbsent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, w.Header().Get(httphandler.SessionHeader), 36)
	})
}

func TestAllowJSON(t *testing.T) {
	h := newHandler()
	r := httptest.NewRequest(
		http.MethodPost, "/v1/cart/items", strings.NewReader(`{"product_id":1}`),
	)
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestGetCategories(t *testing.T) {
	w := serve(t, newHandler(), http.MethodGet, "/v1/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode[httphandler.Envelope[[]httphandler.Category]](t, w)
	assert.True(t, env.Success)
	assert.Equal(t, 10, env.Total)
	assert.Equal(t, "food", env.Data[0].ID)
}

func TestGetProducts(t *testing.T) {
	h := newHandler()

	t.Run("CategoryFilter", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/v1/products?category=toys", "")
		require.Equal(t, http.StatusOK, w.Code)

		env := decode[httphandler.Envelope[[]httphandler.Product]](t, w)
		assert.True(t, env.Success)
		assert.Empty(t, env.Message)
		require.Len(t, env.Data, 1)
		assert.Equal(t, 3, env.Data[0].ID)
	})

	t.Run("SortPriceLow", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/v1/products?sort=price_low", "")
		env := decode[httphandler.Envelope[[]httphandler.Product]](t, w)

		var prices []int
		for _, p := range env.Data {
			prices = append(prices, p.Price)
		}
		assert.Equal(t, []int{12900, 24900, 45900, 89900}, prices)
	})

	t.Run("MarksWishlisted", func(t *testing.T) {
		serve(t, h, http.MethodPost, "/v1/wishlist/2", "")
		w := serve(t, h, http.MethodGet, "/v1/products?query=%EA%B7%B8%EB%A6%AC%EB%8B%88%EC%A6%88", "")
		env := decode[httphandler.Envelope[[]httphandler.Product]](t, w)
		require.Len(t, env.Data, 1)
		assert.True(t, env.Data[0].InWishlist)
	})
}

func TestListings(t *testing.T) {
	h := newHandler()

	productIDs := func(w *httptest.ResponseRecorder) []int {
		env := decode[httphandler.Envelope[[]httphandler.Product]](t, w)
		assert.True(t, env.Success)
		ids := make([]int, len(env.Data))
		for i, p := range env.Data {
			ids[i] = p.ID
		}
		return ids
	}

	t.Run("Bestsellers", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/v1/products/bestsellers?limit=2", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int{1, 2}, productIDs(w))
	})

	t.Run("NewArrivals", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/v1/products/new", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int{4, 3, 2, 1}, productIDs(w))
	})

	t.Run("CategoryPage", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/v1/categories/treats/products?page=1&limit=5", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int{2}, productIDs(w))

		w = serve(t, h, http.MethodGet, "/v1/categories/treats/products?page=2", "")
		assert.Empty(t, productIDs(w))
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/v1/categories/aquarium/products", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadLimit", func(t *testing.T) {
		w := serve(t, h, http.MethodGet, "/v1/products/bestsellers?limit=-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetProduct(t *testing.T) {
	h := newHandler()

	w := serve(t, h, http.MethodGet, "/v1/products/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[httphandler.Product](t, w)
	assert.Equal(t, "로얄캐닌", p.Brand)
	require.NotNil(t, p.OriginalPrice)

	w = serve(t, h, http.MethodGet, "/v1/products/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, h, http.MethodGet, "/v1/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWishlist(t *testing.T) {
	h := newHandler()

	w := serve(t, h, http.MethodPost, "/v1/wishlist/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[httphandler.WishlistToggle](t, w).InWishlist)

	w = serve(t, h, http.MethodGet, "/v1/wishlist", "")
	assert.Equal(t, []int{3}, decode[httphandler.Wishlist](t, w).ProductIDs)

	w = serve(t, h, http.MethodPost, "/v1/wishlist/3", "")
	assert.False(t, decode[httphandler.WishlistToggle](t, w).InWishlist)

	w = serve(t, h, http.MethodGet, "/v1/wishlist", "")
	assert.Empty(t, decode[httphandler.Wishlist](t, w).ProductIDs)
}

func TestCart(t *testing.T) {
	h := newHandler()

	w := serve(t, h, http.MethodPost, "/v1/cart/items", `{"product_id":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[httphandler.CartItem](t, w)
	assert.Equal(t, 1, item.Quantity)

	serve(t, h, http.MethodPost, "/v1/cart/items", `{"product_id":2}`)
	serve(t, h, http.MethodPost, "/v1/cart/items", `{"product_id":3}`)

	w = serve(t, h, http.MethodGet, "/v1/cart", "")
	c := decode[httphandler.Cart](t, w)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Count)
	assert.Equal(t, 2*24900+12900, c.TotalPrice)

	w = serve(t, h, http.MethodPut, "/v1/cart/items/"+item.ID, `{"quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	c = decode[httphandler.Cart](t, w)
	assert.Equal(t, 6, c.Count)

	w = serve(t, h, http.MethodPut, "/v1/cart/items/"+item.ID, `{"quantity":0}`)
	c = decode[httphandler.Cart](t, w)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].ProductID)

	w = serve(t, h, http.MethodDelete, "/v1/cart/items/"+c.Items[0].ID, "")
	c = decode[httphandler.Cart](t, w)
	assert.Empty(t, c.Items)

	serve(t, h, http.MethodPost, "/v1/cart/items", `{"product_id":1}`)
	w = serve(t, h, http.MethodDelete, "/v1/cart", "")
	c = decode[httphandler.Cart](t, w)
	assert.Zero(t, c.Count)
	assert.Zero(t, c.TotalPrice)
}

func TestCartErrors(t *testing.T) {
	h := newHandler()

	cases := []struct {
		name, method, target, body string
		want                       int
	}{
		{"UnknownProduct", http.MethodPost, "/v1/cart/items", `{"product_id":999}`, http.StatusNotFound},
		{"ZeroProduct", http.MethodPost, "/v1/cart/items", `{"product_id":0}`, http.StatusBadRequest},
		{"BadJSON", http.MethodPost, "/v1/cart/items", `{`, http.StatusBadRequest},
		{"MissingQuantity", http.MethodPut, "/v1/cart/items/x", `{}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(t, h, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHandler()
	serve(t, h, http.MethodPost, "/v1/cart/items", `{"product_id":1}`)

	r := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	r.Header.Set(httphandler.SessionHeader, "other")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Zero(t, decode[httphandler.Cart](t, w).Count)
}
