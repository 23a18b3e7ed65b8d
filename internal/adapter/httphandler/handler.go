package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/niksmo/petshop-storefront/internal/core/port"
)

// GET v1/categories (200 OK)
// GET v1/products?query=&category=&sort=&price_range=&brand= (200 OK)
// GET v1/products/{id} (200 OK, 400 Bad request, 404 Not found)
// GET v1/products/bestsellers?limit= (200 OK, 400 Bad request)
// GET v1/products/new?limit= (200 OK, 400 Bad request)
// GET v1/categories/{id}/products?page=&limit= (200 OK, 400 Bad request, 404 Not found)
// POST v1/wishlist/{id} (200 OK, 400 Bad request)
// GET v1/wishlist (200 OK)

type CatalogHandler struct {
	searcher port.CatalogSearcher
	lister   port.CatalogLister
	finder   port.ProductFinder
	wishlist port.WishlistToggler
}

func RegisterCatalog(
	mux *http.ServeMux,
	searcher port.CatalogSearcher,
	lister port.CatalogLister,
	finder port.ProductFinder,
	wishlist port.WishlistToggler,
) {
	h := CatalogHandler{searcher, lister, finder, wishlist}
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
	mux.HandleFunc("GET /v1/categories/{id}/products", h.GetCategoryProducts)
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/bestsellers", h.GetBestsellers)
	mux.HandleFunc("GET /v1/products/new", h.GetNewArrivals)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /v1/wishlist/{id}", h.PostWishlist)
	mux.HandleFunc("GET /v1/wishlist", h.GetWishlist)
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategories"
	cs := fromDomainCategories(h.searcher.Categories())
	writeJSON(w, http.StatusOK, Envelope[[]Category]{
		Success: true, Data: cs, Total: len(cs),
	}, op)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	sid := sessionID(r)
	q := r.URL.Query()
	f := domain.SearchFilters{
		Query:      q.Get("query"),
		Category:   q.Get("category"),
		Sort:       domain.SortOrder(q.Get("sort")),
		PriceRange: domain.PriceRange(q.Get("price_range")),
		Brand:      q.Get("brand"),
	}

	ps, errMsg := h.searcher.Search(r.Context(), sid, f)
	if errMsg != "" {
		log.Warn("serving fallback products", "sessionID", sid, "err", errMsg)
	}
	h.writeProducts(w, sid, ps, errMsg, op)
}

func (h CatalogHandler) GetCategoryProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategoryProducts"

	category := r.PathValue("id")
	if !domain.IsCategory(category) {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	ps, errMsg := h.lister.CategoryPage(r.Context(), category, page, limit)
	h.writeProducts(w, sessionID(r), ps, errMsg, op)
}

func (h CatalogHandler) GetBestsellers(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetBestsellers"

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	ps, errMsg := h.lister.Bestsellers(r.Context(), limit)
	h.writeProducts(w, sessionID(r), ps, errMsg, op)
}

func (h CatalogHandler) GetNewArrivals(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetNewArrivals"

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	ps, errMsg := h.lister.NewArrivals(r.Context(), limit)
	h.writeProducts(w, sessionID(r), ps, errMsg, op)
}

func (h CatalogHandler) writeProducts(
	w http.ResponseWriter, sid string, ps []domain.Product, errMsg, op string,
) {
	wished := h.wishedSet(sid)
	data := make([]Product, len(ps))
	for i, p := range ps {
		_, in := wished[p.ID]
		data[i] = fromDomainProduct(p, in)
	}

	writeJSON(w, http.StatusOK, Envelope[[]Product]{
		Success: errMsg == "",
		Data:    data,
		Message: errMsg,
		Total:   len(data),
	}, op)
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sid := sessionID(r)
	p, ok := h.finder.ProductByID(r.Context(), sid, id)
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	_, in := h.wishedSet(sid)[p.ID]
	writeJSON(w, http.StatusOK, fromDomainProduct(p, in), op)
}

func (h CatalogHandler) PostWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostWishlist"

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	added := h.wishlist.ToggleWishlist(r.Context(), sessionID(r), id)
	writeJSON(w, http.StatusOK, WishlistToggle{
		ProductID: id, InWishlist: added,
	}, op)
}

func (h CatalogHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetWishlist"
	ids := h.wishlist.Wishlist(sessionID(r))
	if ids == nil {
		ids = []int{}
	}
	writeJSON(w, http.StatusOK, Wishlist{ProductIDs: ids}, op)
}

func (h CatalogHandler) wishedSet(sid string) map[int]struct{} {
	ids := h.wishlist.Wishlist(sid)
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// GET v1/cart (200 OK)
// POST v1/cart/items JSON {"product_id" int} (201 Created, 400 Bad request, 404 Not found)
// PUT v1/cart/items/{id} JSON {"quantity" int} (200 OK, 400 Bad request)
// DELETE v1/cart/items/{id} (200 OK)
// DELETE v1/cart (200 OK)

type CartHandler struct {
	editor port.CartEditor
	reader port.CartReader
}

func RegisterCart(
	mux *http.ServeMux, editor port.CartEditor, reader port.CartReader,
) {
	h := CartHandler{editor, reader}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PUT /v1/cart/items/{id}", h.PutItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	writeJSON(w, http.StatusOK, fromDomainCart(h.reader.Cart(sessionID(r))), op)
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.ProductID <= 0 {
		http.Error(w, "invalid product_id", http.StatusBadRequest)
		return
	}

	sid := sessionID(r)
	item, err := h.editor.AddToCart(r.Context(), sid, req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to add item", http.StatusServiceUnavailable)
		log.Error("failed to add item", "err", err)
		return
	}

	log.Info("item added",
		"sessionID", sid, "productID", item.ProductID, "quantity", item.Quantity,
	)
	writeJSON(w, http.StatusCreated, fromDomainCartItem(item), op)
}

func (h CartHandler) PutItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PutItem"
	log := slog.With("op", op)

	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.Quantity == nil {
		http.Error(w, "quantity is required", http.StatusBadRequest)
		return
	}

	sid := sessionID(r)
	h.editor.UpdateCartItem(r.Context(), sid, r.PathValue("id"), *req.Quantity)
	writeJSON(w, http.StatusOK, fromDomainCart(h.reader.Cart(sid)), op)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	sid := sessionID(r)
	h.editor.RemoveCartItem(r.Context(), sid, r.PathValue("id"))
	writeJSON(w, http.StatusOK, fromDomainCart(h.reader.Cart(sid)), op)
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"
	sid := sessionID(r)
	h.editor.ClearCart(r.Context(), sid)
	writeJSON(w, http.StatusOK, fromDomainCart(h.reader.Cart(sid)), op)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional non-negative integer query parameter. An
// absent parameter is 0.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any, op string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
