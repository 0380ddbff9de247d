package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

// GET v1/products (200 OK)
// GET v1/products/search?query=q (200 OK, empty list for an empty query)
// GET v1/products/{slug} (200 OK, 404 Not found)
// GET v1/products/{id}/sales (200 OK, 404 Not found, 503 Service unavailable)
// GET v1/categories (200 OK)
// GET v1/categories/select?query=q (200 OK, 404 Not found)
// GET v1/categories/{slug}/products (200 OK)
// GET v1/sales/active?coupon=CODE (200 OK, 400 Bad request, 404 Not found)

type CatalogHandler struct {
	catalog port.Catalog
	sales   port.Sales
}

func RegisterCatalog(mux *http.ServeMux, catalog port.Catalog, sales port.Sales) {
	h := CatalogHandler{catalog, sales}
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/search", h.SearchProducts)
	mux.HandleFunc("GET /v1/products/{slug}", h.ProductBySlug)
	mux.HandleFunc("GET /v1/products/{id}/sales", h.ProductSales)
	mux.HandleFunc("GET /v1/categories", h.ListCategories)
	mux.HandleFunc("GET /v1/categories/select", h.SelectCategory)
	mux.HandleFunc("GET /v1/categories/{slug}/products", h.ProductsByCategory)
	mux.HandleFunc("GET /v1/sales/active", h.ActiveSale)
}

func (h CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ListProducts"
	log := slog.With("op", op)

	ps, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, fromProducts(ps))
}

func (h CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.SearchProducts"
	log := slog.With("op", op)

	query := r.URL.Query().Get("query")
	ps, err := h.catalog.SearchProducts(r.Context(), query)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResult{Query: query, Products: fromProducts(ps)})
}

func (h CatalogHandler) ProductBySlug(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ProductBySlug"
	log := slog.With("op", op)

	p, err := h.catalog.ProductBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, fromProduct(p))
}

func (h CatalogHandler) ProductSales(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ProductSales"
	log := slog.With("op", op)

	productID := r.PathValue("id")
	n, err := h.catalog.ProductSales(r.Context(), productID)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductSales{ProductID: productID, SoldUnits: n})
}

func (h CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ListCategories"
	log := slog.With("op", op)

	cs, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, fromCategories(cs))
}

func (h CatalogHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.SelectCategory"
	log := slog.With("op", op)

	c, err := h.catalog.SelectCategory(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, CategorySelection{
		Category: fromCategory(c),
		Redirect: c.Path(),
	})
}

func (h CatalogHandler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ProductsByCategory"
	log := slog.With("op", op)

	ps, err := h.catalog.ProductsByCategory(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, fromProducts(ps))
}

func (h CatalogHandler) ActiveSale(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ActiveSale"
	log := slog.With("op", op)

	s, err := h.sales.ActiveSale(r.Context(), r.URL.Query().Get("coupon"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, fromSale(s))
}
