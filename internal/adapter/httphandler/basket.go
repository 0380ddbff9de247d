package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

// GET v1/baskets/{id} (200 OK)
// POST v1/baskets/{id}/items JSON {"product_id"} (200 OK, 400, 404, 409)
// DELETE v1/baskets/{id}/items/{productID} (200 OK)
// DELETE v1/baskets/{id} (204 No content)
// POST v1/baskets/{id}/checkout JSON (201 Created, 400, 409, 502)

type BasketHandler struct {
	baskets  port.Baskets
	checkout port.Checkout
}

func RegisterBaskets(mux *http.ServeMux, baskets port.Baskets, checkout port.Checkout) {
	h := BasketHandler{baskets, checkout}
	mux.HandleFunc("GET /v1/baskets/{id}", h.GetBasket)
	mux.Handle("POST /v1/baskets/{id}/items", AllowJSON(http.HandlerFunc(h.AddItem)))
	mux.HandleFunc("DELETE /v1/baskets/{id}/items/{productID}", h.RemoveItem)
	mux.HandleFunc("DELETE /v1/baskets/{id}", h.ClearBasket)
	mux.Handle("POST /v1/baskets/{id}/checkout", AllowJSON(http.HandlerFunc(h.Checkout)))
}

func (h BasketHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	const op = "BasketHandler.GetBasket"
	log := slog.With("op", op)

	b, err := h.baskets.Basket(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, fromBasket(b))
}

func (h BasketHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "BasketHandler.AddItem"
	log := slog.With("op", op)

	var req AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, log, err)
		return
	}

	b, err := h.baskets.AddToBasket(r.Context(), r.PathValue("id"), req.ProductID)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, fromBasket(b))
}

func (h BasketHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "BasketHandler.RemoveItem"
	log := slog.With("op", op)

	b, err := h.baskets.RemoveFromBasket(
		r.Context(), r.PathValue("id"), r.PathValue("productID"),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, fromBasket(b))
}

func (h BasketHandler) ClearBasket(w http.ResponseWriter, r *http.Request) {
	const op = "BasketHandler.ClearBasket"
	log := slog.With("op", op)

	if err := h.baskets.ClearBasket(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h BasketHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "BasketHandler.Checkout"
	log := slog.With("op", op)

	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, log, err)
		return
	}

	s, err := h.checkout.Checkout(r.Context(), r.PathValue("id"), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("checkout session created", "basketID", r.PathValue("id"))
	writeJSON(w, http.StatusCreated, CheckoutSession{SessionID: s.SessionID, URL: s.URL})
}
