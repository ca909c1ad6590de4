package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trendmart/storefront/internal/api/middleware"
	"github.com/trendmart/storefront/internal/orders"
	"github.com/trendmart/storefront/internal/repository"
)

type OrderHandler struct {
	orders *orders.Service
}

func NewOrderHandler(orderSvc *orders.Service) *OrderHandler {
	return &OrderHandler{orders: orderSvc}
}

// List handles GET /orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.orders.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": summaries})
}

// Get handles GET /orders/{orderID}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /orders/{orderID}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Cancel(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Refund handles POST /orders/{orderID}/refund
func (h *OrderHandler) Refund(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Refund(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found")
	case errors.Is(err, orders.ErrCannotCancel):
		writeError(w, http.StatusConflict, "cannot_cancel")
	case errors.Is(err, orders.ErrCannotRefund):
		writeError(w, http.StatusConflict, "cannot_refund")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
