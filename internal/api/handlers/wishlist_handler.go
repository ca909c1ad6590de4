package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/trendmart/storefront/internal/api/middleware"
	"github.com/trendmart/storefront/internal/wishlist"
)

type WishlistHandler struct {
	wishlist *wishlist.Service
}

func NewWishlistHandler(wishlistSvc *wishlist.Service) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlistSvc}
}

type addWishlistRequest struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl"`
}

// List handles GET /wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": h.wishlist.List(middleware.UserID(r.Context())),
	})
}

// Add handles POST /wishlist
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addWishlistRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	items := h.wishlist.Add(middleware.UserID(r.Context()), wishlist.Item{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		ImageURL:  req.ImageURL,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Remove handles DELETE /wishlist/{productID}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlist.Remove(middleware.UserID(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "item_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}
