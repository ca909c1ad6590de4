package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/trendmart/storefront/internal/api/middleware"
	"github.com/trendmart/storefront/internal/cart"
	"github.com/trendmart/storefront/internal/models"
	"github.com/trendmart/storefront/internal/pricing"
)

type CartHandler struct {
	cart *cart.Service
}

func NewCartHandler(cartSvc *cart.Service) *CartHandler {
	return &CartHandler{cart: cartSvc}
}

type addItemRequest struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl"`
	Quantity  int             `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Cart   models.Cart       `json:"cart"`
	Totals models.CartTotals `json:"totals"`
}

func (h *CartHandler) respond(w http.ResponseWriter, c models.Cart) {
	writeJSON(w, http.StatusOK, cartResponse{Cart: c, Totals: pricing.Totals(c.Items, nil)})
}

// Get handles GET /cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.cart.Get(middleware.UserID(r.Context())))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	c, err := h.cart.Add(middleware.UserID(r.Context()), models.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		ImageURL:  req.ImageURL,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, c)
}

// UpdateItem handles PUT /cart/items/{productID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	c, err := h.cart.UpdateQuantity(middleware.UserID(r.Context()), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "item_not_found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w, c)
}

// RemoveItem handles DELETE /cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.cart.Remove(middleware.UserID(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "item_not_found")
		return
	}
	h.respond(w, c)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	h.cart.Clear(userID)
	h.respond(w, h.cart.Get(userID))
}
