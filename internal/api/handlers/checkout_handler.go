package handlers

import (
	"errors"
	"net/http"

	"github.com/trendmart/storefront/internal/api/middleware"
	"github.com/trendmart/storefront/internal/cart"
	"github.com/trendmart/storefront/internal/checkout"
	"github.com/trendmart/storefront/internal/models"
	"github.com/trendmart/storefront/internal/orders"
)

type CheckoutHandler struct {
	wizard    *checkout.Wizard
	finalizer *checkout.Finalizer
	cart      *cart.Service
	orders    *orders.Service
}

func NewCheckoutHandler(wizard *checkout.Wizard, finalizer *checkout.Finalizer, cartSvc *cart.Service, orderSvc *orders.Service) *CheckoutHandler {
	return &CheckoutHandler{wizard: wizard, finalizer: finalizer, cart: cartSvc, orders: orderSvc}
}

// Start handles POST /checkout. An empty cart cannot enter checkout.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if len(h.cart.Get(userID).Items) == 0 {
		writeError(w, http.StatusBadRequest, "cart_empty")
		return
	}
	writeJSON(w, http.StatusCreated, h.wizard.Start(userID))
}

// Get handles GET /checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.wizard.Get(middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusNotFound, "no_active_session")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// SubmitDelivery handles POST /checkout/delivery
func (h *CheckoutHandler) SubmitDelivery(w http.ResponseWriter, r *http.Request) {
	var info models.DeliveryInfo
	if err := decode(r, &info); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	s, fieldErrs, err := h.wizard.SubmitDelivery(middleware.UserID(r.Context()), info)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type submitPaymentRequest struct {
	Method     models.PaymentMethod `json:"method"`
	CouponCode string               `json:"couponCode,omitempty"`
}

// SubmitPayment handles POST /checkout/payment
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req submitPaymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	s, err := h.wizard.SubmitPayment(middleware.UserID(r.Context()), req.Method, req.CouponCode)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Back handles POST /checkout/back. Going back from the first step leaves
// checkout entirely; the response tells the client to return to the cart.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, exited, err := h.wizard.Back(middleware.UserID(r.Context()))
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	if exited {
		writeJSON(w, http.StatusOK, map[string]bool{"exited": true})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Confirm handles POST /checkout/confirm. Cash on delivery creates the order
// immediately; electronic payment parks the order and sends the caller to the
// gateway. The wizard session is closed only once the order is created or
// parked, so a failed submission leaves the user at the confirmation step
// instead of forcing the whole wizard again.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	s, err := h.wizard.Get(userID)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	if s.Step != checkout.StepConfirm {
		h.writeWizardError(w, checkout.ErrWrongStep)
		return
	}

	items := h.cart.Get(userID).Items
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "cart_empty")
		return
	}

	pending := checkout.PendingOrder{
		Items:         items,
		Delivery:      s.Delivery,
		PaymentMethod: s.PaymentMethod,
		CouponCode:    s.CouponCode,
	}

	if s.PaymentMethod == models.PaymentEpay {
		h.finalizer.Park(userID, pending)
		h.wizard.Abandon(userID)
		writeJSON(w, http.StatusOK, map[string]string{"redirectUrl": h.orders.PayRedirectURL(pending)})
		return
	}

	order, err := h.orders.Create(r.Context(), orders.CreateInput{
		UserID:        userID,
		Items:         pending.Items,
		Delivery:      pending.Delivery,
		PaymentMethod: pending.PaymentMethod,
		CouponCode:    pending.CouponCode,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "order_creation_failed")
		return
	}
	h.wizard.Abandon(userID)
	h.cart.Clear(userID)
	writeJSON(w, http.StatusCreated, order)
}

// PaymentReturn handles GET /checkout/return, the gateway's redirect target.
// Reloading the page replays the same query; the finalizer keeps the replay
// from creating a second order.
func (h *CheckoutHandler) PaymentReturn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	responseCode := r.URL.Query().Get("responseCode")

	result, err := h.finalizer.Finalize(r.Context(), userID, responseCode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "order_creation_failed")
		return
	}
	if result.Outcome == checkout.OutcomeCreated {
		h.cart.Clear(userID)
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) writeWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrNoSession):
		writeError(w, http.StatusNotFound, "no_active_session")
	case errors.Is(err, checkout.ErrWrongStep):
		writeError(w, http.StatusConflict, "wrong_step")
	case errors.Is(err, checkout.ErrBadPayment):
		writeError(w, http.StatusBadRequest, "unsupported_payment_method")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
