package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trendmart/storefront/internal/api/middleware"
	"github.com/trendmart/storefront/internal/cart"
	"github.com/trendmart/storefront/internal/coupons"
	"github.com/trendmart/storefront/internal/models"
	"github.com/trendmart/storefront/internal/repository"
)

type CouponHandler struct {
	coupons    *coupons.Service
	cart       *cart.Service
	couponRepo *repository.CouponRepo
}

func NewCouponHandler(couponSvc *coupons.Service, cartSvc *cart.Service, couponRepo *repository.CouponRepo) *CouponHandler {
	return &CouponHandler{coupons: couponSvc, cart: cartSvc, couponRepo: couponRepo}
}

type verifyCouponRequest struct {
	Code string `json:"code"`
}

type verifyCouponResponse struct {
	Valid  bool               `json:"valid"`
	Reason string             `json:"reason,omitempty"`
	Totals *models.CartTotals `json:"totals,omitempty"`
}

// Verify handles POST /coupons/verify. It checks the code against the
// caller's current cart without consuming a usage slot, so the checkout
// preview can call it repeatedly.
func (h *CouponHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyCouponRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}

	c := h.cart.Get(middleware.UserID(r.Context()))
	totals, _, err := h.coupons.Verify(r.Context(), req.Code, c.Items)
	if err != nil {
		if reason, ok := verifyFailureReason(err); ok {
			writeJSON(w, http.StatusOK, verifyCouponResponse{Valid: false, Reason: reason})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, verifyCouponResponse{Valid: true, Totals: &totals})
}

func verifyFailureReason(err error) (string, bool) {
	switch {
	case errors.Is(err, coupons.ErrNotFound):
		return "coupon_not_found", true
	case errors.Is(err, coupons.ErrExpired):
		return "coupon_expired", true
	case errors.Is(err, coupons.ErrMinPurchase):
		return "minimum_purchase_not_met", true
	case errors.Is(err, coupons.ErrUsageLimit):
		return "usage_limit_reached", true
	}
	return "", false
}

type createCouponRequest struct {
	Code              string          `json:"code"`
	DiscountType      string          `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MinPurchaseAmount decimal.Decimal `json:"min_purchase_amount"`
	MaxUsagePerUser   int             `json:"max_usage_per_user"`
	ExpiryDate        string          `json:"expiry_date"` // RFC3339
}

// Create handles POST /admin/coupons
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Code == "" || req.DiscountValue.LessThanOrEqual(decimal.Zero) {
		writeError(w, http.StatusBadRequest, "code and positive discount_value required")
		return
	}
	dt := models.DiscountType(req.DiscountType)
	if dt != models.DiscountPercentage && dt != models.DiscountFixed {
		writeError(w, http.StatusBadRequest, "discount_type must be PERCENTAGE or FIXED_AMOUNT")
		return
	}
	expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expiry_date; use RFC3339")
		return
	}

	id, err := h.couponRepo.Create(r.Context(), &models.Coupon{
		Code:              req.Code,
		DiscountType:      dt,
		DiscountValue:     req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxUsagePerUser:   req.MaxUsagePerUser,
		ExpiryDate:        expiry,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_create_coupon")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id, "code": req.Code})
}
