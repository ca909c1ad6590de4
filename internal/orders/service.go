// Package orders owns order creation and the client-visible status
// transitions (cancel, refund). Creation prices the cart, consumes the coupon
// and emits an inbox notification; everything else about fulfilment is
// backend-driven.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trendmart/storefront/internal/checkout"
	"github.com/trendmart/storefront/internal/models"
	"github.com/trendmart/storefront/internal/pricing"
	"github.com/trendmart/storefront/internal/repository"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrCannotCancel = errors.New("order cannot be cancelled in its current status")
	ErrCannotRefund = errors.New("only delivered orders can be refunded")
)

type Repo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.OrderSummary, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}

type CouponService interface {
	Verify(ctx context.Context, code string, items []models.CartItem) (models.CartTotals, *models.Coupon, error)
	Redeem(ctx context.Context, userID, code string) error
}

type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type Service struct {
	repo       Repo
	coupons    CouponService
	notifier   Notifier
	gatewayURL string
	returnURL  string
	log        *zap.Logger
}

func NewService(repo Repo, couponSvc CouponService, notifier Notifier, gatewayURL, returnURL string, log *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		coupons:    couponSvc,
		notifier:   notifier,
		gatewayURL: gatewayURL,
		returnURL:  returnURL,
		log:        log,
	}
}

type CreateInput struct {
	UserID        string
	Items         []models.CartItem
	Delivery      models.DeliveryInfo
	PaymentMethod models.PaymentMethod
	CouponCode    string
}

// Create prices the items, consumes the coupon if one is attached, persists
// the order and notifies the user. Exactly one order is created per call.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var (
		totals models.CartTotals
		coupon *models.Coupon
		err    error
	)
	if in.CouponCode != "" {
		totals, coupon, err = s.coupons.Verify(ctx, in.CouponCode, in.Items)
		if err != nil {
			return nil, fmt.Errorf("verify coupon: %w", err)
		}
	} else {
		totals = pricing.Totals(in.Items, nil)
	}

	now := time.Now()
	order := &models.Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Status:        models.OrderStatusPending,
		PaymentMethod: in.PaymentMethod,
		Delivery:      in.Delivery,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}
	for _, it := range in.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The usage slot is consumed only once the order exists; a failed insert
	// must not burn the coupon. If redemption itself fails the order is
	// released, so the discount is never granted without a consumed slot.
	if in.CouponCode != "" {
		if err := s.coupons.Redeem(ctx, in.UserID, in.CouponCode); err != nil {
			if cancelErr := s.repo.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled); cancelErr != nil {
				s.log.Error("releasing order after failed redemption",
					zap.String("orderId", order.ID), zap.Error(cancelErr))
			}
			return nil, fmt.Errorf("redeem coupon: %w", err)
		}
	}

	s.notifyStatus(ctx, order, "Your order has been placed")
	return order, nil
}

// CreateFromPending implements checkout.OrderCreator for post-payment
// finalization.
func (s *Service) CreateFromPending(ctx context.Context, userID string, pending checkout.PendingOrder) (*models.Order, error) {
	return s.Create(ctx, CreateInput{
		UserID:        userID,
		Items:         pending.Items,
		Delivery:      pending.Delivery,
		PaymentMethod: pending.PaymentMethod,
		CouponCode:    pending.CouponCode,
	})
}

// Get returns the order when it belongs to the user; anything else reads as
// not found.
func (s *Service) Get(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]models.OrderSummary, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Cancel moves a pending or processing order to cancelled.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return s.transition(ctx, userID, orderID, models.OrderStatusCancelled,
		"Your order has been cancelled")
}

// Refund moves a delivered order to refunded.
func (s *Service) Refund(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return s.transition(ctx, userID, orderID, models.OrderStatusRefunded,
		"Your refund request has been recorded")
}

func (s *Service) transition(ctx context.Context, userID, orderID string, target models.OrderStatus, message string) (*models.Order, error) {
	order, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	switch target {
	case models.OrderStatusCancelled:
		if !order.CanCancel() {
			return nil, ErrCannotCancel
		}
	case models.OrderStatusRefunded:
		if !order.CanRefund() {
			return nil, ErrCannotRefund
		}
	}
	if err := s.repo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, err
	}
	order.Status = target
	s.notifyStatus(ctx, order, message)
	return order, nil
}

// PayRedirectURL builds the external gateway URL for an electronic payment.
// The gateway redirects back to returnURL with a response code parameter.
func (s *Service) PayRedirectURL(pending checkout.PendingOrder) string {
	totals := pricing.Totals(pending.Items, nil)
	q := url.Values{}
	q.Set("amount", totals.Total.StringFixed(2))
	q.Set("ref", uuid.NewString())
	q.Set("returnUrl", s.returnURL)
	return s.gatewayURL + "?" + q.Encode()
}

// Notification failures never fail the order operation.
func (s *Service) notifyStatus(ctx context.Context, order *models.Order, message string) {
	data, _ := json.Marshal(map[string]string{"orderId": order.ID, "status": string(order.Status)})
	err := s.notifier.Notify(ctx, &models.Notification{
		UserID:         order.UserID,
		Message:        message,
		Type:           models.NotificationOrder,
		AdditionalData: data,
	})
	if err != nil {
		s.log.Warn("order notification failed",
			zap.String("orderId", order.ID), zap.Error(err))
	}
}
