package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trendmart/storefront/internal/checkout"
	"github.com/trendmart/storefront/internal/models"
	"github.com/trendmart/storefront/internal/repository"
)

type stubRepo struct {
	orders    map[string]*models.Order
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: make(map[string]*models.Order)}
}

func (r *stubRepo) Create(_ context.Context, o *models.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *o
	r.orders[o.ID] = &copied
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *stubRepo) ListByUser(_ context.Context, userID string) ([]models.OrderSummary, error) {
	var out []models.OrderSummary
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, models.OrderSummary{ID: o.ID, Total: o.Total, Status: o.Status})
		}
	}
	return out, nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

type stubCoupons struct {
	coupon    *models.Coupon
	redeems   int
	redeemErr error
}

func (c *stubCoupons) Verify(_ context.Context, code string, items []models.CartItem) (models.CartTotals, *models.Coupon, error) {
	if c.coupon == nil || c.coupon.Code != code {
		return models.CartTotals{}, nil, errNoCoupon
	}
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	discount := c.coupon.DiscountValue
	return models.CartTotals{
		Subtotal:   subtotal,
		Discount:   discount,
		Total:      subtotal.Sub(discount),
		CouponCode: code,
	}, c.coupon, nil
}

var errNoCoupon = assert.AnError

func (c *stubCoupons) Redeem(_ context.Context, _, _ string) error {
	if c.redeemErr != nil {
		return c.redeemErr
	}
	c.redeems++
	return nil
}

type recordingNotifier struct {
	sent []models.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification *models.Notification) error {
	n.sent = append(n.sent, *notification)
	return nil
}

func newTestService() (*Service, *stubRepo, *stubCoupons, *recordingNotifier) {
	repo := newStubRepo()
	couponSvc := &stubCoupons{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, couponSvc, notifier,
		"https://pay.example.com/gateway", "https://shop.example.com/payment/return", zap.NewNop())
	return svc, repo, couponSvc, notifier
}

func cartItems() []models.CartItem {
	return []models.CartItem{
		{ProductID: "p1", Name: "Mug", Price: decimal.NewFromInt(10), Quantity: 2},
	}
}

func TestCreateOrder(t *testing.T) {
	svc, repo, _, notifier := newTestService()

	order, err := svc.Create(context.Background(), CreateInput{
		UserID:        "u1",
		Items:         cartItems(),
		Delivery:      models.DeliveryInfo{FullName: "Jane Doe", Phone: "0912345678", Address: "1 Main St"},
		PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(20).Equal(order.Total))
	assert.Len(t, repo.orders, 1)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotificationOrder, notifier.sent[0].Type)
	assert.Equal(t, "u1", notifier.sent[0].UserID)
}

func TestCreateEmptyCart(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{UserID: "u1"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateWithCouponRedeemsOnce(t *testing.T) {
	svc, _, couponSvc, _ := newTestService()
	couponSvc.coupon = &models.Coupon{
		Code:          "OFF5",
		DiscountType:  models.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
	}

	order, err := svc.Create(context.Background(), CreateInput{
		UserID:        "u1",
		Items:         cartItems(),
		PaymentMethod: models.PaymentCOD,
		CouponCode:    "OFF5",
	})
	require.NoError(t, err)
	assert.Equal(t, "OFF5", order.CouponCode)
	assert.True(t, decimal.NewFromInt(15).Equal(order.Total))
	assert.Equal(t, 1, couponSvc.redeems)
}

func TestFailedOrderInsertLeavesCouponUnredeemed(t *testing.T) {
	svc, repo, couponSvc, _ := newTestService()
	couponSvc.coupon = &models.Coupon{
		Code:          "OFF5",
		DiscountType:  models.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
	}
	repo.createErr = assert.AnError

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:        "u1",
		Items:         cartItems(),
		PaymentMethod: models.PaymentCOD,
		CouponCode:    "OFF5",
	})
	require.Error(t, err)
	assert.Zero(t, couponSvc.redeems, "usage slot must not be consumed when the order insert fails")
}

func TestFailedRedemptionReleasesOrder(t *testing.T) {
	svc, repo, couponSvc, _ := newTestService()
	couponSvc.coupon = &models.Coupon{
		Code:          "OFF5",
		DiscountType:  models.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
	}
	couponSvc.redeemErr = assert.AnError

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:        "u1",
		Items:         cartItems(),
		PaymentMethod: models.PaymentCOD,
		CouponCode:    "OFF5",
	})
	require.Error(t, err)

	require.Len(t, repo.orders, 1)
	for _, o := range repo.orders {
		assert.Equal(t, models.OrderStatusCancelled, o.Status,
			"order must not stand with a discount the coupon never paid for")
	}
}

func TestCancelPendingOrder(t *testing.T) {
	svc, _, _, notifier := newTestService()

	order, err := svc.Create(context.Background(), CreateInput{
		UserID: "u1", Items: cartItems(), PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Len(t, notifier.sent, 2)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	svc, repo, _, _ := newTestService()

	order, err := svc.Create(context.Background(), CreateInput{
		UserID: "u1", Items: cartItems(), PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)
	repo.orders[order.ID].Status = models.OrderStatusDelivered

	_, err = svc.Cancel(context.Background(), "u1", order.ID)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestRefundRequiresDelivered(t *testing.T) {
	svc, repo, _, _ := newTestService()

	order, err := svc.Create(context.Background(), CreateInput{
		UserID: "u1", Items: cartItems(), PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), "u1", order.ID)
	assert.ErrorIs(t, err, ErrCannotRefund)

	repo.orders[order.ID].Status = models.OrderStatusDelivered
	refunded, err := svc.Refund(context.Background(), "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRefunded, refunded.Status)
}

func TestGetHidesOtherUsersOrders(t *testing.T) {
	svc, _, _, _ := newTestService()

	order, err := svc.Create(context.Background(), CreateInput{
		UserID: "u1", Items: cartItems(), PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "u2", order.ID)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestPayRedirectURL(t *testing.T) {
	svc, _, _, _ := newTestService()

	u := svc.PayRedirectURL(checkout.PendingOrder{Items: cartItems()})
	assert.True(t, strings.HasPrefix(u, "https://pay.example.com/gateway?"))
	assert.Contains(t, u, "amount=20.00")
	assert.Contains(t, u, "returnUrl=")
}
