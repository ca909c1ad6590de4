package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmart/storefront/internal/cache"
	"github.com/trendmart/storefront/internal/models"
)

type stubCouponRepo struct {
	coupons map[string]*models.Coupon
	calls   int
}

func (r *stubCouponRepo) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	r.calls++
	return r.coupons[code], nil
}

func newTestService(clk *testclock.Clock, coupons ...*models.Coupon) (*Service, *stubCouponRepo) {
	repo := &stubCouponRepo{coupons: map[string]*models.Coupon{}}
	for _, c := range coupons {
		repo.coupons[c.Code] = c
	}
	svc := NewService(nil, repo, nil, cache.NewCouponCache(clk, time.Minute), clk)
	return svc, repo
}

func items(price string, qty int) []models.CartItem {
	p, _ := decimal.NewFromString(price)
	return []models.CartItem{{ProductID: "p1", Price: p, Quantity: qty}}
}

func TestVerifyPercentage(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	svc, _ := newTestService(clk, &models.Coupon{
		ID:            1,
		Code:          "SAVE20",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		ExpiryDate:    clk.Now().Add(24 * time.Hour),
	})

	totals, coupon, err := svc.Verify(context.Background(), "SAVE20", items("50", 2))
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", coupon.Code)
	assert.True(t, decimal.NewFromInt(100).Equal(totals.Subtotal))
	assert.True(t, decimal.NewFromInt(20).Equal(totals.Discount))
	assert.True(t, decimal.NewFromInt(80).Equal(totals.Total))
}

func TestVerifyUnknownCode(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	svc, _ := newTestService(clk)

	_, _, err := svc.Verify(context.Background(), "NOPE", items("50", 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyExpired(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	svc, _ := newTestService(clk, &models.Coupon{
		ID:            1,
		Code:          "OLD",
		DiscountType:  models.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		ExpiryDate:    clk.Now().Add(-time.Hour),
	})

	_, _, err := svc.Verify(context.Background(), "OLD", items("50", 1))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyMinPurchase(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	svc, _ := newTestService(clk, &models.Coupon{
		ID:                1,
		Code:              "BIG",
		DiscountType:      models.DiscountFixed,
		DiscountValue:     decimal.NewFromInt(5),
		MinPurchaseAmount: decimal.NewFromInt(200),
		ExpiryDate:        clk.Now().Add(time.Hour),
	})

	_, _, err := svc.Verify(context.Background(), "BIG", items("50", 1))
	assert.ErrorIs(t, err, ErrMinPurchase)
}

func TestVerifyUsesCacheOnSecondLookup(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	svc, repo := newTestService(clk, &models.Coupon{
		ID:            1,
		Code:          "SAVE20",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		ExpiryDate:    clk.Now().Add(time.Hour),
	})

	_, _, err := svc.Verify(context.Background(), "SAVE20", items("50", 1))
	require.NoError(t, err)
	_, _, err = svc.Verify(context.Background(), "SAVE20", items("50", 1))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
}
