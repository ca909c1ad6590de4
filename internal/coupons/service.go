// Package coupons validates and redeems discount coupons against a cart.
// Verification is read-only and safe to call from checkout previews;
// redemption consumes a usage slot atomically and happens once, at order
// creation.
package coupons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/juju/clock"

	"github.com/trendmart/storefront/internal/cache"
	"github.com/trendmart/storefront/internal/models"
	"github.com/trendmart/storefront/internal/pricing"
)

var (
	ErrNotFound    = errors.New("coupon not found")
	ErrExpired     = errors.New("coupon expired")
	ErrMinPurchase = errors.New("minimum purchase amount not met")
	ErrUsageLimit  = errors.New("coupon usage limit reached")
)

// Repos required by the service; interfaces so tests can stub them.
type CouponRepo interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type UsageRepo interface {
	GetAndLockUsage(ctx context.Context, tx *sql.Tx, couponID int, userID string) (int, error)
	IncrementUsage(ctx context.Context, tx *sql.Tx, couponID int, userID string) error
}

type Service struct {
	db         *sql.DB // transactions for redemption
	couponRepo CouponRepo
	usageRepo  UsageRepo
	cache      *cache.CouponCache
	clock      clock.Clock
}

func NewService(db *sql.DB, couponRepo CouponRepo, usageRepo UsageRepo, couponCache *cache.CouponCache, clk clock.Clock) *Service {
	return &Service{
		db:         db,
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		cache:      couponCache,
		clock:      clk,
	}
}

// Verify checks a coupon against the cart and returns the priced totals.
// Validation failures come back as the sentinel errors above so handlers can
// surface field-level messages.
func (s *Service) Verify(ctx context.Context, code string, items []models.CartItem) (models.CartTotals, *models.Coupon, error) {
	coupon, err := s.lookup(ctx, code)
	if err != nil {
		return models.CartTotals{}, nil, err
	}

	subtotal := pricing.Subtotal(items)
	if coupon.Expired(s.clock.Now()) {
		return models.CartTotals{}, nil, ErrExpired
	}
	if subtotal.LessThan(coupon.MinPurchaseAmount) {
		return models.CartTotals{}, nil, ErrMinPurchase
	}

	return pricing.Totals(items, coupon), coupon, nil
}

// Redeem consumes one usage slot for the user, re-checking the per-user limit
// under a row lock.
func (s *Service) Redeem(ctx context.Context, userID, code string) error {
	coupon, err := s.lookup(ctx, code)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	usageCount, err := s.usageRepo.GetAndLockUsage(ctx, tx, coupon.ID, userID)
	if err != nil {
		return fmt.Errorf("lock usage: %w", err)
	}
	if coupon.MaxUsagePerUser > 0 && usageCount >= coupon.MaxUsagePerUser {
		return ErrUsageLimit
	}
	if err := s.usageRepo.IncrementUsage(ctx, tx, coupon.ID, userID); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx commit: %w", err)
	}
	committed = true
	return nil
}

func (s *Service) lookup(ctx context.Context, code string) (*models.Coupon, error) {
	if s.cache != nil {
		if c, ok := s.cache.Get(code); ok {
			return c, nil
		}
	}
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrNotFound
	}
	if s.cache != nil {
		s.cache.Set(code, *coupon)
	}
	return coupon, nil
}
