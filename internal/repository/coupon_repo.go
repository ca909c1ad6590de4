package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/trendmart/storefront/internal/models"
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

// GetByCode returns the coupon for a code, or (nil, nil) when none exists.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	query := `
		SELECT id, code, discount_type, discount_value, min_purchase_amount,
		       max_usage_per_user, expiry_date, created_at, updated_at
		FROM coupons
		WHERE code = $1
	`

	var c models.Coupon
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinPurchaseAmount,
		&c.MaxUsagePerUser,
		&c.ExpiryDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) (int, error) {
	query := `
		INSERT INTO coupons
		(code, discount_type, discount_value, min_purchase_amount, max_usage_per_user, expiry_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		RETURNING id
	`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		c.Code,
		c.DiscountType,
		c.DiscountValue,
		c.MinPurchaseAmount,
		c.MaxUsagePerUser,
		c.ExpiryDate,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
