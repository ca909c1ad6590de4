package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
)

type Coupon struct {
	ID                int             `json:"id"`
	Code              string          `json:"code"`
	DiscountType      DiscountType    `json:"discountType"`
	DiscountValue     decimal.Decimal `json:"discountValue"`
	MinPurchaseAmount decimal.Decimal `json:"minPurchaseAmount"`
	MaxUsagePerUser   int             `json:"maxUsagePerUser"`
	ExpiryDate        time.Time       `json:"expiryDate"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Expired reports whether the coupon is past its expiry date at the given time.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiryDate.Before(now)
}
