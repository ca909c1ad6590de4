// Package pricing computes cart totals and coupon discounts. All amounts are
// rounded to two decimal places; the invariant discount <= subtotal holds for
// every coupon type, so totals never go negative.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/trendmart/storefront/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Subtotal returns the sum of price*quantity over all cart lines.
func Subtotal(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.Round(2)
}

// Discount returns the discount a coupon yields on the given subtotal.
// Percentage coupons take value% of the subtotal; fixed-amount coupons are
// clamped to the subtotal. A nil coupon yields zero.
func Discount(subtotal decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	var d decimal.Decimal
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		d = subtotal.Mul(coupon.DiscountValue).Div(hundred)
	case models.DiscountFixed:
		d = coupon.DiscountValue
	default:
		return decimal.Zero
	}
	if d.GreaterThan(subtotal) {
		d = subtotal
	}
	return d.Round(2)
}

// Totals prices a cart with an optional coupon applied.
func Totals(items []models.CartItem, coupon *models.Coupon) models.CartTotals {
	subtotal := Subtotal(items)
	discount := Discount(subtotal, coupon)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	t := models.CartTotals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total.Round(2),
	}
	if coupon != nil {
		t.CouponCode = coupon.Code
	}
	return t
}
