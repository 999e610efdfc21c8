package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CouponKind string

const (
	CouponPercent CouponKind = "percent"
	CouponFlat    CouponKind = "flat"
)

type Coupon struct {
	Code  string          `json:"code"`
	Kind  CouponKind      `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// coupons has no expiry, stacking or usage limits.
var coupons = map[string]Coupon{
	"SAVE10":  {Code: "SAVE10", Kind: CouponPercent, Value: decimal.RequireFromString("0.10")},
	"WELCOME": {Code: "WELCOME", Kind: CouponFlat, Value: decimal.RequireFromString("5.00")},
}

// LookupCoupon matches case-insensitively after trimming whitespace.
func LookupCoupon(code string) (Coupon, bool) {
	c, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Discount is not capped by the subtotal.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case CouponPercent:
		return subtotal.Mul(c.Value)
	case CouponFlat:
		return c.Value
	default:
		return decimal.Zero
	}
}
