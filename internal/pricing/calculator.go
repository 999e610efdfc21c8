package pricing

import (
	"quickcheckout/internal/cart"

	"github.com/shopspring/decimal"
)

var (
	DefaultTaxRate      = decimal.RequireFromString("0.0725")
	DefaultBagUnitPrice = decimal.RequireFromString("0.10")
)

const centPlaces = 2

type Calculator struct {
	TaxRate      decimal.Decimal
	BagUnitPrice decimal.Decimal
}

func NewCalculator(taxRate, bagUnitPrice decimal.Decimal) Calculator {
	return Calculator{TaxRate: taxRate, BagUnitPrice: bagUnitPrice}
}

func DefaultCalculator() Calculator {
	return NewCalculator(DefaultTaxRate, DefaultBagUnitPrice)
}

type Inputs struct {
	BagCount   int
	CouponCode string
}

type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	BagCount int             `json:"bag_count"`
	BagTotal decimal.Decimal `json:"bag_total"`
	Coupon   string          `json:"coupon,omitempty"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Quote derives the charge breakdown for lines. Each component is rounded to
// cents before the total is summed so printed receipt lines add up. Tax is
// charged on the subtotal only; bag fees and discounts do not move the tax
// base. The total is not floored at zero.
func (c Calculator) Quote(lines []cart.Line, in Inputs) Breakdown {
	subtotal := cart.Subtotal(lines).Round(centPlaces)
	bags := ClampBags(in.BagCount)

	b := Breakdown{
		Subtotal: subtotal,
		Tax:      subtotal.Mul(c.TaxRate).Round(centPlaces),
		BagCount: bags,
		BagTotal: c.BagUnitPrice.Mul(decimal.NewFromInt(int64(bags))).Round(centPlaces),
		Discount: decimal.Zero,
	}

	if coupon, ok := LookupCoupon(in.CouponCode); ok {
		b.Coupon = coupon.Code
		b.Discount = coupon.Discount(subtotal).Round(centPlaces)
	}

	b.Total = b.Subtotal.Add(b.Tax).Add(b.BagTotal).Sub(b.Discount)
	return b
}

// MaxBags is the most bags one transaction can carry.
const MaxBags = 99

func ClampBags(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
