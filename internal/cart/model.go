package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one aggregated row in the cart for a product id.
type Line struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Price            decimal.Decimal  `json:"price"`
	Image            string           `json:"image"`
	Quantity         int              `json:"quantity"`
	Weight           *decimal.Decimal `json:"weight,omitempty"`
	ExpirationDate   *time.Time       `json:"expiration_date,omitempty"`
	IsWeighed        bool             `json:"is_weighed"`
	IsWeightVerified bool             `json:"is_weight_verified"`
}

// Total is price × quantity for the line.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a read-only copy of the cart handed to the presentation layer.
type Snapshot struct {
	Lines      []Line          `json:"lines"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}
