package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AgeRestrictedMarker flags products that need an ID check at the staff register.
const AgeRestrictedMarker = "Alcohol"

type Product struct {
	ID             string           `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	Image          string           `json:"image"`
	Weight         *decimal.Decimal `json:"weight,omitempty"`
	IsWeighed      bool             `json:"is_weighed"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
}

func (p Product) IsAgeRestricted() bool {
	return strings.Contains(p.Name, AgeRestrictedMarker)
}
