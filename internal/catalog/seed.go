package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemoCodes are the barcodes printed on the scan screens. The simulated
// camera picks from this list.
var DemoCodes = []string{"4011", "8005", "2390", "3456", "9012", "4789"}

func DemoProducts() []Product {
	return []Product{
		{
			ID:        "1",
			Code:      "4011",
			Name:      "Organic Bananas",
			Price:     decimal.RequireFromString("1.99"),
			Image:     "/images/products/bananas.jpg",
			Weight:    decPtr("1.2"),
			IsWeighed: true,
		},
		{
			ID:             "2",
			Code:           "8005",
			Name:           "Whole Milk",
			Price:          decimal.RequireFromString("3.49"),
			Image:          "/images/products/milk.jpg",
			ExpirationDate: datePtr(2025, time.April, 24),
		},
		{
			ID:             "3",
			Code:           "2390",
			Name:           "Sourdough Bread",
			Price:          decimal.RequireFromString("4.99"),
			Image:          "/images/products/bread.jpg",
			ExpirationDate: datePtr(2025, time.April, 15),
		},
		{
			ID:    "4",
			Code:  "3456",
			Name:  "Free-Range Eggs (12)",
			Price: decimal.RequireFromString("5.49"),
			Image: "/images/products/eggs.jpg",
		},
		{
			ID:    "5",
			Code:  "9012",
			Name:  "Craft Beer 6-Pack (Alcohol)",
			Price: decimal.RequireFromString("11.99"),
			Image: "/images/products/beer.jpg",
		},
		{
			ID:        "6",
			Code:      "4789",
			Name:      "Fresh Tomatoes",
			Price:     decimal.RequireFromString("2.79"),
			Image:     "/images/products/tomatoes.jpg",
			Weight:    decPtr("0.8"),
			IsWeighed: true,
		},
	}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
