package cart

import (
	"testing"
	"time"

	"quickcheckout/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewLine(t *testing.T) {
	weight := decimal.RequireFromString("1.2")
	exp := time.Date(2025, time.April, 24, 0, 0, 0, 0, time.UTC)
	p := &catalog.Product{
		ID:             "1",
		Code:           "4011",
		Name:           "Organic Bananas",
		Price:          decimal.RequireFromString("1.99"),
		Image:          "bananas.jpg",
		Weight:         &weight,
		IsWeighed:      true,
		ExpirationDate: &exp,
	}

	l := NewLine(p, 1, false)

	assert.Equal(t, "1", l.ID)
	assert.Equal(t, "Organic Bananas", l.Name)
	assert.Equal(t, "bananas.jpg", l.Image)
	assert.Equal(t, 1, l.Quantity)
	assert.True(t, l.IsWeighed)
	assert.False(t, l.IsWeightVerified)
	assert.True(t, weight.Equal(*l.Weight))
	assert.Equal(t, exp, *l.ExpirationDate)

	// the line owns its own copies
	*p.Weight = decimal.NewFromInt(5)
	assert.Equal(t, "1.2", l.Weight.String())
}

func TestNewLine_Optionals(t *testing.T) {
	l := NewLine(&catalog.Product{ID: "4", Name: "Eggs", Price: decimal.NewFromInt(5)}, 2, true)

	assert.Nil(t, l.Weight)
	assert.Nil(t, l.ExpirationDate)
	assert.False(t, l.IsWeighed)
	assert.True(t, l.IsWeightVerified)
	assert.Equal(t, "10", l.Total().String())
}
