package pricing

import "github.com/shopspring/decimal"

var pointsPerUnit = decimal.NewFromInt(100)

// RewardPoints awards one point per 100 currency units spent.
func RewardPoints(total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	return total.Div(pointsPerUnit).Floor().IntPart()
}
