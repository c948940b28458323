package pricing

import (
	"github.com/shopspring/decimal"
)

// TotalCost returns price * quantity computed in decimal space so repeated
// reserve/release cycles round-trip exactly.
func TotalCost(price float64, quantity int) float64 {
	cost := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
	f, _ := cost.Float64()
	return f
}

// MaxQuantity returns floor(buyingPower / price), the largest quantity the
// remaining buying power could still afford at the given price. Zero when the
// price is absent or non-positive.
func MaxQuantity(buyingPower float64, price *float64) float64 {
	if price == nil || *price <= 0 {
		return 0
	}
	q := decimal.NewFromFloat(buyingPower).
		Div(decimal.NewFromFloat(*price)).
		Floor()
	f, _ := q.Float64()
	return f
}
