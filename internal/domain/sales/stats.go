package sales

import "github.com/shopspring/decimal"

// SellerStats is a read-only view of one seller's accumulated totals.
// Strategies receive it by value; ProductsSold is a copy.
type SellerStats struct {
	SellerID     string
	Name         string
	Revenue      decimal.Decimal
	Profit       decimal.Decimal
	SalesCount   int64
	ProductsSold map[string]int64
}

// TotalQuantity sums the quantities across all SKUs
func (s SellerStats) TotalQuantity() int64 {
	var total int64
	for _, qty := range s.ProductsSold {
		total += qty
	}
	return total
}
