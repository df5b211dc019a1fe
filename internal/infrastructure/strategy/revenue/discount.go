package revenue

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountRevenueStrategy applies the line item's percentage discount to its gross value:
// sale_price × quantity × (1 − discount/100)
type DiscountRevenueStrategy struct {
	strategy.BaseStrategy
}

// NewDiscountRevenueStrategy creates a new discount revenue strategy
func NewDiscountRevenueStrategy() *DiscountRevenueStrategy {
	return &DiscountRevenueStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"discount",
			strategy.StrategyTypeRevenue,
			"Sale price times quantity less the line item percentage discount",
		),
	}
}

// CalculateRevenue calculates the discounted line revenue. The product is not consulted.
func (s *DiscountRevenueStrategy) CalculateRevenue(item sales.LineItem, _ sales.Product) decimal.Decimal {
	coefficient := decimal.NewFromInt(1).Sub(item.Discount.Div(hundred))
	return item.SalePrice.Mul(decimal.NewFromInt(item.Quantity)).Mul(coefficient)
}
