package revenue

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// GrossRevenueStrategy ignores discounts: sale_price × quantity
type GrossRevenueStrategy struct {
	strategy.BaseStrategy
}

// NewGrossRevenueStrategy creates a new gross revenue strategy
func NewGrossRevenueStrategy() *GrossRevenueStrategy {
	return &GrossRevenueStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"gross",
			strategy.StrategyTypeRevenue,
			"Sale price times quantity without discounts",
		),
	}
}

// CalculateRevenue returns the undiscounted line value
func (s *GrossRevenueStrategy) CalculateRevenue(item sales.LineItem, _ sales.Product) decimal.Decimal {
	return item.SalePrice.Mul(decimal.NewFromInt(item.Quantity))
}
