package strategy

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// RevenueStrategy computes the revenue of one line item.
// Implementations must be pure.
type RevenueStrategy interface {
	Strategy
	// CalculateRevenue returns the revenue for item given its catalog product
	CalculateRevenue(item sales.LineItem, product sales.Product) decimal.Decimal
}

// RevenueFunc adapts a plain function to RevenueStrategy.
// A nil RevenueFunc is not invocable and is rejected by the pipeline.
type RevenueFunc func(item sales.LineItem, product sales.Product) decimal.Decimal

// Name returns "func"
func (f RevenueFunc) Name() string { return "func" }

// Type returns StrategyTypeRevenue
func (f RevenueFunc) Type() StrategyType { return StrategyTypeRevenue }

// Description returns a fixed description
func (f RevenueFunc) Description() string { return "Revenue computed by an injected function" }

// CalculateRevenue calls f
func (f RevenueFunc) CalculateRevenue(item sales.LineItem, product sales.Product) decimal.Decimal {
	return f(item, product)
}
