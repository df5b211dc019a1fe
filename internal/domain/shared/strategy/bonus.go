package strategy

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// BonusStrategy maps a seller's rank to a bonus fraction between 0 and 1.
// rank is 0-based over sellers sorted by profit descending; total is the seller count.
type BonusStrategy interface {
	Strategy
	// CalculateBonus returns the fraction of the seller's profit paid as bonus
	CalculateBonus(rank, total int, seller sales.SellerStats) decimal.Decimal
}

// BonusFunc adapts a plain function to BonusStrategy.
// A nil BonusFunc is not invocable and is rejected by the pipeline.
type BonusFunc func(rank, total int, seller sales.SellerStats) decimal.Decimal

// Name returns "func"
func (f BonusFunc) Name() string { return "func" }

// Type returns StrategyTypeBonus
func (f BonusFunc) Type() StrategyType { return StrategyTypeBonus }

// Description returns a fixed description
func (f BonusFunc) Description() string { return "Bonus fraction computed by an injected function" }

// CalculateBonus calls f
func (f BonusFunc) CalculateBonus(rank, total int, seller sales.SellerStats) decimal.Decimal {
	return f(rank, total, seller)
}
