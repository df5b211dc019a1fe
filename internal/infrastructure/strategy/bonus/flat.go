package bonus

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// FlatBonusStrategy pays the same fraction regardless of rank
type FlatBonusStrategy struct {
	strategy.BaseStrategy
	fraction decimal.Decimal
}

// NewFlatBonusStrategy creates a new flat bonus strategy
func NewFlatBonusStrategy(fraction decimal.Decimal) *FlatBonusStrategy {
	return &FlatBonusStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"flat",
			strategy.StrategyTypeBonus,
			"Same bonus fraction for every seller",
		),
		fraction: fraction,
	}
}

// Fraction returns the configured fraction
func (s *FlatBonusStrategy) Fraction() decimal.Decimal {
	return s.fraction
}

// CalculateBonus returns the flat fraction
func (s *FlatBonusStrategy) CalculateBonus(_, _ int, _ sales.SellerStats) decimal.Decimal {
	return s.fraction
}
