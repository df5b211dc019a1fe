package bonus

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// RankTier assigns Fraction to every rank in [FromRank, ToRank] (0-based, inclusive)
type RankTier struct {
	FromRank int             `json:"from_rank"`
	ToRank   int             `json:"to_rank"`
	Fraction decimal.Decimal `json:"fraction"`
}

// Contains reports whether rank falls inside the tier
func (t RankTier) Contains(rank int) bool {
	return rank >= t.FromRank && rank <= t.ToRank
}

// TieredBonusStrategy implements rank-based bonus tiers.
// Conditions are checked in order and the first match wins:
// the configured tiers, then the last rank, then the default fraction.
type TieredBonusStrategy struct {
	strategy.BaseStrategy
	tiers            []RankTier
	lastRankFraction decimal.Decimal
	defaultFraction  decimal.Decimal
}

// NewTieredBonusStrategy creates a new tiered bonus strategy.
// Tier order is preserved since it decides precedence on overlap.
func NewTieredBonusStrategy(tiers []RankTier, lastRankFraction, defaultFraction decimal.Decimal) *TieredBonusStrategy {
	copied := make([]RankTier, len(tiers))
	copy(copied, tiers)

	return &TieredBonusStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"tiered",
			strategy.StrategyTypeBonus,
			"Bonus fraction by profit rank tiers",
		),
		tiers:            copied,
		lastRankFraction: lastRankFraction,
		defaultFraction:  defaultFraction,
	}
}

// DefaultTiers returns the standard tiers:
// - rank 0: 15%
// - ranks 1-2: 10%
func DefaultTiers() []RankTier {
	return []RankTier{
		{FromRank: 0, ToRank: 0, Fraction: decimal.RequireFromString("0.15")},
		{FromRank: 1, ToRank: 2, Fraction: decimal.RequireFromString("0.10")},
	}
}

// DefaultTieredBonusStrategy creates the standard strategy:
// 15% for the leader, 10% for ranks 1-2, nothing for the last seller, 5% for everyone else.
// A single seller is both first and last; the leader tier wins.
func DefaultTieredBonusStrategy() *TieredBonusStrategy {
	return NewTieredBonusStrategy(DefaultTiers(), decimal.Zero, decimal.RequireFromString("0.05"))
}

// GetTiers returns a copy of the rank tiers
func (s *TieredBonusStrategy) GetTiers() []RankTier {
	result := make([]RankTier, len(s.tiers))
	copy(result, s.tiers)
	return result
}

// CalculateBonus returns the fraction for the given rank
func (s *TieredBonusStrategy) CalculateBonus(rank, total int, _ sales.SellerStats) decimal.Decimal {
	for _, tier := range s.tiers {
		if tier.Contains(rank) {
			return tier.Fraction
		}
	}
	if rank == total-1 {
		return s.lastRankFraction
	}
	return s.defaultFraction
}
