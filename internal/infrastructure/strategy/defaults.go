package strategy

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/strategy/bonus"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/strategy/revenue"
	"github.com/shopspring/decimal"
)

// RegistryOptions tunes the strategies registered by NewRegistryWithOptions
type RegistryOptions struct {
	// BonusTiers overrides the tiered strategy's rank tiers. Nil keeps the standard tiers.
	BonusTiers       []bonus.RankTier
	LastRankFraction decimal.Decimal
	DefaultFraction  decimal.Decimal
	FlatFraction     decimal.Decimal
	DefaultRevenue   string
	DefaultBonus     string
}

// DefaultRegistryOptions returns the standard tiering and the discount revenue formula
func DefaultRegistryOptions() RegistryOptions {
	return RegistryOptions{
		BonusTiers:       bonus.DefaultTiers(),
		LastRankFraction: decimal.Zero,
		DefaultFraction:  decimal.RequireFromString("0.05"),
		FlatFraction:     decimal.RequireFromString("0.05"),
		DefaultRevenue:   "discount",
		DefaultBonus:     "tiered",
	}
}

// NewRegistryWithDefaults creates a new registry with default strategies registered
func NewRegistryWithDefaults() (*StrategyRegistry, error) {
	return NewRegistryWithOptions(DefaultRegistryOptions())
}

// NewRegistryWithOptions creates a registry with the built-in revenue and bonus strategies,
// using opts for bonus fractions and default selection.
func NewRegistryWithOptions(opts RegistryOptions) (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	// Register revenue strategies
	if err := r.RegisterRevenueStrategy(revenue.NewDiscountRevenueStrategy()); err != nil {
		return nil, err
	}
	if err := r.RegisterRevenueStrategy(revenue.NewGrossRevenueStrategy()); err != nil {
		return nil, err
	}

	// Register bonus strategies
	tiers := opts.BonusTiers
	if tiers == nil {
		tiers = bonus.DefaultTiers()
	}
	tiered := bonus.NewTieredBonusStrategy(tiers, opts.LastRankFraction, opts.DefaultFraction)
	if err := r.RegisterBonusStrategy(tiered); err != nil {
		return nil, err
	}
	if err := r.RegisterBonusStrategy(bonus.NewFlatBonusStrategy(opts.FlatFraction)); err != nil {
		return nil, err
	}

	// Set defaults
	defaultRevenue := opts.DefaultRevenue
	if defaultRevenue == "" {
		defaultRevenue = "discount"
	}
	if err := r.SetDefault(strategy.StrategyTypeRevenue, defaultRevenue); err != nil {
		return nil, err
	}
	defaultBonus := opts.DefaultBonus
	if defaultBonus == "" {
		defaultBonus = tiered.Name()
	}
	if err := r.SetDefault(strategy.StrategyTypeBonus, defaultBonus); err != nil {
		return nil, err
	}

	return r, nil
}
