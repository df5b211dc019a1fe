package analytics

import (
	"sort"

	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
)

// rankByProfit orders accumulators by profit descending. Equal profits keep
// their input order.
func rankByProfit(accumulators []*sellerAccumulator) []*sellerAccumulator {
	ranked := make([]*sellerAccumulator, len(accumulators))
	copy(ranked, accumulators)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].profit.GreaterThan(ranked[j].profit)
	})
	return ranked
}

// assignBonuses sets bonus = profit * fraction, where the fraction comes from
// the strategy given the seller's 0-based rank.
func assignBonuses(ranked []*sellerAccumulator, bonus strategy.BonusStrategy) {
	total := len(ranked)
	for rank, acc := range ranked {
		fraction := bonus.CalculateBonus(rank, total, acc.stats())
		acc.bonus = acc.profit.Mul(fraction)
	}
}
