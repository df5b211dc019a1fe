package analytics

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/report"
)

// formatReports turns ranked accumulators into report rows. Money is rounded
// half away from zero to the configured number of places.
func formatReports(ranked []*sellerAccumulator, precision int32) report.Scorecard {
	scorecard := make(report.Scorecard, 0, len(ranked))
	for _, acc := range ranked {
		scorecard = append(scorecard, report.SellerReport{
			SellerID:    acc.id,
			Name:        acc.name,
			Revenue:     acc.revenue.Round(precision),
			Profit:      acc.profit.Round(precision),
			SalesCount:  acc.salesCount,
			TopProducts: acc.topProducts,
			Bonus:       acc.bonus.Round(precision),
		})
	}
	return scorecard
}
