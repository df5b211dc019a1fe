package analytics

import (
	"context"

	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

type accumulation struct {
	receipts  int64
	lineItems int64
	anomalies int64
}

// accumulate folds purchase records into seller accumulators in input order.
//
// A record whose seller is unknown is reported and skipped entirely. A line item
// whose product is unknown is reported and skipped; the rest of the record still counts.
func (s *Service) accumulate(ctx context.Context, idx *referenceIndex, records []sales.PurchaseRecord, revenue strategy.RevenueStrategy) accumulation {
	var res accumulation

	for _, record := range records {
		acc, ok := idx.sellers[record.SellerID]
		if !ok {
			s.reportAnomaly(ctx, &res, sales.Anomaly{
				Kind:      sales.AnomalyOrphanSeller,
				ReceiptID: record.ReceiptID,
				SellerID:  record.SellerID,
			})
			continue
		}

		res.receipts++
		acc.salesCount++
		acc.revenue = acc.revenue.Add(record.TotalAmount)

		for _, item := range record.Items {
			product, ok := idx.products[item.SKU]
			if !ok {
				s.reportAnomaly(ctx, &res, sales.Anomaly{
					Kind:      sales.AnomalyOrphanProduct,
					ReceiptID: record.ReceiptID,
					SellerID:  record.SellerID,
					SKU:       item.SKU,
				})
				continue
			}

			res.lineItems++
			cost := product.PurchasePrice.Mul(decimal.NewFromInt(item.Quantity))
			itemRevenue := revenue.CalculateRevenue(item, product)
			acc.profit = acc.profit.Add(itemRevenue.Sub(cost))
			acc.addQuantity(item.SKU, item.Quantity)
		}
	}

	return res
}

func (s *Service) reportAnomaly(ctx context.Context, res *accumulation, anomaly sales.Anomaly) {
	res.anomalies++
	s.metrics.RecordAnomaly(ctx, string(anomaly.Kind))
	s.sink.ReportAnomaly(ctx, anomaly)
}
