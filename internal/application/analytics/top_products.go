package analytics

import (
	"sort"

	"github.com/NataliPereb/sales-bonus/internal/domain/report"
)

// topProducts returns up to limit SKUs by quantity sold, descending. Ties keep
// the order in which the seller first sold each SKU.
func topProducts(acc *sellerAccumulator, limit int) []report.TopProduct {
	products := make([]report.TopProduct, 0, len(acc.skuOrder))
	for _, sku := range acc.skuOrder {
		products = append(products, report.TopProduct{SKU: sku, Quantity: acc.productsSold[sku]})
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Quantity > products[j].Quantity
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}
