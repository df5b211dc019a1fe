package analytics

import (
	"github.com/NataliPereb/sales-bonus/internal/domain/report"
	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// sellerAccumulator holds one seller's running totals for a single run
type sellerAccumulator struct {
	id   string
	name string

	revenue    decimal.Decimal
	profit     decimal.Decimal
	salesCount int64

	productsSold map[string]int64
	// skuOrder records the first-seen order of SKUs; ties in top products follow it.
	skuOrder []string

	bonus       decimal.Decimal
	topProducts []report.TopProduct
}

func newSellerAccumulator(seller sales.Seller) *sellerAccumulator {
	return &sellerAccumulator{
		id:           seller.ID,
		name:         seller.DisplayName(),
		revenue:      decimal.Zero,
		profit:       decimal.Zero,
		bonus:        decimal.Zero,
		productsSold: make(map[string]int64),
	}
}

func (a *sellerAccumulator) addQuantity(sku string, quantity int64) {
	if _, seen := a.productsSold[sku]; !seen {
		a.skuOrder = append(a.skuOrder, sku)
	}
	a.productsSold[sku] += quantity
}

// stats snapshots the accumulator for a bonus strategy. The map is copied so a
// strategy cannot mutate the run state.
func (a *sellerAccumulator) stats() sales.SellerStats {
	sold := make(map[string]int64, len(a.productsSold))
	for sku, qty := range a.productsSold {
		sold[sku] = qty
	}
	return sales.SellerStats{
		SellerID:     a.id,
		Name:         a.name,
		Revenue:      a.revenue,
		Profit:       a.profit,
		SalesCount:   a.salesCount,
		ProductsSold: sold,
	}
}

// referenceIndex gives constant-time lookup of sellers and products for one run.
type referenceIndex struct {
	// accumulators keeps one entry per input seller, in input order.
	accumulators []*sellerAccumulator
	sellers      map[string]*sellerAccumulator
	products     map[string]sales.Product
}

// buildIndex indexes sellers and products by id. With duplicate ids the later
// entry wins the lookup; every input seller still gets its own accumulator.
func buildIndex(dataset *sales.Dataset) *referenceIndex {
	idx := &referenceIndex{
		accumulators: make([]*sellerAccumulator, 0, len(dataset.Sellers)),
		sellers:      make(map[string]*sellerAccumulator, len(dataset.Sellers)),
		products:     make(map[string]sales.Product, len(dataset.Products)),
	}
	for _, seller := range dataset.Sellers {
		acc := newSellerAccumulator(seller)
		idx.accumulators = append(idx.accumulators, acc)
		idx.sellers[seller.ID] = acc
	}
	for _, product := range dataset.Products {
		idx.products[product.SKU] = product
	}
	return idx
}
