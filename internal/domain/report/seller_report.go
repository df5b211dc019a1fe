package report

import (
	"github.com/shopspring/decimal"
)

// DefaultTopProducts is the number of SKUs kept per seller scorecard
const DefaultTopProducts = 10

// TopProduct is one entry of a seller's best-selling list
type TopProduct struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

// SellerReport is the published scorecard row for one seller.
// Monetary values are already rounded when a report is produced.
type SellerReport struct {
	SellerID    string          `json:"seller_id"`
	Name        string          `json:"name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
	SalesCount  int64           `json:"sales_count"`
	TopProducts []TopProduct    `json:"top_products"`
	Bonus       decimal.Decimal `json:"bonus"`
}

// Scorecard is an ordered list of seller reports, highest profit first
type Scorecard []SellerReport

// TotalBonus sums the bonus column
func (s Scorecard) TotalBonus() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s {
		total = total.Add(r.Bonus)
	}
	return total
}

// TotalProfit sums the profit column
func (s Scorecard) TotalProfit() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s {
		total = total.Add(r.Profit)
	}
	return total
}

// Find returns the report for a seller id
func (s Scorecard) Find(sellerID string) (SellerReport, bool) {
	for _, r := range s {
		if r.SellerID == sellerID {
			return r, true
		}
	}
	return SellerReport{}, false
}
