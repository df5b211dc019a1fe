package sales

import "github.com/shopspring/decimal"

// LineItem is one product-quantity entry of a receipt.
// Discount is a percentage (10 means 10%).
type LineItem struct {
	SKU       string          `json:"sku" yaml:"sku"`
	Quantity  int64           `json:"quantity" yaml:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price" yaml:"sale_price"`
	Discount  decimal.Decimal `json:"discount" yaml:"discount"`
}

// PurchaseRecord is one completed receipt issued by one seller
type PurchaseRecord struct {
	ReceiptID     string          `json:"receipt_id" yaml:"receipt_id"`
	Date          string          `json:"date,omitempty" yaml:"date,omitempty"`
	SellerID      string          `json:"seller_id" yaml:"seller_id"`
	CustomerID    string          `json:"customer_id,omitempty" yaml:"customer_id,omitempty"`
	Items         []LineItem      `json:"items" yaml:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount" yaml:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount" yaml:"total_discount"`
}

// Dataset is one closed batch of input.
//
// A nil slice means the collection is absent. Sellers, products and purchase
// records must also be non-empty; an empty customer list is accepted.
type Dataset struct {
	Sellers         []Seller         `json:"sellers" yaml:"sellers" validate:"required,min=1"`
	Products        []Product        `json:"products" yaml:"products" validate:"required,min=1"`
	PurchaseRecords []PurchaseRecord `json:"purchase_records" yaml:"purchase_records" validate:"required,min=1"`
	Customers       []Customer       `json:"customers" yaml:"customers" validate:"required"`
}
