// Package sales holds the reference and transactional records a seller
// scorecard is computed from.
package sales

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Only SKU and PurchasePrice take part in aggregation;
// the remaining fields are passed through untouched.
type Product struct {
	SKU           string          `json:"sku" yaml:"sku"`
	Name          string          `json:"name,omitempty" yaml:"name,omitempty"`
	Category      string          `json:"category,omitempty" yaml:"category,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price" yaml:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price" yaml:"sale_price"`
}

// Seller is a sales person the scorecard is computed for
type Seller struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	Position  string `json:"position,omitempty" yaml:"position,omitempty"`
}

// DisplayName returns "first last"
func (s Seller) DisplayName() string {
	return s.FirstName + " " + s.LastName
}

// Customer is carried by the dataset but not used by aggregation
type Customer struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// FullName returns the customer's name with empty parts dropped
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
