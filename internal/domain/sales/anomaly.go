package sales

import (
	"context"
	"fmt"
)

// AnomalyKind classifies a non-fatal data problem found while accumulating
type AnomalyKind string

const (
	// AnomalyOrphanSeller means a receipt references a seller id missing from the seller list
	AnomalyOrphanSeller AnomalyKind = "orphan_seller"
	// AnomalyOrphanProduct means a line item references a SKU missing from the product list
	AnomalyOrphanProduct AnomalyKind = "orphan_product"
)

// Anomaly describes one orphan reference. It never aborts a run.
type Anomaly struct {
	Kind      AnomalyKind `json:"kind"`
	ReceiptID string      `json:"receipt_id"`
	SellerID  string      `json:"seller_id,omitempty"`
	SKU       string      `json:"sku,omitempty"`
}

// Message returns a human-readable description
func (a Anomaly) Message() string {
	switch a.Kind {
	case AnomalyOrphanSeller:
		return fmt.Sprintf("seller %s not found for receipt %s", a.SellerID, a.ReceiptID)
	case AnomalyOrphanProduct:
		return fmt.Sprintf("product with SKU %s not found for receipt %s", a.SKU, a.ReceiptID)
	default:
		return fmt.Sprintf("%s anomaly in receipt %s", a.Kind, a.ReceiptID)
	}
}

// AnomalySink receives anomaly notices. Implementations must not affect results.
type AnomalySink interface {
	ReportAnomaly(ctx context.Context, anomaly Anomaly)
}

// AnomalySinkFunc adapts a function to AnomalySink
type AnomalySinkFunc func(ctx context.Context, anomaly Anomaly)

// ReportAnomaly calls f
func (f AnomalySinkFunc) ReportAnomaly(ctx context.Context, anomaly Anomaly) {
	f(ctx, anomaly)
}
