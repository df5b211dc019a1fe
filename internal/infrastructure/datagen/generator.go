// Package datagen builds synthetic sales datasets for demos and load testing.
package datagen

import (
	"fmt"
	"time"

	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Config controls the size and shape of a generated dataset
type Config struct {
	Sellers            int `validate:"min=1"`
	Products           int `validate:"min=1"`
	Customers          int `validate:"min=0"`
	Receipts           int `validate:"min=1"`
	MaxItemsPerReceipt int `validate:"min=1,max=50"`
	// OrphanRate is the share of receipts pointing at an unknown seller or SKU
	OrphanRate float64 `validate:"min=0,max=1"`
	// Seed makes output reproducible; zero picks a random seed
	Seed  uint64
	Start time.Time
	End   time.Time `validate:"gtfield=Start"`
}

// DefaultConfig returns a small dataset with clean references
func DefaultConfig() Config {
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	return Config{
		Sellers:            5,
		Products:           50,
		Customers:          20,
		Receipts:           200,
		MaxItemsPerReceipt: 5,
		Start:              end.AddDate(-1, 0, 0),
		End:                end,
	}
}

// Generator produces datasets from a seeded faker
type Generator struct {
	faker *gofakeit.Faker
	cfg   Config
}

// New creates a new Generator
func New(cfg Config) (*Generator, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	return &Generator{faker: gofakeit.New(cfg.Seed), cfg: cfg}, nil
}

// Generate builds a dataset. Customers is always non-nil.
func (g *Generator) Generate() *sales.Dataset {
	ds := &sales.Dataset{
		Sellers:         make([]sales.Seller, 0, g.cfg.Sellers),
		Products:        make([]sales.Product, 0, g.cfg.Products),
		Customers:       make([]sales.Customer, 0, g.cfg.Customers),
		PurchaseRecords: make([]sales.PurchaseRecord, 0, g.cfg.Receipts),
	}

	for i := 1; i <= g.cfg.Sellers; i++ {
		ds.Sellers = append(ds.Sellers, g.seller(i))
	}
	for i := 1; i <= g.cfg.Products; i++ {
		ds.Products = append(ds.Products, g.product(i))
	}
	for i := 1; i <= g.cfg.Customers; i++ {
		ds.Customers = append(ds.Customers, sales.Customer{
			ID:        fmt.Sprintf("customer_%d", i),
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
			Phone:     g.faker.Phone(),
		})
	}
	for i := 1; i <= g.cfg.Receipts; i++ {
		ds.PurchaseRecords = append(ds.PurchaseRecords, g.receipt(i, ds))
	}

	return ds
}

func (g *Generator) seller(i int) sales.Seller {
	return sales.Seller{
		ID:        fmt.Sprintf("seller_%d", i),
		FirstName: g.faker.FirstName(),
		LastName:  g.faker.LastName(),
		StartDate: g.faker.DateRange(g.cfg.Start.AddDate(-5, 0, 0), g.cfg.Start).Format(time.DateOnly),
		Position:  g.faker.JobTitle(),
	}
}

func (g *Generator) product(i int) sales.Product {
	purchase := money(g.faker.Price(1, 100))
	markup := decimal.NewFromFloat(g.faker.Float64Range(1.1, 2.0))
	return sales.Product{
		SKU:           fmt.Sprintf("SKU_%03d", i),
		Name:          g.faker.ProductName(),
		Category:      g.faker.ProductCategory(),
		PurchasePrice: purchase,
		SalePrice:     purchase.Mul(markup).Round(2),
	}
}

func (g *Generator) receipt(i int, ds *sales.Dataset) sales.PurchaseRecord {
	seller := ds.Sellers[g.faker.IntRange(0, len(ds.Sellers)-1)]
	rec := sales.PurchaseRecord{
		ReceiptID: fmt.Sprintf("receipt_%d", i),
		Date:      g.faker.DateRange(g.cfg.Start, g.cfg.End).Format(time.DateOnly),
		SellerID:  seller.ID,
	}
	if len(ds.Customers) > 0 {
		rec.CustomerID = ds.Customers[g.faker.IntRange(0, len(ds.Customers)-1)].ID
	}

	gross := decimal.Zero
	net := decimal.Zero
	n := g.faker.IntRange(1, g.cfg.MaxItemsPerReceipt)
	for j := 0; j < n; j++ {
		product := ds.Products[g.faker.IntRange(0, len(ds.Products)-1)]
		item := sales.LineItem{
			SKU:       product.SKU,
			Quantity:  int64(g.faker.IntRange(1, 10)),
			SalePrice: product.SalePrice,
			Discount:  decimal.NewFromInt(int64(g.faker.IntRange(0, 4) * 5)),
		}
		lineGross := item.SalePrice.Mul(decimal.NewFromInt(item.Quantity))
		gross = gross.Add(lineGross)
		net = net.Add(lineGross.Mul(decimal.NewFromInt(1).Sub(item.Discount.Div(hundred))))
		rec.Items = append(rec.Items, item)
	}
	rec.TotalAmount = net.Round(2)
	rec.TotalDiscount = gross.Sub(net).Round(2)

	if g.cfg.OrphanRate > 0 && g.faker.Float64() < g.cfg.OrphanRate {
		if g.faker.Bool() {
			rec.SellerID = "unknown_" + g.faker.LetterN(6)
		} else {
			rec.Items[0].SKU = "UNKNOWN_" + g.faker.LetterN(6)
		}
	}

	return rec
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
