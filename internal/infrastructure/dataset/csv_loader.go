package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"golang.org/x/text/encoding"
)

// CSV file names inside a dataset directory
const (
	SellersFile         = "sellers.csv"
	ProductsFile        = "products.csv"
	CustomersFile       = "customers.csv"
	PurchaseRecordsFile = "purchase_records.csv"
)

var (
	sellersSchema = newTableSchema(SellersFile,
		column("id").Required(),
		column("first_name"),
		column("last_name"),
		column("start_date"),
		column("position"),
	)
	productsSchema = newTableSchema(ProductsFile,
		column("sku").Required(),
		column("name"),
		column("category"),
		column("purchase_price").Required().Decimal().NonNegative(),
		column("sale_price").Decimal().NonNegative(),
	)
	customersSchema = newTableSchema(CustomersFile,
		column("id").Required(),
		column("first_name"),
		column("last_name"),
		column("phone"),
	)
	// one row per line item; receipt columns repeat and the first row of a receipt wins
	purchaseRecordsSchema = newTableSchema(PurchaseRecordsFile,
		column("receipt_id").Required(),
		column("date"),
		column("seller_id").Required(),
		column("customer_id"),
		column("total_amount").Required().Decimal(),
		column("total_discount").Decimal(),
		column("sku"),
		column("quantity").Int().NonNegative(),
		column("sale_price").Decimal().NonNegative(),
		column("discount").Decimal().NonNegative(),
	)
)

// csvDirLoader reads the four dataset files from a directory.
// A missing file leaves its collection nil; a header-only file yields an empty one.
type csvDirLoader struct {
	fsys      fs.FS
	charset   encoding.Encoding
	maxErrors int
}

// LoadCSVDir loads a dataset from a directory of CSV files.
// charset decodes legacy exports; nil means the files are UTF-8.
func LoadCSVDir(dir string, charset encoding.Encoding) (*sales.Dataset, error) {
	return loadCSVFS(os.DirFS(dir), charset)
}

func loadCSVFS(fsys fs.FS, charset encoding.Encoding) (*sales.Dataset, error) {
	l := &csvDirLoader{fsys: fsys, charset: charset, maxErrors: 20}
	errs := NewRowErrors(l.maxErrors)
	ds := &sales.Dataset{}

	sellerRows, err := l.table(sellersSchema, errs)
	if err != nil {
		return nil, err
	}
	productRows, err := l.table(productsSchema, errs)
	if err != nil {
		return nil, err
	}
	customerRows, err := l.table(customersSchema, errs)
	if err != nil {
		return nil, err
	}
	recordRows, err := l.table(purchaseRecordsSchema, errs)
	if err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if sellerRows != nil {
		ds.Sellers = make([]sales.Seller, 0, len(sellerRows))
		for _, row := range sellerRows {
			ds.Sellers = append(ds.Sellers, sales.Seller{
				ID:        row.get("id"),
				FirstName: row.get("first_name"),
				LastName:  row.get("last_name"),
				StartDate: row.get("start_date"),
				Position:  row.get("position"),
			})
		}
	}
	if productRows != nil {
		ds.Products = make([]sales.Product, 0, len(productRows))
		for _, row := range productRows {
			ds.Products = append(ds.Products, sales.Product{
				SKU:           row.get("sku"),
				Name:          row.get("name"),
				Category:      row.get("category"),
				PurchasePrice: decimalOf(row, "purchase_price"),
				SalePrice:     decimalOf(row, "sale_price"),
			})
		}
	}
	if customerRows != nil {
		ds.Customers = make([]sales.Customer, 0, len(customerRows))
		for _, row := range customerRows {
			ds.Customers = append(ds.Customers, sales.Customer{
				ID:        row.get("id"),
				FirstName: row.get("first_name"),
				LastName:  row.get("last_name"),
				Phone:     row.get("phone"),
			})
		}
	}
	if recordRows != nil {
		ds.PurchaseRecords = groupReceipts(recordRows)
	}

	return ds, nil
}

// table reads and checks one file. It returns nil rows without error when the file is absent.
func (l *csvDirLoader) table(schema tableSchema, errs *RowErrors) ([]*csvRow, error) {
	f, err := l.fsys.Open(schema.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", schema.file, err)
	}
	defer f.Close()

	t, err := newCSVTable(schema.file, decodeReader(f, l.charset))
	if err != nil {
		return nil, err
	}
	if err := t.readHeader(schema.requiredColumns()...); err != nil {
		return nil, err
	}
	rows, err := t.rows()
	if err != nil {
		return nil, err
	}

	usable := make([]*csvRow, 0, len(rows))
	for _, row := range rows {
		if schema.check(row, errs) {
			usable = append(usable, row)
		}
	}
	return usable, nil
}

// groupReceipts folds line-item rows into purchase records in first-seen receipt order.
// A row with an empty sku contributes the receipt but no line item.
func groupReceipts(rows []*csvRow) []sales.PurchaseRecord {
	records := make([]sales.PurchaseRecord, 0)
	position := make(map[string]int)

	for _, row := range rows {
		id := row.get("receipt_id")
		i, seen := position[id]
		if !seen {
			i = len(records)
			position[id] = i
			records = append(records, sales.PurchaseRecord{
				ReceiptID:     id,
				Date:          row.get("date"),
				SellerID:      row.get("seller_id"),
				CustomerID:    row.get("customer_id"),
				Items:         []sales.LineItem{},
				TotalAmount:   decimalOf(row, "total_amount"),
				TotalDiscount: decimalOf(row, "total_discount"),
			})
		}

		if sku := row.get("sku"); sku != "" {
			records[i].Items = append(records[i].Items, sales.LineItem{
				SKU:       sku,
				Quantity:  intOf(row, "quantity"),
				SalePrice: decimalOf(row, "sale_price"),
				Discount:  decimalOf(row, "discount"),
			})
		}
	}
	return records
}

// isDir reports whether path names a directory
func isDir(path string) bool {
	info, err := os.Stat(filepath.Clean(path))
	return err == nil && info.IsDir()
}
