// Package reportwriter renders a seller scorecard as JSON or CSV.
package reportwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/NataliPereb/sales-bonus/internal/domain/report"
)

// ErrUnsupportedFormat is returned for an unknown report format
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Format is a report encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Writer renders a scorecard to a stream
type Writer interface {
	Write(w io.Writer, scorecard report.Scorecard) error
}

// New returns the writer for a format
func New(format string) (Writer, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case FormatJSON, "":
		return JSONWriter{Indent: "  "}, nil
	case FormatCSV:
		return CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// JSONWriter writes the scorecard as a JSON array
type JSONWriter struct {
	Indent string
}

// Write implements Writer
func (jw JSONWriter) Write(w io.Writer, scorecard report.Scorecard) error {
	if scorecard == nil {
		scorecard = report.Scorecard{}
	}
	enc := json.NewEncoder(w)
	if jw.Indent != "" {
		enc.SetIndent("", jw.Indent)
	}
	if err := enc.Encode(scorecard); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// csvHeader is the fixed column order of CSV reports
var csvHeader = []string{"rank", "seller_id", "name", "revenue", "profit", "sales_count", "bonus", "top_products"}

// CSVWriter writes one row per seller. Top products are packed as "sku:qty" pairs joined by ';'.
type CSVWriter struct{}

// Write implements Writer
func (CSVWriter) Write(w io.Writer, scorecard report.Scorecard) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range scorecard {
		top := make([]string, 0, len(r.TopProducts))
		for _, p := range r.TopProducts {
			top = append(top, p.SKU+":"+strconv.FormatInt(p.Quantity, 10))
		}
		row := []string{
			strconv.Itoa(i + 1),
			r.SellerID,
			r.Name,
			r.Revenue.StringFixed(2),
			r.Profit.StringFixed(2),
			strconv.FormatInt(r.SalesCount, 10),
			r.Bonus.StringFixed(2),
			strings.Join(top, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
