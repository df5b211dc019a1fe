// Command gendata writes a synthetic sales dataset as JSON or YAML.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/NataliPereb/sales-bonus/internal/infrastructure/datagen"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/dataset"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gendata: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg := datagen.DefaultConfig()
	var (
		output   string
		format   string
		logLevel string
	)

	fs := flag.NewFlagSet("gendata", flag.ContinueOnError)
	fs.IntVar(&cfg.Sellers, "sellers", cfg.Sellers, "Number of sellers")
	fs.IntVar(&cfg.Products, "products", cfg.Products, "Number of products")
	fs.IntVar(&cfg.Customers, "customers", cfg.Customers, "Number of customers")
	fs.IntVar(&cfg.Receipts, "receipts", cfg.Receipts, "Number of purchase records")
	fs.IntVar(&cfg.MaxItemsPerReceipt, "max-items", cfg.MaxItemsPerReceipt, "Maximum line items per receipt")
	fs.Float64Var(&cfg.OrphanRate, "orphan-rate", cfg.OrphanRate, "Share of receipts with an unknown seller or SKU (0-1)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = random)")
	fs.StringVar(&output, "output", "", "Output file (default: stdout)")
	fs.StringVar(&format, "format", "json", "Output format: json, yaml")
	fs.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	f, err := dataset.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == "" {
		f = dataset.FormatJSON
	}

	gen, err := datagen.New(cfg)
	if err != nil {
		return err
	}
	ds := gen.Generate()

	out := stdout
	if output != "" && output != "-" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := dataset.Encode(out, ds, f); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	log.Info("Dataset generated",
		zap.Int("sellers", len(ds.Sellers)),
		zap.Int("products", len(ds.Products)),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("purchase_records", len(ds.PurchaseRecords)),
		zap.Uint64("seed", cfg.Seed),
		zap.String("format", string(f)),
	)
	return nil
}
