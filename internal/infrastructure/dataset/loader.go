// Package dataset reads and writes sales datasets as JSON, YAML or a directory of CSV files.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"gopkg.in/yaml.v3"
)

// Format is a dataset encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a config value to a Format. Empty returns "" so the caller can detect.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// DetectFormat picks a format from the path: directories are CSV, otherwise the extension decides
func DetectFormat(path string) (Format, error) {
	if isDir(path) {
		return FormatCSV, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: cannot detect format of %s", ErrUnsupportedFormat, path)
	}
}

// Loader reads datasets from the filesystem
type Loader struct {
	logger  *zap.Logger
	charset encoding.Encoding
}

// LoaderOption is a functional option for Loader
type LoaderOption func(*Loader)

// WithCharset decodes CSV files from a legacy charset. JSON and YAML are always UTF-8.
func WithCharset(charset encoding.Encoding) LoaderOption {
	return func(l *Loader) {
		l.charset = charset
	}
}

// NewLoader creates a new Loader
func NewLoader(logger *zap.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{logger: logger.Named("dataset")}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the dataset at path. An empty format is detected from the path.
func (l *Loader) Load(ctx context.Context, path string, format Format) (*sales.Dataset, error) {
	_, span := telemetry.StartSpan(ctx, "dataset.load",
		telemetry.WithAttribute("dataset.path", path),
	)
	defer span.End()

	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		format = detected
	}
	telemetry.SetAttributes(span, "dataset.format", string(format))

	ds, err := l.load(path, format)
	if err != nil {
		telemetry.RecordError(span, err)
		l.logger.Error("Failed to load dataset",
			zap.String("path", path),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return nil, err
	}

	telemetry.SetOK(span)
	l.logger.Info("Dataset loaded",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("sellers", len(ds.Sellers)),
		zap.Int("products", len(ds.Products)),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("purchase_records", len(ds.PurchaseRecords)),
	)
	return ds, nil
}

func (l *Loader) load(path string, format Format) (*sales.Dataset, error) {
	if format == FormatCSV {
		return LoadCSVDir(path, l.charset)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		return DecodeJSON(f)
	case FormatYAML:
		return DecodeYAML(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeJSON reads a dataset document. Absent collections stay nil.
func DecodeJSON(r io.Reader) (*sales.Dataset, error) {
	var ds sales.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode JSON dataset: %w", err)
	}
	return &ds, nil
}

// DecodeYAML reads a dataset document. Absent collections stay nil.
func DecodeYAML(r io.Reader) (*sales.Dataset, error) {
	var ds sales.Dataset
	if err := yaml.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode YAML dataset: %w", err)
	}
	return &ds, nil
}

// Encode writes ds in the given format. CSV is not supported as a single stream.
func Encode(w io.Writer, ds *sales.Dataset, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, format)
	}
}
