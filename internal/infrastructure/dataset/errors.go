package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyFile is returned when a CSV file has no content at all
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when a CSV file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when a CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrMissingColumns is returned when required header columns are absent
	ErrMissingColumns = errors.New("CSV file missing required columns")

	// ErrUnsupportedFormat is returned for an unknown dataset format
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrUnsupportedCharset is returned for an unknown CSV charset name
	ErrUnsupportedCharset = errors.New("unsupported charset")
)

// RowError is a problem with one cell of a CSV file
type RowError struct {
	File    string `json:"file"`
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s row %d, column '%s': %s", e.File, e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("%s row %d: %s", e.File, e.Row, e.Message)
}

// RowErrors collects row problems up to a limit while still counting the rest
type RowErrors struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewRowErrors creates a collection keeping at most maxErrors entries
func NewRowErrors(maxErrors int) *RowErrors {
	if maxErrors <= 0 {
		maxErrors = 20
	}
	return &RowErrors{maxErrors: maxErrors}
}

// Add records an error
func (c *RowErrors) Add(err RowError) {
	c.totalCount++
	if len(c.errors) < c.maxErrors {
		c.errors = append(c.errors, err)
	}
}

// Errors returns the kept errors
func (c *RowErrors) Errors() []RowError {
	return c.errors
}

// TotalCount returns the number of errors including dropped ones
func (c *RowErrors) TotalCount() int {
	return c.totalCount
}

// HasErrors returns true if any error was added
func (c *RowErrors) HasErrors() bool {
	return c.totalCount > 0
}

// Err returns the collection as an error, or nil if it is empty
func (c *RowErrors) Err() error {
	if !c.HasErrors() {
		return nil
	}
	return c
}

// Error implements the error interface
func (c *RowErrors) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", c.totalCount)
	if c.totalCount > len(c.errors) {
		fmt.Fprintf(&sb, " (showing first %d)", len(c.errors))
	}
	for _, err := range c.errors {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}
