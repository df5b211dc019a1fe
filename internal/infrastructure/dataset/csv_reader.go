package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// utf8BOM is stripped when present; spreadsheet exports often prepend it
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvTable reads a CSV file with a header row into name-addressed rows
type csvTable struct {
	file       string
	delimiter  rune
	headers    []string
	headerMap  map[string]int
	currentRow int
	reader     *csv.Reader
}

// tableOption is a functional option for csvTable
type tableOption func(*csvTable)

// withDelimiter sets the field delimiter (default is comma)
func withDelimiter(d rune) tableOption {
	return func(t *csvTable) {
		t.delimiter = d
	}
}

// newCSVTable prepares r for reading. file only labels errors.
func newCSVTable(file string, r io.Reader, opts ...tableOption) (*csvTable, error) {
	t := &csvTable{
		file:      file,
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(t)
	}

	buf := bufio.NewReader(r)
	if head, err := buf.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = buf.Discard(len(utf8BOM))
	}

	sample, err := buf.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("%s: %w", file, ErrEmptyFile)
	}
	if !validUTF8Prefix(sample, err == nil) {
		return nil, fmt.Errorf("%s: %w", file, ErrInvalidEncoding)
	}

	t.reader = csv.NewReader(buf)
	t.reader.Comma = t.delimiter
	t.reader.LazyQuotes = true
	t.reader.TrimLeadingSpace = true
	t.reader.FieldsPerRecord = -1

	return t, nil
}

// validUTF8Prefix checks a peeked sample. When the sample was cut at the buffer
// size, a trailing incomplete rune is ignored.
func validUTF8Prefix(b []byte, truncated bool) bool {
	if truncated {
		for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
			if utf8.RuneStart(b[i]) {
				if !utf8.FullRune(b[i:]) {
					b = b[:i]
				}
				break
			}
		}
	}
	return utf8.Valid(b)
}

// readHeader reads the header row and checks that required columns exist
func (t *csvTable) readHeader(required ...string) error {
	record, err := t.reader.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", t.file, ErrMissingHeader)
	}
	if err != nil {
		return fmt.Errorf("%s: failed to read header: %w", t.file, err)
	}

	t.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		t.headers[i] = name
		t.headerMap[name] = i
	}
	t.currentRow = 1

	var missing []string
	for _, name := range required {
		if _, ok := t.headerMap[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", t.file, ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// csvRow is one data row keyed by header name
type csvRow struct {
	line int
	data map[string]string
}

// get returns the trimmed value of a column, empty if absent
func (r *csvRow) get(column string) string {
	return r.data[column]
}

func (r *csvRow) isEmpty() bool {
	for _, v := range r.data {
		if v != "" {
			return false
		}
	}
	return true
}

// next returns the next row or io.EOF
func (t *csvTable) next() (*csvRow, error) {
	record, err := t.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	t.currentRow++
	if err != nil {
		return nil, fmt.Errorf("%s: error reading row %d: %w", t.file, t.currentRow, err)
	}

	row := &csvRow{line: t.currentRow, data: make(map[string]string, len(t.headers))}
	for i, name := range t.headers {
		if i < len(record) {
			row.data[name] = strings.TrimSpace(record[i])
		} else {
			row.data[name] = ""
		}
	}
	return row, nil
}

// rows reads all remaining non-empty rows
func (t *csvTable) rows() ([]*csvRow, error) {
	var out []*csvRow
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if row.isEmpty() {
			continue
		}
		out = append(out, row)
	}
}
