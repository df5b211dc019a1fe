package dataset

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// charsets are the legacy single-byte encodings accepted for CSV exports
var charsets = map[string]encoding.Encoding{
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"koi8-r":       charmap.KOI8R,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
}

// ParseCharset maps a charset name to a decoder. UTF-8 (or empty) returns nil.
func ParseCharset(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, ok := charsets[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, name)
	}
	return enc, nil
}

// decodeReader converts r to UTF-8. A nil charset passes r through.
func decodeReader(r io.Reader, charset encoding.Encoding) io.Reader {
	if charset == nil {
		return r
	}
	return transform.NewReader(r, charset.NewDecoder())
}
