package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// EncodingAuto selects detection: UTF-8 passes through, anything else is
// decoded as Windows-1252, the usual culprit for spreadsheet exports.
const EncodingAuto = "auto"

// Normalizer converts field values to UTF-8. It never fails: bytes that
// still cannot be decoded become '?'.
type Normalizer struct {
	name     string
	forced   encoding.Encoding
	fallback encoding.Encoding
}

// NewNormalizer returns a normalizer for the named charset. "" and "auto"
// enable detection; other names are resolved through the WHATWG index
// (e.g. "windows-1252", "iso-8859-1", "utf-16le").
func NewNormalizer(name string) (*Normalizer, error) {
	n := &Normalizer{name: EncodingAuto, fallback: charmap.Windows1252}

	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" || name == EncodingAuto {
		return n, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown source encoding %q: %w", name, err)
	}
	n.name = name
	n.forced = enc
	return n, nil
}

// Name returns the configured charset name.
func (n *Normalizer) Name() string {
	return n.name
}

// String returns s as UTF-8.
func (n *Normalizer) String(s string) string {
	if n.forced != nil {
		return decodeWith(n.forced, s)
	}
	if utf8.ValidString(s) {
		return s
	}
	return decodeWith(n.fallback, s)
}

// Row normalizes every field of row in place and returns it.
func (n *Normalizer) Row(row []string) []string {
	for i, v := range row {
		row[i] = n.String(v)
	}
	return row
}

func decodeWith(enc encoding.Encoding, s string) string {
	out, err := enc.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, "?")
	}
	return strings.ToValidUTF8(out, "?")
}
