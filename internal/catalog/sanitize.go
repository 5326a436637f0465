package catalog

import "strings"

// trimCutset is the set of characters trimmed from both ends of every field.
const trimCutset = " \t\n\r\x00\x0B"

// Typographic quotes that spreadsheet autocorrect slips into names and codes.
var (
	nameQuoteStripper = strings.NewReplacer("“", "", "”", "")
	codeQuoteStripper = strings.NewReplacer("”", "")
)

// Sanitize removes stray typographic quotes from the product name and code
// and trims whitespace from every field. The input record is not modified.
// Applying it to its own output returns the same record.
func Sanitize(rec Record) Record {
	out := rec.Clone()

	if v, ok := out[ColProductName]; ok {
		out[ColProductName] = nameQuoteStripper.Replace(v)
	}
	if v, ok := out[ColProductCode]; ok {
		out[ColProductCode] = codeQuoteStripper.Replace(v)
	}

	for k, v := range out {
		out[k] = strings.Trim(v, trimCutset)
	}
	return out
}
