package catalog

// errors.go defines the fatal errors of an import run and the skip reasons
// attached to rows that never reach the store.
//
// Each skip reason carries a short code so operators can grep logs and
// reports for a class of problem:
//
//	IMP001 - shape-mismatch: field count differs from the header
//	IMP002 - missing-required-field: code, name, cost or discontinued is empty
//	IMP003 - invalid-numeric: cost or stock is not a number
//	IMP004 - low-value-low-stock: cost under 5 and stock under 10
//	IMP005 - price-ceiling: cost over 1000

import "errors"

var (
	// ErrSourceUnavailable is returned when the source file cannot be opened.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEmptySource is returned when the source has no header row.
	ErrEmptySource = errors.New("source has no header row")

	// ErrBlankLine is returned by Source.Next for an empty line between
	// or after records.
	ErrBlankLine = errors.New("blank line")
)

// SkipReason classifies why a row was not persisted.
type SkipReason string

const (
	SkipShapeMismatch    SkipReason = "shape-mismatch"
	SkipMissingRequired  SkipReason = "missing-required-field"
	SkipInvalidNumeric   SkipReason = "invalid-numeric"
	SkipLowValueLowStock SkipReason = "low-value-low-stock"
	SkipPriceCeiling     SkipReason = "price-ceiling"
)

// SkipReasons lists every reason in pipeline order.
var SkipReasons = []SkipReason{
	SkipShapeMismatch,
	SkipMissingRequired,
	SkipInvalidNumeric,
	SkipLowValueLowStock,
	SkipPriceCeiling,
}

var skipCodes = map[SkipReason]string{
	SkipShapeMismatch:    "IMP001",
	SkipMissingRequired:  "IMP002",
	SkipInvalidNumeric:   "IMP003",
	SkipLowValueLowStock: "IMP004",
	SkipPriceCeiling:     "IMP005",
}

var skipMessages = map[SkipReason]string{
	SkipShapeMismatch:    "Skipping invalid row",
	SkipMissingRequired:  "Skipping row due to missing required fields",
	SkipInvalidNumeric:   "Invalid data in row",
	SkipLowValueLowStock: "Skipping low value, low stock item",
	SkipPriceCeiling:     "Skipping item above price ceiling",
}

// Code returns the support code for the reason.
func (r SkipReason) Code() string {
	if c, ok := skipCodes[r]; ok {
		return c
	}
	return "IMP000"
}

// Message returns the operator-facing message for the reason.
func (r SkipReason) Message() string {
	if m, ok := skipMessages[r]; ok {
		return m
	}
	return "Skipping row"
}
