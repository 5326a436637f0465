package catalog

// validation.go maps raw rows onto the header and decides whether a record
// is worth importing.
//
// Checks run in a fixed order and stop at the first failure:
//  1. Shape: field count must equal header length
//  2. Required fields present
//  3. Cost and stock numeric
//  4. Business thresholds (low value + low stock, price ceiling)

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Business thresholds.
const (
	MinCost  = 5
	MinStock = 10
	MaxCost  = 1000.0
)

// numericRegex accepts integers, decimals and scientific notation with
// optional surrounding whitespace.
var numericRegex = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?[ \t\n\r\v\f]*$`)

// requiredFields must be non-empty for a record to be considered.
var requiredFields = []string{
	ColProductCode,
	ColProductName,
	ColCost,
	ColDiscontinued,
}

// numericFields must parse as numbers.
var numericFields = []string{
	ColCost,
	ColStock,
}

// MapRow zips header and row into a Record. It returns false when the
// lengths differ, since positional alignment is then ambiguous.
func MapRow(header, row []string) (Record, bool) {
	if len(header) != len(row) {
		return nil, false
	}
	rec := make(Record, len(header))
	for i, h := range header {
		rec[h] = row[i]
	}
	return rec, true
}

// IsBlank reports whether a value counts as unset: the empty string and
// "0" both do.
func IsBlank(s string) bool {
	return s == "" || s == "0"
}

// IsNumeric reports whether s is a well-formed number.
func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Validate checks required fields and numeric formats. It returns "" when
// the record passes.
func Validate(rec Record) SkipReason {
	for _, col := range requiredFields {
		if IsBlank(rec.Get(col)) {
			return SkipMissingRequired
		}
	}
	for _, col := range numericFields {
		if !IsNumeric(rec.Get(col)) {
			return SkipInvalidNumeric
		}
	}
	return ""
}

// Filter applies the business thresholds to a validated record. It
// returns "" when the record should be imported.
//
// The low-value rule compares integer-truncated values while the ceiling
// compares the floating value, so a cost of 4.99 counts as 4 for the first
// rule and 1000.01 exceeds the second.
func Filter(rec Record) SkipReason {
	cost := parseFloat(rec.Get(ColCost))
	stock := parseFloat(rec.Get(ColStock))

	if truncInt(cost) < MinCost && truncInt(stock) < MinStock {
		return SkipLowValueLowStock
	}
	if cost > MaxCost {
		return SkipPriceCeiling
	}
	return ""
}

// parseFloat returns 0 for anything that does not parse.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && !isRangeErr(err) {
		return 0
	}
	return f
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// truncInt truncates toward zero, clamping to the int64 range.
func truncInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Trunc(f))
}
