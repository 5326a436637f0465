package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Writer persists one product per call. Every call is an independent
// insert; implementations must not upsert or deduplicate.
type Writer interface {
	Insert(ctx context.Context, p Product) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, p Product) error

// Insert implements Writer.
func (f WriterFunc) Insert(ctx context.Context, p Product) error {
	return f(ctx, p)
}

// BuildProduct converts a sanitized, enriched record into the store shape.
// Price keeps its decimal digits; stock level is truncated to an integer.
func BuildProduct(er EnrichedRecord) Product {
	rec := er.Record
	return Product{
		Name:           rec.Get(ColProductName),
		Description:    rec.Get(ColProductDescription),
		Code:           rec.Get(ColProductCode),
		AddedAt:        er.ImportedAt,
		DiscontinuedAt: er.DiscontinuedAt,
		ImportedAt:     er.ImportedAt,
		Price:          ToPgNumeric(rec.Get(ColCost)),
		StockLevel:     truncInt(parseFloat(rec.Get(ColStock))),
	}
}

// ToPgNumeric converts a numeric string to pgtype.Numeric.
// Returns invalid if the string is empty or not a number.
func ToPgNumeric(s string) pgtype.Numeric {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	// pgtype parses plain decimals only; expand exponent notation first
	if strings.ContainsRune(s, 'e') {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return pgtype.Numeric{Valid: false}
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}
