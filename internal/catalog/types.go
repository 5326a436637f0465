package catalog

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Column names consumed from the source header. Matching is exact.
const (
	ColProductCode        = "Product Code"
	ColProductName        = "Product Name"
	ColProductDescription = "Product Description"
	ColCost               = "Cost in GBP"
	ColStock              = "Stock"
	ColDiscontinued       = "Discontinued"
)

// DiscontinuedDefault is written into an empty Discontinued field after enrichment.
const DiscontinuedDefault = "no"

// Record is one named-field view of a source row, keyed by header name.
type Record map[string]string

// Get returns the value for a column, or "" when the header lacks it.
func (r Record) Get(col string) string {
	return r[col]
}

// Clone returns a shallow copy so later stages can mutate without
// affecting what was already logged or reported.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EnrichedRecord is a Record plus the fields derived by Enrich.
type EnrichedRecord struct {
	Record         Record
	DiscontinuedAt *time.Time
	ImportedAt     time.Time
}

// Product is the catalog store shape. Price and StockLevel are built from
// values the Validator has already accepted as numeric.
type Product struct {
	Name           string
	Description    string
	Code           string
	AddedAt        time.Time
	DiscontinuedAt *time.Time
	ImportedAt     time.Time
	Price          pgtype.Numeric
	StockLevel     int64
}

// Clock returns the current time. Injected so tests get fixed timestamps.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// Options configures a Run.
type Options struct {
	// DryRun classifies and reports rows without sanitizing or persisting them.
	DryRun bool

	// Clock defaults to SystemClock when nil.
	Clock Clock
}
