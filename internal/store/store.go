// Package store persists imported products into the catalog table.
//
// Three backends share the same table layout:
//
//   - postgres: the production catalog, via a pgx connection pool
//   - sqlite: an embedded file, handy for local runs and fixtures
//   - memory: keeps products in a slice, for tests and previews
//
// Each backend implements catalog.Writer with a single-row insert.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/stockimport/internal/catalog"
)

// Table is the catalog table every backend writes to.
const Table = "tblProductData"

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Store is a catalog.Writer that holds a connection.
type Store interface {
	catalog.Writer
	Close() error
}

// Options selects and tunes a backend.
type Options struct {
	Driver string
	URL    string

	// Pool settings, used by postgres only.
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// InsertTimeout bounds a single insert. Zero means no limit.
	InsertTimeout time.Duration
}

// Open connects to the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case DriverPostgres, "postgresql", "pgx":
		return OpenPostgres(ctx, opts)
	case DriverSQLite:
		return OpenSQLite(ctx, opts)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %q", opts.Driver)
	}
}

// withTimeout applies the insert timeout, if any.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
