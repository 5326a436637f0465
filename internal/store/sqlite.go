package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/JonMunkholm/stockimport/internal/catalog"
	"github.com/jackc/pgx/v5/pgtype"
	_ "modernc.org/sqlite"
)

// sqliteSchema creates the catalog table in a fresh database file.
const sqliteSchema = `CREATE TABLE IF NOT EXISTS "` + Table + `" (
	"intProductDataId" INTEGER PRIMARY KEY AUTOINCREMENT,
	"strProductName"   TEXT NOT NULL,
	"strProductDesc"   TEXT NOT NULL,
	"strProductCode"   TEXT NOT NULL,
	"dtmAdded"         DATETIME,
	"dtmDiscontinued"  DATETIME,
	"stmTimestamp"     DATETIME NOT NULL,
	"price"            DECIMAL(8,2) NOT NULL,
	"stockLevel"       INTEGER NOT NULL
)`

const insertProductSQLite = `INSERT INTO "` + Table + `" (
	"strProductName", "strProductDesc", "strProductCode",
	"dtmAdded", "dtmDiscontinued", "stmTimestamp",
	"price", "stockLevel"
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// SQLite writes products to an embedded SQLite database.
type SQLite struct {
	db            *sql.DB
	insertTimeout time.Duration
}

// OpenSQLite opens the database at opts.URL (a file path or
// "file::memory:") and makes sure the catalog table exists.
func OpenSQLite(ctx context.Context, opts Options) (*SQLite, error) {
	db, err := sql.Open("sqlite", opts.URL)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", opts.URL, err)
	}
	// A single connection keeps in-memory databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s: %w", Table, err)
	}

	return &SQLite{db: db, insertTimeout: opts.InsertTimeout}, nil
}

// Insert adds one row to the catalog table.
func (s *SQLite) Insert(ctx context.Context, prod catalog.Product) error {
	ctx, cancel := withTimeout(ctx, s.insertTimeout)
	defer cancel()

	var discontinued any
	if prod.DiscontinuedAt != nil {
		discontinued = *prod.DiscontinuedAt
	}

	_, err := s.db.ExecContext(ctx, insertProductSQLite,
		prod.Name,
		prod.Description,
		prod.Code,
		prod.AddedAt,
		discontinued,
		prod.ImportedAt,
		decimalString(prod.Price),
		prod.StockLevel,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// decimalString renders a numeric in plain positional notation, or nil
// when it is not a finite value.
func decimalString(n pgtype.Numeric) any {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return nil
	}

	digits := new(big.Int).Abs(n.Int).String()
	switch {
	case n.Exp > 0:
		digits += strings.Repeat("0", int(n.Exp))
	case n.Exp < 0:
		scale := int(-n.Exp)
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}

	if n.Int.Sign() < 0 {
		digits = "-" + digits
	}
	return digits
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
