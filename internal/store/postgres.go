package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/stockimport/internal/catalog"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
}

const insertProductSQL = `INSERT INTO "` + Table + `" (
	"strProductName", "strProductDesc", "strProductCode",
	"dtmAdded", "dtmDiscontinued", "stmTimestamp",
	"price", "stockLevel"
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Postgres writes products to PostgreSQL.
type Postgres struct {
	db            DBTX
	pool          *pgxpool.Pool
	insertTimeout time.Duration
}

// OpenPostgres parses opts.URL, applies pool settings and verifies the
// connection with a ping.
func OpenPostgres(ctx context.Context, opts Options) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns >= 0 {
		poolConfig.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Debug("connected to database", "database", poolConfig.ConnConfig.Database)

	p := NewPostgres(pool, opts.InsertTimeout)
	p.pool = pool
	return p, nil
}

// NewPostgres wraps an existing connection or transaction.
func NewPostgres(db DBTX, insertTimeout time.Duration) *Postgres {
	return &Postgres{db: db, insertTimeout: insertTimeout}
}

// Insert adds one row to the catalog table.
func (p *Postgres) Insert(ctx context.Context, prod catalog.Product) error {
	ctx, cancel := withTimeout(ctx, p.insertTimeout)
	defer cancel()

	tag, err := p.db.Exec(ctx, insertProductSQL,
		prod.Name,
		prod.Description,
		prod.Code,
		ToPgTimestamp(prod.AddedAt),
		ToPgTimestampPtr(prod.DiscontinuedAt),
		ToPgTimestamp(prod.ImportedAt),
		prod.Price,
		prod.StockLevel,
	)
	if err != nil {
		return describeError(err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert affected %d rows, expected 1", tag.RowsAffected())
	}
	return nil
}

// Close releases the pool when this store owns one.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// describeError adds the SQLSTATE and constraint to PostgreSQL errors so the
// failure dump says why a row was rejected.
func describeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.ConstraintName != "" {
			return fmt.Errorf("db error %s (%s): %w", pgErr.Code, pgErr.ConstraintName, err)
		}
		return fmt.Errorf("db error %s: %w", pgErr.Code, err)
	}
	return fmt.Errorf("db error: %w", err)
}

// ToPgTimestamp converts a time to pgtype.Timestamp.
// Returns invalid for the zero time.
func ToPgTimestamp(t time.Time) pgtype.Timestamp {
	if t.IsZero() {
		return pgtype.Timestamp{Valid: false}
	}
	return pgtype.Timestamp{Time: t, Valid: true}
}

// ToPgTimestampPtr converts an optional time to pgtype.Timestamp.
func ToPgTimestampPtr(t *time.Time) pgtype.Timestamp {
	if t == nil {
		return pgtype.Timestamp{Valid: false}
	}
	return ToPgTimestamp(*t)
}
