package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/stockimport/internal/catalog"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var testNow = time.Date(2024, 10, 8, 15, 35, 50, 0, time.UTC)

func testProduct(code string, discontinued bool) catalog.Product {
	p := catalog.Product{
		Name:        "Widget",
		Description: "A nice widget",
		Code:        code,
		AddedAt:     testNow,
		ImportedAt:  testNow,
		Price:       catalog.ToPgNumeric("12.50"),
		StockLevel:  50,
	}
	if discontinued {
		at := testNow
		p.DiscontinuedAt = &at
	}
	return p
}

// ============================================================================
// Open Tests
// ============================================================================

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "oracle"}); err == nil {
		t.Error("Open(oracle) expected error")
	}
}

func TestOpen_Memory(t *testing.T) {
	st, err := Open(context.Background(), Options{Driver: "memory"})
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	defer st.Close()
	if _, ok := st.(*Memory); !ok {
		t.Errorf("Open(memory) returned %T", st)
	}
}

// ============================================================================
// Memory Tests
// ============================================================================

func TestMemory_InsertAndReject(t *testing.T) {
	m := NewMemory()
	m.Reject = func(p catalog.Product) error {
		if p.Code == "BAD" {
			return errors.New("rejected")
		}
		return nil
	}

	ctx := context.Background()
	if err := m.Insert(ctx, testProduct("A1", false)); err != nil {
		t.Fatalf("Insert(A1) error = %v", err)
	}
	if err := m.Insert(ctx, testProduct("BAD", false)); err == nil {
		t.Error("Insert(BAD) expected error")
	}
	if err := m.Insert(ctx, testProduct("A1", true)); err != nil {
		t.Fatalf("Insert(A1 again) error = %v", err)
	}

	products := m.Products()
	if len(products) != 2 || m.Len() != 2 {
		t.Fatalf("stored %d products, want 2 (duplicates are inserted, not merged)", len(products))
	}
	if products[1].DiscontinuedAt == nil {
		t.Error("second product lost DiscontinuedAt")
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemory().Insert(ctx, testProduct("A1", false)); !errors.Is(err, context.Canceled) {
		t.Errorf("Insert() error = %v, want context.Canceled", err)
	}
}

// ============================================================================
// SQLite Tests
// ============================================================================

func TestSQLite_InsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	st, err := Open(ctx, Options{Driver: "sqlite", URL: path})
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	defer st.Close()

	if err := st.Insert(ctx, testProduct("A1", true)); err != nil {
		t.Fatalf("Insert(A1) error = %v", err)
	}
	if err := st.Insert(ctx, testProduct("A2", false)); err != nil {
		t.Fatalf("Insert(A2) error = %v", err)
	}

	db := st.(*SQLite).db

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "tblProductData"`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 2 {
		t.Fatalf("row count = %d, want 2", count)
	}

	var (
		name, code string
		price      float64
		stock      int64
		discNull   bool
	)
	err = db.QueryRowContext(ctx,
		`SELECT "strProductName", "strProductCode", "price", "stockLevel", "dtmDiscontinued" IS NULL
		 FROM "tblProductData" WHERE "strProductCode" = ?`, "A2").
		Scan(&name, &code, &price, &stock, &discNull)
	if err != nil {
		t.Fatalf("select error = %v", err)
	}
	if name != "Widget" || code != "A2" || price != 12.5 || stock != 50 || !discNull {
		t.Errorf("row = %q %q %v %d discNull=%v", name, code, price, stock, discNull)
	}

	err = db.QueryRowContext(ctx,
		`SELECT "dtmDiscontinued" IS NULL FROM "tblProductData" WHERE "strProductCode" = ?`, "A1").
		Scan(&discNull)
	if err != nil {
		t.Fatalf("select error = %v", err)
	}
	if discNull {
		t.Error("A1 dtmDiscontinued is NULL, want timestamp")
	}
}

func TestSQLite_RejectsInvalidPrice(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, Options{URL: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer st.Close()

	p := testProduct("A1", false)
	p.Price = pgtype.Numeric{}
	if err := st.Insert(ctx, p); err == nil {
		t.Error("Insert() with NULL price expected NOT NULL violation")
	}
}

// ============================================================================
// Postgres Tests
// ============================================================================

// fakeDB records the last Exec call.
type fakeDB struct {
	sql  string
	args []interface{}
	tag  pgconn.CommandTag
	err  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = args
	return f.tag, f.err
}

func TestPostgres_Insert(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("INSERT 0 1")}
	p := NewPostgres(db, 0)

	if err := p.Insert(context.Background(), testProduct("A1", true)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if !strings.Contains(db.sql, `INSERT INTO "tblProductData"`) {
		t.Errorf("sql = %s", db.sql)
	}
	if len(db.args) != 8 {
		t.Fatalf("got %d args, want 8", len(db.args))
	}
	if db.args[0] != "Widget" || db.args[1] != "A nice widget" || db.args[2] != "A1" {
		t.Errorf("text args = %v", db.args[:3])
	}
	added := db.args[3].(pgtype.Timestamp)
	disc := db.args[4].(pgtype.Timestamp)
	stamp := db.args[5].(pgtype.Timestamp)
	if !added.Valid || !disc.Valid || !stamp.Valid {
		t.Errorf("timestamps valid = %v/%v/%v", added.Valid, disc.Valid, stamp.Valid)
	}
	if !added.Time.Equal(stamp.Time) {
		t.Errorf("dtmAdded %v != stmTimestamp %v", added.Time, stamp.Time)
	}
	if db.args[7] != int64(50) {
		t.Errorf("stockLevel arg = %v", db.args[7])
	}
}

func TestPostgres_InsertNullDiscontinued(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("INSERT 0 1")}
	if err := NewPostgres(db, time.Second).Insert(context.Background(), testProduct("A1", false)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if db.args[4].(pgtype.Timestamp).Valid {
		t.Error("dtmDiscontinued should be NULL")
	}
}

func TestPostgres_InsertError(t *testing.T) {
	db := &fakeDB{err: &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		ConstraintName: "tblproductdata_strproductcode_key",
	}}

	err := NewPostgres(db, 0).Insert(context.Background(), testProduct("A1", false))
	if err == nil {
		t.Fatal("Insert() expected error")
	}
	if !strings.Contains(err.Error(), "23505") || !strings.Contains(err.Error(), "tblproductdata_strproductcode_key") {
		t.Errorf("error = %v, want SQLSTATE and constraint", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Error("error does not wrap *pgconn.PgError")
	}
}

func TestPostgres_InsertNoRows(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("INSERT 0 0")}
	if err := NewPostgres(db, 0).Insert(context.Background(), testProduct("A1", false)); err == nil {
		t.Error("Insert() expected error when no row is affected")
	}
}

func TestToPgTimestamp(t *testing.T) {
	if ToPgTimestamp(time.Time{}).Valid {
		t.Error("zero time should be invalid")
	}
	if !ToPgTimestamp(testNow).Valid {
		t.Error("non-zero time should be valid")
	}
	if ToPgTimestampPtr(nil).Valid {
		t.Error("nil time should be invalid")
	}
	if got := ToPgTimestampPtr(&testNow); !got.Valid || !got.Time.Equal(testNow) {
		t.Errorf("ToPgTimestampPtr = %+v", got)
	}
}

func TestDecimalString(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"12", "12"},
		{"12.50", "12.50"},
		{"50", "50"},
		{"0.05", "0.05"},
		{".5", "0.5"},
		{"-3.25", "-3.25"},
		{"1e3", "1000"},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := decimalString(catalog.ToPgNumeric(tt.in)); got != tt.want {
				t.Errorf("decimalString(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
