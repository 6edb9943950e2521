// Package store persists transactions in SQLite keyed by fingerprint.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/pipeline"
)

const insertSQL = `
INSERT OR IGNORE INTO transactions(
 hash, timestamp, description, debit, credit, amount, currency, balance, balance_currency,
 operation, channel, direction, counterparty_name, counterparty_iban, category, tags, raw)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

const selectSQL = `
SELECT hash, timestamp, description, debit, credit, amount, currency, balance, balance_currency,
 operation, channel, direction, counterparty_name, counterparty_iban, category, tags, raw
FROM transactions`

// SQLite is a transaction store backed by one database file. Callers own
// its lifecycle: Open before the batch, Close when done.
type SQLite struct {
	db   *sql.DB
	path string
}

var _ pipeline.Store = (*SQLite)(nil)

// Open migrates and opens the database at path, creating it if needed.
func Open(ctx context.Context, path string) (*SQLite, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}
	if err := Migrate(abs); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", abs)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &SQLite{db: db, path: abs}, nil
}

// Path returns the absolute database path.
func (s *SQLite) Path() string { return s.path }

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Begin starts a write batch.
func (s *SQLite) Begin(ctx context.Context) (pipeline.Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	return &batch{tx: tx, stmt: stmt}, nil
}

type batch struct {
	tx   *sql.Tx
	stmt *sql.Stmt
}

func (b *batch) InsertIgnore(ctx context.Context, t model.Transaction) (bool, error) {
	res, err := b.stmt.ExecContext(ctx,
		t.Hash, t.TimestampISO, t.Description,
		t.Debit.String(), t.Credit.String(), t.Amount.String(), t.Currency,
		t.Balance.String(), t.BalanceCurrency,
		string(t.Operation), string(t.Channel), string(t.Direction),
		t.CounterpartyName, t.CounterpartyIBAN,
		string(t.Category), strings.Join(t.Tags, ","), t.Raw)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Commit and Rollback also close the prepared statement.
func (b *batch) Commit() error   { return b.tx.Commit() }
func (b *batch) Rollback() error { return b.tx.Rollback() }

// Filter narrows List. Zero times are unbounded; To is exclusive.
type Filter struct {
	From time.Time
	To   time.Time
}

// List returns stored transactions ordered by timestamp, then insertion.
func (s *SQLite) List(ctx context.Context, f Filter) ([]model.Transaction, error) {
	var where []string
	var args []interface{}
	if !f.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, f.From.Format(model.ISOLayout))
	}
	if !f.To.IsZero() {
		where = append(where, "timestamp < ?")
		args = append(args, f.To.Format(model.ISOLayout))
	}

	q := selectSQL
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY timestamp, rowid"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the number of stored transactions.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var (
		t                           model.Transaction
		op, channel, dir, cat, tags string
		name, iban                  sql.NullString
		debit, credit, amount, bal  string
	)
	err := rows.Scan(&t.Hash, &t.TimestampISO, &t.Description,
		&debit, &credit, &amount, &t.Currency, &bal, &t.BalanceCurrency,
		&op, &channel, &dir, &name, &iban, &cat, &tags, &t.Raw)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("scanning transaction: %w", err)
	}

	t.Timestamp, err = time.Parse(model.ISOLayout, t.TimestampISO)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s: parsing timestamp: %w", t.Hash, err)
	}
	for dst, src := range map[*decimal.Decimal]string{&t.Debit: debit, &t.Credit: credit, &t.Amount: amount, &t.Balance: bal} {
		if *dst, err = decimal.NewFromString(src); err != nil {
			return model.Transaction{}, fmt.Errorf("transaction %s: parsing %q: %w", t.Hash, src, err)
		}
	}

	t.Operation = model.Operation(op)
	t.Channel = model.Channel(channel)
	t.Direction = model.Direction(dir)
	t.Category = model.Category(cat)
	if name.Valid {
		t.CounterpartyName = &name.String
	}
	if iban.Valid {
		t.CounterpartyIBAN = &iban.String
	}
	if tags != "" {
		t.Tags = strings.Split(tags, ",")
	}
	return t, nil
}
