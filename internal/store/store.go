// Package store persists transactions in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aadjones/pumpkin-stats/internal/model"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound means no transaction has the requested id.
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidEdit means a manual edit carried an unusable value.
	ErrInvalidEdit = errors.New("invalid edit")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// Store is a SQLite-backed transaction store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writers; the check-and-insert in
	// InsertIfAbsent also runs in a single transaction.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const columns = `id, date, description, raw_description, amount, account, category,
	category_source, exclude_from_budget, manual_notes, source, txn_type,
	institution_category, import_batch, created_at, updated_at`

// InsertIfAbsent stores tx unless a record with the same id exists. An
// existing record is left untouched. It reports whether a row was inserted.
func (s *Store) InsertIfAbsent(ctx context.Context, tx model.Transaction) (bool, error) {
	if tx.ID == "" {
		return false, errors.New("insert transaction: empty id")
	}
	if tx.Date.IsZero() {
		return false, fmt.Errorf("insert transaction %s: missing date", tx.ID)
	}
	if tx.CategorySource == "" {
		tx.CategorySource = model.CategorySourceAuto
	}
	now := s.now().Format(timeLayout)

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin insert: %w", err)
	}
	defer dbtx.Rollback()

	res, err := dbtx.ExecContext(ctx, `INSERT INTO transactions (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		tx.ID, tx.Date.Format(dateLayout), tx.Description, tx.RawDescription,
		tx.Amount.StringFixed(2), tx.Account, tx.Category, string(tx.CategorySource),
		tx.Exclude, tx.Notes, string(tx.Source), tx.TxnType, tx.InstitutionCategory,
		tx.ImportBatch, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert transaction %s: %w", tx.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert transaction %s: %w", tx.ID, err)
	}
	if err := dbtx.Commit(); err != nil {
		return false, fmt.Errorf("commit insert: %w", err)
	}
	return n == 1, nil
}

// Edit is a manual change to a stored transaction. Nil fields are left alone.
type Edit struct {
	Category *string
	Exclude  *bool
	Notes    *string
}

// Empty reports whether the edit changes nothing.
func (e Edit) Empty() bool {
	return e.Category == nil && e.Exclude == nil && e.Notes == nil
}

// ApplyManualEdit applies e to the transaction with the given id and returns
// the updated record. Setting a category marks it manual and registers the
// category name.
func (s *Store) ApplyManualEdit(ctx context.Context, id string, e Edit) (model.Transaction, error) {
	if e.Category != nil && strings.TrimSpace(*e.Category) == "" {
		return model.Transaction{}, fmt.Errorf("%w: category must not be blank", ErrInvalidEdit)
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("begin edit: %w", err)
	}
	defer dbtx.Rollback()

	current, err := get(ctx, dbtx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if e.Empty() {
		return current, nil
	}

	var sets []string
	var args []any
	if e.Category != nil {
		category := strings.TrimSpace(*e.Category)
		sets = append(sets, "category = ?", "category_source = ?")
		args = append(args, category, string(model.CategorySourceManual))
		if err := s.addCategory(ctx, dbtx, category); err != nil {
			return model.Transaction{}, err
		}
	}
	if e.Exclude != nil {
		sets = append(sets, "exclude_from_budget = ?")
		args = append(args, *e.Exclude)
	}
	if e.Notes != nil {
		sets = append(sets, "manual_notes = ?")
		args = append(args, *e.Notes)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now().Format(timeLayout), id)

	if _, err := dbtx.ExecContext(ctx,
		"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return model.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}

	updated, err := get(ctx, dbtx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := dbtx.Commit(); err != nil {
		return model.Transaction{}, fmt.Errorf("commit edit: %w", err)
	}
	return updated, nil
}

// Get returns the transaction with the given id.
func (s *Store) Get(ctx context.Context, id string) (model.Transaction, error) {
	return get(ctx, s.db, id)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q queryer, id string) (model.Transaction, error) {
	row := q.QueryRowContext(ctx, "SELECT "+columns+" FROM transactions WHERE id = ?", id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// Filter selects transactions. Zero fields are unbounded. From and To are
// inclusive calendar dates.
type Filter struct {
	From     time.Time
	To       time.Time
	Account  string
	Category string
	// AutoOnly limits the result to records with an auto category.
	AutoOnly bool
}

// Query returns matching transactions ordered by date descending, then amount
// descending, then id.
func (s *Store) Query(ctx context.Context, f Filter) ([]model.Transaction, error) {
	var where []string
	var args []any
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, f.To.Format(dateLayout))
	}
	if f.Account != "" {
		where = append(where, "account = ?")
		args = append(args, f.Account)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.AutoOnly {
		where = append(where, "category_source <> ?")
		args = append(args, string(model.CategorySourceManual))
	}

	query := "SELECT " + columns + " FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	model.SortTransactions(txs)
	return txs, nil
}

// Count returns the number of stored transactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// ReclassifyAuto recomputes the category of every auto-categorized record
// with fn and stores the ones that changed. Manual records are never read
// or written. It returns the number of records updated.
func (s *Store) ReclassifyAuto(ctx context.Context, fn func(model.Transaction) string) (int, error) {
	txs, err := s.Query(ctx, Filter{AutoOnly: true})
	if err != nil {
		return 0, err
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reclassify: %w", err)
	}
	defer dbtx.Rollback()

	now := s.now().Format(timeLayout)
	updated := 0
	for _, tx := range txs {
		category := fn(tx)
		if category == tx.Category {
			continue
		}
		res, err := dbtx.ExecContext(ctx,
			`UPDATE transactions SET category = ?, updated_at = ?
			 WHERE id = ? AND category_source <> ?`,
			category, now, tx.ID, string(model.CategorySourceManual))
		if err != nil {
			return 0, fmt.Errorf("reclassify %s: %w", tx.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("reclassify %s: %w", tx.ID, err)
		}
		updated += int(n)
	}
	if err := dbtx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reclassify: %w", err)
	}
	return updated, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(sc scanner) (model.Transaction, error) {
	var tx model.Transaction
	var date, amount, categorySource, source, createdAt, updatedAt string
	var exclude any
	err := sc.Scan(&tx.ID, &date, &tx.Description, &tx.RawDescription, &amount,
		&tx.Account, &tx.Category, &categorySource, &exclude, &tx.Notes, &source,
		&tx.TxnType, &tx.InstitutionCategory, &tx.ImportBatch, &createdAt, &updatedAt)
	if err != nil {
		return model.Transaction{}, err
	}

	if tx.Date, err = parseDate(date); err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s: date %q: %w", tx.ID, date, err)
	}
	if tx.Amount, err = decimal.NewFromString(strings.TrimSpace(amount)); err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s: amount %q: %w", tx.ID, amount, err)
	}
	tx.CategorySource = model.CategorySourceAuto
	if categorySource == string(model.CategorySourceManual) {
		tx.CategorySource = model.CategorySourceManual
	}
	tx.Exclude = CoerceBool(exclude)
	tx.Source = model.SourceKind(source)
	tx.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	tx.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return tx, nil
}

// parseDate accepts the stored YYYY-MM-DD form and legacy values that carry a
// time component.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	return time.Parse(dateLayout, s)
}
