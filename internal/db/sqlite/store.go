package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	moderncsqlite "modernc.org/sqlite"

	"github.com/lilykang127/connect-ltv/internal/db"
)

// Compile-time checks.
var (
	_ db.ProfileStore = (*Store)(nil)
	_ db.Seeder       = (*Store)(nil)
)

// foldFunc is a Go-backed SQL function that lowercases with Unicode case
// mapping, matching strings.ToLower on the query side. NULL folds to ''.
const foldFunc = "fold"

func init() {
	moderncsqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, fold)
}

func fold(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return "", nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return "", fmt.Errorf("%s: unsupported type %T", foldFunc, v)
	}
}

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Config holds SQLite store settings.
type Config struct {
	Path  string
	Table string
}

// Store implements db.ProfileStore on a local SQLite file via modernc.org/sqlite.
type Store struct {
	db        *sql.DB
	table     string
	closeOnce sync.Once
}

// NewStore opens the database, creating the file and alumni table if needed.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	table := cfg.Table
	if table == "" {
		table = db.DefaultTable
	}

	dsn := "file::memory:?_pragma=busy_timeout(5000)"
	if cfg.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// modernc.org/sqlite uses _pragma=name(value) syntax
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Path)
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single connection: an in-memory database is private to its connection
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, table: table}
	if err := s.migrate(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	cols := []string{quote(db.ColID) + " INTEGER PRIMARY KEY"}
	for _, c := range db.SelectColumns()[1:] {
		cols = append(cols, quote(c)+" TEXT")
	}
	cols = append(cols, quote(db.ColEnrichment)+" TEXT")

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(s.table), strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the database. Safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() { _ = s.db.Close() })
}

// WaitForReady pings once; a local file is ready as soon as it opens.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Ping(ctx)
}

// Retrieve filters with instr(fold(col), term) across the requested columns.
func (s *Store) Retrieve(ctx context.Context, q *db.RetrieveQuery) ([]db.ProfileRow, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	query, args := buildRetrieveSQL(s.table, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpRetrieve, Err: err}
	}
	out, err := scanRows(rows)
	if err != nil {
		return nil, &db.Error{Op: db.OpRetrieve, Err: err}
	}
	return out, nil
}

// FetchByID returns a single row.
func (s *Store) FetchByID(ctx context.Context, id int64) (db.ProfileRow, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", selectList(), quoteIdent(s.table), quote(db.ColID))

	var row db.ProfileRow
	if err := s.db.QueryRowContext(ctx, query, id).Scan(row.ScanDest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.ProfileRow{}, db.ErrRowNotFound
		}
		return db.ProfileRow{}, &db.Error{Op: db.OpFetchByID, Err: err}
	}
	return row, nil
}

// FetchEnrichment returns the biography text of a row.
func (s *Store) FetchEnrichment(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		quote(db.ColEnrichment), quoteIdent(s.table), quote(db.ColID))

	var text sql.NullString
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", db.ErrRowNotFound
		}
		return "", &db.Error{Op: db.OpFetchEnrich, Err: err}
	}
	if !text.Valid || text.String == "" {
		return "", db.ErrNoEnrichment
	}
	return text.String, nil
}

// ListPendingEnrichment returns rows that have a profile URL and no biography text.
func (s *Store) ListPendingEnrichment(ctx context.Context, limit int) ([]db.ProfileRow, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s IS NULL AND coalesce(%s, '') <> '' ORDER BY %s LIMIT ?",
		selectList(), quoteIdent(s.table), quote(db.ColEnrichment), quote(db.ColProfileURL), quote(db.ColID),
	)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &db.Error{Op: db.OpListPending, Err: err}
	}
	out, err := scanRows(rows)
	if err != nil {
		return nil, &db.Error{Op: db.OpListPending, Err: err}
	}
	return out, nil
}

// SetEnrichment stores biography text for a row.
func (s *Store) SetEnrichment(ctx context.Context, id int64, text string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		quoteIdent(s.table), quote(db.ColEnrichment), quote(db.ColID))

	res, err := s.db.ExecContext(ctx, query, text, id)
	if err != nil {
		return &db.Error{Op: db.OpSetEnrichment, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpSetEnrichment, Err: err}
	}
	if n == 0 {
		return db.ErrRowNotFound
	}
	return nil
}

// Upsert inserts or replaces rows in one transaction. Rows without an id are rejected.
func (s *Store) Upsert(ctx context.Context, rows []db.ProfileRow) error {
	if len(rows) == 0 {
		return nil
	}

	cols := db.SelectColumns()
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, c := range cols {
		names[i] = quote(c)
		marks[i] = "?"
		if i > 0 {
			updates = append(updates, quote(c)+" = excluded."+quote(c))
		}
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		quoteIdent(s.table), strings.Join(names, ", "), strings.Join(marks, ", "),
		quote(db.ColID), strings.Join(updates, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	for i := range rows {
		r := &rows[i]
		if !r.ID.Valid {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("row %d has no id", i)}
		}
		if _, err := tx.ExecContext(ctx, stmt,
			r.ID, r.FirstName, r.LastName, r.Title, r.Company, r.Location,
			r.Function, r.Stage, r.Comments, r.Email, r.ProfileURL,
		); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("row %d: %w", r.ID.Int64, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

// buildRetrieveSQL renders the filter query. Each term is bound once as ?N and
// reused for every column.
func buildRetrieveSQL(table string, q *db.RetrieveQuery) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(selectList())
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(table))

	var args []any
	if len(q.Terms) > 0 && len(q.Columns) > 0 {
		preds := make([]string, 0, len(q.Terms)*len(q.Columns))
		for i, t := range q.Terms {
			args = append(args, strings.ToLower(t))
			ph := "?" + strconv.Itoa(i+1)
			for _, c := range q.Columns {
				preds = append(preds, fmt.Sprintf("instr(%s(%s), %s) > 0", foldFunc, quote(c), ph))
			}
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(preds, " OR "))
	}

	args = append(args, q.Limit)
	b.WriteString(" ORDER BY ")
	b.WriteString(quote(db.ColID))
	b.WriteString(" LIMIT ?")
	b.WriteString(strconv.Itoa(len(args)))
	return b.String(), args
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quote(c db.Column) string { return quoteIdent(string(c)) }

func selectList() string {
	cols := db.SelectColumns()
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = quote(c)
	}
	return strings.Join(parts, ", ")
}

func scanRows(rows *sql.Rows) ([]db.ProfileRow, error) {
	defer rows.Close()

	var out []db.ProfileRow
	for rows.Next() {
		var r db.ProfileRow
		if err := rows.Scan(r.ScanDest()...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
