package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/lilykang127/connect-ltv/internal/db"
)

// Compile-time check: Store implements db.ProfileStore.
var _ db.ProfileStore = (*Store)(nil)

// Config holds connection parameters for a Postgres store.
type Config struct {
	DSN          string
	Table        string
	MaxOpenConns int
}

// Store implements db.ProfileStore over a Postgres table via lib/pq.
type Store struct {
	db    *sql.DB
	table string
}

// NewStore opens a Postgres connection pool. It does not ping.
func NewStore(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = db.DefaultTable
	}

	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Store{db: conn, table: table}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Retrieve runs an ILIKE ANY filter across the requested columns.
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
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		selectList(), pq.QuoteIdentifier(s.table), quote(db.ColID))

	var row db.ProfileRow
	err := s.db.QueryRowContext(ctx, query, id).Scan(row.ScanDest()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.ProfileRow{}, db.ErrRowNotFound
		}
		return db.ProfileRow{}, &db.Error{Op: db.OpFetchByID, Err: err}
	}
	return row, nil
}

// FetchEnrichment returns the biography text of a row.
func (s *Store) FetchEnrichment(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		quote(db.ColEnrichment), pq.QuoteIdentifier(s.table), quote(db.ColID))

	var text sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(&text)
	if err != nil {
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
		"SELECT %s FROM %s WHERE %s IS NULL AND %s IS NOT NULL AND %s <> '' ORDER BY %s LIMIT $1",
		selectList(), pq.QuoteIdentifier(s.table),
		quote(db.ColEnrichment), quote(db.ColProfileURL), quote(db.ColProfileURL), quote(db.ColID),
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
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		pq.QuoteIdentifier(s.table), quote(db.ColEnrichment), quote(db.ColID))

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

// buildRetrieveSQL renders the filter query. Terms become %term% patterns bound
// once as a text array; every column is tested with ILIKE ANY against it.
func buildRetrieveSQL(table string, q *db.RetrieveQuery) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(selectList())
	b.WriteString(" FROM ")
	b.WriteString(pq.QuoteIdentifier(table))

	if len(q.Terms) == 0 || len(q.Columns) == 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(quote(db.ColID))
		b.WriteString(" LIMIT $1")
		return b.String(), []any{q.Limit}
	}

	preds := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		preds[i] = quote(c) + " ILIKE ANY($1)"
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(preds, " OR "))
	b.WriteString(" ORDER BY ")
	b.WriteString(quote(db.ColID))
	b.WriteString(" LIMIT $2")

	patterns := make([]string, len(q.Terms))
	for i, t := range q.Terms {
		patterns[i] = "%" + escapeLike(t) + "%"
	}
	return b.String(), []any{pq.Array(patterns), q.Limit}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in a term match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func quote(c db.Column) string {
	return pq.QuoteIdentifier(string(c))
}

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
