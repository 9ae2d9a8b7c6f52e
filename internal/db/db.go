package db

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// ProfileStore is the record store facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade -- consumers use narrow sub-interfaces (ISP)
type ProfileStore interface {
	Pinger
	Retriever
	EnrichmentStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Retriever reads profile rows.
type Retriever interface {
	// Retrieve returns rows where any term is a case-insensitive substring of any
	// listed column, in ascending id order, at most q.Limit rows.
	// Empty q.Terms returns an unfiltered page.
	Retrieve(ctx context.Context, q *RetrieveQuery) ([]ProfileRow, error)
	// FetchByID returns ErrRowNotFound when the id is absent.
	FetchByID(ctx context.Context, id int64) (ProfileRow, error)
}

// EnrichmentStore reads and writes long-form biography text.
type EnrichmentStore interface {
	// FetchEnrichment returns ErrRowNotFound for a missing row and ErrNoEnrichment
	// when the row has no text yet.
	FetchEnrichment(ctx context.Context, id int64) (string, error)
	// ListPendingEnrichment returns rows with a profile URL and no enrichment text.
	ListPendingEnrichment(ctx context.Context, limit int) ([]ProfileRow, error)
	SetEnrichment(ctx context.Context, id int64, text string) error
}

// Seeder bulk-loads profile rows. Only local drivers implement it.
type Seeder interface {
	Upsert(ctx context.Context, rows []ProfileRow) error
}

// Column is a record store column name.
type Column string

// Column names of the alumni table.
const (
	ColID         Column = "Index"
	ColFirstName  Column = "First Name"
	ColLastName   Column = "Last Name"
	ColTitle      Column = "Title"
	ColCompany    Column = "Company"
	ColLocation   Column = "Location"
	ColFunction   Column = "function"
	ColStage      Column = "stage"
	ColComments   Column = "comments"
	ColEmail      Column = "Email Address"
	ColProfileURL Column = "LinkedIn URL"
	ColEnrichment Column = "LinkedIn Scrape"
)

// DefaultTable is the alumni table name.
const DefaultTable = "LTV Alumni Database"

// SelectColumns lists the columns read into a ProfileRow, in scan order.
func SelectColumns() []Column {
	return []Column{
		ColID, ColFirstName, ColLastName, ColTitle, ColCompany, ColLocation,
		ColFunction, ColStage, ColComments, ColEmail, ColProfileURL,
	}
}

// ProfileRow is a raw store row. Any column may be NULL.
type ProfileRow struct {
	ID         sql.NullInt64
	FirstName  sql.NullString
	LastName   sql.NullString
	Title      sql.NullString
	Company    sql.NullString
	Location   sql.NullString
	Function   sql.NullString
	Stage      sql.NullString
	Comments   sql.NullString
	Email      sql.NullString
	ProfileURL sql.NullString
}

// ScanDest returns pointers to the row fields in SelectColumns order.
func (r *ProfileRow) ScanDest() []any {
	return []any{
		&r.ID, &r.FirstName, &r.LastName, &r.Title, &r.Company, &r.Location,
		&r.Function, &r.Stage, &r.Comments, &r.Email, &r.ProfileURL,
	}
}

// Value returns the string value of a column; NULL and unknown columns yield "".
func (r *ProfileRow) Value(c Column) string {
	var ns sql.NullString
	switch c {
	case ColFirstName:
		ns = r.FirstName
	case ColLastName:
		ns = r.LastName
	case ColTitle:
		ns = r.Title
	case ColCompany:
		ns = r.Company
	case ColLocation:
		ns = r.Location
	case ColFunction:
		ns = r.Function
	case ColStage:
		ns = r.Stage
	case ColComments:
		ns = r.Comments
	case ColEmail:
		ns = r.Email
	case ColProfileURL:
		ns = r.ProfileURL
	}
	if !ns.Valid {
		return ""
	}
	return ns.String
}

// RetrieveQuery is the input for Retrieve.
type RetrieveQuery struct {
	Terms   []string // lowercase; empty means unfiltered
	Columns []Column
	Limit   int
}

// MatchRow reports whether any term is a case-insensitive substring of any column.
// Drivers that filter client-side use it; empty terms match every row.
func MatchRow(r *ProfileRow, terms []string, cols []Column) bool {
	if len(terms) == 0 {
		return true
	}
	for _, c := range cols {
		v := strings.ToLower(r.Value(c))
		if v == "" {
			continue
		}
		for _, t := range terms {
			if strings.Contains(v, strings.ToLower(t)) {
				return true
			}
		}
	}
	return false
}

// NullString wraps s as a valid NullString, or NULL when s is empty.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
