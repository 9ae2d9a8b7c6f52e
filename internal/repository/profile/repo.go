package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lilykang127/connect-ltv/internal/db"
	"github.com/lilykang127/connect-ltv/internal/domain"
	domprofile "github.com/lilykang127/connect-ltv/internal/domain/profile"
	"github.com/lilykang127/connect-ltv/internal/logger"
)

// store is the consumer interface for profile rows (ISP).
type store interface {
	Retrieve(ctx context.Context, q *db.RetrieveQuery) ([]db.ProfileRow, error)
	FetchByID(ctx context.Context, id int64) (db.ProfileRow, error)
	FetchEnrichment(ctx context.Context, id int64) (string, error)
	ListPendingEnrichment(ctx context.Context, limit int) ([]db.ProfileRow, error)
	SetEnrichment(ctx context.Context, id int64, text string) error
}

// columnOf maps searchable attributes to store columns.
var columnOf = map[domprofile.Field]db.Column{
	domprofile.FirstName:    db.ColFirstName,
	domprofile.LastName:     db.ColLastName,
	domprofile.Position:     db.ColTitle,
	domprofile.Organization: db.ColCompany,
	domprofile.Location:     db.ColLocation,
	domprofile.Function:     db.ColFunction,
	domprofile.Stage:        db.ColStage,
	domprofile.Comments:     db.ColComments,
}

// Repo implements the profile repositories of the search, profile and enrichment use cases.
type Repo struct {
	store store
}

// New creates a profile repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Retrieve returns profiles where any term matches any searchable attribute.
// Empty terms yield an unfiltered page.
func (r *Repo) Retrieve(ctx context.Context, terms []string, limit int) ([]domprofile.Profile, error) {
	fields := domprofile.Searchable()
	cols := make([]db.Column, len(fields))
	for i, f := range fields {
		cols[i] = columnOf[f]
	}

	rows, err := r.store.Retrieve(ctx, &db.RetrieveQuery{Terms: terms, Columns: cols, Limit: limit})
	if err != nil {
		return nil, domain.NewRetrievalError(opName(err, db.OpRetrieve), err)
	}
	return toProfiles(ctx, rows), nil
}

// Get returns a profile by id.
func (r *Repo) Get(ctx context.Context, id int64) (domprofile.Profile, error) {
	row, err := r.store.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRowNotFound) {
			return domprofile.Profile{}, domain.ErrProfileNotFound
		}
		return domprofile.Profile{}, domain.NewRetrievalError(opName(err, db.OpFetchByID), err)
	}
	if !row.ID.Valid {
		row.ID.Int64, row.ID.Valid = id, true
	}
	return toProfile(&row), nil
}

// Enrichment returns the biography text of a profile.
func (r *Repo) Enrichment(ctx context.Context, id int64) (string, error) {
	text, err := r.store.FetchEnrichment(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrRowNotFound):
			return "", domain.ErrProfileNotFound
		case errors.Is(err, db.ErrNoEnrichment):
			return "", domain.ErrEnrichmentAbsent
		}
		return "", domain.NewRetrievalError(opName(err, db.OpFetchEnrich), err)
	}
	return text, nil
}

// PendingEnrichment lists profiles with a profile link and no biography text.
func (r *Repo) PendingEnrichment(ctx context.Context, limit int) ([]domprofile.Profile, error) {
	rows, err := r.store.ListPendingEnrichment(ctx, limit)
	if err != nil {
		return nil, domain.NewRetrievalError(opName(err, db.OpListPending), err)
	}
	return toProfiles(ctx, rows), nil
}

// SaveEnrichment stores biography text for a profile.
func (r *Repo) SaveEnrichment(ctx context.Context, id int64, text string) error {
	if err := r.store.SetEnrichment(ctx, id, text); err != nil {
		if errors.Is(err, db.ErrRowNotFound) {
			return domain.ErrProfileNotFound
		}
		return fmt.Errorf("save enrichment %d: %w", id, err)
	}
	return nil
}

// toProfiles normalizes rows. Rows without an id cannot be addressed later and are skipped.
func toProfiles(ctx context.Context, rows []db.ProfileRow) []domprofile.Profile {
	out := make([]domprofile.Profile, 0, len(rows))
	for i := range rows {
		if !rows[i].ID.Valid {
			logger.FromContext(ctx).Warn("skipping profile row without id",
				zap.Int("row", i),
				zap.String("name", rows[i].Value(db.ColFirstName)+" "+rows[i].Value(db.ColLastName)),
			)
			continue
		}
		out = append(out, toProfile(&rows[i]))
	}
	return out
}

func toProfile(row *db.ProfileRow) domprofile.Profile {
	return domprofile.Reconstruct(row.ID.Int64, domprofile.Attributes{
		FirstName:    row.Value(db.ColFirstName),
		LastName:     row.Value(db.ColLastName),
		Position:     row.Value(db.ColTitle),
		Organization: row.Value(db.ColCompany),
		Location:     row.Value(db.ColLocation),
		Function:     row.Value(db.ColFunction),
		Stage:        row.Value(db.ColStage),
		Comments:     row.Value(db.ColComments),
		Email:        row.Value(db.ColEmail),
		ProfileURL:   row.Value(db.ColProfileURL),
	})
}

// opName prefers the operation recorded by the driver.
func opName(err error, fallback string) string {
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		return dbErr.Op
	}
	return fallback
}
