package profile

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lilykang127/connect-ltv/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	retrieveFn        func(ctx context.Context, q *db.RetrieveQuery) ([]db.ProfileRow, error)
	fetchByIDFn       func(ctx context.Context, id int64) (db.ProfileRow, error)
	fetchEnrichmentFn func(ctx context.Context, id int64) (string, error)
	listPendingFn     func(ctx context.Context, limit int) ([]db.ProfileRow, error)
	setEnrichmentFn   func(ctx context.Context, id int64, text string) error
}

func (m *mockStore) Retrieve(ctx context.Context, q *db.RetrieveQuery) ([]db.ProfileRow, error) {
	if m.retrieveFn != nil {
		return m.retrieveFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) FetchByID(ctx context.Context, id int64) (db.ProfileRow, error) {
	if m.fetchByIDFn != nil {
		return m.fetchByIDFn(ctx, id)
	}
	return db.ProfileRow{}, db.ErrRowNotFound
}

func (m *mockStore) FetchEnrichment(ctx context.Context, id int64) (string, error) {
	if m.fetchEnrichmentFn != nil {
		return m.fetchEnrichmentFn(ctx, id)
	}
	return "", db.ErrNoEnrichment
}

func (m *mockStore) ListPendingEnrichment(ctx context.Context, limit int) ([]db.ProfileRow, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockStore) SetEnrichment(ctx context.Context, id int64, text string) error {
	if m.setEnrichmentFn != nil {
		return m.setEnrichmentFn(ctx, id, text)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func validID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}
