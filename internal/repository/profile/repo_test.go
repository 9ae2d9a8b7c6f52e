package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/lilykang127/connect-ltv/internal/db"
	"github.com/lilykang127/connect-ltv/internal/domain"
)

func TestRetrieve_PassesTermsAndColumns(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.RetrieveQuery
	ms.retrieveFn = func(_ context.Context, q *db.RetrieveQuery) ([]db.ProfileRow, error) {
		got = q
		return nil, nil
	}

	if _, err := repo.Retrieve(context.Background(), []string{"ceo"}, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Limit != 30 || len(got.Terms) != 1 || got.Terms[0] != "ceo" {
		t.Errorf("query = %+v", got)
	}
	want := []db.Column{
		db.ColFirstName, db.ColLastName, db.ColTitle, db.ColCompany,
		db.ColLocation, db.ColFunction, db.ColStage, db.ColComments,
	}
	if len(got.Columns) != len(want) {
		t.Fatalf("columns = %v", got.Columns)
	}
	for i := range want {
		if got.Columns[i] != want[i] {
			t.Errorf("column[%d] = %q, want %q", i, got.Columns[i], want[i])
		}
	}
}

func TestRetrieve_NormalizesNulls(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.retrieveFn = func(context.Context, *db.RetrieveQuery) ([]db.ProfileRow, error) {
		return []db.ProfileRow{{
			ID:       validID(1),
			Title:    db.NullString("CEO"),
			Company:  db.NullString("EduGrowth"),
			Location: db.NullString(""),
		}}, nil
	}

	ps, err := repo.Retrieve(context.Background(), []string{"ceo"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 {
		t.Fatalf("len = %d", len(ps))
	}
	p := ps[0]
	if p.Position() != "CEO" || p.Organization() != "EduGrowth" {
		t.Errorf("profile = %+v", p.Attributes())
	}
	if p.FirstName() != "" || p.Email() != "" || p.Location() != "" {
		t.Error("NULL columns must become empty strings")
	}
}

func TestRetrieve_SkipsRowsWithoutID(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.retrieveFn = func(context.Context, *db.RetrieveQuery) ([]db.ProfileRow, error) {
		return []db.ProfileRow{
			{FirstName: db.NullString("Ghost")},
			{ID: validID(2), FirstName: db.NullString("Real")},
		}, nil
	}

	ps, err := repo.Retrieve(context.Background(), []string{"x"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 || ps[0].ID() != 2 {
		t.Errorf("profiles = %v", ps)
	}
}

func TestRetrieve_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	cause := errors.New("connection refused")
	ms.retrieveFn = func(context.Context, *db.RetrieveQuery) ([]db.ProfileRow, error) {
		return nil, &db.Error{Op: db.OpZRange, Err: cause}
	}

	_, err := repo.Retrieve(context.Background(), []string{"x"}, 10)
	if !errors.Is(err, domain.ErrRetrieval) {
		t.Fatalf("err = %v, want ErrRetrieval", err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be preserved")
	}
	var re *domain.RetrievalError
	if !errors.As(err, &re) || re.Op != db.OpZRange {
		t.Errorf("op = %v, want ZRANGE", re)
	}
}

func TestRetrieve_TimeoutIsRetrievalError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.retrieveFn = func(context.Context, *db.RetrieveQuery) ([]db.ProfileRow, error) {
		return nil, context.DeadlineExceeded
	}

	_, err := repo.Retrieve(context.Background(), []string{"x"}, 10)
	var re *domain.RetrievalError
	if !errors.As(err, &re) || re.Op != db.OpRetrieve {
		t.Fatalf("err = %v, want RetrievalError{RETRIEVE}", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("deadline should be preserved")
	}
}

func TestGet(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.fetchByIDFn = func(_ context.Context, id int64) (db.ProfileRow, error) {
		return db.ProfileRow{ID: validID(id), FirstName: db.NullString("Ada")}, nil
	}

	p, err := repo.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != 5 || p.Name() != "Ada" {
		t.Errorf("profile = %s", p.String())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Get(context.Background(), 5)
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestEnrichment(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"absent", db.ErrNoEnrichment, domain.ErrEnrichmentAbsent},
		{"missing row", db.ErrRowNotFound, domain.ErrProfileNotFound},
		{"store down", errors.New("down"), domain.ErrRetrieval},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, ms := newTestRepo(t)
			ms.fetchEnrichmentFn = func(context.Context, int64) (string, error) { return "", tc.err }
			_, err := repo.Enrichment(context.Background(), 1)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	repo, ms := newTestRepo(t)
	ms.fetchEnrichmentFn = func(context.Context, int64) (string, error) { return "bio", nil }
	text, err := repo.Enrichment(context.Background(), 1)
	if err != nil || text != "bio" {
		t.Errorf("Enrichment = %q, %v", text, err)
	}
}

func TestPendingEnrichment(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.listPendingFn = func(_ context.Context, limit int) ([]db.ProfileRow, error) {
		if limit != 5 {
			t.Errorf("limit = %d", limit)
		}
		return []db.ProfileRow{{ID: validID(3), ProfileURL: db.NullString("https://www.linkedin.com/in/x")}}, nil
	}

	ps, err := repo.PendingEnrichment(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 || ps[0].ProfileURL() != "https://www.linkedin.com/in/x" {
		t.Errorf("profiles = %v", ps)
	}
}

func TestSaveEnrichment(t *testing.T) {
	repo, ms := newTestRepo(t)

	var saved string
	ms.setEnrichmentFn = func(_ context.Context, _ int64, text string) error {
		saved = text
		return nil
	}
	if err := repo.SaveEnrichment(context.Background(), 3, "bio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != "bio" {
		t.Errorf("saved = %q", saved)
	}

	ms.setEnrichmentFn = func(context.Context, int64, string) error { return db.ErrRowNotFound }
	if err := repo.SaveEnrichment(context.Background(), 3, "bio"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}
