package redis

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/lilykang127/connect-ltv/internal/db"
)

// scanPage bounds how many hashes one DoMulti round-trip fetches.
const scanPage = 100

func (s *Store) indexKey() string { return s.prefix + "profiles" }

func (s *Store) profileKey(id int64) string {
	return s.prefix + "profile:" + strconv.FormatInt(id, 10)
}

// Retrieve walks profiles in id order and keeps those matching any term,
// until q.Limit rows are collected.
func (s *Store) Retrieve(ctx context.Context, q *db.RetrieveQuery) ([]db.ProfileRow, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	unfiltered := len(q.Terms) == 0 || len(q.Columns) == 0
	stop := int64(-1)
	if unfiltered {
		stop = int64(q.Limit) - 1
	}

	ids, err := s.rangeIDs(ctx, stop)
	if err != nil {
		return nil, err
	}

	var out []db.ProfileRow
	err = s.walk(ctx, ids, db.OpRetrieve, func(r *db.ProfileRow, _ string) bool {
		if unfiltered || db.MatchRow(r, q.Terms, q.Columns) {
			out = append(out, *r)
		}
		return len(out) < q.Limit
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchByID returns a single row.
func (s *Store) FetchByID(ctx context.Context, id int64) (db.ProfileRow, error) {
	cmd := s.b().Hgetall().Key(s.profileKey(id)).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return db.ProfileRow{}, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	if len(m) == 0 {
		return db.ProfileRow{}, db.ErrRowNotFound
	}
	row, _ := rowFromHash(id, m)
	return row, nil
}

// FetchEnrichment returns the biography text of a row.
func (s *Store) FetchEnrichment(ctx context.Context, id int64) (string, error) {
	cmd := s.b().Hmget().Key(s.profileKey(id)).
		Field(string(db.ColID), string(db.ColEnrichment)).Build()
	vals, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return "", &db.Error{Op: db.OpHGet, Err: err}
	}
	if len(vals) != 2 || vals[0].IsNil() {
		return "", db.ErrRowNotFound
	}
	if vals[1].IsNil() {
		return "", db.ErrNoEnrichment
	}
	text, err := vals[1].ToString()
	if err != nil {
		return "", &db.Error{Op: db.OpHGet, Err: err}
	}
	if text == "" {
		return "", db.ErrNoEnrichment
	}
	return text, nil
}

// ListPendingEnrichment returns rows that have a profile URL and no biography text.
func (s *Store) ListPendingEnrichment(ctx context.Context, limit int) ([]db.ProfileRow, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := s.rangeIDs(ctx, -1)
	if err != nil {
		return nil, err
	}

	var out []db.ProfileRow
	err = s.walk(ctx, ids, db.OpListPending, func(r *db.ProfileRow, enrichment string) bool {
		if enrichment == "" && r.Value(db.ColProfileURL) != "" {
			out = append(out, *r)
		}
		return len(out) < limit
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetEnrichment stores biography text for an existing row.
func (s *Store) SetEnrichment(ctx context.Context, id int64, text string) error {
	key := s.profileKey(id)
	n, err := s.do(ctx, s.b().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpSetEnrichment, Err: err}
	}
	if n == 0 {
		return db.ErrRowNotFound
	}

	cmd := s.b().Hset().Key(key).FieldValue().FieldValue(string(db.ColEnrichment), text).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// Upsert writes rows and their index entries in a single DoMulti round-trip.
func (s *Store) Upsert(ctx context.Context, rows []db.ProfileRow) error {
	if len(rows) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(rows)*2)
	for i := range rows {
		r := &rows[i]
		if !r.ID.Valid {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("row %d has no id", i)}
		}
		id := r.ID.Int64
		hset := s.b().Hset().Key(s.profileKey(id)).FieldValue().
			FieldValue(string(db.ColID), strconv.FormatInt(id, 10))
		for _, c := range db.SelectColumns()[1:] {
			hset = hset.FieldValue(string(c), r.Value(c))
		}
		cmds = append(cmds,
			hset.Build(),
			s.b().Zadd().Key(s.indexKey()).ScoreMember().
				ScoreMember(float64(id), strconv.FormatInt(id, 10)).Build(),
		)
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("row %d: %w", rows[i/2].ID.Int64, err)}
		}
	}
	return nil
}

// rangeIDs lists profile ids in ascending order; stop -1 means all.
func (s *Store) rangeIDs(ctx context.Context, stop int64) ([]int64, error) {
	cmd := s.b().Zrange().Key(s.indexKey()).Min("0").Max(strconv.FormatInt(stop, 10)).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// walk fetches hashes page by page and calls fn for each existing row until fn returns false.
func (s *Store) walk(
	ctx context.Context, ids []int64, op string,
	fn func(r *db.ProfileRow, enrichment string) bool,
) error {
	for start := 0; start < len(ids); start += scanPage {
		end := min(start+scanPage, len(ids))
		page := ids[start:end]

		cmds := make([]rueidis.Completed, len(page))
		for i, id := range page {
			cmds[i] = s.b().Hgetall().Key(s.profileKey(id)).Build()
		}

		for i, res := range s.client.DoMulti(ctx, cmds...) {
			m, err := res.AsStrMap()
			if err != nil {
				return &db.Error{Op: op, Err: fmt.Errorf("profile %d: %w", page[i], err)}
			}
			if len(m) == 0 {
				continue
			}
			row, enrichment := rowFromHash(page[i], m)
			if !fn(&row, enrichment) {
				return nil
			}
		}
	}
	return nil
}

// rowFromHash maps hash fields to a row. Missing or empty fields become NULL.
func rowFromHash(id int64, m map[string]string) (db.ProfileRow, string) {
	field := func(c db.Column) sql.NullString { return db.NullString(m[string(c)]) }
	return db.ProfileRow{
		ID:         sql.NullInt64{Int64: id, Valid: true},
		FirstName:  field(db.ColFirstName),
		LastName:   field(db.ColLastName),
		Title:      field(db.ColTitle),
		Company:    field(db.ColCompany),
		Location:   field(db.ColLocation),
		Function:   field(db.ColFunction),
		Stage:      field(db.ColStage),
		Comments:   field(db.ColComments),
		Email:      field(db.ColEmail),
		ProfileURL: field(db.ColProfileURL),
	}, m[string(db.ColEnrichment)]
}
