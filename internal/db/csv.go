package db

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingIDColumn is returned by ReadCSV when the header has no id column.
var ErrMissingIDColumn = errors.New("csv header has no " + string(ColID) + " column")

// ReadCSV parses an alumni table export. The first record is the header; columns
// are matched to store columns by name, case-insensitively. Unknown columns are
// ignored and empty cells become NULL.
func ReadCSV(r io.Reader) ([]ProfileRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[Column]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, c := range SelectColumns() {
			if strings.EqualFold(h, string(c)) {
				index[c] = i
			}
		}
	}
	if _, ok := index[ColID]; !ok {
		return nil, ErrMissingIDColumn
	}

	var rows []ProfileRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		cell := func(c Column) string {
			i, ok := index[c]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		var row ProfileRow
		if raw := cell(ColID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q: %w", line, ColID, raw, err)
			}
			row.ID = sql.NullInt64{Int64: id, Valid: true}
		}
		row.FirstName = NullString(cell(ColFirstName))
		row.LastName = NullString(cell(ColLastName))
		row.Title = NullString(cell(ColTitle))
		row.Company = NullString(cell(ColCompany))
		row.Location = NullString(cell(ColLocation))
		row.Function = NullString(cell(ColFunction))
		row.Stage = NullString(cell(ColStage))
		row.Comments = NullString(cell(ColComments))
		row.Email = NullString(cell(ColEmail))
		row.ProfileURL = NullString(cell(ColProfileURL))
		rows = append(rows, row)
	}
	return rows, nil
}

// Identified drops rows without an id. It returns the kept rows and how many were dropped.
func Identified(rows []ProfileRow) ([]ProfileRow, int) {
	kept := make([]ProfileRow, 0, len(rows))
	for i := range rows {
		if rows[i].ID.Valid {
			kept = append(kept, rows[i])
		}
	}
	return kept, len(rows) - len(kept)
}
