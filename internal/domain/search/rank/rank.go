package rank

import (
	"sort"
	"strings"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
	"github.com/lilykang127/connect-ltv/internal/domain/search/query"
)

// scoreOrder fixes iteration over the weight table so scoring is deterministic.
var scoreOrder = []profile.Field{
	profile.FullName,
	profile.FirstName,
	profile.LastName,
	profile.Position,
	profile.Organization,
	profile.Function,
	profile.Stage,
	profile.Comments,
	profile.Location,
}

// Score sums, over every term and every weighted field, the field weight
// when the term is a case-insensitive substring of the field's text.
func Score(p *profile.Profile, terms query.Terms, w Weights) int {
	total := 0
	for _, f := range scoreOrder {
		weight, ok := w[f]
		if !ok || weight == 0 {
			continue
		}
		text := strings.ToLower(p.Value(f))
		if text == "" {
			continue
		}
		for _, t := range terms {
			if strings.Contains(text, t) {
				total += weight
			}
		}
	}
	return total
}

// Rank orders candidates by descending score. Equal scores keep their input order.
// The input slice is not modified.
func Rank(candidates []profile.Profile, terms query.Terms, w Weights) []profile.Profile {
	type scored struct {
		p     profile.Profile
		score int
	}

	items := make([]scored, len(candidates))
	for i := range candidates {
		items[i] = scored{p: candidates[i], score: Score(&candidates[i], terms, w)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	out := make([]profile.Profile, len(items))
	for i := range items {
		out[i] = items[i].p
	}
	return out
}
