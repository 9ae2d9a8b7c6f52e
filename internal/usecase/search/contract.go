package search

import (
	"context"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
	"github.com/lilykang127/connect-ltv/internal/domain/search/result"
)

// Repository defines the record store contract for search.
type Repository interface {
	// Retrieve returns profiles where any term matches any searchable attribute,
	// in store order. Empty terms yield an unfiltered page.
	Retrieve(ctx context.Context, terms []string, limit int) ([]profile.Profile, error)
}

// Searcher runs a search. Service and Latest implement it.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]result.SearchResult, error)
}
