package result

import "github.com/lilykang127/connect-ltv/internal/domain/profile"

// SearchResult is a single ranked hit with its relevance text. No score is carried.
type SearchResult struct {
	id           int64
	name         string
	position     string
	organization string
	email        string
	profileURL   string
	relevance    string
}

// New creates a search result from a profile and its relevance text.
func New(p *profile.Profile, relevance string) SearchResult {
	return SearchResult{
		id:           p.ID(),
		name:         p.Name(),
		position:     p.Position(),
		organization: p.Organization(),
		email:        p.Email(),
		profileURL:   p.ProfileURL(),
		relevance:    relevance,
	}
}

// ID returns the profile identifier.
func (r *SearchResult) ID() int64 { return r.id }

// Name returns the display name.
func (r *SearchResult) Name() string { return r.name }

func (r *SearchResult) Position() string     { return r.position }
func (r *SearchResult) Organization() string { return r.organization }
func (r *SearchResult) Email() string        { return r.email }
func (r *SearchResult) ProfileURL() string   { return r.profileURL }

// Relevance returns the narrated explanation.
func (r *SearchResult) Relevance() string { return r.relevance }
