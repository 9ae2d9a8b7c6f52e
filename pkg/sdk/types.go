package connectltv

import (
	"github.com/lilykang127/connect-ltv/internal/domain/search/result"
	profileuc "github.com/lilykang127/connect-ltv/internal/usecase/profile"
)

// Result is a single search hit with a one-line explanation of why it matched.
type Result struct {
	ID           int64
	Name         string
	Position     string
	Organization string
	Email        string
	ProfileURL   string
	Relevance    string
}

// Profile is the detail view of an alumni record.
type Profile struct {
	ID           int64
	FirstName    string
	LastName     string
	Name         string
	Position     string
	Organization string
	Location     string
	Function     string
	Stage        string
	Comments     string
	Email        string
	ProfileURL   string

	// Enrichment is the fetched biography; empty when HasEnrichment is false.
	Enrichment    string
	HasEnrichment bool
	Relevance     string

	// MailtoLink is a first-contact email draft, empty when the profile has no email.
	MailtoLink string
}

// EnrichmentReport summarizes one enrichment batch.
type EnrichmentReport struct {
	Message   string
	Completed int
	Failed    int
	Total     int
}

// Example is a sample query.
type Example struct {
	Category string
	Query    string
}

func resultFromDomain(r *result.SearchResult) Result {
	return Result{
		ID:           r.ID(),
		Name:         r.Name(),
		Position:     r.Position(),
		Organization: r.Organization(),
		Email:        r.Email(),
		ProfileURL:   r.ProfileURL(),
		Relevance:    r.Relevance(),
	}
}

func profileFromDetail(d *profileuc.Detail) Profile {
	p := &d.Profile
	return Profile{
		ID:            p.ID(),
		FirstName:     p.FirstName(),
		LastName:      p.LastName(),
		Name:          p.Name(),
		Position:      p.Position(),
		Organization:  p.Organization(),
		Location:      p.Location(),
		Function:      p.Function(),
		Stage:         p.Stage(),
		Comments:      p.Comments(),
		Email:         p.Email(),
		ProfileURL:    p.ProfileURL(),
		Enrichment:    d.Enrichment,
		HasEnrichment: d.HasEnrichment,
		Relevance:     d.Relevance,
		MailtoLink:    p.MailtoLink(p.DefaultSubject(), p.DefaultBody()),
	}
}
