package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/lilykang127/connect-ltv/internal/domain"
	"github.com/lilykang127/connect-ltv/internal/domain/profile"
	"github.com/lilykang127/connect-ltv/internal/domain/search/narration"
)

// Detail is a single profile with its biography and relevance note.
type Detail struct {
	Profile       profile.Profile
	Enrichment    string
	HasEnrichment bool
	Relevance     string
}

// Service provides profile detail lookups.
type Service struct {
	repo     Repository
	narrator narration.Narrator
}

// New creates a profile service. The detail relevance is the profile's comments.
func New(repo Repository) *Service {
	return &Service{repo: repo, narrator: narration.Comments{}}
}

// Get returns the profile with its enrichment text. A missing biography is not an error.
func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	if id <= 0 {
		return Detail{}, fmt.Errorf("%w: profile id must be positive", domain.ErrInvalidRequest)
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("get profile %d: %w", id, err)
	}

	d := Detail{Profile: p, Relevance: s.narrator.Narrate(&p, "")}

	text, err := s.repo.Enrichment(ctx, id)
	switch {
	case err == nil:
		d.Enrichment, d.HasEnrichment = text, true
	case errors.Is(err, domain.ErrEnrichmentAbsent):
	default:
		return Detail{}, fmt.Errorf("get enrichment %d: %w", id, err)
	}
	return d, nil
}
