package enrichment

import (
	"context"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

// Repository defines the persistence contract for the enrichment job.
type Repository interface {
	PendingEnrichment(ctx context.Context, limit int) ([]profile.Profile, error)
	SaveEnrichment(ctx context.Context, id int64, text string) error
}

// Biographer produces long-form biography text for a profile.
type Biographer interface {
	Biography(ctx context.Context, p *profile.Profile) (string, error)
	// Provider names the source for logs and metrics.
	Provider() string
}
