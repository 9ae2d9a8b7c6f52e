package profile

import (
	"context"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

// Repository defines the persistence contract for profile details.
type Repository interface {
	Get(ctx context.Context, id int64) (profile.Profile, error)
	// Enrichment returns domain.ErrEnrichmentAbsent when the profile has no biography yet.
	Enrichment(ctx context.Context, id int64) (string, error)
}
