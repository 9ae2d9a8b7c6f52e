package connectltv

import (
	"errors"

	"github.com/lilykang127/connect-ltv/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrRetrieval               = domain.ErrRetrieval
	ErrProfileNotFound         = domain.ErrProfileNotFound
	ErrInvalidRequest          = domain.ErrInvalidRequest
	ErrEnrichmentProviderError = domain.ErrEnrichmentProviderError
	ErrSuperseded              = domain.ErrSuperseded
)

// ErrSeedUnsupported is returned by Seed when the database driver cannot bulk load.
var ErrSeedUnsupported = errors.New("connectltv: database driver does not support seeding")
